package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/application/service"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/config"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/cache"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/events"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/memory"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/handler"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/middleware"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/apperror"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/printer"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Errors  []apperror.FieldError `json:"errors"`
}

type testServer struct {
	router *gin.Engine
	repos  *repository.Repositories
	spool  *printer.Spool
}

// newTestServer wires the full router over the in-memory store so each
// request goes through middleware, handlers and services.
func newTestServer(t *testing.T, limiter *middleware.ClientRateLimiter) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	cfg := &config.Config{
		App:       config.AppConfig{Name: "pharmacare-test"},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 60},
	}
	repos := memory.New().Repositories()
	spool := printer.NewSpool()
	reports := cache.NoopReportCache{}
	drafts := service.NewSaleDraftStore(30 * time.Minute)

	medicines := service.NewMedicineService(repos, reports, 10, 30, log)
	racks := service.NewRackService(repos.Racks, repos.Medicines, reports, log)
	sales := service.NewSaleService(repos, drafts, events.NoopPublisher{}, reports, 0, log)
	receipts := service.NewReceiptService(spool, repos.Sales, entity.ReceiptHeader{StoreName: "Test Pharmacy"}, printer.Width58mm, "spool", log)

	h := &Handlers{
		Medicine: handler.NewMedicineHandler(medicines, racks),
		Category: handler.NewCategoryHandler(service.NewCategoryService(repos.Categories, repos.Medicines)),
		Rack:     handler.NewRackHandler(racks),
		Supplier: handler.NewSupplierHandler(service.NewSupplierService(repos.Suppliers, repos.Purchases, reports, log)),
		Purchase: handler.NewPurchaseHandler(service.NewPurchaseService(repos, reports, log)),
		Sale:     handler.NewSaleHandler(sales),
		Report:   handler.NewReportHandler(service.NewReportService(repos, reports, time.Minute, 30, log)),
		Receipt:  handler.NewReceiptHandler(receipts),
	}
	router := Setup(h, &Deps{
		Cfg:         cfg,
		Replays:     repos.Replays,
		RateLimiter: limiter,
		Log:         log,
	})
	return &testServer{router: router, repos: repos, spool: spool}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
	return env
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d (body: %s)", want, rec.Code, rec.Body.String())
	}
}

type medicineJSON struct {
	ID       string  `json:"id"`
	Code     string  `json:"code"`
	Quantity int     `json:"quantity"`
	MRPUnit  float64 `json:"mrp_unit"`
	MRPStrip float64 `json:"mrp_strip"`
	MRPBox   float64 `json:"mrp_box"`
}

func (s *testServer) createMedicine(t *testing.T, code string, mrp float64, qty int) medicineJSON {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/medicines", map[string]interface{}{
		"name":       "Medicine " + code,
		"code":       code,
		"type":       "tablet",
		"quantity":   qty,
		"strip_size": 10,
		"box_size":   10,
		"tp_unit":    mrp * 0.8,
		"mrp_unit":   mrp,
	}, nil)
	expectStatus(t, rec, http.StatusCreated)
	var m medicineJSON
	decode(t, rec, &m)
	return m
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/health", nil, nil)
	expectStatus(t, rec, http.StatusOK)

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", body["status"])
	}
}

func TestCreateMedicineDerivesPackPrices(t *testing.T) {
	s := newTestServer(t, nil)

	m := s.createMedicine(t, "NAPA500", 1.5, 100)
	if m.MRPUnit != 1.5 || m.MRPStrip != 15 || m.MRPBox != 150 {
		t.Fatalf("unexpected pack prices: %+v", m)
	}
}

func TestCreateMedicineValidation(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/v1/medicines", map[string]interface{}{"quantity": -1}, nil)
	expectStatus(t, rec, http.StatusUnprocessableEntity)

	env := decode(t, rec, nil)
	fields := map[string]bool{}
	for _, fe := range env.Errors {
		fields[fe.Field] = true
	}
	if !fields["name"] || !fields["quantity"] {
		t.Fatalf("expected name and quantity errors, got %+v", env.Errors)
	}
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/medicines", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	expectStatus(t, rec, http.StatusBadRequest)
}

func TestInvalidIDIsBadRequest(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/v1/medicines/not-a-uuid", nil, nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestListMedicinesPaginates(t *testing.T) {
	s := newTestServer(t, nil)
	for i := 1; i <= 3; i++ {
		s.createMedicine(t, fmt.Sprintf("MED%d", i), 2, 10)
	}

	rec := s.do(t, http.MethodGet, "/api/v1/medicines?per_page=2&sort_by=name", nil, nil)
	expectStatus(t, rec, http.StatusOK)

	var page struct {
		Items      []medicineJSON `json:"items"`
		Pagination struct {
			Total   int64 `json:"total"`
			HasNext bool  `json:"has_next"`
		} `json:"pagination"`
	}
	decode(t, rec, &page)
	if len(page.Items) != 2 || page.Pagination.Total != 3 || !page.Pagination.HasNext {
		t.Fatalf("unexpected page: %+v", page)
	}
}

type draftJSON struct {
	ID    string `json:"id"`
	Lines []struct {
		Quantity  int     `json:"quantity"`
		LineTotal float64 `json:"line_total"`
	} `json:"lines"`
	State struct {
		SubTotal     float64 `json:"sub_total"`
		GrandTotal   float64 `json:"grand_total"`
		ReturnAmount float64 `json:"return_amount"`
	} `json:"state"`
}

type saleJSON struct {
	ID           string  `json:"id"`
	InvoiceNo    string  `json:"invoice_no"`
	Status       string  `json:"status"`
	GrandTotal   float64 `json:"grand_total"`
	ReturnAmount float64 `json:"return_amount"`
	DueAmount    float64 `json:"due_amount"`
}

func TestPOSSessionSubmitIsIdempotent(t *testing.T) {
	s := newTestServer(t, nil)
	napa := s.createMedicine(t, "NAPA", 10, 50)

	rec := s.do(t, http.MethodPost, "/api/v1/sales/drafts", map[string]string{"customer_name": "Karim"}, nil)
	expectStatus(t, rec, http.StatusCreated)
	var draft draftJSON
	decode(t, rec, &draft)
	base := "/api/v1/sales/drafts/" + draft.ID

	rec = s.do(t, http.MethodPost, base+"/items", map[string]interface{}{"medicine_id": napa.ID, "quantity": 2}, nil)
	expectStatus(t, rec, http.StatusOK)

	edits := []struct {
		field string
		value float64
	}{
		{"vat_percent", 5},
		{"discount_percent", 10},
		{"received_amount", 20},
	}
	for _, e := range edits {
		rec = s.do(t, http.MethodPut, base+"/payment", map[string]interface{}{"field": e.field, "value": e.value}, nil)
		expectStatus(t, rec, http.StatusOK)
	}
	decode(t, rec, &draft)
	if draft.State.SubTotal != 20 || draft.State.GrandTotal != 19 || draft.State.ReturnAmount != 1 {
		t.Fatalf("unexpected state: %+v", draft.State)
	}

	headers := map[string]string{
		middleware.IdempotencyKeyHeader: "submit-1",
		middleware.ClientIDHeader:       "till-1",
	}
	first := s.do(t, http.MethodPost, base+"/submit", nil, headers)
	expectStatus(t, first, http.StatusCreated)
	var sale saleJSON
	decode(t, first, &sale)
	if sale.Status != "paid" || sale.GrandTotal != 19 || sale.ReturnAmount != 1 || sale.DueAmount != 0 {
		t.Fatalf("unexpected sale: %+v", sale)
	}

	replay := s.do(t, http.MethodPost, base+"/submit", nil, headers)
	expectStatus(t, replay, http.StatusCreated)
	if replay.Header().Get(middleware.ReplayedHeader) != "true" {
		t.Fatal("expected replayed response")
	}
	if replay.Body.String() != first.Body.String() {
		t.Fatal("replayed body differs from the original")
	}

	reused := s.do(t, http.MethodPost, "/api/v1/purchases", map[string]interface{}{"supplier_id": napa.ID}, headers)
	expectStatus(t, reused, http.StatusUnprocessableEntity)

	// Without the key the consumed session is gone
	rec = s.do(t, http.MethodPost, base+"/submit", nil, nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = s.do(t, http.MethodGet, "/api/v1/medicines/"+napa.ID, nil, nil)
	expectStatus(t, rec, http.StatusOK)
	var after medicineJSON
	decode(t, rec, &after)
	if after.Quantity != 48 {
		t.Fatalf("expected stock 48, got %d", after.Quantity)
	}
}

func TestAddLineBeyondStockConflicts(t *testing.T) {
	s := newTestServer(t, nil)
	m := s.createMedicine(t, "ACE", 3, 2)

	rec := s.do(t, http.MethodPost, "/api/v1/sales/drafts", nil, nil)
	expectStatus(t, rec, http.StatusCreated)
	var draft draftJSON
	decode(t, rec, &draft)

	rec = s.do(t, http.MethodPost, "/api/v1/sales/drafts/"+draft.ID+"/items", map[string]interface{}{"medicine_id": m.ID, "quantity": 3}, nil)
	expectStatus(t, rec, http.StatusConflict)
}

func TestSubmitEmptyCartIsUnprocessable(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/v1/sales/drafts", nil, nil)
	var draft draftJSON
	decode(t, rec, &draft)

	rec = s.do(t, http.MethodPost, "/api/v1/sales/drafts/"+draft.ID+"/submit", nil, nil)
	expectStatus(t, rec, http.StatusUnprocessableEntity)
}

func TestQuoteEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/v1/sales/quote", map[string]interface{}{
		"lines": []map[string]interface{}{
			{"name": "Ace", "unit_price": 5, "quantity": 10},
		},
		"changed": "discount_amount",
		"value":   5,
	}, nil)
	expectStatus(t, rec, http.StatusOK)

	var quote struct {
		State struct {
			DiscountPercent float64 `json:"discount_percent"`
			GrandTotal      float64 `json:"grand_total"`
		} `json:"state"`
	}
	decode(t, rec, &quote)
	if quote.State.DiscountPercent != 10 || quote.State.GrandTotal != 45 {
		t.Fatalf("unexpected quote: %+v", quote.State)
	}
}

func TestQuoteRejectsUnknownField(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/v1/sales/quote", map[string]interface{}{"changed": "grand_total"}, nil)
	if rec.Code != http.StatusBadRequest && rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected a client error, got %d", rec.Code)
	}
}

func TestReceiptPreviewAndPrint(t *testing.T) {
	s := newTestServer(t, nil)
	m := s.createMedicine(t, "FEXO", 8, 10)

	rec := s.do(t, http.MethodPost, "/api/v1/sales/drafts", nil, nil)
	var draft draftJSON
	decode(t, rec, &draft)
	s.do(t, http.MethodPost, "/api/v1/sales/drafts/"+draft.ID+"/items", map[string]interface{}{"medicine_id": m.ID, "quantity": 1}, nil)
	rec = s.do(t, http.MethodPost, "/api/v1/sales/drafts/"+draft.ID+"/submit", nil, nil)
	expectStatus(t, rec, http.StatusCreated)
	var sale saleJSON
	decode(t, rec, &sale)

	rec = s.do(t, http.MethodGet, "/api/v1/sales/"+sale.ID+"/receipt", nil, nil)
	expectStatus(t, rec, http.StatusOK)
	if !bytes.Contains(rec.Body.Bytes(), []byte(sale.InvoiceNo)) {
		t.Fatalf("preview does not mention invoice %s", sale.InvoiceNo)
	}

	rec = s.do(t, http.MethodPost, "/api/v1/sales/"+sale.ID+"/print", nil, nil)
	expectStatus(t, rec, http.StatusOK)
	if len(s.spool.Jobs()) != 1 {
		t.Fatalf("expected one print job, got %d", len(s.spool.Jobs()))
	}
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	limiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{Requests: 2, Window: time.Hour})
	s := newTestServer(t, limiter)
	headers := map[string]string{middleware.ClientIDHeader: "till-9"}

	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodGet, "/api/v1/categories", nil, headers)
		expectStatus(t, rec, http.StatusOK)
	}
	rec := s.do(t, http.MethodGet, "/api/v1/categories", nil, headers)
	expectStatus(t, rec, http.StatusTooManyRequests)

	// Another terminal has its own bucket
	rec = s.do(t, http.MethodGet, "/api/v1/categories", nil, map[string]string{middleware.ClientIDHeader: "till-10"})
	expectStatus(t, rec, http.StatusOK)
}

func TestReportRangeValidation(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/v1/reports/sales?start_date=2026-05-10&end_date=2026-05-01", nil, nil)
	expectStatus(t, rec, http.StatusUnprocessableEntity)

	rec = s.do(t, http.MethodGet, "/api/v1/reports/sales?start_date=yesterday", nil, nil)
	expectStatus(t, rec, http.StatusUnprocessableEntity)

	rec = s.do(t, http.MethodGet, "/api/v1/reports/sales?start_date=2026-05-01&end_date=2026-05-01", nil, nil)
	expectStatus(t, rec, http.StatusOK)
}
