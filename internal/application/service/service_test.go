package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/cache"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/events"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/memory"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/apperror"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/printer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type countingCache struct {
	cache.NoopReportCache
	sets        int
	invalidated int
	entries     map[string]interface{}
}

func (c *countingCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	v, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	switch d := dest.(type) {
	case *DashboardStats:
		*d = *v.(*DashboardStats)
	case *StockReport:
		*d = *v.(*StockReport)
	default:
		return false, nil
	}
	return true, nil
}

func (c *countingCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if c.entries == nil {
		c.entries = make(map[string]interface{})
	}
	c.entries[key] = value
	c.sets++
	return nil
}

func (c *countingCache) Invalidate(context.Context) error {
	c.entries = nil
	c.invalidated++
	return nil
}

type fixture struct {
	repos     *repository.Repositories
	drafts    *SaleDraftStore
	publisher *recordingPublisher
	cache     *countingCache
	sales     *SaleService
	purchases *PurchaseService
	reports   *ReportService
	medicines *MedicineService
	racks     *RackService
	suppliers *SupplierService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()
	f := &fixture{
		repos:     memory.New().Repositories(),
		drafts:    NewSaleDraftStore(30 * time.Minute),
		publisher: &recordingPublisher{},
		cache:     &countingCache{},
	}
	f.sales = NewSaleService(f.repos, f.drafts, f.publisher, f.cache, 0, log)
	f.purchases = NewPurchaseService(f.repos, f.cache, log)
	f.reports = NewReportService(f.repos, f.cache, time.Minute, 30, log)
	f.medicines = NewMedicineService(f.repos, f.cache, 10, 30, log)
	f.racks = NewRackService(f.repos.Racks, f.repos.Medicines, f.cache, log)
	f.suppliers = NewSupplierService(f.repos.Suppliers, f.repos.Purchases, f.cache, log)
	return f
}

func (f *fixture) medicine(t *testing.T, name string, mrp string, qty, alert int) *entity.Medicine {
	t.Helper()
	m := &entity.Medicine{
		Name:          name,
		Code:          strings.ToUpper(name),
		Type:          enum.MedicineTypeTablet,
		Quantity:      qty,
		QuantityAlert: alert,
		StripSize:     10,
		BoxSize:       10,
	}
	m.ApplyPricing(d(mrp).Mul(d("0.8")), d(mrp))
	if err := f.repos.Medicines.Create(context.Background(), m); err != nil {
		t.Fatalf("create medicine: %v", err)
	}
	return m
}

func (f *fixture) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	m, err := f.repos.Medicines.GetByID(context.Background(), id)
	if err != nil || m == nil {
		t.Fatalf("get medicine: %v", err)
	}
	return m.Quantity
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amount(v decimal.Decimal) *decimal.Decimal {
	return &v
}

func expectCode(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", code)
	}
	appErr := apperror.GetAppError(err)
	if appErr.Code != code {
		t.Fatalf("expected status %d, got %d (%v)", code, appErr.Code, err)
	}
	return appErr
}

func TestSaleSessionReconcilesAndSubmits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	napa := f.medicine(t, "Napa", "10.00", 50, 5)

	draft, err := f.sales.StartSale(&SaleDetailsInput{CustomerName: " Rahim ", PaymentType: "cash"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if draft.CustomerName != "Rahim" {
		t.Fatalf("customer name not trimmed: %q", draft.CustomerName)
	}

	if _, err := f.sales.AddLine(ctx, draft.ID, &AddLineInput{MedicineID: napa.ID, Quantity: 2}); err != nil {
		t.Fatalf("add line: %v", err)
	}
	if _, err := f.sales.SetPaymentField(draft.ID, "vat_percent", d("5")); err != nil {
		t.Fatalf("vat: %v", err)
	}
	if _, err := f.sales.SetPaymentField(draft.ID, "discount_percent", d("10")); err != nil {
		t.Fatalf("discount: %v", err)
	}
	draft, err = f.sales.SetPaymentField(draft.ID, "received_amount", d("20"))
	if err != nil {
		t.Fatalf("received: %v", err)
	}
	if !draft.State.GrandTotal.Equal(d("19")) || !draft.State.ReturnAmount.Equal(d("1")) {
		t.Fatalf("unexpected state %+v", draft.State)
	}

	sale, err := f.sales.SubmitSale(ctx, draft.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sale.GrandTotal != 1900 || sale.ReturnAmount != 100 || sale.DueAmount != 0 {
		t.Fatalf("unexpected sale amounts %+v", sale)
	}
	if sale.Status != enum.SaleStatusPaid {
		t.Fatalf("expected paid, got %s", sale.Status)
	}
	if len(sale.Details) != 1 || sale.Details[0].UnitCost != 800 {
		t.Fatalf("unexpected details %+v", sale.Details)
	}
	if got := f.stock(t, napa.ID); got != 48 {
		t.Fatalf("expected stock 48, got %d", got)
	}
	if _, err := f.sales.GetDraft(draft.ID); err == nil {
		t.Fatal("expected the session to be closed after submit")
	}
	if types := f.publisher.types(); len(types) != 1 || types[0] != events.TypeSaleSubmitted {
		t.Fatalf("unexpected events %v", types)
	}
	if f.cache.invalidated == 0 {
		t.Fatal("expected report cache invalidation")
	}
}

func TestAddLineMergesAndRespectsStockSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seclo := f.medicine(t, "Seclo", "7.00", 5, 1)
	draft, _ := f.sales.StartSale(nil)

	if _, err := f.sales.AddLine(ctx, draft.ID, &AddLineInput{MedicineID: seclo.ID, Quantity: 3}); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := f.sales.AddLine(ctx, draft.ID, &AddLineInput{MedicineID: seclo.ID, Quantity: 2, UnitPrice: amount(d("6.50"))})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(got.Lines) != 1 || got.Lines[0].Quantity != 5 {
		t.Fatalf("expected one merged line of 5, got %+v", got.Lines)
	}
	if !got.State.SubTotal.Equal(d("32.50")) {
		t.Fatalf("expected sub total 32.50, got %s", got.State.SubTotal)
	}

	_, err = f.sales.AddLine(ctx, draft.ID, &AddLineInput{MedicineID: seclo.ID, Quantity: 1})
	expectCode(t, err, http.StatusConflict)

	// A failed edit leaves the session untouched.
	after, _ := f.sales.GetDraft(draft.ID)
	if after.Lines[0].Quantity != 5 {
		t.Fatalf("failed add changed the cart: %+v", after.Lines)
	}

	_, err = f.sales.UpdateLine(draft.ID, seclo.ID, &UpdateLineInput{Quantity: intPtr(6)})
	expectCode(t, err, http.StatusConflict)
	_, err = f.sales.AddLine(ctx, draft.ID, &AddLineInput{MedicineID: seclo.ID, Quantity: 0})
	expectCode(t, err, http.StatusUnprocessableEntity)
	_, err = f.sales.AddLine(ctx, draft.ID, &AddLineInput{MedicineID: uuid.New(), Quantity: 1})
	expectCode(t, err, http.StatusNotFound)
}

func intPtr(v int) *int { return &v }

func TestUpdateAndRemoveLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ace := f.medicine(t, "Ace", "5.00", 20, 2)
	draft, _ := f.sales.StartSale(nil)
	f.sales.AddLine(ctx, draft.ID, &AddLineInput{MedicineID: ace.ID, Quantity: 10})

	draft, err := f.sales.SetPaymentField(draft.ID, "discount_amount", d("5"))
	if err != nil {
		t.Fatalf("discount: %v", err)
	}
	if !draft.State.DiscountPercent.Equal(d("10")) {
		t.Fatalf("expected 10%%, got %s", draft.State.DiscountPercent)
	}

	draft, err = f.sales.UpdateLine(draft.ID, ace.ID, &UpdateLineInput{Quantity: intPtr(20)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !draft.State.SubTotal.Equal(d("100")) || !draft.State.GrandTotal.Equal(d("95")) {
		t.Fatalf("flat discount should survive cart edits: %+v", draft.State)
	}

	draft, err = f.sales.RemoveLine(draft.ID, ace.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(draft.Lines) != 0 || !draft.State.SubTotal.IsZero() {
		t.Fatalf("expected empty cart, got %+v", draft)
	}
	_, err = f.sales.RemoveLine(draft.ID, ace.ID)
	expectCode(t, err, http.StatusNotFound)

	_, err = f.sales.SetPaymentField(draft.ID, "grand_total", d("1"))
	expectCode(t, err, http.StatusBadRequest)
	_, err = f.sales.SetPaymentField(draft.ID, "shipping_fee", d("-1"))
	expectCode(t, err, http.StatusUnprocessableEntity)
}

func TestSubmitEmptyCart(t *testing.T) {
	f := newFixture(t)
	draft, _ := f.sales.StartSale(nil)

	_, err := f.sales.SubmitSale(context.Background(), draft.ID)
	if !errors.Is(err, apperror.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if _, err := f.sales.GetDraft(draft.ID); err != nil {
		t.Fatalf("session should stay open after a rejected submit: %v", err)
	}
}

func TestSubmitFailsWhenStockWasSoldElsewhere(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	napa := f.medicine(t, "Napa", "1.00", 3, 0)
	maxpro := f.medicine(t, "Maxpro", "7.00", 10, 0)

	first, _ := f.sales.StartSale(nil)
	second, _ := f.sales.StartSale(nil)
	f.sales.AddLine(ctx, first.ID, &AddLineInput{MedicineID: napa.ID, Quantity: 3})
	f.sales.AddLine(ctx, second.ID, &AddLineInput{MedicineID: napa.ID, Quantity: 2})
	f.sales.AddLine(ctx, second.ID, &AddLineInput{MedicineID: maxpro.ID, Quantity: 1})

	if _, err := f.sales.SubmitSale(ctx, first.ID); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err := f.sales.SubmitSale(ctx, second.ID)
	appErr := expectCode(t, err, http.StatusConflict)
	if len(appErr.Errors) != 1 || appErr.Errors[0].Field != napa.ID.String() {
		t.Fatalf("expected napa to be reported short, got %+v", appErr.Errors)
	}
	if got := f.stock(t, maxpro.ID); got != 10 {
		t.Fatalf("a failed checkout must not move stock, maxpro at %d", got)
	}
	if _, err := f.sales.GetDraft(second.ID); err != nil {
		t.Fatalf("session should stay open: %v", err)
	}
}

func TestSubmitPublishesLowStockOnCrossing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	crossing := f.medicine(t, "Fexo", "9.99", 12, 10)
	alreadyLow := f.medicine(t, "Losectil", "6.00", 4, 10)

	draft, _ := f.sales.StartSale(nil)
	f.sales.AddLine(ctx, draft.ID, &AddLineInput{MedicineID: crossing.ID, Quantity: 3})
	f.sales.AddLine(ctx, draft.ID, &AddLineInput{MedicineID: alreadyLow.ID, Quantity: 1})
	if _, err := f.sales.SubmitSale(ctx, draft.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	low := 0
	for _, typ := range f.publisher.types() {
		if typ == events.TypeStockLow {
			low++
		}
	}
	if low != 1 {
		t.Fatalf("expected one stock.low event, got %v", f.publisher.types())
	}
}

func TestDraftExpiry(t *testing.T) {
	store := NewSaleDraftStore(time.Minute)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	draft := store.Create(&SaleDraft{})
	kept := store.Create(&SaleDraft{})

	now = now.Add(30 * time.Second)
	if _, err := store.Update(kept.ID, func(*SaleDraft) error { return nil }); err != nil {
		t.Fatalf("touch: %v", err)
	}

	now = now.Add(45 * time.Second)
	if _, err := store.Get(draft.ID); !errors.Is(err, apperror.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, err := store.Get(draft.ID); err == nil || errors.Is(err, apperror.ErrSessionExpired) {
		t.Fatalf("an expired session should then be gone, got %v", err)
	}
	if _, err := store.Get(kept.ID); err != nil {
		t.Fatalf("touched session should live on: %v", err)
	}

	now = now.Add(time.Minute)
	if n := store.Cleanup(); n != 1 {
		t.Fatalf("expected cleanup to remove 1 session, removed %d", n)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}

func TestConcurrentSubmitSellsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	napa := f.medicine(t, "Napa", "1.00", 100, 0)
	draft, _ := f.sales.StartSale(nil)
	f.sales.AddLine(ctx, draft.ID, &AddLineInput{MedicineID: napa.ID, Quantity: 10})

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.sales.SubmitSale(ctx, draft.ID); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if ok != 1 {
		t.Fatalf("expected exactly one successful submit, got %d", ok)
	}
	if got := f.stock(t, napa.ID); got != 90 {
		t.Fatalf("expected stock 90, got %d", got)
	}
}

func TestPayDueAndCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seclo := f.medicine(t, "Seclo", "25.00", 10, 0)
	draft, _ := f.sales.StartSale(nil)
	f.sales.AddLine(ctx, draft.ID, &AddLineInput{MedicineID: seclo.ID, Quantity: 2})
	f.sales.SetPaymentField(draft.ID, "received_amount", d("30"))

	sale, err := f.sales.SubmitSale(ctx, draft.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sale.Status != enum.SaleStatusDue || sale.DueAmount != 2000 {
		t.Fatalf("expected 20.00 due, got %+v", sale)
	}

	dues, err := f.sales.ListDueSales(ctx, nil)
	if err != nil || dues.Pagination.Total != 1 {
		t.Fatalf("expected one due sale, got %+v (%v)", dues, err)
	}

	sale, err = f.sales.PayDue(ctx, sale.ID, d("25"))
	if err != nil {
		t.Fatalf("pay due: %v", err)
	}
	if sale.Status != enum.SaleStatusPaid || sale.DueAmount != 0 || sale.ReturnAmount != 500 || sale.ReceivedAmount != 5500 {
		t.Fatalf("unexpected sale after payment %+v", sale)
	}
	_, err = f.sales.PayDue(ctx, sale.ID, d("1"))
	expectCode(t, err, http.StatusBadRequest)

	sale, err = f.sales.CancelSale(ctx, sale.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if sale.Status != enum.SaleStatusCancelled || sale.CancelledAt == nil {
		t.Fatalf("unexpected cancelled sale %+v", sale)
	}
	if got := f.stock(t, seclo.ID); got != 10 {
		t.Fatalf("expected stock restored to 10, got %d", got)
	}
	_, err = f.sales.CancelSale(ctx, sale.ID)
	expectCode(t, err, http.StatusBadRequest)
}

// slowSales widens the window between a service's read and its write.
type slowSales struct {
	repository.SaleRepository
	delay time.Duration
}

func (r slowSales) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	time.Sleep(r.delay)
	return r.SaleRepository.GetByID(ctx, id)
}

func (f *fixture) submitSale(t *testing.T, m *entity.Medicine, qty int, received string) *entity.Sale {
	t.Helper()
	ctx := context.Background()
	draft, _ := f.sales.StartSale(nil)
	if _, err := f.sales.AddLine(ctx, draft.ID, &AddLineInput{MedicineID: m.ID, Quantity: qty}); err != nil {
		t.Fatalf("add line: %v", err)
	}
	f.sales.SetPaymentField(draft.ID, "received_amount", d(received))
	sale, err := f.sales.SubmitSale(ctx, draft.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return sale
}

func TestConcurrentCancelRestocksOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	napa := f.medicine(t, "Napa", "1.00", 100, 0)
	sale := f.submitSale(t, napa, 10, "10")

	f.repos.Sales = slowSales{SaleRepository: f.repos.Sales, delay: 20 * time.Millisecond}
	f.sales = NewSaleService(f.repos, f.drafts, f.publisher, f.cache, 0, zap.NewNop())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.sales.CancelSale(ctx, sale.ID)
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			expectCode(t, err, http.StatusBadRequest)
			failed++
		}
	}
	if failed != 1 {
		t.Fatalf("expected exactly one cancel to fail, got %v", errs)
	}
	if got := f.stock(t, napa.ID); got != 100 {
		t.Fatalf("expected stock 100 after two cancels, got %d", got)
	}
}

func TestConcurrentPayDueKeepsEveryPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seclo := f.medicine(t, "Seclo", "25.00", 10, 0)
	sale := f.submitSale(t, seclo, 2, "30")

	f.repos.Sales = slowSales{SaleRepository: f.repos.Sales, delay: 10 * time.Millisecond}
	f.sales = NewSaleService(f.repos, f.drafts, f.publisher, f.cache, 0, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.sales.PayDue(ctx, sale.ID, d("2")); err != nil {
				t.Errorf("pay due: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := f.sales.GetSale(ctx, sale.ID)
	if err != nil {
		t.Fatalf("get sale: %v", err)
	}
	if got.ReceivedAmount != 3800 || got.DueAmount != 1200 || got.Status != enum.SaleStatusDue {
		t.Fatalf("expected 38.00 received and 12.00 due, got %+v", got)
	}
}

func TestStoredTotalsAddUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tiny := f.medicine(t, "Tiny", "0.10", 10, 0)

	draft, _ := f.sales.StartSale(nil)
	f.sales.AddLine(ctx, draft.ID, &AddLineInput{MedicineID: tiny.ID, Quantity: 1})
	f.sales.SetPaymentField(draft.ID, "vat_percent", d("5"))
	f.sales.SetPaymentField(draft.ID, "shipping_fee", d("0.005"))
	f.sales.SetPaymentField(draft.ID, "received_amount", d("0.115"))

	sale, err := f.sales.SubmitSale(ctx, draft.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	parts := sale.SubTotal + sale.VATAmount + sale.ShippingFee - sale.DiscountAmount
	if sale.GrandTotal != parts {
		t.Fatalf("grand total %d does not match parts %d (%+v)", sale.GrandTotal, parts, sale)
	}
	if settled := sale.GrandTotal - sale.ReceivedAmount; settled != sale.DueAmount-sale.ReturnAmount {
		t.Fatalf("due %d and return %d do not settle grand %d against received %d",
			sale.DueAmount, sale.ReturnAmount, sale.GrandTotal, sale.ReceivedAmount)
	}
}

func TestQuote(t *testing.T) {
	f := newFixture(t)
	q, err := f.sales.Quote(&QuoteInput{
		Lines:   []QuoteLine{{ItemID: uuid.New(), Name: "Ace", UnitPrice: d("5"), Quantity: 10}},
		Changed: "discount_amount",
		Value:   amount(d("5")),
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if !q.State.DiscountPercent.Equal(d("10")) || !q.State.GrandTotal.Equal(d("45")) {
		t.Fatalf("unexpected quote %+v", q.State)
	}

	_, err = f.sales.Quote(&QuoteInput{Lines: []QuoteLine{{Quantity: 0}}, Changed: "cart"})
	expectCode(t, err, http.StatusUnprocessableEntity)
}

func TestPurchaseLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	napa := f.medicine(t, "Napa", "1.50", 10, 0)
	supplier := &entity.Supplier{Name: "Beximco", Active: true}
	if err := f.repos.Suppliers.Create(ctx, supplier); err != nil {
		t.Fatalf("supplier: %v", err)
	}
	expiry := time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC)

	purchase, err := f.purchases.CreatePurchase(ctx, &CreatePurchaseInput{
		SupplierID:     supplier.ID,
		DiscountAmount: d("20"),
		TaxPercent:     d("5"),
		PaidAmount:     d("100"),
		Items: []PurchaseItemInput{
			{MedicineID: napa.ID, Quantity: 200, UnitCost: d("1.00"), BatchNo: "B-77", ExpiryDate: &expiry},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if purchase.SubTotal != 20000 || purchase.TaxAmount != 900 || purchase.Total != 18900 || purchase.DueAmount != 8900 {
		t.Fatalf("unexpected totals %+v", purchase)
	}
	if purchase.Status != enum.PurchaseStatusPending {
		t.Fatalf("expected pending, got %s", purchase.Status)
	}
	if got := f.stock(t, napa.ID); got != 10 {
		t.Fatalf("stock must not move before receipt, got %d", got)
	}

	received, err := f.purchases.ReceivePurchase(ctx, purchase.ID)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if received.Status != enum.PurchaseStatusReceived || received.ReceivedAt == nil {
		t.Fatalf("unexpected received purchase %+v", received)
	}
	m, _ := f.repos.Medicines.GetByID(ctx, napa.ID)
	if m.Quantity != 210 || m.TPUnit != 100 || m.TPStrip != 1000 || m.BatchNo != "B-77" {
		t.Fatalf("unexpected medicine after receipt %+v", m)
	}
	if m.ProfitMargin != 33.33 {
		t.Fatalf("expected margin 33.33, got %v", m.ProfitMargin)
	}

	_, err = f.purchases.ReceivePurchase(ctx, purchase.ID)
	expectCode(t, err, http.StatusBadRequest)
	_, err = f.purchases.CancelPurchase(ctx, purchase.ID)
	expectCode(t, err, http.StatusBadRequest)
	expectCode(t, f.purchases.DeletePurchase(ctx, purchase.ID), http.StatusBadRequest)
}

func TestCreatePurchaseValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inactive := &entity.Supplier{Name: "Old Traders"}
	f.repos.Suppliers.Create(ctx, inactive)

	_, err := f.purchases.CreatePurchase(ctx, &CreatePurchaseInput{SupplierID: inactive.ID})
	appErr := expectCode(t, err, http.StatusUnprocessableEntity)
	if len(appErr.Errors) == 0 || appErr.Errors[0].Field != "items" {
		t.Fatalf("expected items error, got %+v", appErr.Errors)
	}

	napa := f.medicine(t, "Napa", "1.50", 10, 0)
	items := []PurchaseItemInput{{MedicineID: napa.ID, Quantity: 1, UnitCost: d("1")}}
	_, err = f.purchases.CreatePurchase(ctx, &CreatePurchaseInput{SupplierID: inactive.ID, Items: items})
	expectCode(t, err, http.StatusBadRequest)
	_, err = f.purchases.CreatePurchase(ctx, &CreatePurchaseInput{SupplierID: uuid.New(), Items: items})
	expectCode(t, err, http.StatusNotFound)
}

func TestDashboardIsCachedAndZeroFilled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	napa := f.medicine(t, "Napa", "10.00", 8, 10)

	draft, _ := f.sales.StartSale(nil)
	f.sales.AddLine(ctx, draft.ID, &AddLineInput{MedicineID: napa.ID, Quantity: 2})
	f.sales.SetPaymentField(draft.ID, "received_amount", d("20"))
	if _, err := f.sales.SubmitSale(ctx, draft.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	stats, err := f.reports.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalMedicines != 1 || stats.LowStockCount != 1 || stats.TodaySales != 20 || stats.TodaySalesCount != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(stats.DailySales) != dashboardDays {
		t.Fatalf("expected %d daily points, got %d", dashboardDays, len(stats.DailySales))
	}
	last := stats.DailySales[len(stats.DailySales)-1]
	if last.Total != 20 || stats.DailySales[0].Total != 0 {
		t.Fatalf("unexpected daily series %+v", stats.DailySales)
	}
	if len(stats.TopMedicines) != 1 || stats.TopMedicines[0].QuantitySold != 2 {
		t.Fatalf("unexpected top medicines %+v", stats.TopMedicines)
	}

	sets := f.cache.sets
	if _, err := f.reports.GetDashboardStats(ctx); err != nil {
		t.Fatalf("dashboard again: %v", err)
	}
	if f.cache.sets != sets {
		t.Fatal("second dashboard call should be served from cache")
	}
}

type catalogWrite struct {
	name string
	run  func() error
}

func TestCatalogWritesDropCachedReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.reports.GetDashboardStats(ctx); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	var medicineID, rackID, supplierID uuid.UUID
	writes := []catalogWrite{
		{"create medicine", func() error {
			m, err := f.medicines.CreateMedicine(ctx, &CreateMedicineInput{
				Name: "Napa", Type: enum.MedicineTypeTablet, Quantity: 5, StripSize: 10, BoxSize: 10,
				TPUnit: d("1.50"), MRPUnit: d("2.00"),
			})
			if err == nil {
				medicineID = m.ID
			}
			return err
		}},
		{"update medicine", func() error {
			name := "Napa Extra"
			_, err := f.medicines.UpdateMedicine(ctx, &UpdateMedicineInput{ID: medicineID, Name: &name})
			return err
		}},
		{"create rack", func() error {
			r, err := f.racks.CreateRack(ctx, &RackInput{Name: "Shelf A", Capacity: 10})
			if err == nil {
				rackID = r.ID
			}
			return err
		}},
		{"assign rack", func() error {
			_, err := f.racks.AssignMedicine(ctx, medicineID, &rackID)
			return err
		}},
		{"unassign rack", func() error {
			_, err := f.racks.AssignMedicine(ctx, medicineID, nil)
			return err
		}},
		{"delete rack", func() error {
			return f.racks.DeleteRack(ctx, rackID)
		}},
		{"create supplier", func() error {
			sup, err := f.suppliers.CreateSupplier(ctx, &SupplierInput{Name: "Acme Pharma"})
			if err == nil {
				supplierID = sup.ID
			}
			return err
		}},
		{"delete supplier", func() error {
			return f.suppliers.DeleteSupplier(ctx, supplierID)
		}},
		{"delete medicine", func() error {
			return f.medicines.DeleteMedicine(ctx, medicineID)
		}},
	}

	for _, w := range writes {
		before := f.cache.invalidated
		if err := w.run(); err != nil {
			t.Fatalf("%s: %v", w.name, err)
		}
		if f.cache.invalidated != before+1 {
			t.Fatalf("%s: expected the report cache to be dropped", w.name)
		}
	}

	stats, err := f.reports.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("dashboard after writes: %v", err)
	}
	if stats.TotalMedicines != 0 {
		t.Fatalf("dashboard still counts deleted medicine: %+v", stats)
	}
}

func TestResolveRange(t *testing.T) {
	f := newFixture(t)
	f.reports.now = func() time.Time { return time.Date(2026, 5, 17, 15, 0, 0, 0, time.UTC) }

	from, to, err := f.reports.ResolveRange(nil, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !from.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)) || !to.Equal(time.Date(2026, 5, 18, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected range %s - %s", from, to)
	}

	_, _, err = f.reports.ResolveRange(&to, &from)
	expectCode(t, err, http.StatusUnprocessableEntity)
}

func TestStockReportTotals(t *testing.T) {
	f := newFixture(t)
	f.medicine(t, "Ace", "5.00", 10, 0)
	f.medicine(t, "Napa", "10.00", 2, 0)

	report, err := f.reports.GetStockReport(context.Background())
	if err != nil {
		t.Fatalf("stock report: %v", err)
	}
	if report.TotalQuantity != 12 || report.TotalMRPValue != 70 || report.TotalTPValue != 56 {
		t.Fatalf("unexpected totals %+v", report)
	}
	if report.PotentialProfit != 14 {
		t.Fatalf("expected profit 14, got %v", report.PotentialProfit)
	}
}

func TestReceiptPreviewAndPrint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	napa := f.medicine(t, "Napa", "10.00", 10, 0)
	draft, _ := f.sales.StartSale(nil)
	f.sales.AddLine(ctx, draft.ID, &AddLineInput{MedicineID: napa.ID, Quantity: 2})
	f.sales.SetPaymentField(draft.ID, "vat_percent", d("5"))
	f.sales.SetPaymentField(draft.ID, "received_amount", d("25"))
	sale, err := f.sales.SubmitSale(ctx, draft.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	spool := printer.NewSpool()
	receipts := NewReceiptService(spool, f.repos.Sales, entity.ReceiptHeader{StoreName: "PharmaCare"}, printer.Width58mm, "none", zap.NewNop())

	preview, err := receipts.PreviewSaleReceipt(ctx, sale.ID)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	for _, want := range []string{"PharmaCare", sale.InvoiceNo, "21.00", "Change:", "4.00"} {
		if !strings.Contains(preview.Preview, want) {
			t.Fatalf("preview missing %q:\n%s", want, preview.Preview)
		}
	}
	if preview.Printed || len(spool.Jobs()) != 0 {
		t.Fatal("preview must not print")
	}

	printed, err := receipts.PrintSaleReceipt(ctx, sale.ID)
	if err != nil || !printed.Printed || len(spool.Jobs()) != 1 {
		t.Fatalf("expected one print job, got %v (%v)", len(spool.Jobs()), err)
	}

	_, err = receipts.PrintSaleReceipt(ctx, uuid.New())
	expectCode(t, err, http.StatusNotFound)
}
