package service

import (
	"context"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/cache"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/apperror"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardDays      = 7
	dashboardTopLimit  = 5
	reportDateLayout   = "2006-01-02"
	reportKeyTimestamp = time.RFC3339
)

// ReportService provides dashboard statistics and reports
type ReportService struct {
	reportRepo        repository.ReportRepository
	medicineRepo      repository.MedicineRepository
	rackRepo          repository.RackRepository
	supplierRepo      repository.SupplierRepository
	purchaseRepo      repository.PurchaseRepository
	cache             cache.ReportCache
	ttl               time.Duration
	expiryWarningDays int
	log               *zap.Logger
	now               func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	repos *repository.Repositories,
	reports cache.ReportCache,
	ttl time.Duration,
	expiryWarningDays int,
	log *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo:        repos.Reports,
		medicineRepo:      repos.Medicines,
		rackRepo:          repos.Racks,
		supplierRepo:      repos.Suppliers,
		purchaseRepo:      repos.Purchases,
		cache:             reports,
		ttl:               ttl,
		expiryWarningDays: expiryWarningDays,
		log:               log,
		now:               time.Now,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalMedicines    int64              `json:"total_medicines"`
	LowStockCount     int64              `json:"low_stock_count"`
	ExpiringSoonCount int64              `json:"expiring_soon_count"`
	TotalRacks        int64              `json:"total_racks"`
	TotalSuppliers    int64              `json:"total_suppliers"`
	TodaySalesCount   int64              `json:"today_sales_count"`
	TodaySales        float64            `json:"today_sales"`
	MonthSales        float64            `json:"month_sales"`
	TotalDue          float64            `json:"total_due"`
	PendingPurchases  int64              `json:"pending_purchases"`
	DailySales        []DailySalesPoint  `json:"daily_sales"`
	TopMedicines      []TopMedicinePoint `json:"top_medicines"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date  string  `json:"date"`
	Count int64   `json:"count"`
	Total float64 `json:"total"`
}

type TopMedicinePoint struct {
	MedicineID   uuid.UUID `json:"medicine_id"`
	Name         string    `json:"name"`
	QuantitySold int64     `json:"quantity_sold"`
	Revenue      float64   `json:"revenue"`
}

// SalesReport summarises sales over [From, To).
type SalesReport struct {
	From     time.Time         `json:"from"`
	To       time.Time         `json:"to"`
	Count    int64             `json:"count"`
	Gross    float64           `json:"gross"`
	Discount float64           `json:"discount"`
	VAT      float64           `json:"vat"`
	Shipping float64           `json:"shipping"`
	Net      float64           `json:"net"`
	Received float64           `json:"received"`
	Due      float64           `json:"due"`
	Cost     float64           `json:"cost"`
	Profit   float64           `json:"profit"`
	Daily    []DailySalesPoint `json:"daily"`
}

type SupplierPurchasePoint struct {
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	Count        int64     `json:"count"`
	Total        float64   `json:"total"`
	Due          float64   `json:"due"`
}

// PurchaseReport summarises purchases over [From, To).
type PurchaseReport struct {
	From       time.Time               `json:"from"`
	To         time.Time               `json:"to"`
	Count      int64                   `json:"count"`
	Total      float64                 `json:"total"`
	Paid       float64                 `json:"paid"`
	Due        float64                 `json:"due"`
	BySupplier []SupplierPurchasePoint `json:"by_supplier"`
}

type StockLine struct {
	MedicineID uuid.UUID `json:"medicine_id"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	Quantity   int64     `json:"quantity"`
	TPValue    float64   `json:"tp_value"`
	MRPValue   float64   `json:"mrp_value"`
}

// StockReport values the current stock at trade and retail price.
type StockReport struct {
	Items           []StockLine `json:"items"`
	TotalQuantity   int64       `json:"total_quantity"`
	TotalTPValue    float64     `json:"total_tp_value"`
	TotalMRPValue   float64     `json:"total_mrp_value"`
	PotentialProfit float64     `json:"potential_profit"`
}

func cents(v int64) float64 {
	return float64(v) / 100
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ResolveRange fills a missing start with the first of the current month
// and a missing end with the start of tomorrow.
func (s *ReportService) ResolveRange(from, to *time.Time) (time.Time, time.Time, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := startOfDay(now).AddDate(0, 0, 1)
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, apperror.NewValidationError(apperror.FieldError{Field: "end_date", Message: "must be after start_date"})
	}
	return start, end, nil
}

// cached returns the entry under key, building and storing it on a miss.
// Cache failures only cost a rebuild.
func cached[T any](ctx context.Context, s *ReportService, key string, build func() (*T, error)) (*T, error) {
	key = cache.KeyPrefix + key
	var hit T
	found, err := s.cache.Get(ctx, key, &hit)
	if err != nil {
		s.log.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
	} else if found {
		return &hit, nil
	}

	value, err := build()
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

// GetDashboardStats returns dashboard statistics
func (s *ReportService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	return cached(ctx, s, "dashboard:"+now.Format(reportDateLayout), func() (*DashboardStats, error) {
		return s.buildDashboard(ctx, now)
	})
}

func (s *ReportService) buildDashboard(ctx context.Context, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{}
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	weekStart := today.AddDate(0, 0, -(dashboardDays - 1))
	expiring := now.AddDate(0, 0, s.expiryWarningDays)
	pending := enum.PurchaseStatusPending

	// Each query fills its own fields.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalMedicines, err = s.medicineRepo.Count(gctx, &repository.MedicineFilterParams{})
		return err
	})
	g.Go(func() (err error) {
		stats.LowStockCount, err = s.medicineRepo.Count(gctx, &repository.MedicineFilterParams{LowStock: true})
		return err
	})
	g.Go(func() (err error) {
		stats.ExpiringSoonCount, err = s.medicineRepo.Count(gctx, &repository.MedicineFilterParams{ExpiringBefore: &expiring})
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRacks, err = s.rackRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalSuppliers, err = s.supplierRepo.Count(gctx, false)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingPurchases, err = s.purchaseRepo.Count(gctx, &pending)
		return err
	})
	g.Go(func() error {
		sum, err := s.reportRepo.SalesSummary(gctx, today, tomorrow)
		if err != nil {
			return err
		}
		stats.TodaySalesCount = sum.Count
		stats.TodaySales = cents(sum.Net)
		return nil
	})
	g.Go(func() error {
		sum, err := s.reportRepo.SalesSummary(gctx, monthStart, tomorrow)
		if err != nil {
			return err
		}
		stats.MonthSales = cents(sum.Net)
		return nil
	})
	g.Go(func() error {
		due, err := s.reportRepo.TotalDue(gctx)
		if err != nil {
			return err
		}
		stats.TotalDue = cents(due)
		return nil
	})
	g.Go(func() (err error) {
		stats.DailySales, err = s.dailySeries(gctx, weekStart, tomorrow)
		return err
	})
	g.Go(func() error {
		top, err := s.reportRepo.TopMedicines(gctx, monthStart, tomorrow, dashboardTopLimit)
		if err != nil {
			return err
		}
		stats.TopMedicines = make([]TopMedicinePoint, len(top))
		for i, t := range top {
			stats.TopMedicines[i] = TopMedicinePoint{
				MedicineID:   t.MedicineID,
				Name:         t.MedicineName,
				QuantitySold: t.QuantitySold,
				Revenue:      cents(t.Revenue),
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stats, nil
}

// dailySeries returns one point per day in [from, to), days without sales
// included as zero.
func (s *ReportService) dailySeries(ctx context.Context, from, to time.Time) ([]DailySalesPoint, error) {
	rows, err := s.reportRepo.DailySales(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]DailySalesPoint, len(rows))
	for _, r := range rows {
		day := r.Date.Format(reportDateLayout)
		byDay[day] = DailySalesPoint{Date: day, Count: r.Count, Total: cents(r.Net)}
	}

	var points []DailySalesPoint
	for d := startOfDay(from); d.Before(to); d = d.AddDate(0, 0, 1) {
		day := d.Format(reportDateLayout)
		if p, ok := byDay[day]; ok {
			points = append(points, p)
		} else {
			points = append(points, DailySalesPoint{Date: day})
		}
	}
	return points, nil
}

// GetSalesReport summarises sales in [from, to)
func (s *ReportService) GetSalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	key := "sales:" + from.Format(reportKeyTimestamp) + ":" + to.Format(reportKeyTimestamp)
	return cached(ctx, s, key, func() (*SalesReport, error) {
		sum, err := s.reportRepo.SalesSummary(ctx, from, to)
		if err != nil {
			return nil, err
		}
		daily, err := s.dailySeries(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return &SalesReport{
			From:     from,
			To:       to,
			Count:    sum.Count,
			Gross:    cents(sum.Gross),
			Discount: cents(sum.Discount),
			VAT:      cents(sum.VAT),
			Shipping: cents(sum.Shipping),
			Net:      cents(sum.Net),
			Received: cents(sum.Received),
			Due:      cents(sum.Due),
			Cost:     cents(sum.Cost),
			Profit:   cents(sum.Gross - sum.Discount - sum.Cost),
			Daily:    daily,
		}, nil
	})
}

// GetPurchaseReport summarises purchases in [from, to)
func (s *ReportService) GetPurchaseReport(ctx context.Context, from, to time.Time) (*PurchaseReport, error) {
	key := "purchases:" + from.Format(reportKeyTimestamp) + ":" + to.Format(reportKeyTimestamp)
	return cached(ctx, s, key, func() (*PurchaseReport, error) {
		sum, err := s.reportRepo.PurchaseSummary(ctx, from, to)
		if err != nil {
			return nil, err
		}
		report := &PurchaseReport{
			From:       from,
			To:         to,
			Count:      sum.Count,
			Total:      cents(sum.Total),
			Paid:       cents(sum.Paid),
			Due:        cents(sum.Due),
			BySupplier: make([]SupplierPurchasePoint, len(sum.BySupplier)),
		}
		for i, sp := range sum.BySupplier {
			report.BySupplier[i] = SupplierPurchasePoint{
				SupplierID:   sp.SupplierID,
				SupplierName: sp.SupplierName,
				Count:        sp.Count,
				Total:        cents(sp.Total),
				Due:          cents(sp.Due),
			}
		}
		return report, nil
	})
}

// GetStockReport values every medicine in stock
func (s *ReportService) GetStockReport(ctx context.Context) (*StockReport, error) {
	return cached(ctx, s, "stock", func() (*StockReport, error) {
		rows, err := s.reportRepo.StockValuation(ctx)
		if err != nil {
			return nil, err
		}
		report := &StockReport{Items: make([]StockLine, len(rows))}
		var tp, mrp int64
		for i, r := range rows {
			report.Items[i] = StockLine{
				MedicineID: r.MedicineID,
				Name:       r.Name,
				Code:       r.Code,
				Quantity:   r.Quantity,
				TPValue:    cents(r.TPValue),
				MRPValue:   cents(r.MRPValue),
			}
			report.TotalQuantity += r.Quantity
			tp += r.TPValue
			mrp += r.MRPValue
		}
		report.TotalTPValue = cents(tp)
		report.TotalMRPValue = cents(mrp)
		report.PotentialProfit = cents(mrp - tp)
		return report, nil
	})
}

// dropCachedReports is called after every write that changes a count or
// total the dashboard and reports show. A failure only leaves results stale
// until their TTL, so it is logged.
func dropCachedReports(ctx context.Context, reports cache.ReportCache, log *zap.Logger) {
	if err := reports.Invalidate(ctx); err != nil {
		log.Warn("report cache invalidation failed", zap.Error(err))
	}
}
