package repository

import (
	"context"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	domainRepo "github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) SalesSummary(ctx context.Context, from, to time.Time) (domainRepo.SalesSummary, error) {
	var result domainRepo.SalesSummary

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) as count,
			COALESCE(SUM(s.sub_total), 0) as gross,
			COALESCE(SUM(s.discount_amount), 0) as discount,
			COALESCE(SUM(s.vat_amount), 0) as vat,
			COALESCE(SUM(s.shipping_fee), 0) as shipping,
			COALESCE(SUM(s.grand_total), 0) as net,
			COALESCE(SUM(s.received_amount - s.return_amount), 0) as received,
			COALESCE(SUM(s.due_amount), 0) as due,
			COALESCE(SUM((
				SELECT SUM(sd.unit_cost * sd.quantity)
				FROM sale_details sd
				WHERE sd.sale_id = s.id AND sd.deleted_at IS NULL
			)), 0) as cost
		FROM sales s
		WHERE s.status <> ? AND s.date >= ? AND s.date < ? AND s.deleted_at IS NULL
	`, enum.SaleStatusCancelled, from, to).Scan(&result).Error

	return result, err
}

func (r *reportRepository) DailySales(ctx context.Context, from, to time.Time) ([]domainRepo.DailySales, error) {
	var results []domainRepo.DailySales

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			DATE_TRUNC('day', s.date) as date,
			COUNT(*) as count,
			COALESCE(SUM(s.grand_total), 0) as net
		FROM sales s
		WHERE s.status <> ? AND s.date >= ? AND s.date < ? AND s.deleted_at IS NULL
		GROUP BY DATE_TRUNC('day', s.date)
		ORDER BY date ASC
	`, enum.SaleStatusCancelled, from, to).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reportRepository) TopMedicines(ctx context.Context, from, to time.Time, limit int) ([]domainRepo.TopMedicine, error) {
	var results []domainRepo.TopMedicine

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			sd.medicine_id as medicine_id,
			MAX(sd.medicine_name) as medicine_name,
			COALESCE(SUM(sd.quantity), 0) as quantity_sold,
			COALESCE(SUM(sd.total), 0) as revenue
		FROM sale_details sd
		JOIN sales s ON s.id = sd.sale_id
		WHERE s.status <> ? AND s.date >= ? AND s.date < ? AND s.deleted_at IS NULL
		GROUP BY sd.medicine_id
		ORDER BY quantity_sold DESC, revenue DESC
		LIMIT ?
	`, enum.SaleStatusCancelled, from, to, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reportRepository) PurchaseSummary(ctx context.Context, from, to time.Time) (domainRepo.PurchaseSummary, error) {
	var result domainRepo.PurchaseSummary

	db := r.db.WithContext(ctx)
	err := db.Raw(`
		SELECT
			COUNT(*) as count,
			COALESCE(SUM(p.total), 0) as total,
			COALESCE(SUM(p.paid_amount), 0) as paid,
			COALESCE(SUM(p.due_amount), 0) as due
		FROM purchases p
		WHERE p.status <> ? AND p.date >= ? AND p.date < ? AND p.deleted_at IS NULL
	`, enum.PurchaseStatusCancelled, from, to).Scan(&result).Error
	if err != nil {
		return result, err
	}

	err = db.Raw(`
		SELECT
			p.supplier_id as supplier_id,
			COALESCE(MAX(sp.name), '') as supplier_name,
			COUNT(*) as count,
			COALESCE(SUM(p.total), 0) as total,
			COALESCE(SUM(p.due_amount), 0) as due
		FROM purchases p
		LEFT JOIN suppliers sp ON sp.id = p.supplier_id
		WHERE p.status <> ? AND p.date >= ? AND p.date < ? AND p.deleted_at IS NULL
		GROUP BY p.supplier_id
		ORDER BY total DESC
	`, enum.PurchaseStatusCancelled, from, to).Scan(&result.BySupplier).Error
	if result.BySupplier == nil {
		result.BySupplier = []domainRepo.SupplierPurchases{}
	}

	return result, err
}

func (r *reportRepository) StockValuation(ctx context.Context) ([]domainRepo.StockValuation, error) {
	var results []domainRepo.StockValuation

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			m.id as medicine_id,
			m.name as name,
			m.code as code,
			m.quantity as quantity,
			m.quantity * m.tp_unit as tp_value,
			m.quantity * m.mrp_unit as mrp_value
		FROM medicines m
		WHERE m.deleted_at IS NULL
		ORDER BY LOWER(m.name) ASC
	`).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reportRepository) TotalDue(ctx context.Context) (int64, error) {
	var due int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(due_amount), 0)
		FROM sales
		WHERE status = ? AND deleted_at IS NULL
	`, enum.SaleStatusDue).Scan(&due).Error
	return due, err
}

// Repositories wires every gorm repository onto one connection.
func Repositories(db *gorm.DB) *domainRepo.Repositories {
	return &domainRepo.Repositories{
		Medicines:  NewMedicineRepository(db),
		Categories: NewCategoryRepository(db),
		Racks:      NewRackRepository(db),
		Suppliers:  NewSupplierRepository(db),
		Purchases:  NewPurchaseRepository(db),
		Sales:      NewSaleRepository(db),
		Replays:    NewReplayRepository(db),
		Reports:    NewReportRepository(db),
	}
}
