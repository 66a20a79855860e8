package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/google/uuid"
)

type reportRepository struct {
	s *Store
}

// eachSale visits the non-cancelled sales dated in [from, to).
// The caller holds the read lock.
func (s *Store) eachSale(from, to time.Time, fn func(sale entity.Sale)) {
	for _, sale := range s.sales {
		if sale.Status == enum.SaleStatusCancelled || !inRange(sale.Date, &from, &to) {
			continue
		}
		fn(sale)
	}
}

func (r *reportRepository) SalesSummary(_ context.Context, from, to time.Time) (repository.SalesSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var sum repository.SalesSummary
	r.s.eachSale(from, to, func(sale entity.Sale) {
		sum.Count++
		sum.Gross += sale.SubTotal
		sum.Discount += sale.DiscountAmount
		sum.VAT += sale.VATAmount
		sum.Shipping += sale.ShippingFee
		sum.Net += sale.GrandTotal
		sum.Received += sale.ReceivedAmount - sale.ReturnAmount
		sum.Due += sale.DueAmount
		for _, d := range sale.Details {
			sum.Cost += d.UnitCost * int64(d.Quantity)
		}
	})
	return sum, nil
}

func (r *reportRepository) DailySales(_ context.Context, from, to time.Time) ([]repository.DailySales, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byDay := make(map[time.Time]*repository.DailySales)
	r.s.eachSale(from, to, func(sale entity.Sale) {
		y, m, d := sale.Date.In(from.Location()).Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, from.Location())
		row, ok := byDay[day]
		if !ok {
			row = &repository.DailySales{Date: day}
			byDay[day] = row
		}
		row.Count++
		row.Net += sale.GrandTotal
	})

	out := make([]repository.DailySales, 0, len(byDay))
	for _, row := range byDay {
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b repository.DailySales) int { return a.Date.Compare(b.Date) })
	return out, nil
}

func (r *reportRepository) TopMedicines(_ context.Context, from, to time.Time, limit int) ([]repository.TopMedicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byMedicine := make(map[uuid.UUID]*repository.TopMedicine)
	r.s.eachSale(from, to, func(sale entity.Sale) {
		for _, d := range sale.Details {
			row, ok := byMedicine[d.MedicineID]
			if !ok {
				row = &repository.TopMedicine{MedicineID: d.MedicineID, MedicineName: d.MedicineName}
				byMedicine[d.MedicineID] = row
			}
			row.QuantitySold += int64(d.Quantity)
			row.Revenue += d.Total
		}
	})

	out := make([]repository.TopMedicine, 0, len(byMedicine))
	for _, row := range byMedicine {
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b repository.TopMedicine) int {
		if c := cmp.Compare(b.QuantitySold, a.QuantitySold); c != 0 {
			return c
		}
		return cmp.Compare(b.Revenue, a.Revenue)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *reportRepository) PurchaseSummary(_ context.Context, from, to time.Time) (repository.PurchaseSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var sum repository.PurchaseSummary
	bySupplier := make(map[uuid.UUID]*repository.SupplierPurchases)
	for _, p := range r.s.purchases {
		if p.Status == enum.PurchaseStatusCancelled || !inRange(p.Date, &from, &to) {
			continue
		}
		sum.Count++
		sum.Total += p.Total
		sum.Paid += p.PaidAmount
		sum.Due += p.DueAmount

		row, ok := bySupplier[p.SupplierID]
		if !ok {
			row = &repository.SupplierPurchases{SupplierID: p.SupplierID}
			if sp, found := r.s.suppliers[p.SupplierID]; found {
				row.SupplierName = sp.Name
			}
			bySupplier[p.SupplierID] = row
		}
		row.Count++
		row.Total += p.Total
		row.Due += p.DueAmount
	}

	sum.BySupplier = make([]repository.SupplierPurchases, 0, len(bySupplier))
	for _, row := range bySupplier {
		sum.BySupplier = append(sum.BySupplier, *row)
	}
	slices.SortFunc(sum.BySupplier, func(a, b repository.SupplierPurchases) int { return cmp.Compare(b.Total, a.Total) })
	return sum, nil
}

func (r *reportRepository) StockValuation(context.Context) ([]repository.StockValuation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]repository.StockValuation, 0, len(r.s.medicines))
	for _, m := range r.s.medicines {
		qty := int64(m.Quantity)
		out = append(out, repository.StockValuation{
			MedicineID: m.ID,
			Name:       m.Name,
			Code:       m.Code,
			Quantity:   qty,
			TPValue:    qty * m.TPUnit,
			MRPValue:   qty * m.MRPUnit,
		})
	}
	slices.SortFunc(out, func(a, b repository.StockValuation) int { return compareFold(a.Name, b.Name) })
	return out, nil
}

func (r *reportRepository) TotalDue(context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var due int64
	for _, sale := range r.s.sales {
		if sale.Status == enum.SaleStatusDue {
			due += sale.DueAmount
		}
	}
	return due, nil
}
