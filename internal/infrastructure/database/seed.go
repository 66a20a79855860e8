package database

import (
	"context"
	"fmt"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedMedicine struct {
	name, generic, strength, manufacturer string
	kind                                  enum.MedicineType
	category, rack                        int
	stripSize, boxSize                    int
	tp, mrp                               string
	quantity, alert                       int
	expiresInDays                         int
}

var demoMedicines = []seedMedicine{
	{"Napa", "Paracetamol", "500mg", "Beximco", enum.MedicineTypeTablet, 0, 0, 10, 10, "0.80", "1.20", 1200, 100, 400},
	{"Seclo", "Omeprazole", "20mg", "Square", enum.MedicineTypeCapsule, 1, 0, 10, 5, "4.50", "6.00", 300, 50, 240},
	{"Fexo", "Fexofenadine", "120mg", "Square", enum.MedicineTypeTablet, 2, 1, 10, 3, "7.00", "9.00", 40, 50, 60},
	{"Tusca", "Dextromethorphan", "100ml", "Incepta", enum.MedicineTypeSyrup, 2, 1, 0, 0, "70.00", "85.00", 24, 10, 30},
	{"Ceftron", "Ceftriaxone", "1g", "Incepta", enum.MedicineTypeInjection, 3, 2, 0, 0, "160.00", "200.00", 15, 5, 500},
	{"Burnol", "Aminacrine", "20g", "Opsonin", enum.MedicineTypeOintment, 3, 2, 0, 0, "35.00", "45.00", 8, 10, 120},
}

// SeedDemoData fills an empty store with a small catalogue. It goes
// through the repository interfaces so both storage drivers share it.
func SeedDemoData(ctx context.Context, repos *repository.Repositories, log *zap.Logger) error {
	existing, err := repos.Medicines.Count(ctx, nil)
	if err != nil {
		return fmt.Errorf("count medicines: %w", err)
	}
	if existing > 0 {
		log.Info("demo data already present, skipping seed", zap.Int64("medicines", existing))
		return nil
	}

	categories := []entity.Category{
		{Name: "Analgesic"}, {Name: "Antacid"}, {Name: "Antihistamine"}, {Name: "Antibiotic"},
	}
	for i := range categories {
		categories[i].Slug = utils.Slugify(categories[i].Name)
		if err := repos.Categories.Create(ctx, &categories[i]); err != nil {
			return fmt.Errorf("seed category %s: %w", categories[i].Name, err)
		}
	}

	racks := []entity.Rack{
		{Name: "Front counter", Code: "R-A1", Location: "Counter", Capacity: 40},
		{Name: "Cold shelf", Code: "R-B1", Location: "Back wall", Capacity: 20},
		{Name: "Injectables", Code: "R-C1", Location: "Store room"},
	}
	for i := range racks {
		if err := repos.Racks.Create(ctx, &racks[i]); err != nil {
			return fmt.Errorf("seed rack %s: %w", racks[i].Code, err)
		}
	}

	supplier := entity.Supplier{
		Name:          "Popular Distributors",
		ContactPerson: "Rahim Uddin",
		Phone:         "+8801700000000",
		Type:          enum.SupplierTypeDistributor,
		Active:        true,
	}
	if err := repos.Suppliers.Create(ctx, &supplier); err != nil {
		return fmt.Errorf("seed supplier: %w", err)
	}

	medicines := make([]entity.Medicine, 0, len(demoMedicines))
	for _, s := range demoMedicines {
		expiry := time.Now().AddDate(0, 0, s.expiresInDays).Truncate(24 * time.Hour)
		m := entity.Medicine{
			ID:            uuid.New(),
			CategoryID:    &categories[s.category].ID,
			RackID:        &racks[s.rack].ID,
			SupplierID:    &supplier.ID,
			Name:          s.name,
			GenericName:   s.generic,
			Slug:          utils.Slugify(s.name + " " + s.strength),
			Code:          utils.GenerateMedicineCode(),
			Type:          s.kind,
			Strength:      s.strength,
			Manufacturer:  s.manufacturer,
			Quantity:      s.quantity,
			QuantityAlert: s.alert,
			BatchNo:       "DEMO-01",
			ExpiryDate:    &expiry,
			StripSize:     s.stripSize,
			BoxSize:       s.boxSize,
		}
		m.ApplyPricing(decimal.RequireFromString(s.tp), decimal.RequireFromString(s.mrp))
		medicines = append(medicines, m)
	}
	if err := repos.Medicines.CreateBatch(ctx, medicines); err != nil {
		return fmt.Errorf("seed medicines: %w", err)
	}

	log.Info("demo data seeded",
		zap.Int("categories", len(categories)),
		zap.Int("racks", len(racks)),
		zap.Int("medicines", len(medicines)),
	)
	return nil
}
