package repository

// Repositories bundles every store the services depend on so a storage
// driver can be swapped in one place.
type Repositories struct {
	Medicines  MedicineRepository
	Categories CategoryRepository
	Racks      RackRepository
	Suppliers  SupplierRepository
	Purchases  PurchaseRepository
	Sales      SaleRepository
	Replays    ReplayRepository
	Reports    ReportRepository
}
