package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/billing"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/apperror"
	"github.com/shopspring/decimal"
)

// LocalItem is a medicine row as the dashboard forms produce it: prices in
// cents and pack sizes as integers.
type LocalItem struct {
	Name          string     `json:"name"`
	GenericName   string     `json:"generic_name"`
	Code          string     `json:"code"`
	Type          string     `json:"type"`
	Strength      string     `json:"strength"`
	Manufacturer  string     `json:"manufacturer"`
	Quantity      int        `json:"quantity"`
	QuantityAlert int        `json:"quantity_alert"`
	StripSize     int        `json:"strip_size"`
	BoxSize       int        `json:"box_size"`
	TPUnitCents   int64      `json:"tp_unit_cents"`
	MRPUnitCents  int64      `json:"mrp_unit_cents"`
	BatchNo       string     `json:"batch_no"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
}

// APIItem is a medicine row from a distributor catalog feed. PackSize is
// "<units per strip>x<strips per box>", e.g. "10x10"; Expiry is either
// YYYY-MM-DD or MM/YYYY.
type APIItem struct {
	ExternalID  string          `json:"id"`
	Title       string          `json:"title"`
	Generic     string          `json:"generic"`
	Form        string          `json:"form"`
	Strength    string          `json:"strength"`
	Company     string          `json:"company"`
	PackSize    string          `json:"pack_size"`
	TradePrice  decimal.Decimal `json:"trade_price"`
	RetailPrice decimal.Decimal `json:"retail_price"`
	Stock       int             `json:"stock"`
	Batch       string          `json:"batch"`
	Expiry      string          `json:"expiry"`
}

// CatalogRecord is one import row tagged with the shape it arrived in.
// Exactly the variant named by Source is read.
type CatalogRecord struct {
	Source enum.RecordSource `json:"source"`
	Local  *LocalItem        `json:"local,omitempty"`
	API    *APIItem          `json:"api,omitempty"`
}

// MedicineDraft is the canonical shape both variants normalize into.
type MedicineDraft struct {
	Name          string
	GenericName   string
	Code          string
	Type          enum.MedicineType
	Strength      string
	Manufacturer  string
	Quantity      int
	QuantityAlert int
	StripSize     int
	BoxSize       int
	TPUnit        decimal.Decimal
	MRPUnit       decimal.Decimal
	BatchNo       string
	ExpiryDate    *time.Time
}

// Normalize converts the record into a MedicineDraft.
func (r CatalogRecord) Normalize() (MedicineDraft, error) {
	switch r.Source {
	case enum.RecordSourceLocal:
		if r.Local == nil {
			return MedicineDraft{}, apperror.NewBadRequestError("local record has no local item")
		}
		return r.Local.normalize()
	case enum.RecordSourceAPI:
		if r.API == nil {
			return MedicineDraft{}, apperror.NewBadRequestError("api record has no api item")
		}
		return r.API.normalize()
	default:
		return MedicineDraft{}, apperror.NewBadRequestError(fmt.Sprintf("unknown record source %q", r.Source))
	}
}

func (l *LocalItem) normalize() (MedicineDraft, error) {
	mt, err := enum.ParseMedicineType(l.Type)
	if err != nil {
		return MedicineDraft{}, apperror.NewBadRequestError(err.Error())
	}
	d := MedicineDraft{
		Name:          strings.TrimSpace(l.Name),
		GenericName:   strings.TrimSpace(l.GenericName),
		Code:          strings.TrimSpace(l.Code),
		Type:          mt,
		Strength:      l.Strength,
		Manufacturer:  l.Manufacturer,
		Quantity:      l.Quantity,
		QuantityAlert: l.QuantityAlert,
		StripSize:     l.StripSize,
		BoxSize:       l.BoxSize,
		TPUnit:        billing.FromCents(l.TPUnitCents),
		MRPUnit:       billing.FromCents(l.MRPUnitCents),
		BatchNo:       l.BatchNo,
		ExpiryDate:    l.ExpiryDate,
	}
	return d, d.validate()
}

func (a *APIItem) normalize() (MedicineDraft, error) {
	mt, err := enum.ParseMedicineType(a.Form)
	if err != nil {
		// Feeds use forms we do not track; keep the row.
		mt = enum.MedicineTypeOther
	}
	strip, box, err := parsePackSize(a.PackSize)
	if err != nil {
		return MedicineDraft{}, apperror.NewBadRequestError(err.Error())
	}
	expiry, err := parseFeedExpiry(a.Expiry)
	if err != nil {
		return MedicineDraft{}, apperror.NewBadRequestError(err.Error())
	}
	d := MedicineDraft{
		Name:         strings.TrimSpace(a.Title),
		GenericName:  strings.TrimSpace(a.Generic),
		Code:         strings.TrimSpace(a.ExternalID),
		Type:         mt,
		Strength:     a.Strength,
		Manufacturer: a.Company,
		Quantity:     a.Stock,
		StripSize:    strip,
		BoxSize:      box,
		TPUnit:       a.TradePrice,
		MRPUnit:      a.RetailPrice,
		BatchNo:      a.Batch,
		ExpiryDate:   expiry,
	}
	return d, d.validate()
}

func (d MedicineDraft) validate() error {
	var fields []apperror.FieldError
	if d.Name == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if d.Quantity < 0 {
		fields = append(fields, apperror.FieldError{Field: "quantity", Message: "cannot be negative"})
	}
	if d.TPUnit.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "tp_unit", Message: "cannot be negative"})
	}
	if d.MRPUnit.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "mrp_unit", Message: "cannot be negative"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields...)
	}
	return nil
}

// parsePackSize reads "10x10", "10 X 5" or a bare "10" (one strip per box).
// An empty string means the item is not packaged.
func parsePackSize(s string) (int, int, error) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if s == "" {
		return 0, 0, nil
	}
	parts := strings.Split(s, "x")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("invalid pack size %q", s)
	}
	strip, err := strconv.Atoi(parts[0])
	if err != nil || strip <= 0 {
		return 0, 0, fmt.Errorf("invalid pack size %q", s)
	}
	box := 1
	if len(parts) == 2 {
		box, err = strconv.Atoi(parts[1])
		if err != nil || box <= 0 {
			return 0, 0, fmt.Errorf("invalid pack size %q", s)
		}
	}
	return strip, box, nil
}

func parseFeedExpiry(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("01/2006", s)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry %q", s)
	}
	// MM/YYYY means usable through the end of that month.
	end := t.AddDate(0, 1, -1)
	return &end, nil
}
