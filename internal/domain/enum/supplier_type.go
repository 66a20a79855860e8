package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// SupplierType is how a supplier sits in the distribution chain.
type SupplierType string

const (
	SupplierTypeDistributor  SupplierType = "distributor"
	SupplierTypeWholesaler   SupplierType = "wholesaler"
	SupplierTypeManufacturer SupplierType = "manufacturer"
)

var supplierTypes = []SupplierType{SupplierTypeDistributor, SupplierTypeWholesaler, SupplierTypeManufacturer}

// ParseSupplierType is case-insensitive; empty means distributor.
func ParseSupplierType(s string) (SupplierType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SupplierTypeDistributor, nil
	}
	for _, t := range supplierTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown supplier type %q", s)
}

func (t SupplierType) String() string {
	return string(t)
}

func (t SupplierType) IsValid() bool {
	_, err := ParseSupplierType(string(t))
	return err == nil && t != ""
}

func (t *SupplierType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSupplierType(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t SupplierType) Value() (driver.Value, error) {
	if t == "" {
		return string(SupplierTypeDistributor), nil
	}
	return string(t), nil
}

func (t *SupplierType) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into SupplierType", value)
	}
	parsed, err := ParseSupplierType(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
