package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SaleStatus is derived from the due amount at submission and changes when
// the due is settled or the sale is voided.
type SaleStatus int

const (
	SaleStatusPaid      SaleStatus = 0
	SaleStatusDue       SaleStatus = 1
	SaleStatusCancelled SaleStatus = 2
)

var saleStatusNames = [...]string{"paid", "due", "cancelled"}

func (s SaleStatus) String() string {
	if s < 0 || int(s) >= len(saleStatusNames) {
		return "unknown"
	}
	return saleStatusNames[s]
}

func ParseSaleStatus(str string) (SaleStatus, error) {
	for i, name := range saleStatusNames {
		if name == str {
			return SaleStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sale status %q", str)
}

func (s SaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SaleStatus(i)
		return nil
	}
	parsed, err := ParseSaleStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SaleStatusPaid
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SaleStatus(v)
	case int32:
		*s = SaleStatus(v)
	case int:
		*s = SaleStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into SaleStatus", value)
	}
	return nil
}
