package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PurchaseStatus tracks a purchase order from placement to stock receipt.
// Received and cancelled are final.
type PurchaseStatus int

const (
	PurchaseStatusPending PurchaseStatus = iota
	PurchaseStatusReceived
	PurchaseStatusCancelled
)

var purchaseStatusNames = [...]string{"pending", "received", "cancelled"}

func (s PurchaseStatus) String() string {
	if s < 0 || int(s) >= len(purchaseStatusNames) {
		return "unknown"
	}
	return purchaseStatusNames[s]
}

func ParsePurchaseStatus(str string) (PurchaseStatus, error) {
	for i, name := range purchaseStatusNames {
		if name == str {
			return PurchaseStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown purchase status %q", str)
}

// Open reports whether the purchase can still be edited, received,
// cancelled or deleted.
func (s PurchaseStatus) Open() bool {
	return s == PurchaseStatusPending
}

// TransitionTo validates a status change.
func (s PurchaseStatus) TransitionTo(next PurchaseStatus) error {
	if !s.Open() || next == PurchaseStatusPending {
		return fmt.Errorf("a %s purchase cannot become %s", s, next)
	}
	return nil
}

func (s PurchaseStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON takes the name or the stored number.
func (s *PurchaseStatus) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*s = PurchaseStatus(n)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParsePurchaseStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s PurchaseStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PurchaseStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = PurchaseStatusPending
	case int64:
		*s = PurchaseStatus(v)
	case int32:
		*s = PurchaseStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into PurchaseStatus", value)
	}
	return nil
}
