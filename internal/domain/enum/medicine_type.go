package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// MedicineType is the dosage form. Only tablets and capsules come in
// strips and boxes; everything else is priced per unit.
type MedicineType string

const (
	MedicineTypeTablet    MedicineType = "tablet"
	MedicineTypeCapsule   MedicineType = "capsule"
	MedicineTypeSyrup     MedicineType = "syrup"
	MedicineTypeInjection MedicineType = "injection"
	MedicineTypeOintment  MedicineType = "ointment"
	MedicineTypeDrops     MedicineType = "drops"
	MedicineTypeOther     MedicineType = "other"
)

var medicineTypes = []MedicineType{
	MedicineTypeTablet, MedicineTypeCapsule, MedicineTypeSyrup,
	MedicineTypeInjection, MedicineTypeOintment, MedicineTypeDrops, MedicineTypeOther,
}

// ParseMedicineType is case-insensitive. An empty string means other.
func ParseMedicineType(s string) (MedicineType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MedicineTypeOther, nil
	}
	for _, t := range medicineTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown medicine type %q", s)
}

func (t MedicineType) String() string {
	return string(t)
}

// IsPackaged reports whether strip and box prices apply.
func (t MedicineType) IsPackaged() bool {
	return t == MedicineTypeTablet || t == MedicineTypeCapsule
}

func (t MedicineType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *MedicineType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseMedicineType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t MedicineType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *MedicineType) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = MedicineTypeOther
	case string:
		*t = MedicineType(v)
	case []byte:
		*t = MedicineType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into MedicineType", value)
	}
	return nil
}
