package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is stored as a JSON array in a text column.
type StringList []string

// PhoneticList is stored as a JSON array in a text column.
type PhoneticList []Phonetic

// Scan implements sql.Scanner
func (v *StringList) Scan(src any) error {
	return scanJSON(src, v, "StringList")
}

// Value implements driver.Valuer
func (v StringList) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	return valueJSON(v)
}

// Scan implements sql.Scanner
func (p *PhoneticList) Scan(src any) error {
	return scanJSON(src, p, "PhoneticList")
}

// Value implements driver.Valuer
func (p PhoneticList) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return valueJSON(p)
}

func scanJSON(src any, dst any, name string) error {
	switch data := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(data) == 0 {
			return nil
		}
		return json.Unmarshal(data, dst)
	case string:
		if data == "" {
			return nil
		}
		return json.Unmarshal([]byte(data), dst)
	default:
		return fmt.Errorf("%s: unsupported src type %T", name, src)
	}
}

func valueJSON(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
