package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/lib/pq"
)

// StringArray maps a PostgreSQL TEXT[] column (room amenities)
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	return pq.Array([]string(a)).Value()
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = StringArray{}
		return nil
	}
	slice := (*[]string)(a)
	return pq.Array(slice).Scan(src)
}

// MarshalJSON renders a nil array as [] so clients never see null
func (a StringArray) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}
