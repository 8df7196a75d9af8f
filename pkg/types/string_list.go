package types

import (
	"database/sql/driver"

	"github.com/lib/pq"
)

// StringList represents a Postgres text[] column.
type StringList []string

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return pq.StringArray(s).Value()
}

// Scan implements sql.Scanner.
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var raw pq.StringArray
	if err := raw.Scan(value); err != nil {
		return err
	}
	*s = StringList(raw)
	return nil
}
