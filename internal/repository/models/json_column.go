package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// JSONList stores a slice as a JSON array in a CLOB column.
type JSONList[T any] []T

// Value implements the driver.Valuer interface
func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (l *JSONList[T]) Scan(value interface{}) error {
	var raw []byte

	switch v := value.(type) {
	case nil:
		*l = JSONList[T]{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case fmt.Stringer:
		raw = []byte(v.String())
	default:
		return errors.New("JSONList Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(raw) == 0 || string(raw) == "null" {
		*l = JSONList[T]{}
		return nil
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("JSONList Scan: %w", err)
	}
	*l = out
	return nil
}
