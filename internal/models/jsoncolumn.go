package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONColumn stores any JSON-marshalable value as a TEXT column. SQLite has
// no native array/object column type, so the cache store (component C)
// keeps ordered images, typed attributes, and variation-id lists this way,
// the same role the teacher's `gorm:"type:jsonb"` tags played against
// Postgres.
type JSONColumn[T any] struct {
	V T
}

func NewJSONColumn[T any](v T) JSONColumn[T] {
	return JSONColumn[T]{V: v}
}

func (c JSONColumn[T]) GormDataType() string {
	return "text"
}

func (c *JSONColumn[T]) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("models: JSONColumn.Scan: unsupported source type")
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, &c.V)
}

func (c JSONColumn[T]) Value() (driver.Value, error) {
	bytes, err := json.Marshal(c.V)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}
