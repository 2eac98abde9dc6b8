package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/PGMA10/rrak-website/internal/domain"
	"github.com/PGMA10/rrak-website/pkg/csvexport"
)

// Field is one named, optional value of a row as it is exported or shown
// in a notification. A nil Value means the row does not carry the field.
type Field = csvexport.Field

// Submission is implemented by every publicly submitted model.
type Submission interface {
	Kind() domain.Entity
	Fields() []Field
}

func text(name, value string) Field {
	return Field{Name: name, Value: &value}
}

func optional(name string, value *string) Field {
	if value == nil || strings.TrimSpace(*value) == "" {
		return Field{Name: name}
	}
	return Field{Name: name, Value: value}
}

func id(value uint) Field {
	s := strconv.FormatUint(uint64(value), 10)
	return Field{Name: "id", Value: &s}
}

func timestamp(name string, value time.Time) Field {
	if value.IsZero() {
		return Field{Name: name}
	}
	s := value.UTC().Format(time.RFC3339)
	return Field{Name: name, Value: &s}
}

func optionalTimestamp(name string, value *time.Time) Field {
	if value == nil {
		return Field{Name: name}
	}
	return timestamp(name, *value)
}

func boolean(name string, value bool) Field {
	s := strconv.FormatBool(value)
	return Field{Name: name, Value: &s}
}

func list(name string, value StringList) Field {
	if len(value) == 0 {
		return Field{Name: name}
	}
	s := strings.Join(value, ", ")
	return Field{Name: name, Value: &s}
}

// StringList persists a multi-select answer as a JSON array in a text
// column so the same model works on postgres, mysql and sqlite.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return errors.New("models: unsupported StringList source")
	}
	if len(raw) == 0 {
		*s = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*s = out
	return nil
}

func (StringList) GormDataType() string {
	return "text"
}

func (s StringList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}
