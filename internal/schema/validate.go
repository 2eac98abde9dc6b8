package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/PGMA10/rrak-website/internal/domain"
	"github.com/PGMA10/rrak-website/pkg/slug"
)

// Errors maps a field name to its first failing message.
type Errors map[string]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// First returns the message of the first failing field in rule order.
func (e Errors) First(entity domain.Entity) string {
	for _, r := range Table[entity] {
		if msg, ok := e[r.Field]; ok {
			return msg
		}
	}
	for _, msg := range e {
		return msg
	}
	return ""
}

var ErrUnknownEntity = errors.New("schema: unknown entity")

// Decode validates raw against the entity's rules and decodes the accepted
// fields into a fresh T. Keys outside the rule set are dropped.
func Decode[T any](entity domain.Entity, raw map[string]any) (*T, error) {
	clean, err := Check(entity, raw, false)
	if err != nil {
		return nil, err
	}
	return into[T](clean)
}

// Check validates raw and returns the normalized field map. With partial
// set only the keys present in raw are validated, for PATCH-style updates.
func Check(entity domain.Entity, raw map[string]any, partial bool) (map[string]any, error) {
	rules, ok := Table[entity]
	if !ok {
		return nil, ErrUnknownEntity
	}

	clean := make(map[string]any, len(rules))
	keys := make([]*validation.KeyRules, 0, len(rules))
	for _, r := range rules {
		v, present := raw[r.Field]
		if partial && !present {
			continue
		}
		clean[r.Field] = normalize(r, v)
		keys = append(keys, validation.Key(r.Field, fieldRules(r)...))
	}

	if err := validation.Validate(clean, validation.Map(keys...)); err != nil {
		return nil, toErrors(err)
	}

	for k, v := range clean {
		if v == nil {
			delete(clean, k)
		}
	}
	return clean, nil
}

func into[T any](clean map[string]any) (*T, error) {
	b, err := json.Marshal(clean)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := json.Unmarshal(b, out); err != nil {
		return nil, err
	}
	return out, nil
}

func toErrors(err error) error {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, len(verrs))
	for field, fe := range verrs {
		out[field] = fe.Error()
	}
	return out
}

// normalize trims strings, folds blank optionals to nil, lowercases emails
// and drops empty list entries. Values of the wrong type are passed
// through untouched so the type rule can report them.
func normalize(r FieldRule, v any) any {
	switch r.Format {
	case FormatList:
		items, ok := v.([]any)
		if !ok {
			if v == nil {
				return []string{}
			}
			return v
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			s, ok := it.(string)
			if !ok {
				return v
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case FormatBoolean:
		return v
	default:
		s, ok := v.(string)
		if !ok {
			return v
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if r.Format == FormatEmail {
			s = strings.ToLower(s)
		}
		return s
	}
}

func fieldRules(r FieldRule) []validation.Rule {
	var rules []validation.Rule
	if r.Required {
		msg := r.Label + " is required"
		if r.Format == FormatList && r.Message != "" {
			msg = r.Message
		}
		rules = append(rules, validation.Required.Error(msg))
	}

	switch r.Format {
	case FormatList:
		rules = append(rules, validation.By(isStringList(r.Label)))
		if r.MinItems > 1 {
			rules = append(rules, validation.Length(r.MinItems, 0).Error(r.Message))
		}
	case FormatBoolean:
		rules = append(rules, validation.By(isBool(r.Label)))
	default:
		rules = append(rules, validation.By(isString(r.Label)))
		if r.MaxLength > 0 {
			rules = append(rules, validation.RuneLength(0, r.MaxLength).
				Error(fmt.Sprintf("%s must be at most %d characters", r.Label, r.MaxLength)))
		}
	}

	switch r.Format {
	case FormatEmail:
		rules = append(rules, is.EmailFormat.Error(r.Message))
	case FormatSlug:
		rules = append(rules, validation.By(func(v any) error {
			if s, ok := v.(string); ok && !slug.IsValid(s) {
				return errors.New(r.Message)
			}
			return nil
		}))
	case FormatDateTime:
		rules = append(rules, validation.By(func(v any) error {
			if s, ok := v.(string); ok {
				if _, err := ParseDateTime(s, time.UTC); err != nil {
					return errors.New(r.Message)
				}
			}
			return nil
		}))
	}
	return rules
}

func isString(label string) validation.RuleFunc {
	return func(v any) error {
		if v == nil {
			return nil
		}
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%s must be text", label)
		}
		return nil
	}
}

func isStringList(label string) validation.RuleFunc {
	return func(v any) error {
		if v == nil {
			return nil
		}
		if _, ok := v.([]string); !ok {
			return fmt.Errorf("%s must be a list of text values", label)
		}
		return nil
	}
}

func isBool(label string) validation.RuleFunc {
	return func(v any) error {
		if v == nil {
			return nil
		}
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("%s must be true or false", label)
		}
		return nil
	}
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDateTime accepts RFC 3339 timestamps as-is and zone-less local
// timestamps interpreted in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date and time %q", s)
}
