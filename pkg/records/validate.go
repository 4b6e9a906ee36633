package records

import (
	"fmt"
	"math"
	"net/mail"
	"strings"
)

// ValidationError reports a document field that fails its declared
// constraint. Boundaries map it to a client error before any store access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// Validate checks a document against the rules declared for a collection.
// Fields not declared in the rules are rejected. Returns nil when the
// document conforms.
func Validate(collName string, doc map[string]interface{}) error {
	rules, ok := registry[collName]
	if !ok {
		return fmt.Errorf("no record rules declared for collection %s", collName)
	}

	declared := make(map[string]Field, len(rules.Fields))
	for _, field := range rules.Fields {
		declared[field.Name] = field
	}
	for name := range doc {
		if name == "_id" {
			continue
		}
		if _, ok := declared[name]; !ok {
			return &ValidationError{Field: name, Reason: "unknown field"}
		}
	}

	for _, field := range rules.Fields {
		value, present := doc[field.Name]
		if !present || value == nil {
			if field.Required {
				return &ValidationError{Field: field.Name, Reason: "required"}
			}
			continue
		}
		if err := checkField(field, value); err != nil {
			return err
		}
	}
	return nil
}

func checkField(field Field, value interface{}) error {
	switch field.Kind {
	case KindString:
		str, ok := value.(string)
		if !ok {
			return &ValidationError{Field: field.Name, Reason: "must be a string"}
		}
		if field.Required && str == "" {
			return &ValidationError{Field: field.Name, Reason: "required"}
		}
		if field.MinLen > 0 && len(str) < field.MinLen {
			return &ValidationError{Field: field.Name, Reason: fmt.Sprintf("must be at least %d characters", field.MinLen)}
		}
		if field.MaxLen > 0 && len(str) > field.MaxLen {
			return &ValidationError{Field: field.Name, Reason: fmt.Sprintf("must be at most %d characters", field.MaxLen)}
		}
		if field.Email && !validEmail(str) {
			return &ValidationError{Field: field.Name, Reason: "must be a valid email address"}
		}
	case KindNumber:
		if _, ok := toFloat64(value); !ok {
			return &ValidationError{Field: field.Name, Reason: "must be a number"}
		}
	case KindInt:
		num, ok := toFloat64(value)
		if !ok || num != math.Trunc(num) {
			return &ValidationError{Field: field.Name, Reason: "must be an integer"}
		}
	case KindStringList:
		if !stringList(value) {
			return &ValidationError{Field: field.Name, Reason: "must be a list of strings"}
		}
	}
	return nil
}

// validEmail accepts bare addresses only, not the display-name forms that
// mail.ParseAddress would otherwise allow.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && strings.Contains(s, "@")
}

func toFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func stringList(value interface{}) bool {
	switch list := value.(type) {
	case []string:
		return true
	case []interface{}:
		for _, item := range list {
			if _, ok := item.(string); !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}
