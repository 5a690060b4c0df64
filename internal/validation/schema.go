package validation

import (
	"regexp"
	"strings"
)

// FormKey is the reserved error-map key for failures that cannot be mapped
// to a concrete field (an internal validator fault rather than bad input).
// Callers must not assume every failure maps to a real field.
const FormKey = "form"

const genericFormError = "An unexpected error occurred during validation"

// FormData is the raw submission being validated. String fields hold string
// values; file fields hold *FileMeta (nil or absent meaning "no file").
type FormData map[string]interface{}

// Result is produced fresh per validation attempt and never mutated.
type Result struct {
	Success bool
	Data    FormData
	Errors  map[string]string
}

// Rule is a single declarative constraint on a field value.
type Rule struct {
	Check   func(value interface{}) bool
	Message string
}

// Field is a named field with its ordered rule list.
type Field struct {
	Name  string
	Rules []Rule
}

// CrossRule is a constraint spanning multiple fields; its error is reported
// under Path.
type CrossRule struct {
	Path    string
	Check   func(data FormData) bool
	Message string
}

// Schema is a declarative description of a form payload. Validation is pure:
// the same (schema, data) pair always yields the same result.
type Schema struct {
	Name       string
	Fields     []Field
	CrossRules []CrossRule
}

// Validate checks data against the schema and returns a field-keyed error map.
// Every violated rule writes its message under the field's path; when a field
// violates several rules the last one evaluated wins. That overwrite behavior
// is kept for compatibility with the previous validation layer's error
// formatting, not because the winning message is meaningful.
func (s *Schema) Validate(data FormData) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{
				Success: false,
				Errors:  map[string]string{FormKey: genericFormError},
			}
		}
	}()

	errors := make(map[string]string)

	for _, field := range s.Fields {
		value := data[field.Name]
		for _, rule := range field.Rules {
			if !rule.Check(value) {
				errors[field.Name] = rule.Message
			}
		}
	}

	for _, cross := range s.CrossRules {
		if !cross.Check(data) {
			errors[cross.Path] = cross.Message
		}
	}

	if len(errors) > 0 {
		return Result{Success: false, Errors: errors}
	}

	return Result{Success: true, Data: data}
}

// --- rule constructors ---

// stringValue coerces a form value to a string; nil and non-string values
// become the empty string.
func stringValue(value interface{}) string {
	s, _ := value.(string)
	return s
}

// fileValue coerces a form value to a *FileMeta; anything else is nil.
func fileValue(value interface{}) *FileMeta {
	f, _ := value.(*FileMeta)
	return f
}

// Required fails on an absent or empty string value
func Required(message string) Rule {
	return Rule{
		Check:   func(v interface{}) bool { return stringValue(v) != "" },
		Message: message,
	}
}

// MaxLen fails when the string value exceeds max characters
func MaxLen(max int, message string) Rule {
	return Rule{
		Check:   func(v interface{}) bool { return len([]rune(stringValue(v))) <= max },
		Message: message,
	}
}

// MinLen fails when a present string value is shorter than min characters
func MinLen(min int, message string) Rule {
	return Rule{
		Check:   func(v interface{}) bool { return len([]rune(stringValue(v))) >= min },
		Message: message,
	}
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email fails when a present string value is not an email address
func Email(message string) Rule {
	return Rule{
		Check: func(v interface{}) bool {
			s := stringValue(v)
			return s == "" || emailRegex.MatchString(s)
		},
		Message: message,
	}
}

// Matches fails when a present string value does not match the pattern
func Matches(pattern *regexp.Regexp, message string) Rule {
	return Rule{
		Check: func(v interface{}) bool {
			s := stringValue(v)
			return s == "" || pattern.MatchString(s)
		},
		Message: message,
	}
}

// OneOf fails when a present string value is not in the allowed set
func OneOf(allowed []string, message string) Rule {
	return Rule{
		Check: func(v interface{}) bool {
			s := stringValue(v)
			if s == "" {
				return true
			}
			for _, a := range allowed {
				if strings.EqualFold(s, a) {
					return true
				}
			}
			return false
		},
		Message: message,
	}
}

// FileWellFormed fails when a present value is not a file handle at all.
// A nil *FileMeta boxed in the interface still means "no file": handlers pass
// the pointer through unconditionally, so absence must be judged on the
// pointer, not on the interface value.
func FileWellFormed() Rule {
	return Rule{
		Check: func(v interface{}) bool {
			if v == nil {
				return true
			}
			_, ok := v.(*FileMeta)
			return ok
		},
		Message: "Invalid file",
	}
}

// FileMaxSize fails when a present file exceeds maxSize bytes
func FileMaxSize(maxSize int64, message string) Rule {
	return Rule{
		Check: func(v interface{}) bool {
			f := fileValue(v)
			return f == nil || f.Size <= maxSize
		},
		Message: message,
	}
}

// FileType fails when a present file has a content type outside allowedTypes
func FileType(allowedTypes []string, message string) Rule {
	return Rule{
		Check: func(v interface{}) bool {
			f := fileValue(v)
			return f == nil || containsType(allowedTypes, f.ContentType)
		},
		Message: message,
	}
}

// FileRequired fails when no file is present
func FileRequired(message string) Rule {
	return Rule{
		Check:   func(v interface{}) bool { return fileValue(v) != nil },
		Message: message,
	}
}
