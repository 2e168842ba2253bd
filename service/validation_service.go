package service

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldRule describes the checks for one schema field. Checks run in order:
// presence, type, length/range, pattern/format, injection scan.
type FieldRule struct {
	Type        string // "string" or "integer"
	Required    bool
	MinLength   int
	MaxLength   int
	Min         *int
	Max         *int
	Pattern     *regexp.Regexp
	EmailFormat bool
}

// Schema maps field names to their rules. Schemas are closed: payload fields
// not present in the schema reject the whole payload.
type Schema map[string]FieldRule

func intPtr(v int) *int { return &v }

var RegistrationSchema = Schema{
	"name": {
		Type:      "string",
		Required:  true,
		MinLength: 2,
		MaxLength: 100,
		Pattern:   regexp.MustCompile(`^[a-zA-Z\s\-']+$`),
	},
	"email": {
		Type:        "string",
		Required:    true,
		MaxLength:   255,
		EmailFormat: true,
	},
	"phone": {
		Type:     "string",
		Required: true,
		Pattern:  regexp.MustCompile(`^\+?[1-9]\d{1,14}$`),
	},
	"tenant": {
		Type:      "string",
		Required:  true,
		MinLength: 2,
		MaxLength: 100,
		Pattern:   regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`),
	},
	"password": {
		Type:      "string",
		Required:  true,
		MinLength: 8,
		MaxLength: 128,
	},
}

var SignInSchema = Schema{
	"email": {
		Type:        "string",
		Required:    true,
		EmailFormat: true,
	},
	"password": {
		Type:     "string",
		Required: true,
	},
}

var FeedbackSchema = Schema{
	"overall_rating": {
		Type:     "integer",
		Required: true,
		Min:      intPtr(1),
		Max:      intPtr(5),
	},
	"experience_rating": {
		Type:     "integer",
		Required: true,
		Min:      intPtr(1),
		Max:      intPtr(5),
	},
	"comments": {
		Type:      "string",
		Required:  true,
		MinLength: 10,
		MaxLength: 2000,
	},
	"feature_satisfaction": {
		Type: "integer",
		Min:  intPtr(1),
		Max:  intPtr(5),
	},
	"ui_rating": {
		Type: "integer",
		Min:  intPtr(1),
		Max:  intPtr(5),
	},
	"recommendation_likelihood": {
		Type: "integer",
		Min:  intPtr(1),
		Max:  intPtr(10),
	},
	"additional_suggestions": {
		Type:      "string",
		MaxLength: 1000,
	},
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Signatures matched case-insensitively against every string field. A hit
// rejects the field with a generic message so the signature set is not
// leaked to callers.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)<iframe`),
	regexp.MustCompile(`(?i)<object`),
	regexp.MustCompile(`(?i)<embed`),
	regexp.MustCompile(`(?is)(\bUNION\b|\bSELECT\b|\bINSERT\b|\bUPDATE\b|\bDELETE\b|\bDROP\b).*(\bFROM\b|\bWHERE\b|\bINTO\b)`),
	regexp.MustCompile(`--`),
	regexp.MustCompile(`(?s)/\*.*\*/`),
}

var passwordSymbolPattern = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{}|;:,.<>?]`)

// ValidationService validates payloads against declarative schemas. It is
// stateless and never logs or persists.
type ValidationService struct{}

func NewValidationService() *ValidationService {
	return &ValidationService{}
}

// Validate checks payload against schema and returns (ok, message, field).
// field is empty when the failure is not attributable to a single field.
func (s *ValidationService) Validate(payload map[string]interface{}, schema Schema) (bool, string, string) {
	var unexpected []string
	for name := range payload {
		if _, ok := schema[name]; !ok {
			unexpected = append(unexpected, name)
		}
	}
	if len(unexpected) > 0 {
		return false, fmt.Sprintf("Unexpected fields: %s", strings.Join(unexpected, ", ")), ""
	}

	for name, rule := range schema {
		value, present := payload[name]

		if rule.Required {
			if !present || value == nil || isBlankString(value) {
				return false, fmt.Sprintf("%s is required", name), name
			}
		}
		if !present || value == nil {
			continue
		}

		switch rule.Type {
		case "string":
			str, ok := value.(string)
			if !ok {
				return false, fmt.Sprintf("%s must be a string", name), name
			}
			if rule.MinLength > 0 && len(str) < rule.MinLength {
				return false, fmt.Sprintf("%s must be at least %d characters", name, rule.MinLength), name
			}
			if rule.MaxLength > 0 && len(str) > rule.MaxLength {
				return false, fmt.Sprintf("%s must not exceed %d characters", name, rule.MaxLength), name
			}
			if rule.Pattern != nil && !rule.Pattern.MatchString(str) {
				return false, fmt.Sprintf("%s format is invalid", name), name
			}
			if rule.EmailFormat {
				if ok, msg := s.ValidateEmail(str); !ok {
					return false, msg, name
				}
			}
			if s.DetectInjectionPatterns(str) {
				return false, fmt.Sprintf("%s contains potentially malicious content", name), name
			}
		case "integer":
			n, ok := toInt(value)
			if !ok {
				return false, fmt.Sprintf("%s must be an integer", name), name
			}
			if rule.Min != nil && n < *rule.Min {
				return false, fmt.Sprintf("%s must be at least %d", name, *rule.Min), name
			}
			if rule.Max != nil && n > *rule.Max {
				return false, fmt.Sprintf("%s must not exceed %d", name, *rule.Max), name
			}
		}
	}

	return true, "", ""
}

// ValidateEmail checks the simplified RFC 5322 email format.
func (s *ValidationService) ValidateEmail(email string) (bool, string) {
	if email == "" {
		return false, "Email is required"
	}
	if !emailPattern.MatchString(email) {
		return false, "Invalid email format"
	}
	return true, ""
}

// ValidatePasswordStrength enforces length 8-128 and at least one uppercase
// letter, lowercase letter, digit, and special character.
func (s *ValidationService) ValidatePasswordStrength(password string) (bool, string) {
	if password == "" {
		return false, "Password is required"
	}
	if len(password) < 8 {
		return false, "Password must be at least 8 characters long"
	}
	if len(password) > 128 {
		return false, "Password must not exceed 128 characters"
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return false, "Password must contain at least one uppercase letter"
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		return false, "Password must contain at least one lowercase letter"
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		return false, "Password must contain at least one digit"
	}
	if !passwordSymbolPattern.MatchString(password) {
		return false, "Password must contain at least one special character"
	}
	return true, ""
}

// DetectInjectionPatterns reports whether input matches any of the fixed
// injection signatures.
func (s *ValidationService) DetectInjectionPatterns(input string) bool {
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(input) {
			return true
		}
	}
	return false
}

func isBlankString(v interface{}) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// toInt accepts int and whole-number float64 (JSON numbers decode as
// float64 from map payloads).
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
