package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFeedbackPayload() map[string]interface{} {
	return map[string]interface{}{
		"overall_rating":    4,
		"experience_rating": 5,
		"comments":          "The dashboard works well for our team",
	}
}

func TestValidateFeedbackRatingBounds(t *testing.T) {
	s := NewValidationService()

	tests := []struct {
		name    string
		field   string
		value   int
		wantOK  bool
		wantMsg string
	}{
		{"overall rating below range", "overall_rating", 0, false, "overall_rating must be at least 1"},
		{"overall rating lower bound", "overall_rating", 1, true, ""},
		{"overall rating upper bound", "overall_rating", 5, true, ""},
		{"overall rating above range", "overall_rating", 6, false, "overall_rating must not exceed 5"},
		{"recommendation upper bound", "recommendation_likelihood", 10, true, ""},
		{"recommendation above range", "recommendation_likelihood", 11, false, "recommendation_likelihood must not exceed 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validFeedbackPayload()
			payload[tt.field] = tt.value

			ok, msg, field := s.Validate(payload, FeedbackSchema)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, tt.wantMsg, msg)
				assert.Equal(t, tt.field, field)
			}
		})
	}
}

func TestValidateCommentLength(t *testing.T) {
	s := NewValidationService()

	tests := []struct {
		name   string
		length int
		wantOK bool
	}{
		{"one below minimum", 9, false},
		{"at minimum", 10, true},
		{"at maximum", 2000, true},
		{"one above maximum", 2001, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validFeedbackPayload()
			payload["comments"] = strings.Repeat("a", tt.length)

			ok, _, field := s.Validate(payload, FeedbackSchema)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, "comments", field)
			}
		})
	}
}

func TestValidateRejectsUnexpectedFields(t *testing.T) {
	s := NewValidationService()

	payload := validFeedbackPayload()
	payload["is_admin"] = true

	ok, msg, field := s.Validate(payload, FeedbackSchema)
	require.False(t, ok)
	assert.Contains(t, msg, "Unexpected fields")
	assert.Contains(t, msg, "is_admin")
	assert.Empty(t, field)
}

func TestValidateRequiredAndTypes(t *testing.T) {
	s := NewValidationService()

	t.Run("missing required field", func(t *testing.T) {
		payload := validFeedbackPayload()
		delete(payload, "comments")

		ok, msg, field := s.Validate(payload, FeedbackSchema)
		require.False(t, ok)
		assert.Equal(t, "comments is required", msg)
		assert.Equal(t, "comments", field)
	})

	t.Run("blank string counts as missing", func(t *testing.T) {
		payload := validFeedbackPayload()
		payload["comments"] = "   "

		ok, _, field := s.Validate(payload, FeedbackSchema)
		require.False(t, ok)
		assert.Equal(t, "comments", field)
	})

	t.Run("wrong type rejected", func(t *testing.T) {
		payload := validFeedbackPayload()
		payload["overall_rating"] = "five"

		ok, msg, _ := s.Validate(payload, FeedbackSchema)
		require.False(t, ok)
		assert.Equal(t, "overall_rating must be an integer", msg)
	})

	t.Run("whole json number accepted as integer", func(t *testing.T) {
		payload := validFeedbackPayload()
		payload["overall_rating"] = float64(4)

		ok, _, _ := s.Validate(payload, FeedbackSchema)
		assert.True(t, ok)
	})

	t.Run("optional field may be absent", func(t *testing.T) {
		ok, _, _ := s.Validate(validFeedbackPayload(), FeedbackSchema)
		assert.True(t, ok)
	})
}

func TestDetectInjectionPatterns(t *testing.T) {
	s := NewValidationService()

	malicious := []string{
		"<script>alert('x')</script>",
		"click javascript:void(0)",
		"<img onerror=steal()>",
		"<iframe src='http://evil'>",
		"' UNION SELECT password FROM users",
		"nice app -- drop it",
		"/* hidden */ comment",
	}
	for _, input := range malicious {
		assert.True(t, s.DetectInjectionPatterns(input), "expected detection for %q", input)
	}

	clean := []string{
		"The search feature is quick and the UI is clean.",
		"Please add a better default to the dropdown options!",
	}
	for _, input := range clean {
		assert.False(t, s.DetectInjectionPatterns(input), "false positive for %q", input)
	}
}

func TestValidateScansStringFieldsForInjection(t *testing.T) {
	s := NewValidationService()

	payload := validFeedbackPayload()
	payload["comments"] = "great tool <script>document.cookie</script>"

	ok, msg, field := s.Validate(payload, FeedbackSchema)
	require.False(t, ok)
	assert.Equal(t, "comments contains potentially malicious content", msg)
	assert.Equal(t, "comments", field)
}

func TestValidatePasswordStrength(t *testing.T) {
	s := NewValidationService()

	tests := []struct {
		name     string
		password string
		wantOK   bool
	}{
		{"valid", "Str0ng!Pass", true},
		{"too short", "S0r!t", false},
		{"too long", strings.Repeat("Aa1!", 33), false},
		{"no uppercase", "str0ng!pass", false},
		{"no lowercase", "STR0NG!PASS", false},
		{"no digit", "Strong!Pass", false},
		{"no special character", "Str0ngPass", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := s.ValidatePasswordStrength(tt.password)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	s := NewValidationService()

	ok, _ := s.ValidateEmail("user@example.com")
	assert.True(t, ok)

	for _, email := range []string{"", "plainaddress", "user@", "@example.com", "user@example"} {
		ok, msg := s.ValidateEmail(email)
		assert.False(t, ok, "expected rejection for %q", email)
		assert.NotEmpty(t, msg)
	}
}
