package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/lead-distribution/internal/domain"
	apperrors "github.com/spec-kit/lead-distribution/pkg/util/errorutil"
)

var sourceCodePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// fieldErrors accumulates per-field validation failures.
type fieldErrors map[string]any

func (f fieldErrors) requireLength(field, value string, minLen, maxLen int) {
	n := utf8.RuneCountInString(value)
	if n < minLen || n > maxLen {
		f[field] = fmt.Sprintf("must be between %d and %d characters", minLen, maxLen)
	}
}

func (f fieldErrors) optionalLength(field string, value *string, maxLen int) {
	if value != nil && utf8.RuneCountInString(*value) > maxLen {
		f[field] = fmt.Sprintf("must be at most %d characters", maxLen)
	}
}

func (f fieldErrors) requireRange(field string, value, minVal, maxVal int) {
	if value < minVal || value > maxVal {
		f[field] = fmt.Sprintf("must be between %d and %d", minVal, maxVal)
	}
}

func (f fieldErrors) sourceCode(value string) {
	f.requireLength("code", value, 1, 50)
	if _, bad := f["code"]; !bad && !sourceCodePattern.MatchString(value) {
		f["code"] = "may only contain letters, digits, '_' and '-'"
	}
}

func (f fieldErrors) status(value domain.ContactStatus) {
	if !value.Valid() {
		f["status"] = "must be one of new, in_progress, closed"
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.NewValidationError("validation failed", map[string]any(f))
}

// trimmedPtr trims the value and maps empty strings to nil.
func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
