package domain

import "time"

// Lead is a potential customer identified by a caller-supplied external id.
type Lead struct {
	ID         string
	ExternalID string
	Name       *string
	Phone      *string
	Email      *string
	CreatedAt  time.Time
}

// FillMissing copies the provided values into fields that are still unset.
// Fields that already hold a value are never overwritten. It reports whether
// anything changed.
func (l *Lead) FillMissing(name, phone, email *string) bool {
	changed := false
	if fillField(&l.Name, name) {
		changed = true
	}
	if fillField(&l.Phone, phone) {
		changed = true
	}
	if fillField(&l.Email, email) {
		changed = true
	}
	return changed
}

func fillField(dst **string, val *string) bool {
	if val == nil || *val == "" {
		return false
	}
	if *dst != nil && **dst != "" {
		return false
	}
	v := *val
	*dst = &v
	return true
}
