package utils

import (
	"strings"
	"time"
)

func Ptr[T any](v T) *T {
	return &v
}

// OrZero dereferences v, or returns T's zero value for nil.
func OrZero[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// TrimmedOrNil returns nil on an empty or all whitespace string.
func TrimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// FormatOrNil formats t with layout, keeping nil as nil.
func FormatOrNil(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	return Ptr(t.Format(layout))
}
