package config

import (
	"fmt"
	"time"
)

// ValidateNonNegativeDuration accepts zero, which callers treat as "disabled".
func ValidateNonNegativeDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("must not be negative, got %v", d)
	}
	return nil
}

// ValidateDurationRange accepts lo <= d <= hi.
func ValidateDurationRange(d, lo, hi time.Duration) error {
	switch {
	case lo > hi:
		return fmt.Errorf("empty range [%v, %v]", lo, hi)
	case d < lo || d > hi:
		return fmt.Errorf("%v is outside [%v, %v]", d, lo, hi)
	}
	return nil
}
