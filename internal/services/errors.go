package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrReportCooldown     = errors.New("report submitted too recently")
	ErrInvalidCrimeType   = errors.New("invalid crime type")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrSMSDisabled        = errors.New("sms is not configured")
	ErrEmptyProfileField  = errors.New("name and email cannot be empty")
)

// CooldownError is returned when a user reports the same crime type again
// before the cooldown has passed. It matches ErrReportCooldown under
// errors.Is.
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s: retry in %s", ErrReportCooldown, e.RetryAfter.Round(time.Second))
}

func (e *CooldownError) Is(target error) bool { return target == ErrReportCooldown }
