package schedule

import "errors"

var (
	ErrInvalidLocation = errors.New("location id is not numeric")
	ErrResolution      = errors.New("cycle resolution failed")
	ErrTenantNotFound  = errors.New("tenant not found")
)
