package services

import "errors"

// ErrValidation marks caller-correctable input failures. Concrete
// failures wrap it with detail, so boundaries match with errors.Is and
// still surface the specific message.
var ErrValidation = errors.New("validation failed")
