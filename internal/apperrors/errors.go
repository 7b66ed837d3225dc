package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidDate indicates that a report date could not be parsed.
var ErrInvalidDate = errors.New("invalid date")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
// Surfaced when an upsert loses a uniqueness race; the caller may retry the whole save.
var ErrDuplicate = errors.New("resource already exists")

// ErrAlreadySubmitted indicates an attempt to modify a report after submission.
var ErrAlreadySubmitted = errors.New("report already submitted")
