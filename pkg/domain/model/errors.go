package model

import "errors"

var (
	// ErrNotFound is wrapped by every repository backend when a record does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is wrapped when a write would break a uniqueness rule
	ErrConflict = errors.New("conflict")

	ErrInvalidGuideword   = errors.New("invalid guideword")
	ErrDuplicateGuideword = errors.New("duplicate guideword name")
)
