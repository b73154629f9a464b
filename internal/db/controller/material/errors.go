package material

import "errors"

var (
	// ErrMaterialNotFound is returned when a material is not found.
	ErrMaterialNotFound = errors.New("material not found")
	// ErrPermissionDenied is returned when the requester may not act on the material.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")

	// ErrInvalidReference aborts a write unit that points at a missing row.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrCategoryNotFound aborts a write unit naming an unknown category.
	// It matches ErrInvalidReference under errors.Is.
	ErrCategoryNotFound = newInvalidReference("category not found")
	// ErrConflict aborts a write unit that violates a uniqueness constraint.
	ErrConflict = errors.New("conflict")
)

type invalidReference struct {
	msg string
}

func (e *invalidReference) Error() string { return e.msg }

func (e *invalidReference) Is(target error) bool { return target == ErrInvalidReference }

func newInvalidReference(msg string) error {
	return &invalidReference{msg: msg}
}
