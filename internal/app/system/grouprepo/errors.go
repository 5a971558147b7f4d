package grouprepo

import (
	"errors"
	"strconv"
)

var (
	// ErrGroupNotFound is matched by every NotFoundError.
	ErrGroupNotFound = errors.New("group not found")

	// ErrInvalidOptionKey is returned for option keys that cannot be stored
	// as a document field: empty, containing '.', or starting with '$'.
	ErrInvalidOptionKey = errors.New("invalid option key")

	// ErrNameRequired is returned by Create when the name is blank.
	ErrNameRequired = errors.New("group name is required")
)

// Lookup kinds carried by NotFoundError.
const (
	LookupID   = "id"
	LookupSlug = "slug"
)

// NotFoundError reports a failed resolver lookup. Lookup says whether the
// identifier was treated as an id or a slug.
type NotFoundError struct {
	Lookup string
	Value  string
}

func (e *NotFoundError) Error() string {
	if e.Lookup == LookupID {
		return "group not found with the given ID"
	}
	return "group not found with the given slug"
}

// Is lets errors.Is(err, ErrGroupNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrGroupNotFound
}

func notFoundByID(id int64) error {
	return &NotFoundError{Lookup: LookupID, Value: strconv.FormatInt(id, 10)}
}

func notFoundBySlug(slug string) error {
	return &NotFoundError{Lookup: LookupSlug, Value: slug}
}
