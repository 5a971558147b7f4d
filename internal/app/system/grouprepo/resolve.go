// internal/app/system/grouprepo/resolve.go
package grouprepo

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	groupstore "github.com/dalemusser/surveyhub/internal/app/store/groups"
	"github.com/dalemusser/surveyhub/internal/domain/models"
)

// RefKind tags the variant held by a Ref.
type RefKind int

const (
	RefAbsent RefKind = iota
	RefInstance
	RefID
	RefSlug
)

// Ref is anything that can identify a group: nothing, an already loaded
// group, a numeric id, or a slug.
type Ref struct {
	kind  RefKind
	group *models.Group
	id    int64
	slug  string
	// raw holds a numeric id that cannot name a stored group, such as "2.5".
	raw string
}

// Absent is the empty reference.
func Absent() Ref { return Ref{kind: RefAbsent} }

// ByInstance wraps an already loaded group. A nil group resolves to nil.
func ByInstance(g *models.Group) Ref { return Ref{kind: RefInstance, group: g} }

func ByID(id int64) Ref { return Ref{kind: RefID, id: id} }

func BySlug(slug string) Ref { return Ref{kind: RefSlug, slug: slug} }

func (r Ref) Kind() RefKind { return r.kind }

var decimalNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseRef maps raw input such as a URL segment to a Ref. Empty input is
// Absent and any decimal number is an id, so "12", "12.0" and "1.2e1" all
// name group 12. A number with a fractional part is still an id lookup and
// never matches. Anything else is a slug.
func ParseRef(s string) Ref {
	s = strings.TrimSpace(s)
	if s == "" {
		return Absent()
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ByID(id)
	}
	if !decimalNumber.MatchString(s) {
		return BySlug(s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err == nil && f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return ByID(int64(f))
	}
	return Ref{kind: RefID, raw: s}
}

func (r Ref) String() string {
	switch r.kind {
	case RefInstance:
		if r.group == nil {
			return "<nil>"
		}
		return strconv.FormatInt(r.group.ID, 10)
	case RefID:
		if r.raw != "" {
			return r.raw
		}
		return strconv.FormatInt(r.id, 10)
	case RefSlug:
		return r.slug
	}
	return ""
}

// Resolve normalizes ref to a group. Absent yields (nil, nil). An instance is
// returned unchanged. Id and slug lookups skip soft-deleted groups unless
// includeDeleted is set, and fail with a *NotFoundError on no match.
func (r *Repository) Resolve(ctx context.Context, ref Ref, includeDeleted bool) (*models.Group, error) {
	switch ref.kind {
	case RefAbsent:
		return nil, nil
	case RefInstance:
		return ref.group, nil
	case RefID:
		if ref.raw != "" {
			return nil, &NotFoundError{Lookup: LookupID, Value: ref.raw}
		}
		g, err := r.groups.GetByID(ctx, ref.id, includeDeleted)
		if errors.Is(err, groupstore.ErrNotFound) {
			return nil, notFoundByID(ref.id)
		}
		if err != nil {
			return nil, err
		}
		return &g, nil
	case RefSlug:
		g, err := r.groups.GetBySlug(ctx, ref.slug, includeDeleted)
		if errors.Is(err, groupstore.ErrNotFound) {
			return nil, notFoundBySlug(ref.slug)
		}
		if err != nil {
			return nil, err
		}
		return &g, nil
	}
	return nil, nil
}
