package material

import (
	"gorm.io/gorm"

	"github.com/materialdesk/materialdesk/internal/db/controller/collection"
	"github.com/materialdesk/materialdesk/internal/db/models"
	"github.com/materialdesk/materialdesk/internal/db/query"
)

// Filter describes one listing request. Zero-valued dimensions are absent and
// do not constrain the result; every supplied dimension can only shrink it.
type Filter struct {
	// RequesterID is the authenticated user the listing is evaluated for.
	RequesterID uint64
	// Collector, when set, restricts to materials in this user's collection.
	Collector *uint64
	// Categories restricts to materials linked to any of these categories.
	Categories []uint64
	// Types restricts to materials of any of these type labels.
	Types []string
	// Text restricts to materials whose name or author contains the fragment.
	Text string
}

// BuildPredicate composes the filter dimensions into a single expression.
//
// Unless the requester asks for their own collection, a visibility floor is
// applied: only open, non-deleted materials are candidates. Browsing their
// own collection, a user sees everything in it, including rows they have
// since closed or soft-deleted.
func BuildPredicate(db *gorm.DB, f Filter) (query.Expr, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	dims := make([]query.Expr, 0, 5)

	if f.Collector == nil || *f.Collector != f.RequesterID {
		dims = append(dims,
			query.Eq{Column: "is_open", Value: true},
			query.Eq{Column: "deleted", Value: false},
		)
	}

	if f.Collector != nil {
		ids, err := collection.MaterialIDs(db, *f.Collector)
		if err != nil {
			return nil, err
		}

		dims = append(dims, query.AnyID("id", ids))
	}

	if len(f.Categories) > 0 {
		ids, err := MaterialIDsByCategories(db, f.Categories)
		if err != nil {
			return nil, err
		}

		dims = append(dims, query.AnyID("id", ids))
	}

	if len(f.Types) > 0 {
		alternatives := make([]query.Expr, 0, len(f.Types))
		for _, label := range f.Types {
			alternatives = append(alternatives, query.Eq{Column: "type", Value: label})
		}

		dims = append(dims, query.Any(alternatives...))
	}

	if f.Text != "" {
		dims = append(dims, query.Any(
			query.Contains{Column: "name", Fragment: f.Text},
			query.Contains{Column: "author", Fragment: f.Text},
		))
	}

	return query.All(dims...), nil
}

// Query builds the filtered, deterministically ordered listing query.
// The caller chains pagination onto the returned query.
func Query(db *gorm.DB, f Filter) (*gorm.DB, error) {
	expr, err := BuildPredicate(db, f)
	if err != nil {
		return nil, err
	}

	return query.Apply(db.Model(&models.Material{}), expr).Order("id"), nil
}
