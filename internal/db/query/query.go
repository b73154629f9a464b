// Package query provides a small boolean expression tree for building row
// selection predicates from optional filter dimensions. Expressions are
// composed functionally and lowered once to a SQL condition string plus
// arguments, so callers never juggle nil accumulators or driver syntax.
package query

import (
	"strings"

	"gorm.io/gorm"
)

// Expr is a boolean predicate over storage rows.
// The zero set of variants is closed: True, None, Eq, Contains, All, Any.
type Expr interface {
	// SQL lowers the expression to a condition string with placeholders
	// and the matching argument list.
	SQL() (string, []any)
}

// True matches every row. It is the identity element of All: composing it
// into a conjunction imposes no constraint.
type True struct{}

// SQL implements Expr.
func (True) SQL() (string, []any) { return "1 = 1", nil }

// None matches no row. An empty candidate set for a supplied filter dimension
// must compose as None so the dimension does not silently become a no-op.
type None struct{}

// SQL implements Expr.
func (None) SQL() (string, []any) { return "1 = 0", nil }

// Eq matches rows whose column equals the given value.
type Eq struct {
	Column string
	Value  any
}

// SQL implements Expr.
func (e Eq) SQL() (string, []any) { return e.Column + " = ?", []any{e.Value} }

// Contains matches rows whose column contains the given fragment.
type Contains struct {
	Column   string
	Fragment string
}

// SQL implements Expr.
func (c Contains) SQL() (string, []any) {
	return c.Column + " LIKE ?", []any{"%" + c.Fragment + "%"}
}

type allExpr []Expr

func (a allExpr) SQL() (string, []any) { return join(a, " AND ") }

type anyExpr []Expr

func (a anyExpr) SQL() (string, []any) { return join(a, " OR ") }

func join(exprs []Expr, op string) (string, []any) {
	var (
		parts = make([]string, 0, len(exprs))
		args  []any
	)

	for _, e := range exprs {
		sql, a := e.SQL()
		parts = append(parts, "("+sql+")")
		args = append(args, a...)
	}

	return strings.Join(parts, op), args
}

// All combines sub-expressions with logical AND. True elements are dropped
// since they impose no constraint; an empty conjunction matches everything.
func All(exprs ...Expr) Expr {
	kept := make([]Expr, 0, len(exprs))

	for _, e := range exprs {
		if _, isTrue := e.(True); isTrue {
			continue
		}

		kept = append(kept, e)
	}

	switch len(kept) {
	case 0:
		return True{}
	case 1:
		return kept[0]
	default:
		return allExpr(kept)
	}
}

// Any combines sub-expressions with logical OR. An empty disjunction matches
// nothing: a dimension that resolved to zero candidates must filter
// everything out, not fall away.
func Any(exprs ...Expr) Expr {
	switch len(exprs) {
	case 0:
		return None{}
	case 1:
		return exprs[0]
	default:
		return anyExpr(exprs)
	}
}

// AnyID builds the OR-of-equals expression matching a column against each of
// the given ids. It is the canonical fold for id sets resolved from junction
// tables. An empty id set yields None.
func AnyID(column string, ids []uint64) Expr {
	exprs := make([]Expr, 0, len(ids))
	for _, id := range ids {
		exprs = append(exprs, Eq{Column: column, Value: id})
	}

	return Any(exprs...)
}

// Apply lowers the expression onto a gorm query. A True expression leaves the
// query untouched so "match all" needs no special casing at call sites.
func Apply(tx *gorm.DB, e Expr) *gorm.DB {
	if _, isTrue := e.(True); isTrue {
		return tx
	}

	sql, args := e.SQL()

	return tx.Where(sql, args...)
}
