// Package pagination implements page-numbered listing envelopes: a total
// count, an absolute URL for the next page when one exists, and the page of
// results itself.
package pagination

import (
	"net/url"
	"strconv"
)

// Page is a 1-based page request with a fixed page size.
type Page struct {
	Number int
	Limit  int
}

// FromRequest parses the raw "page" query value. Anything that is not a
// positive integer falls back to the first page.
func FromRequest(raw string, limit int) Page {
	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 {
		number = 1
	}

	return Page{
		Number: number,
		Limit:  limit,
	}
}

// Offset returns the row offset for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// HasNext reports whether another page follows, given the total row count.
func (p Page) HasNext(count int64) bool {
	return int64(p.Number*p.Limit) < count
}

// NextURL builds the absolute URL of the page after this one, carrying all
// other query parameters through unchanged.
func (p Page) NextURL(base string, query url.Values) string {
	next := url.Values{}
	for key, values := range query {
		next[key] = values
	}

	next.Set("page", strconv.Itoa(p.Number+1))

	return base + "?" + next.Encode()
}

// Envelope is the listing response shape.
type Envelope struct {
	// Count is the total number of rows matching the query, not the page size.
	Count int64 `json:"count"`
	// Next is the URL of the following page, or null on the last page.
	Next *string `json:"next"`
	// Results is the page of documents.
	Results any `json:"results"`
}

// Wrap assembles the envelope for one page of results.
func Wrap(count int64, p Page, base string, query url.Values, results any) Envelope {
	var next *string

	if p.HasNext(count) {
		u := p.NextURL(base, query)
		next = &u
	}

	return Envelope{
		Count:   count,
		Next:    next,
		Results: results,
	}
}
