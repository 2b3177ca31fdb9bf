package backend

import (
	"fmt"
	"net/url"
	"strings"
)

// Query builds a filtered row query in the backend's URL filter syntax.
// It is a value type; every method returns a modified copy so partial
// queries can be reused safely.
type Query struct {
	table   string
	columns string
	filters []string
	order   string
}

// NewQuery starts a query against a table.
func NewQuery(table string) Query {
	return Query{table: table}
}

// Select sets the columns to return. Defaults to "*".
func (q Query) Select(columns string) Query {
	q.columns = columns
	return q
}

// Eq adds an equality filter on a column.
func (q Query) Eq(column, value string) Query {
	q.filters = append(q.filters, fmt.Sprintf("%s=eq.%s", column, value))
	return q
}

// In adds a membership filter. Callers must never pass an empty value set;
// an empty IN list silently matches nothing on some backends and is a known
// source of false-empty results, so it panics loudly instead.
func (q Query) In(column string, values []string) Query {
	if len(values) == 0 {
		panic("backend: In filter with empty value set")
	}
	q.filters = append(q.filters, fmt.Sprintf("%s=in.(%s)", column, strings.Join(values, ",")))
	return q
}

// Or adds a disjunction of raw conditions built with CondEq / CondIn.
func (q Query) Or(conditions ...string) Query {
	q.filters = append(q.filters, fmt.Sprintf("or=(%s)", strings.Join(conditions, ",")))
	return q
}

// Order sets the result ordering.
func (q Query) Order(column string, descending bool) Query {
	direction := "asc"
	if descending {
		direction = "desc"
	}
	q.order = fmt.Sprintf("%s.%s", column, direction)
	return q
}

// CondEq renders an equality condition for use inside Or.
func CondEq(column, value string) string {
	return fmt.Sprintf("%s.eq.%s", column, value)
}

// CondIn renders a membership condition for use inside Or. Same empty-set
// rule as In.
func CondIn(column string, values []string) string {
	if len(values) == 0 {
		panic("backend: CondIn with empty value set")
	}
	return fmt.Sprintf("%s.in.(%s)", column, strings.Join(values, ","))
}

// Table returns the table the query targets.
func (q Query) Table() string {
	return q.table
}

// Encode renders the query as URL parameters.
func (q Query) Encode() string {
	var parts []string
	columns := q.columns
	if columns == "" {
		columns = "*"
	}
	parts = append(parts, "select="+url.QueryEscape(columns))
	for _, f := range q.filters {
		key, value, _ := strings.Cut(f, "=")
		parts = append(parts, key+"="+url.QueryEscape(value))
	}
	if q.order != "" {
		parts = append(parts, "order="+url.QueryEscape(q.order))
	}
	return strings.Join(parts, "&")
}
