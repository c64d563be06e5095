package database

import (
	"slices"
	"strconv"
	"strings"
)

// Query accumulates WHERE fragments and their arguments, numbering placeholders as they are bound.
// Fragments are written with '?' markers; each is replaced by the next $n.
type Query struct {
	where []string
	args  []any
}

// Bind appends v to the argument list and returns its placeholder.
func (q *Query) Bind(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *Query) Where(cond string, args ...any) *Query {
	var sb strings.Builder

	next := 0

	for _, r := range cond {
		if r == '?' && next < len(args) {
			sb.WriteString(q.Bind(args[next]))
			next++

			continue
		}

		sb.WriteRune(r)
	}

	q.where = append(q.where, sb.String())

	return q
}

// WhereIf adds the fragment only when ok is true.
func (q *Query) WhereIf(ok bool, cond string, args ...any) *Query {
	if !ok {
		return q
	}

	return q.Where(cond, args...)
}

// Clause renders " WHERE a AND b", or an empty string when nothing was added.
func (q *Query) Clause() string {
	if len(q.where) == 0 {
		return ""
	}

	return " WHERE " + strings.Join(q.where, " AND ")
}

// Args returns a copy of the bound arguments.
func (q *Query) Args() []any {
	return slices.Clone(q.args)
}

// Page binds limit and offset as arguments rather than formatting them into the SQL text.
func (q *Query) Page(limit, offset int) string {
	if limit <= 0 {
		return ""
	}

	return " LIMIT " + q.Bind(limit) + " OFFSET " + q.Bind(offset)
}

// In binds each value and returns a parenthesized placeholder list such as "($3, $4)".
// An empty list renders "(NULL)", which matches nothing.
func In[T any](q *Query, values []T) string {
	if len(values) == 0 {
		return "(NULL)"
	}

	ph := make([]string, len(values))
	for i, v := range values {
		ph[i] = q.Bind(v)
	}

	return "(" + strings.Join(ph, ", ") + ")"
}
