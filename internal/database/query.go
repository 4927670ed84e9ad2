package database

import (
	"fmt"
	"strings"
)

// Select assembles a filtered, ordered, limited SELECT. Conditions are
// ANDed; a condition added with an empty value is skipped so optional
// filters need no branching at the call site.
type Select struct {
	cols  string
	table string
	where []string
	args  []any
	order string
	limit int
}

// From starts a SELECT of cols from table.
func From(table string, cols ...string) *Select {
	return &Select{table: table, cols: strings.Join(cols, ", ")}
}

// Where adds "cond" with one placeholder bound to arg. Zero strings,
// zero integers and nil are treated as "no filter".
func (s *Select) Where(cond string, arg any) *Select {
	switch v := arg.(type) {
	case nil:
		return s
	case string:
		if v == "" {
			return s
		}
	case int64:
		if v == 0 {
			return s
		}
	}
	s.where = append(s.where, cond)
	s.args = append(s.args, arg)
	return s
}

// OrderBy sets the ORDER BY clause.
func (s *Select) OrderBy(order string) *Select {
	s.order = order
	return s
}

// Limit caps the row count. Zero or negative means no limit.
func (s *Select) Limit(n int) *Select {
	s.limit = n
	return s
}

// Build returns the statement and its arguments.
func (s *Select) Build() (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", s.cols, s.table)
	if len(s.where) > 0 {
		b.WriteString(" WHERE " + strings.Join(s.where, " AND "))
	}
	if s.order != "" {
		b.WriteString(" ORDER BY " + s.order)
	}
	args := s.args
	if s.limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(append([]any(nil), args...), s.limit)
	}
	return b.String(), args
}
