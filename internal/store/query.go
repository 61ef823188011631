package store

import (
	"fmt"
	"strings"
)

// whereClause accumulates AND-ed filter conditions with numbered placeholders.
// A "?" in a condition is replaced by the next $N.
type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1))
}

// bind appends an argument that is not part of the WHERE clause (LIMIT,
// OFFSET) and returns its placeholder.
func (w *whereClause) bind(arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
