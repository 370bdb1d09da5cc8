package repository

import (
	"context"
	"fmt"
	"strings"

	"StorefrontAPI/internal/query"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is what both the pool and a pgx.Tx offer.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// where accumulates AND-ed conditions and numbers their placeholders.
type where struct {
	conds []string
	args  []any
}

func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) eq(column string, v any) {
	w.conds = append(w.conds, column+" = "+w.arg(v))
}

// search adds a case-insensitive substring match over columns, OR-ed.
func (w *where) search(term string, columns ...string) {
	if term == "" || len(columns) == 0 {
		return
	}
	p := w.arg(likePattern(term))
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " ILIKE " + p
	}
	w.conds = append(w.conds, "("+strings.Join(parts, " OR ")+")")
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page appends LIMIT/OFFSET placeholders.
func (w *where) page(p query.Pagination) string {
	return " LIMIT " + w.arg(p.Take) + " OFFSET " + w.arg(p.Skip)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// orderBy renders an ORDER BY clause. Only columns present in allowed can be
// used; anything else falls back. idColumn breaks ties so pages are stable.
func orderBy(ob query.OrderBy, allowed map[string]string, fallback, idColumn string) string {
	col, ok := allowed[ob.Column]
	if !ok {
		col = allowed[fallback]
	}
	dir := "ASC"
	if ob.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, %s %s", col, dir, idColumn, dir)
}

// setter builds the SET list of a partial UPDATE.
type setter struct {
	cols []string
	args []any
}

func (s *setter) set(column string, v any) {
	s.args = append(s.args, v)
	s.cols = append(s.cols, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func (s *setter) empty() bool {
	return len(s.cols) == 0
}

// update renders "UPDATE table SET ..., updated_at = NOW() WHERE id = $n".
func (s *setter) update(table string, id any) (string, []any) {
	args := append(s.args, id)
	cols := append(s.cols, "updated_at = NOW()")
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(cols, ", "), len(args)), args
}
