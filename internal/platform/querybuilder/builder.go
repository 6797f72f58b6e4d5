package querybuilder

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// statement accumulates SQL text and bound arguments. Placeholders are
// numbered from the argument list itself, so clauses never have to agree
// on a running index.
type statement struct {
	sql  strings.Builder
	args []any
}

func (st *statement) write(text string) {
	st.sql.WriteString(text)
}

func (st *statement) bind(value any) string {
	st.args = append(st.args, value)
	return "$" + strconv.Itoa(len(st.args))
}

func (st *statement) whereClause(conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	st.write(" WHERE ")
	for i, cond := range conditions {
		if i > 0 {
			st.write(" AND ")
		}
		cond(st)
	}
}

type SelectBuilder struct {
	selectList string
	from       string
	conds      []Condition
	order      []string
	limit      int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{selectList: strings.Join(columns, ", ")}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.from = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.conds = append(b.conds, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.order = append(b.order, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case b.selectList == "":
		return "", nil, fmt.Errorf("select columns are required")
	case strings.TrimSpace(b.from) == "":
		return "", nil, fmt.Errorf("select table is required")
	}

	st := &statement{}
	fmt.Fprintf(&st.sql, "SELECT %s FROM %s", b.selectList, b.from)
	st.whereClause(b.conds)
	if len(b.order) > 0 {
		st.write(" ORDER BY " + strings.Join(b.order, ", "))
	}
	if b.limit > 0 {
		st.write(" LIMIT " + strconv.Itoa(b.limit))
	}

	return st.sql.String(), st.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	values  []any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = slices.Clone(columns)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.values = slices.Clone(values)
	return b
}

// Suffix appends trailing SQL such as an ON CONFLICT clause or RETURNING
// list. The text is emitted as written; it binds no arguments.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("insert table is required")
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("insert columns are required")
	case len(b.values) != len(b.columns):
		return "", nil, fmt.Errorf("insert has %d values, expected %d", len(b.values), len(b.columns))
	}

	st := &statement{}
	marks := make([]string, len(b.values))
	for i, value := range b.values {
		marks[i] = st.bind(value)
	}
	fmt.Fprintf(&st.sql, "INSERT INTO %s (%s) VALUES (%s)", b.table, strings.Join(b.columns, ", "), strings.Join(marks, ", "))
	if b.suffix != "" {
		st.write(" " + b.suffix)
	}

	return st.sql.String(), st.args, nil
}
