package querybuilder

import "strings"

// Condition writes one boolean expression into a statement. Conditions
// joined by Where are ANDed together.
type Condition func(st *statement)

func Eq(column string, value any) Condition {
	return func(st *statement) {
		st.write(column)
		st.write(" = ")
		st.write(st.bind(value))
	}
}

func In(column string, values []any) Condition {
	return func(st *statement) {
		// An empty IN list matches nothing rather than producing bad SQL.
		if len(values) == 0 {
			st.write("1=0")
			return
		}
		st.write(column)
		st.write(" IN (")
		for i, v := range values {
			if i > 0 {
				st.write(", ")
			}
			st.write(st.bind(v))
		}
		st.write(")")
	}
}

func IsNull(column string) Condition {
	return func(st *statement) {
		st.write(column)
		st.write(" IS NULL")
	}
}

// Expr injects a hand-written fragment. Question marks bind the given
// args in order; a fragment without args passes through untouched, so
// pre-numbered placeholders like $1 survive as written.
func Expr(sql string, args ...any) Condition {
	return func(st *statement) {
		st.write(expand(sql, args, st))
	}
}

// EqLiteral inlines the value into the SQL text instead of binding it.
// Only for code paths that must avoid the extended query protocol; the
// value is quoted as a string literal.
func EqLiteral(column, value string) Condition {
	return func(st *statement) {
		st.write(column)
		st.write(" = '")
		st.write(strings.ReplaceAll(value, "'", "''"))
		st.write("'")
	}
}

func expand(sql string, args []any, st *statement) string {
	if len(args) == 0 {
		return sql
	}

	var out strings.Builder
	out.Grow(len(sql) + len(args)*3)
	next := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] != '?' {
			out.WriteByte(sql[i])
			continue
		}
		if next >= len(args) {
			out.WriteByte('?')
			continue
		}
		out.WriteString(st.bind(args[next]))
		next++
	}
	return out.String()
}
