package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds a single-row INSERT from a struct's db tags. Fields
// without a db tag (or tagged "-") stay out of the statement.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	columns, values, err := modelColumns(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(columns...).
		Values(values...).
		Suffix(suffix).
		ToSQL()
}

func modelColumns(model any) ([]string, []any, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be a struct, got %s", v.Kind())
	}

	fields := reflect.VisibleFields(v.Type())
	columns := make([]string, 0, len(fields))
	values := make([]any, 0, len(fields))
	for _, field := range fields {
		if !field.IsExported() || field.Anonymous {
			continue
		}
		column := dbColumn(field.Tag.Get("db"))
		if column == "" {
			continue
		}
		columns = append(columns, column)
		values = append(values, v.FieldByIndex(field.Index).Interface())
	}

	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return columns, values, nil
}

func dbColumn(tag string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(tag), ",")
	if name == "-" {
		return ""
	}
	return strings.TrimSpace(name)
}
