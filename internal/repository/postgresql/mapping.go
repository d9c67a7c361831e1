package postgresql

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
)

// field binds one column to the address of the matching field in a row struct.
type field[T any] struct {
	column string
	ptr    func(*T) any
}

// fieldMap is the declarative column table of one entity. The same table
// drives SELECT lists, Scan targets and INSERT arguments.
type fieldMap[T any] []field[T]

func col[T any](column string, ptr func(*T) any) field[T] {
	return field[T]{column: column, ptr: ptr}
}

// columns renders the select list, optionally qualified with alias.
func (m fieldMap[T]) columns(alias string) string {
	names := make([]string, len(m))
	for i, f := range m {
		if alias != "" {
			names[i] = alias + "." + f.column
		} else {
			names[i] = f.column
		}
	}
	return strings.Join(names, ", ")
}

func (m fieldMap[T]) targets(row *T) []any {
	dst := make([]any, len(m))
	for i, f := range m {
		dst[i] = f.ptr(row)
	}
	return dst
}

// without returns the map minus the named columns (server-generated ones).
func (m fieldMap[T]) without(columns ...string) fieldMap[T] {
	out := make(fieldMap[T], 0, len(m))
	for _, f := range m {
		skip := false
		for _, c := range columns {
			if f.column == c {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, f)
		}
	}
	return out
}

// values dereferences each field of row into an argument list.
func (m fieldMap[T]) values(row *T) []any {
	args := make([]any, len(m))
	for i, f := range m {
		args[i] = reflect.ValueOf(f.ptr(row)).Elem().Interface()
	}
	return args
}

// insert renders "INSERT INTO table (cols) VALUES ($1, ...)" followed by tail.
func (m fieldMap[T]) insert(table, tail string) string {
	placeholders := make([]string, len(m))
	for i := range m {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) %s",
		table, m.columns(""), strings.Join(placeholders, ", "), tail)
}

// excludedSet renders "col = EXCLUDED.col, ..." for upserts.
func (m fieldMap[T]) excludedSet() string {
	sets := make([]string, len(m))
	for i, f := range m {
		sets[i] = f.column + " = EXCLUDED." + f.column
	}
	return strings.Join(sets, ", ")
}

func scanOne[T any](row pgx.Row, m fieldMap[T]) (T, error) {
	var dst T
	err := row.Scan(m.targets(&dst)...)
	return dst, err
}

func scanAll[T any](rows pgx.Rows, m fieldMap[T]) ([]T, error) {
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var dst T
		if err := rows.Scan(m.targets(&dst)...); err != nil {
			return nil, err
		}
		out = append(out, dst)
	}
	return out, rows.Err()
}
