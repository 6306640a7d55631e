package query

import (
	"fmt"
	"reflect"
	"strings"
)

// SortField names a logical field for an ORDER BY clause. Field is resolved
// through the ProjectionMap; Descending flips the direction.
type SortField struct {
	Field      string
	Descending bool
}

// Builder assembles SELECT statements against a projection with sequentially
// numbered parameters. Conditions are numbered as they are added.
type Builder struct {
	projection  *ProjectionMap
	clauses     []string
	args        []any
	orderBy     []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder for the given projection with optional
// default sort fields.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// ParseSortFields parses a comma-separated sort string into a SortField
// slice. A "-" prefix marks a field descending, e.g. "name,-createdAt".
// Returns nil for empty input.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, descending := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: descending})
	}

	return fields
}

// OrderByFields sets the sort order, overriding the default sort fields.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.orderBy = fields
	return b
}

// WhereEquals adds an equality condition. No-op for nil values.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if !isNil(value) {
		b.where(fmt.Sprintf("%s = $%d", b.projection.Column(field), b.next()), value)
	}
	return b
}

// WhereAtMost adds a less-than-or-equal condition. No-op for nil values.
func (b *Builder) WhereAtMost(field string, value any) *Builder {
	if !isNil(value) {
		b.where(fmt.Sprintf("%s <= $%d", b.projection.Column(field), b.next()), value)
	}
	return b
}

// WhereContains adds a case-insensitive substring condition. No-op for nil
// or empty values.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value != nil && *value != "" {
		b.where(fmt.Sprintf("%s ILIKE $%d", b.projection.Column(field), b.next()), "%"+*value+"%")
	}
	return b
}

// WhereNullable adds an equality condition, or IS NULL when value is nil.
func (b *Builder) WhereNullable(field string, value any) *Builder {
	col := b.projection.Column(field)
	if isNil(value) {
		b.where(col + " IS NULL")
	} else {
		b.where(fmt.Sprintf("%s = $%d", col, b.next()), value)
	}
	return b
}

// WhereSearch adds an ILIKE condition ORed across fields. No-op for nil or
// empty search terms.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + *search + "%"
	clauses := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, field := range fields {
		clauses[i] = fmt.Sprintf("%s ILIKE $%d", b.projection.Column(field), b.next()+i)
		args[i] = pattern
	}

	b.where("("+strings.Join(clauses, " OR ")+")", args...)
	return b
}

// Build returns a SELECT query with the current conditions and ordering.
func (b *Builder) Build() (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s",
		b.projection.Columns(),
		b.projection.From(),
		b.buildWhere(),
		b.buildOrderBy(),
	)
	return sql, b.args
}

// BuildCount returns a COUNT(*) query with the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.From(), b.buildWhere())
	return sql, b.args
}

// BuildWindow returns a SELECT query with ordering, limit, and offset.
func (b *Builder) BuildWindow(limit, offset int) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.projection.Columns(),
		b.projection.From(),
		b.buildWhere(),
		b.buildOrderBy(),
		limit,
		offset,
	)
	return sql, b.args
}

// BuildSingle returns a SELECT query matching one record by the given field.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.From(),
		b.projection.Column(idField),
	)
	return sql, []any{id}
}

func (b *Builder) where(clause string, args ...any) {
	b.clauses = append(b.clauses, clause)
	b.args = append(b.args, args...)
}

// next returns the placeholder number the next bound argument will take.
func (b *Builder) next() int {
	return len(b.args) + 1
}

func (b *Builder) buildWhere() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

func (b *Builder) buildOrderBy() string {
	fields := b.orderBy
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts[i] = b.projection.Column(f.Field) + " " + dir
	}

	return " ORDER BY " + strings.Join(parts, ", ")
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}

	return false
}
