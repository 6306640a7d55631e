// Package query provides SQL query building utilities with projection mapping.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view property names to qualified column references (alias.column).
// It defines the table, alias, joins, and column mappings for SQL query construction.
type ProjectionMap struct {
	schema       string
	table        string
	alias        string
	currentAlias string
	joins        []string
	columns      map[string]string
	columnList   []string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:       schema,
		table:        table,
		alias:        alias,
		currentAlias: alias,
		columns:      make(map[string]string),
		columnList:   make([]string, 0),
	}
}

// Project adds a column mapping from database column to view property name.
// Columns added after a Join call are qualified with the joined table's alias.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", p.currentAlias, column)
	p.columns[viewName] = qualified
	p.columnList = append(p.columnList, qualified)
	return p
}

// ProjectFilter maps a column to a view property name for filtering and sorting
// without adding it to the select list.
func (p *ProjectionMap) ProjectFilter(column, viewName string) *ProjectionMap {
	p.columns[viewName] = fmt.Sprintf("%s.%s", p.currentAlias, column)
	return p
}

// Join adds a join to the FROM source and shifts the current alias so that
// subsequent Project calls reference the joined table.
func (p *ProjectionMap) Join(schema, table, alias, joinType, on string) *ProjectionMap {
	p.joins = append(p.joins, fmt.Sprintf("%s %s.%s %s ON %s", joinType, schema, table, alias, on))
	p.currentAlias = alias
	return p
}

// Alias returns the primary table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// From returns the fully qualified FROM source: schema.table alias plus any joins.
func (p *ProjectionMap) From() string {
	from := fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
	if len(p.joins) > 0 {
		from += " " + strings.Join(p.joins, " ")
	}
	return from
}

// Column returns the qualified column for a view property name, or the input if not mapped.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Columns returns all mapped columns as a comma-separated string.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}

// ColumnList returns all mapped columns as a slice.
func (p *ProjectionMap) ColumnList() []string {
	return p.columnList
}
