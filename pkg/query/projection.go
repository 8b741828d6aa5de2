// Package query builds parameterized PostgreSQL SELECT statements over a
// single table whose columns are addressed by view property names.
package query

import "strings"

// ProjectionMap maps view property names (the names clients filter and sort
// by) to alias-qualified columns of one table.
type ProjectionMap struct {
	table   string
	alias   string
	order   []string
	columns map[string]string
}

// NewProjectionMap creates a ProjectionMap for schema.table, referenced by alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		table:   schema + "." + table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps column to viewName. Columns are selected in Project order.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := p.alias + "." + column
	if _, ok := p.columns[viewName]; !ok {
		p.order = append(p.order, qualified)
	}
	p.columns[viewName] = qualified
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the FROM clause body (schema.table alias).
func (p *ProjectionMap) Table() string {
	return p.table + " " + p.alias
}

// Column returns the qualified column for viewName, or viewName unchanged
// when it is not mapped. Only use with trusted field names.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Lookup returns the qualified column for viewName and whether it is mapped.
func (p *ProjectionMap) Lookup(viewName string) (string, bool) {
	col, ok := p.columns[viewName]
	return col, ok
}

// Columns returns the select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.order, ", ")
}
