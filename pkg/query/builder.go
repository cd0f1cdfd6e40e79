package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// SortField is one ORDER BY term. Field is a projected view name.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields reads "Title,-SubmittedAt" style specs; a leading "-"
// sorts descending. Blank input yields nil.
func ParseSortFields(s string) []SortField {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// condition renders one WHERE term. bind appends a value to the argument
// list and returns its $n placeholder.
type condition func(bind func(any) string) string

// Builder assembles SELECT statements over a ProjectionMap. Conditions are
// ANDed in the order added and placeholders are numbered at build time.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	orderBy     []SortField
	defaultSort []SortField
}

// NewBuilder starts a query over projection, ordered by defaultSort unless
// OrderByFields overrides it.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{projection: projection, defaultSort: defaultSort}
}

// OrderByFields replaces the default ordering. An empty slice keeps it.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.orderBy = fields
	return b
}

// WhereEquals filters field = value. A nil value, including a typed nil
// pointer, adds nothing so optional filters can be passed straight through.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.projection.Column(field)
	return b.where(func(bind func(any) string) string {
		return col + " = " + bind(value)
	})
}

// WhereNotTrue keeps rows whose boolean field is false or NULL.
func (b *Builder) WhereNotTrue(field string) *Builder {
	col := b.projection.Column(field)
	return b.where(func(func(any) string) string {
		return "NOT COALESCE(" + col + ", false)"
	})
}

// WhereBefore adds the keyset predicate (f1, f2) < ($n, $m) that resumes a
// descending listing after a cursor. Missing or mismatched values add
// nothing.
func (b *Builder) WhereBefore(fields []string, values []any) *Builder {
	if len(values) == 0 || len(fields) != len(values) {
		return b
	}
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = b.projection.Column(f)
	}
	return b.where(func(bind func(any) string) string {
		params := make([]string, len(values))
		for i, v := range values {
			params[i] = bind(v)
		}
		return "(" + strings.Join(cols, ", ") + ") < (" + strings.Join(params, ", ") + ")"
	})
}

// WhereNullable filters field = value, or field IS NULL when value is nil.
func (b *Builder) WhereNullable(field string, value any) *Builder {
	col := b.projection.Column(field)
	if isNil(value) {
		return b.where(func(func(any) string) string {
			return col + " IS NULL"
		})
	}
	return b.where(func(bind func(any) string) string {
		return col + " = " + bind(value)
	})
}

// WhereSearch matches search as an ILIKE substring against any of fields.
// A nil or empty search adds nothing.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}
	pattern := "%" + *search + "%"
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = b.projection.Column(f)
	}
	return b.where(func(bind func(any) string) string {
		terms := make([]string, len(cols))
		for i, col := range cols {
			terms[i] = col + " ILIKE " + bind(pattern)
		}
		return "(" + strings.Join(terms, " OR ") + ")"
	})
}

func (b *Builder) where(c condition) *Builder {
	b.conditions = append(b.conditions, c)
	return b
}

// Build selects every matching row in sort order.
func (b *Builder) Build() (string, []any) {
	where, args := b.renderWhere()
	return b.selectFrom() + where + b.renderOrderBy(), args
}

// BuildCount counts the matching rows.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.renderWhere()
	return "SELECT COUNT(*) FROM " + b.projection.From() + where, args
}

// BuildPage selects the 1-based page of pageSize rows.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	sql, args := b.Build()
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", sql, pageSize, (page-1)*pageSize), args
}

// BuildLimit selects at most n rows in sort order. Keyset listings ask
// for one row more than they return to learn whether a next page exists.
func (b *Builder) BuildLimit(n int) (string, []any) {
	sql, args := b.Build()
	return sql + " LIMIT " + strconv.Itoa(n), args
}

// BuildSingle selects the row whose idField equals id, ignoring any
// other conditions.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	return b.selectFrom() + " WHERE " + b.projection.Column(idField) + " = $1", []any{id}
}

// BuildSingleOrNull selects the first row matching the conditions.
func (b *Builder) BuildSingleOrNull() (string, []any) {
	where, args := b.renderWhere()
	return b.selectFrom() + where + " LIMIT 1", args
}

func (b *Builder) selectFrom() string {
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.From()
}

func (b *Builder) renderWhere() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var args []any
	bind := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	terms := make([]string, len(b.conditions))
	for i, c := range b.conditions {
		terms[i] = c(bind)
	}
	return " WHERE " + strings.Join(terms, " AND "), args
}

func (b *Builder) renderOrderBy() string {
	fields := b.orderBy
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	terms := make([]string, len(fields))
	for i, f := range fields {
		dir := " ASC"
		if f.Descending {
			dir = " DESC"
		}
		terms[i] = b.projection.Column(f.Field) + dir
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
