package db

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// SQL statement builder for schemaless rows.
//
// SECURITY:
// Table and column names are interpolated into the statement text and are
// therefore validated against a strict identifier pattern; anything else
// is rejected at construction time. Values are always passed through '?'
// placeholders, never interpolated.

var identPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidIdent reports whether s is a safe SQL identifier.
func ValidIdent(s string) bool {
	return identPattern.MatchString(s)
}

// Builder builds parameterized SQL statements for one table
type Builder struct {
	table string
}

// NewBuilder creates a statement builder for the given table.
// The table name must be a validated identifier.
func NewBuilder(table string) (*Builder, error) {
	if !ValidIdent(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Builder{table: table}, nil
}

// Table returns the builder's table name
func (b *Builder) Table() string {
	return b.table
}

// BuildInsert builds an INSERT statement from a row mapping. Columns are
// emitted in sorted order so the statement text is deterministic for a
// given field set (and prepared-statement friendly). The "id" column is
// skipped; identity is assigned by the database.
func (b *Builder) BuildInsert(row map[string]any) (string, []any, error) {
	cols := make([]string, 0, len(row))
	for col := range row {
		if col == "id" {
			continue
		}
		if !ValidIdent(col) {
			return "", nil, fmt.Errorf("invalid column name %q", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var query strings.Builder
	query.WriteString("INSERT INTO ")
	query.WriteString(b.table)

	if len(cols) == 0 {
		// Row with no fields yet; MySQL accepts an all-defaults insert
		query.WriteString(" () VALUES ()")
		return query.String(), nil, nil
	}

	query.WriteString(" (")
	query.WriteString(strings.Join(cols, ", "))
	query.WriteString(") VALUES (")

	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		placeholders[i] = "?"
		args[i] = row[col]
	}
	query.WriteString(strings.Join(placeholders, ", "))
	query.WriteString(")")

	return query.String(), args, nil
}

// BuildUpdate builds an UPDATE statement for the row identified by id.
// Columns are emitted in sorted order; "id" is never part of the SET list.
func (b *Builder) BuildUpdate(row map[string]any, id int64) (string, []any, error) {
	cols := make([]string, 0, len(row))
	for col := range row {
		if col == "id" {
			continue
		}
		if !ValidIdent(col) {
			return "", nil, fmt.Errorf("invalid column name %q", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	if len(cols) == 0 {
		return "", nil, fmt.Errorf("update requires at least one column")
	}

	var query strings.Builder
	query.WriteString("UPDATE ")
	query.WriteString(b.table)
	query.WriteString(" SET ")

	setClauses := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		setClauses[i] = col + " = ?"
		args = append(args, row[col])
	}
	query.WriteString(strings.Join(setClauses, ", "))
	query.WriteString(" WHERE id = ?")
	args = append(args, id)

	return query.String(), args, nil
}

// BuildDelete builds a DELETE statement for the row identified by id
func (b *Builder) BuildDelete(id int64) (string, []any) {
	return fmt.Sprintf("DELETE FROM %s WHERE id = ?", b.table), []any{id}
}

// BuildLinkDDL builds the CREATE TABLE IF NOT EXISTS statement for a
// link table connecting the two foreign key columns. Both column names
// must be validated identifiers.
func BuildLinkDDL(table, colA, colB string) (string, error) {
	if !ValidIdent(table) || !ValidIdent(colA) || !ValidIdent(colB) {
		return "", fmt.Errorf("invalid link table identifiers %q(%q,%q)", table, colA, colB)
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT, %s BIGINT UNSIGNED NOT NULL, %s BIGINT UNSIGNED NOT NULL, PRIMARY KEY (id), UNIQUE KEY uq_link (%s, %s))",
		table, colA, colB, colA, colB,
	), nil
}
