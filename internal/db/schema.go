package db

import (
	"context"
	"fmt"
)

// ColumnInfo is one column of a described table
type ColumnInfo struct {
	Name string
	Type string
}

// Table is a table name with its columns in declaration order
type Table struct {
	Name    string
	Columns []ColumnInfo
}

// Schema is the list of tables in the order the database reports them
type Schema struct {
	Tables []Table
}

// IsEmpty reports whether the schema has no tables
func (s Schema) IsEmpty() bool {
	return len(s.Tables) == 0
}

// GetSchema lists every table and describes its columns
func (db *Database) GetSchema(ctx context.Context) (Schema, error) {
	tables, err := db.Query(ctx, db.dialect.ListTablesSQL)
	if err != nil {
		return Schema{}, fmt.Errorf("list tables: %w", err)
	}

	var schema Schema
	for _, row := range tables.Rows {
		if len(row.Values) == 0 {
			continue
		}
		name := row.Values[0].String()

		described, err := db.Query(ctx, db.dialect.DescribeSQL(name))
		if err != nil {
			return Schema{}, fmt.Errorf("describe table %s: %w", name, err)
		}

		table := Table{Name: name}
		for _, col := range described.Rows {
			if len(col.Values) <= db.dialect.NameColumn || len(col.Values) <= db.dialect.TypeColumn {
				return Schema{}, fmt.Errorf("describe table %s: unexpected row width %d", name, len(col.Values))
			}
			table.Columns = append(table.Columns, ColumnInfo{
				Name: col.Values[db.dialect.NameColumn].String(),
				Type: col.Values[db.dialect.TypeColumn].String(),
			})
		}
		schema.Tables = append(schema.Tables, table)
	}

	return schema, nil
}
