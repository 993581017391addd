package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DatabaseType represents supported database types
type DatabaseType string

const (
	DatabaseTypeMySQL      DatabaseType = "mysql"
	DatabaseTypePostgreSQL DatabaseType = "postgresql"
	DatabaseTypeSQLite     DatabaseType = "sqlite"
	DatabaseTypeSQLServer  DatabaseType = "sqlserver"
)

// ParseDatabaseType maps a caller supplied type name to a DatabaseType.
// An empty name selects MySQL.
func ParseDatabaseType(name string) (DatabaseType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mysql", "mariadb":
		return DatabaseTypeMySQL, nil
	case "postgresql", "postgres", "pg":
		return DatabaseTypePostgreSQL, nil
	case "sqlite", "sqlite3":
		return DatabaseTypeSQLite, nil
	case "sqlserver", "mssql":
		return DatabaseTypeSQLServer, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDatabaseType, name)
	}
}

// ValueType represents the type of a database value
type ValueType string

const (
	ValueTypeNull      ValueType = "null"
	ValueTypeInteger   ValueType = "integer"
	ValueTypeFloat     ValueType = "float"
	ValueTypeText      ValueType = "text"
	ValueTypeBoolean   ValueType = "boolean"
	ValueTypeBinary    ValueType = "binary"
	ValueTypeDate      ValueType = "date"
	ValueTypeTimestamp ValueType = "timestamp"
)

// Value represents a unified database value
type Value struct {
	Type  ValueType
	Data  interface{}
	Valid bool
}

// NewNullValue creates a new null value
func NewNullValue() Value {
	return Value{Type: ValueTypeNull}
}

// NewIntegerValue creates a new integer value
func NewIntegerValue(v int64) Value {
	return Value{Type: ValueTypeInteger, Data: v, Valid: true}
}

// NewFloatValue creates a new float value
func NewFloatValue(v float64) Value {
	return Value{Type: ValueTypeFloat, Data: v, Valid: true}
}

// NewTextValue creates a new text value
func NewTextValue(v string) Value {
	return Value{Type: ValueTypeText, Data: v, Valid: true}
}

// NewBooleanValue creates a new boolean value
func NewBooleanValue(v bool) Value {
	return Value{Type: ValueTypeBoolean, Data: v, Valid: true}
}

// NewBinaryValue creates a new binary value
func NewBinaryValue(v []byte) Value {
	return Value{Type: ValueTypeBinary, Data: v, Valid: true}
}

// NewDateValue creates a date value from the calendar day of t
func NewDateValue(t time.Time) Value {
	return Value{Type: ValueTypeDate, Data: t, Valid: true}
}

// NewTimestampValue creates a new timestamp value
func NewTimestampValue(t time.Time) Value {
	return Value{Type: ValueTypeTimestamp, Data: t, Valid: true}
}

// IsNull returns true if value is null
func (v Value) IsNull() bool {
	return v.Type == ValueTypeNull || !v.Valid
}

// String renders the value the way it is shown to users in result tables.
func (v Value) String() string {
	if v.IsNull() {
		return "None"
	}

	switch v.Type {
	case ValueTypeInteger:
		return strconv.FormatInt(v.Data.(int64), 10)
	case ValueTypeFloat:
		return formatFloat(v.Data.(float64))
	case ValueTypeText:
		return v.Data.(string)
	case ValueTypeBoolean:
		if v.Data.(bool) {
			return "True"
		}
		return "False"
	case ValueTypeBinary:
		return fmt.Sprintf("b'%s'", v.Data.([]byte))
	case ValueTypeDate:
		return v.Data.(time.Time).Format("2006-01-02")
	case ValueTypeTimestamp:
		return v.Data.(time.Time).Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", v.Data)
	}
}

// formatFloat always keeps a fractional part so 3 renders as 3.0
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.ContainsAny(s, ".eEnN") {
		return s
	}
	return s + ".0"
}

// ResultSet represents a query result set
type ResultSet struct {
	Rows     []Row
	Columns  []Column
	RowCount int
}

// ColumnNames returns the result set's column names in order
func (rs *ResultSet) ColumnNames() []string {
	names := make([]string, len(rs.Columns))
	for i, col := range rs.Columns {
		names[i] = col.Name
	}
	return names
}

// Row represents a database row
type Row struct {
	Values []Value
}

// Column represents a database column
type Column struct {
	Name         string
	Type         ValueType
	DatabaseType string
}

// ConvertSQLRowToResultSet drains the current result set of rows into a ResultSet
func ConvertSQLRowToResultSet(rows *sql.Rows) (*ResultSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &ResultSet{
		Columns: make([]Column, len(columns)),
	}

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	for i, col := range columns {
		dbType := ""
		if i < len(columnTypes) {
			dbType = columnTypes[i].DatabaseTypeName()
		}
		result.Columns[i] = Column{
			Name:         col,
			Type:         mapSQLTypeToValueType(dbType),
			DatabaseType: dbType,
		}
	}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := Row{Values: make([]Value, len(columns))}
		for i, val := range values {
			row.Values[i] = convertSQLValueToValue(val, result.Columns[i].Type)
		}

		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result.RowCount = len(result.Rows)
	return result, nil
}

// mapSQLTypeToValueType maps SQL type names to ValueType. Unknown and empty
// names map to text.
func mapSQLTypeToValueType(sqlType string) ValueType {
	t := strings.ToLower(sqlType)
	switch {
	case t == "":
		return ValueTypeText
	case strings.Contains(t, "int"), strings.Contains(t, "serial"):
		return ValueTypeInteger
	case strings.Contains(t, "float"), strings.Contains(t, "double"), t == "real":
		return ValueTypeFloat
	case strings.Contains(t, "bool"):
		return ValueTypeBoolean
	case strings.Contains(t, "timestamp"), strings.Contains(t, "datetime"):
		return ValueTypeTimestamp
	case t == "date":
		return ValueTypeDate
	case strings.Contains(t, "blob"), strings.Contains(t, "binary"), t == "bytea":
		return ValueTypeBinary
	default:
		return ValueTypeText
	}
}

// convertSQLValueToValue converts a scanned driver value to a Value
func convertSQLValueToValue(val interface{}, expectedType ValueType) Value {
	if val == nil {
		return NewNullValue()
	}

	switch v := val.(type) {
	case int64:
		if expectedType == ValueTypeBoolean {
			return NewBooleanValue(v != 0)
		}
		return NewIntegerValue(v)
	case int:
		return NewIntegerValue(int64(v))
	case int32:
		return NewIntegerValue(int64(v))
	case int16:
		return NewIntegerValue(int64(v))
	case int8:
		return NewIntegerValue(int64(v))
	case uint64:
		return NewTextValue(strconv.FormatUint(v, 10))
	case uint32:
		return NewIntegerValue(int64(v))
	case float64:
		return NewFloatValue(v)
	case float32:
		return NewFloatValue(float64(v))
	case string:
		return NewTextValue(v)
	case bool:
		return NewBooleanValue(v)
	case []byte:
		// Text protocol drivers hand back every column as bytes.
		switch expectedType {
		case ValueTypeBinary:
			return NewBinaryValue(append([]byte(nil), v...))
		case ValueTypeFloat:
			if f, err := strconv.ParseFloat(string(v), 64); err == nil {
				return NewFloatValue(f)
			}
		case ValueTypeInteger:
			if i, err := strconv.ParseInt(string(v), 10, 64); err == nil {
				return NewIntegerValue(i)
			}
		}
		return NewTextValue(string(v))
	case time.Time:
		if expectedType == ValueTypeDate {
			return NewDateValue(v)
		}
		return NewTimestampValue(v)
	default:
		return NewTextValue(fmt.Sprintf("%v", v))
	}
}
