package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Field is one key/value pair of a row
type Field struct {
	Key   string
	Value any
}

// Row is an ordered record; its shape depends on the report type
type Row []Field

// Get returns the value stored under key
func (r Row) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the field keys in order
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// MarshalJSON writes the row as an object, keeping field order
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object back into an ordered row
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row must be a JSON object")
	}

	var row Row
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("row key must be a string")
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if n, ok := value.(json.Number); ok {
			value = numberValue(n)
		}
		row = append(row, Field{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = row
	return nil
}

// numberValue narrows a JSON number to int64 or float64. Integer literals
// outside the int64 range stay json.Number so no digits are lost.
func numberValue(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if !strings.ContainsAny(n.String(), ".eE") {
		return n
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// columnsOf derives the column schema from the `col` tags of a row struct.
// Tag format: `col:"key,Label[,date|currency|number]"`.
func columnsOf(t reflect.Type) []Column {
	var columns []Column
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup("col")
		if !ok || !sf.IsExported() {
			continue
		}
		parts := strings.Split(tag, ",")
		col := Column{Key: parts[0], Label: parts[0]}
		if len(parts) > 1 && parts[1] != "" {
			col.Label = parts[1]
		}
		if len(parts) > 2 {
			col.Type = ColumnType(parts[2])
		}
		columns = append(columns, col)
	}
	return columns
}

// rowOf converts a tagged struct into a Row with the same key order as columnsOf
func rowOf(v any) Row {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	t := rv.Type()

	row := make(Row, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup("col")
		if !ok || !sf.IsExported() {
			continue
		}
		key, _, _ := strings.Cut(tag, ",")
		row = append(row, Field{Key: key, Value: rv.Field(i).Interface()})
	}
	return row
}
