// Package csvtable reads and writes the delimited text tables the quality-check
// data lives in. Tables are small and are always loaded whole.
package csvtable

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Delimiters used by the tables.
const (
	Semicolon = ';'
	Comma     = ','
)

// ErrNoHeader is returned by Parse when the input has no header line.
var ErrNoHeader = errors.New("table has no header")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Record is one row keyed by column name. A missing key is a null cell.
type Record map[string]string

// Get returns the cell and whether it is non-null.
func (r Record) Get(col string) (string, bool) {
	v, ok := r[col]
	return v, ok
}

// Table is a parsed table. Skipped counts malformed rows dropped while parsing;
// Dropped keeps their cells so a rewrite can put them back.
type Table struct {
	Columns []string
	Rows    []Record
	Skipped int
	Dropped []Dropped
}

// Dropped is a row left out of Rows. At is the number of Rows that precede it.
type Dropped struct {
	At     int
	Fields []string
}

// HasColumn reports whether col is part of the header.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Union returns the table columns followed by those of cols not already present,
// in order.
func (t *Table) Union(cols []string) []string {
	out := make([]string, 0, len(t.Columns)+len(cols))
	seen := make(map[string]struct{}, cap(out))
	for _, list := range [][]string{t.Columns, cols} {
		for _, c := range list {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// RenameColumns rewrites every column name with fn, keeping the rows aligned.
func (t *Table) RenameColumns(fn func(string) string) {
	renamed := make(map[string]string, len(t.Columns))
	for i, c := range t.Columns {
		renamed[c] = fn(c)
		t.Columns[i] = renamed[c]
	}
	for i, row := range t.Rows {
		next := make(Record, len(row))
		for k, v := range row {
			next[renamed[k]] = v
		}
		t.Rows[i] = next
	}
}

// Decode turns raw file bytes into text. UTF-8 input (with or without BOM) is kept
// as is; anything else is read as ISO-8859-1, which accepts every byte.
func Decode(raw []byte) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	return string(out)
}

// Parse reads a delimited table. Quotes are handled leniently and rows may be
// shorter than the header (missing cells are null). Rows with more cells than the
// header, rows the csv reader rejects and lines opening a quote that never closes
// are skipped, counted and kept in Dropped.
func Parse(text string, comma rune) (*Table, error) {
	records := splitRecords(text, comma)
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	header, ok := readRecord(records[0], comma)
	if !ok {
		header = strings.Split(records[0].text, string(comma))
	}
	t := &Table{Columns: dedupeColumns(header)}
	for _, lr := range records[1:] {
		fields, ok := readRecord(lr, comma)
		if !ok {
			t.drop(trimEmptyTail(strings.Split(lr.text, string(comma)), 0))
			continue
		}
		fields = trimEmptyTail(fields, len(t.Columns))
		if len(fields) > len(t.Columns) {
			t.drop(fields)
			continue
		}
		rec := make(Record, len(fields))
		for i, v := range fields {
			if v != "" {
				rec[t.Columns[i]] = v
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func (t *Table) drop(fields []string) {
	t.Skipped++
	t.Dropped = append(t.Dropped, Dropped{At: len(t.Rows), Fields: fields})
}

// Restored returns the table with dropped rows put back in file order. Cells past
// the header go to synthesized columns named Coluna_<position>, so the union of
// columns covers every row that was on disk.
func (t *Table) Restored() *Table {
	cols := append([]string(nil), t.Columns...)
	if len(t.Dropped) == 0 {
		return &Table{Columns: cols, Rows: t.Rows}
	}

	width := len(cols)
	for _, d := range t.Dropped {
		if len(d.Fields) > width {
			width = len(d.Fields)
		}
	}
	used := make(map[string]bool, width)
	for _, c := range cols {
		used[c] = true
	}
	for n := len(cols); n < width; n++ {
		base := "Coluna_" + strconv.Itoa(n+1)
		name := base
		for k := 1; used[name]; k++ {
			name = base + "." + strconv.Itoa(k)
		}
		used[name] = true
		cols = append(cols, name)
	}

	rows := make([]Record, 0, len(t.Rows)+len(t.Dropped))
	next := 0
	for i := 0; i <= len(t.Rows); i++ {
		for next < len(t.Dropped) && t.Dropped[next].At == i {
			rec := make(Record, len(t.Dropped[next].Fields))
			for j, v := range t.Dropped[next].Fields {
				if v != "" {
					rec[cols[j]] = v
				}
			}
			rows = append(rows, rec)
			next++
		}
		if i < len(t.Rows) {
			rows = append(rows, t.Rows[i])
		}
	}
	return &Table{Columns: cols, Rows: rows}
}

// Encode writes columns and rows as a delimited table. Null cells are written empty.
func Encode(w io.Writer, columns []string, rows []Record, comma rune) error {
	cw := newWriter(w, comma)
	if err := cw.Write(columns); err != nil {
		return err
	}
	line := make([]string, len(columns))
	for _, row := range rows {
		for i, c := range columns {
			line[i] = row[c]
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// dedupeColumns suffixes repeated header names with .1, .2, ... so every column
// stays addressable.
func dedupeColumns(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		name := h
		for n := 1; used[name]; n++ {
			name = h + "." + strconv.Itoa(n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// trimEmptyTail drops trailing empty cells beyond width (trailing delimiters).
func trimEmptyTail(fields []string, width int) []string {
	for len(fields) > width && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}
