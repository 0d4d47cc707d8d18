// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package table renders result tables as aligned text, CSV or Parquet.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/parquet-go/parquet-go"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/krxetf/date"
)

// Row interface that a table row representation must implement.
type Row interface {
	CSV() []string // an encoding/csv compatible row representation
}

// Table container.
//
// A typical use:
//   type PriceRow struct {
//     Ticker string
//     Close  uint32
//   }
//
//   func (r PriceRow) CSV() []string {
//     return []string{r.Ticker, strconv.FormatUint(uint64(r.Close), 10)}
//   }
//   t := NewTable("티커", "종가")
//   t.AddRow(PriceRow{"152100", 43405}, PriceRow{"069500", 34000})
type Table struct {
	Header []string // optional, may be nil
	Types  []Type   // optional column types for WriteParquet; nil = all String
	Rows   []Row
}

// Type of a column's values in their CSV form. The zero value is String.
type Type uint8

const (
	String Type = iota
	Int         // signed integer up to 64 bits
	Uint        // unsigned integer up to 64 bits
	Float       // floating point
	Date        // calendar date, as formatted by date.Date.String
)

// NewTable creates a new Table instance with optional column headers.  It is
// expected that, when present, the number of column headers is the same as the
// number of elements in each Row.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// AddRow adds one or more rows to the table.
func (t *Table) AddRow(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// Params are parameters for pretty-printing or export of Table data.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // whether to print the header, default - yes
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

func (p Params) rows(t *Table) []Row {
	if p.Rows > 0 && p.Rows < len(t.Rows) {
		return t.Rows[:p.Rows]
	}
	return t.Rows
}

// WriteCSV writes the entire table to w in CSV format.
func (t *Table) WriteCSV(w io.Writer, p Params) error {
	cw := csv.NewWriter(w)
	if !p.NoHeader && len(t.Header) > 0 {
		if err := cw.Write(t.Header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	for _, r := range p.rows(t) {
		if err := cw.Write(r.CSV()); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}

// runeWidth is the number of terminal cells taken by r: Hangul, Han and
// full-width forms take two.
func runeWidth(r rune) int {
	if unicode.In(r, unicode.Hangul, unicode.Han, unicode.Hiragana, unicode.Katakana) ||
		(r >= 0xFF01 && r <= 0xFF60) {
		return 2
	}
	return 1
}

// Width is the number of terminal cells taken by s.
func Width(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

// truncate cuts s to at most w cells, marking the cut with "..".
func truncate(s string, w int) string {
	if Width(s) <= w {
		return s
	}
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n+runeWidth(r) > w-2 {
			break
		}
		n += runeWidth(r)
		b.WriteRune(r)
	}
	return b.String() + ".."
}

// pad right-aligns s in w cells.
func pad(s string, w int) string {
	if n := Width(s); n < w {
		return strings.Repeat(" ", w-n) + s
	}
	return s
}

// WriteText writes the table as a text formatted for ease of reading. Columns
// are right-aligned by their display width.
func (t *Table) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	var lines [][]string
	if !p.NoHeader && len(t.Header) > 0 {
		lines = append(lines, t.Header)
	}
	for _, r := range p.rows(t) {
		lines = append(lines, r.CSV())
	}
	var widths []int
	for i, row := range lines {
		if len(row) == 0 {
			return errors.Reason("line %d: row size = 0", i)
		}
		if widths == nil {
			widths = make([]int, len(row))
		}
		if len(row) != len(widths) {
			return errors.Reason("line %d: row size [%d] != expected size [%d]",
				i, len(row), len(widths))
		}
		for j, s := range row {
			if n := Width(s); n > widths[j] {
				widths[j] = n
			}
		}
	}
	if p.MaxColWidth > 0 {
		for i := range widths {
			if widths[i] > p.MaxColWidth {
				widths[i] = p.MaxColWidth
			}
		}
	}

	write := func(row []string) error {
		cells := make([]string, len(row))
		for i, s := range row {
			cells[i] = pad(truncate(s, widths[i]), widths[i])
		}
		_, err := fmt.Fprintf(w, "%s\n", strings.Join(cells, " | "))
		return err
	}

	for i, row := range lines {
		if err := write(row); err != nil {
			return errors.Annotate(err, "failed to write line %d", i)
		}
		if i == 0 && !p.NoHeader && len(t.Header) > 0 {
			dashes := make([]string, len(widths))
			for j, n := range widths {
				dashes[j] = strings.Repeat("-", n)
			}
			if err := write(dashes); err != nil {
				return errors.Annotate(err, "failed to write header separator")
			}
		}
	}
	return nil
}

// columnNames are the Parquet column names: the header when present and
// unique, otherwise c0, c1, ...
func (t *Table) columnNames(n int) ([]string, error) {
	if len(t.Header) == 0 {
		names := make([]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("c%d", i)
		}
		return names, nil
	}
	if len(t.Header) != n {
		return nil, errors.Reason("header size [%d] != row size [%d]", len(t.Header), n)
	}
	seen := make(map[string]struct{})
	for _, h := range t.Header {
		if _, ok := seen[h]; ok {
			return nil, errors.Reason("duplicate column '%s'", h)
		}
		seen[h] = struct{}{}
	}
	return t.Header, nil
}

func (typ Type) parquetNode() parquet.Node {
	switch typ {
	case Int:
		return parquet.Int(64)
	case Uint:
		return parquet.Uint(64)
	case Float:
		return parquet.Leaf(parquet.DoubleType)
	case Date:
		return parquet.Date()
	}
	return parquet.String()
}

// parquetValue converts the CSV text of a typed value.
func (typ Type) parquetValue(s string) (parquet.Value, error) {
	switch typ {
	case Int:
		v, err := strconv.ParseInt(s, 10, 64)
		return parquet.Int64Value(v), err
	case Uint:
		v, err := strconv.ParseUint(s, 10, 64)
		return parquet.Int64Value(int64(v)), err
	case Float:
		v, err := strconv.ParseFloat(s, 64)
		return parquet.DoubleValue(v), err
	case Date:
		d, err := date.Parse(s)
		if err != nil {
			return parquet.Value{}, err
		}
		days := d.ToTime().Unix() / (24 * 60 * 60)
		return parquet.Int32Value(int32(days)), nil
	}
	return parquet.ByteArrayValue([]byte(s)), nil
}

// WriteParquet writes the table to w as a Parquet file with one column per
// table column, typed according to Table.Types. Params.NoHeader and
// MaxColWidth are ignored: Parquet columns are always named.
func (t *Table) WriteParquet(w io.Writer, p Params) error {
	rows := p.rows(t)
	n := len(t.Header)
	if len(rows) > 0 {
		n = len(rows[0].CSV())
	}
	if n == 0 {
		return errors.Reason("table has no columns")
	}
	names, err := t.columnNames(n)
	if err != nil {
		return errors.Annotate(err, "invalid table columns")
	}
	types := t.Types
	if len(types) == 0 {
		types = make([]Type, n)
	}
	if len(types) != n {
		return errors.Reason("number of types [%d] != number of columns [%d]", len(types), n)
	}
	group := make(parquet.Group, n)
	for i, name := range names {
		group[name] = types[i].parquetNode()
	}
	schema := parquet.NewSchema("table", group)
	// Parquet orders the columns of a group by name.
	index := make([]int, n)
	for i, name := range names {
		leaf, ok := schema.Lookup(name)
		if !ok {
			return errors.Reason("column '%s' is missing from the schema", name)
		}
		index[i] = leaf.ColumnIndex
	}

	batch := make([]parquet.Row, 0, len(rows))
	for i, r := range rows {
		values := r.CSV()
		if len(values) != n {
			return errors.Reason("row %d: size [%d] != expected size [%d]", i, len(values), n)
		}
		row := make(parquet.Row, n)
		for j, s := range values {
			v, err := types[j].parquetValue(s)
			if err != nil {
				return errors.Annotate(err, "row %d: invalid value in column %s", i, names[j])
			}
			row[index[j]] = v.Level(0, 0, index[j])
		}
		batch = append(batch, row)
	}
	pw := parquet.NewWriter(w, schema)
	if _, err := pw.WriteRows(batch); err != nil {
		return errors.Annotate(err, "failed to write rows")
	}
	if err := pw.Close(); err != nil {
		return errors.Annotate(err, "failed to close parquet writer")
	}
	return nil
}
