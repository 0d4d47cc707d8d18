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

package etf

import (
	"context"
	"sort"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/krxetf/date"
	"github.com/stockparfait/krxetf/krx"
	"github.com/stockparfait/krxetf/table"
	"github.com/stockparfait/logging"
)

// Source is the remote data provider: it executes KRX queries and resolves
// ticker short codes to ISINs. It is implemented by *krx.Client.
type Source interface {
	Fetch(ctx context.Context, q *krx.Query) ([]krx.Record, error)
	ISIN(ctx context.Context, ticker string) (string, error)
}

var _ Source = &krx.Client{}

// Table is the result of an operation: typed rows keyed by the Index column,
// with the data columns in their declared order.
type Table[R table.Row] struct {
	Index   Column
	Columns []Column
	Rows    []R
}

// Len is the number of rows.
func (t *Table[R]) Len() int { return len(t.Rows) }

// Header returns the printable labels of the index and the data columns, in
// the order of the values in R.CSV().
func (t *Table[R]) Header() []string {
	h := []string{t.Index.Header()}
	for _, c := range t.Columns {
		h = append(h, c.Header())
	}
	return h
}

// Types returns the value types of the index and the data columns, in the
// order of the values in R.CSV().
func (t *Table[R]) Types() []table.Type {
	types := []table.Type{t.Index.Kind.tableType()}
	for _, c := range t.Columns {
		types = append(types, c.Kind.tableType())
	}
	return types
}

func (k Kind) tableType() table.Type {
	switch k {
	case KindDate:
		return table.Date
	case KindUint32, KindUint64:
		return table.Uint
	case KindInt32, KindInt64:
		return table.Int
	case KindFloat32, KindFloat64:
		return table.Float
	}
	return table.String
}

// Table converts the result to a printable table.Table.
func (t *Table[R]) Table() *table.Table {
	tbl := table.NewTable(t.Header()...)
	tbl.Types = t.Types()
	for _, r := range t.Rows {
		tbl.AddRow(r)
	}
	return tbl
}

// layout is the declarative description of an operation's result.
type layout struct {
	op       string // operation name for errors and logs
	index    Column
	columns  []Column
	sanitize bool                // apply Sanitize to every value
	fixIndex func(string) string // applied to the raw index value
	dropZero bool                // drop rows whose numeric cells are all zero
	sorted   bool                // sort rows by index
}

// entry is a converted record before it becomes a typed row.
type entry struct {
	key   Cell
	cells []Cell
}

func (l *layout) clean(s string) string {
	s = strings.TrimSpace(s)
	if l.sanitize {
		s = Sanitize(s)
	}
	return DashToZero(StripGrouping(s))
}

func (l *layout) cell(r krx.Record, row int, c Column, fix func(string) string) (Cell, error) {
	raw, ok := r[c.Source]
	if !ok {
		return Cell{}, &Error{Kind: MissingField, Op: l.op, Field: c.Source, Row: row}
	}
	if fix != nil {
		raw = fix(raw)
	}
	v, err := ParseCell(l.clean(raw), c.Kind)
	if err != nil {
		return Cell{}, &Error{
			Kind: CoercionFailure, Op: l.op, Field: c.Source, Row: row, Text: raw, Cause: err}
	}
	return v, nil
}

// parse converts the records according to the layout.
func (l *layout) parse(records []krx.Record) ([]entry, error) {
	entries := make([]entry, 0, len(records))
	for i, r := range records {
		key, err := l.cell(r, i, l.index, l.fixIndex)
		if err != nil {
			return nil, err
		}
		cells := make([]Cell, len(l.columns))
		for j, c := range l.columns {
			if cells[j], err = l.cell(r, i, c, nil); err != nil {
				return nil, err
			}
		}
		if l.dropZero && allZero(cells) {
			continue
		}
		entries = append(entries, entry{key: key, cells: cells})
	}
	if l.sorted {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].key.Less(entries[j].key)
		})
	}
	return entries, nil
}

func allZero(cells []Cell) bool {
	for _, c := range cells {
		if c.Kind.Numeric() && !c.IsZero() {
			return false
		}
	}
	return true
}

func emptyTable[R table.Row](l *layout) *Table[R] {
	columns := make([]Column, len(l.columns))
	copy(columns, l.columns)
	return &Table[R]{Index: l.index, Columns: columns, Rows: []R{}}
}

// load converts the fetched records into a Table. No records result in an empty
// table with the declared columns.
func load[R table.Row](ctx context.Context, l *layout, records []krx.Record, row func(key Cell, cells []Cell) R) (*Table[R], error) {
	t := emptyTable[R](l)
	if len(records) == 0 {
		logging.Debugf(ctx, "%s: no data", l.op)
		return t, nil
	}
	entries, err := l.parse(records)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, row(e.key, e.cells))
	}
	logging.Debugf(ctx, "%s: %d rows out of %d records", l.op, len(t.Rows), len(records))
	return t, nil
}

// run fetches the query and loads the result.
func run[R table.Row](ctx context.Context, src Source, l *layout, q *krx.Query, row func(key Cell, cells []Cell) R) (*Table[R], error) {
	records, err := src.Fetch(ctx, q)
	if err != nil {
		return nil, errors.Annotate(err, "%s: failed to fetch data", l.op)
	}
	return load(ctx, l, records, row)
}

// resolve looks up the ISIN of the ticker.
func resolve(ctx context.Context, src Source, op, ticker string) (string, error) {
	isin, err := src.ISIN(ctx, ticker)
	if err != nil {
		return "", &Error{Kind: LookupFailure, Op: op, Text: ticker, Cause: err}
	}
	return isin, nil
}

// checkDate validates a YYYYMMDD argument.
func checkDate(op, name, s string) (date.Date, error) {
	d, err := date.ParseCompact(s)
	if err != nil {
		return date.Date{}, invalidInput(op, name, s, err)
	}
	return d, nil
}

// checkPeriod validates an inclusive YYYYMMDD date range.
func checkPeriod(op, from, to string) error {
	f, err := checkDate(op, "fromdate", from)
	if err != nil {
		return err
	}
	t, err := checkDate(op, "todate", to)
	if err != nil {
		return err
	}
	if f.After(t) {
		return invalidInput(op, "fromdate", from, errors.Reason("fromdate is after todate %s", to))
	}
	return nil
}
