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
	"strconv"
	"strings"
	"unicode"
	"unsafe"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/krxetf/date"
	"golang.org/x/exp/constraints"
)

// Kind is the target type of a table column.
type Kind uint8

const (
	KindString Kind = iota
	KindDate
	KindUint32
	KindUint64
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	}
	return "unknown"
}

// Numeric is true for integer and floating point kinds.
func (k Kind) Numeric() bool { return k >= KindUint32 && k <= KindFloat64 }

// Column declares a single output column: which provider field it is read
// from, its output label and its type. Group, when not empty, is the upper
// level of a two-level column label.
type Column struct {
	Source string
	Label  string
	Group  string
	Kind   Kind
}

// Header is the printable column label, "Group/Label" for two-level columns.
func (c Column) Header() string {
	if c.Group == "" {
		return c.Label
	}
	return c.Group + "/" + c.Label
}

// Cell is a single converted value of a known Kind.
type Cell struct {
	Kind Kind
	str  string
	date date.Date
	u    uint64
	i    int64
	f    float64
}

func (c Cell) Text() string     { return c.str }
func (c Cell) Date() date.Date  { return c.date }
func (c Cell) Uint32() uint32   { return uint32(c.u) }
func (c Cell) Uint64() uint64   { return c.u }
func (c Cell) Int32() int32     { return int32(c.i) }
func (c Cell) Int64() int64     { return c.i }
func (c Cell) Float32() float32 { return float32(c.f) }
func (c Cell) Float64() float64 { return c.f }

// IsZero is true for a numeric cell holding zero. Non-numeric cells are never
// zero.
func (c Cell) IsZero() bool {
	switch c.Kind {
	case KindUint32, KindUint64:
		return c.u == 0
	case KindInt32, KindInt64:
		return c.i == 0
	case KindFloat32, KindFloat64:
		return c.f == 0
	}
	return false
}

// Less orders two cells of the same Kind.
func (c Cell) Less(c2 Cell) bool {
	switch c.Kind {
	case KindDate:
		return c.date.Before(c2.date)
	case KindUint32, KindUint64:
		return c.u < c2.u
	case KindInt32, KindInt64:
		return c.i < c2.i
	case KindFloat32, KindFloat64:
		return c.f < c2.f
	}
	return c.str < c2.str
}

// String formats the value for printing.
func (c Cell) String() string {
	switch c.Kind {
	case KindDate:
		return c.date.String()
	case KindUint32, KindUint64:
		return strconv.FormatUint(c.u, 10)
	case KindInt32, KindInt64:
		return strconv.FormatInt(c.i, 10)
	case KindFloat32:
		return formatFloat(c.f, 32)
	case KindFloat64:
		return formatFloat(c.f, 64)
	}
	return c.str
}

func formatFloat(f float64, bits int) string {
	return strconv.FormatFloat(f, 'f', -1, bits)
}

// bitSize is the width of T in bits.
func bitSize[T constraints.Integer | constraints.Float]() int {
	var zero T
	return int(unsafe.Sizeof(zero)) * 8
}

// parseInteger parses s into T, rejecting values outside of T's range and
// negative values for unsigned T.
func parseInteger[T constraints.Integer](s string) (T, error) {
	if signed := ^T(0) < 0; signed {
		v, err := strconv.ParseInt(s, 10, bitSize[T]())
		return T(v), err
	}
	v, err := strconv.ParseUint(s, 10, bitSize[T]())
	return T(v), err
}

// parseFloat parses s with the precision of T.
func parseFloat[T constraints.Float](s string) (T, error) {
	v, err := strconv.ParseFloat(s, bitSize[T]())
	return T(v), err
}

// ParseCell converts cleaned text to a Cell of the given Kind.
func ParseCell(s string, k Kind) (Cell, error) {
	c := Cell{Kind: k}
	var err error
	switch k {
	case KindString:
		c.str = s
	case KindDate:
		c.date, err = date.Parse(s)
	case KindUint32:
		var v uint32
		v, err = parseInteger[uint32](s)
		c.u = uint64(v)
	case KindUint64:
		c.u, err = parseInteger[uint64](s)
	case KindInt32:
		var v int32
		v, err = parseInteger[int32](s)
		c.i = int64(v)
	case KindInt64:
		c.i, err = parseInteger[int64](s)
	case KindFloat32:
		var v float32
		v, err = parseFloat[float32](s)
		c.f = float64(v)
	case KindFloat64:
		c.f, err = parseFloat[float64](s)
	default:
		err = errors.Reason("unsupported kind %d", k)
	}
	if err != nil {
		return Cell{}, errors.Annotate(err, "cannot convert '%s' to %s", s, k)
	}
	return c, nil
}

// StripGrouping removes thousands separators: "42,802,174,550" ->
// "42802174550".
func StripGrouping(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// DashToZero replaces the lone "-" which KRX sends for a missing value with
// "0".
func DashToZero(s string) string {
	if s == "-" {
		return "0"
	}
	return s
}

// Sanitize drops every character other than letters, digits, '_', '.' and
// '-'.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
}

// FixTicker extracts the short code from a value which KRX may send either as a
// short code ("005930") or as an ISIN ("KR7005930003"): values longer than 6
// characters are cut to the characters [3, 9).
func FixTicker(s string) string {
	r := []rune(s)
	if len(r) <= 6 {
		return s
	}
	return string(r[3:min(9, len(r))])
}
