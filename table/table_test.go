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

package table

import (
	"bytes"
	"testing"

	"github.com/parquet-go/parquet-go"

	. "github.com/smartystreets/goconvey/convey"
)

type TestRow struct {
	Make  string
	Model string
}

func (r TestRow) CSV() []string { return []string{r.Make, r.Model} }

type TypedRow struct {
	Name   string
	Change string
	Volume string
	Rate   string
	Date   string
}

func (r TypedRow) CSV() []string { return []string{r.Name, r.Change, r.Volume, r.Rate, r.Date} }

func TestTable(t *testing.T) {
	t.Parallel()

	Convey("Table methods work", t, func() {
		t := NewTable("Make", "Model")
		headless := NewTable()

		So(t.Header, ShouldResemble, []string{"Make", "Model"})
		t.AddRow(TestRow{"Toyota", "Prius"}, TestRow{"Honda", "Clarity"})
		headless.AddRow(TestRow{"Toyota", "Prius"}, TestRow{"Honda", "Clarity"})

		Convey("AddRow worked", func() {
			So(len(t.Rows), ShouldEqual, 2)
			So(len(headless.Rows), ShouldEqual, 2)
		})

		Convey("WriteCSV", func() {
			Convey("Default Params", func() {
				var buf bytes.Buffer
				So(t.WriteCSV(&buf, Params{}), ShouldBeNil)
				So("\n"+buf.String(), ShouldEqual, `
Make,Model
Toyota,Prius
Honda,Clarity
`)
			})

			Convey("Default Params, headless", func() {
				var buf bytes.Buffer
				So(headless.WriteCSV(&buf, Params{}), ShouldBeNil)
				So("\n"+buf.String(), ShouldEqual, `
Toyota,Prius
Honda,Clarity
`)
			})

			Convey("Limited rows, no header", func() {
				var buf bytes.Buffer
				So(t.WriteCSV(&buf, Params{Rows: 1, NoHeader: true}), ShouldBeNil)
				So("\n"+buf.String(), ShouldEqual, `
Toyota,Prius
`)
			})
		})

		Convey("WriteText", func() {
			Convey("Default Params", func() {
				var buf bytes.Buffer
				So(t.WriteText(&buf, Params{}), ShouldBeNil)
				So("\n"+buf.String(), ShouldEqual, `
  Make |   Model
------ | -------
Toyota |   Prius
 Honda | Clarity
`)
			})

			Convey("Default Params, headless", func() {
				var buf bytes.Buffer
				So(headless.WriteText(&buf, Params{}), ShouldBeNil)
				So("\n"+buf.String(), ShouldEqual, `
Toyota |   Prius
 Honda | Clarity
`)
			})

			Convey("Limited rows and width, no header", func() {
				var buf bytes.Buffer
				So(t.WriteText(&buf, Params{Rows: 1, NoHeader: true, MaxColWidth: 4}), ShouldBeNil)
				So("\n"+buf.String(), ShouldResemble, `
To.. | Pr..
`)
			})
		})
	
		Convey("WriteParquet", func() {
			Convey("with header", func() {
				var buf bytes.Buffer
				So(t.WriteParquet(&buf, Params{}), ShouldBeNil)
				f, err := parquet.OpenFile(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
				So(err, ShouldBeNil)
				So(f.NumRows(), ShouldEqual, 2)
				So(f.Schema().Columns(), ShouldResemble, [][]string{{"Make"}, {"Model"}})
			})

			Convey("headless, limited rows", func() {
				var buf bytes.Buffer
				So(headless.WriteParquet(&buf, Params{Rows: 1}), ShouldBeNil)
				f, err := parquet.OpenFile(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
				So(err, ShouldBeNil)
				So(f.NumRows(), ShouldEqual, 1)
				So(f.Schema().Columns(), ShouldResemble, [][]string{{"c0"}, {"c1"}})
			})

			Convey("duplicate columns", func() {
				dup := NewTable("Make", "Make")
				dup.AddRow(TestRow{"Toyota", "Prius"})
				var buf bytes.Buffer
				So(dup.WriteParquet(&buf, Params{}), ShouldNotBeNil)
			})

			Convey("typed columns", func() {
				typed := NewTable("name", "change", "volume", "rate", "date")
				typed.Types = []Type{String, Int, Uint, Float, Date}
				typed.AddRow(
					TypedRow{"152100", "-1690", "1002296", "4.05", "2021-01-04"},
					TypedRow{"069500", "0", "0", "0", "2021-01-05"})
				var buf bytes.Buffer
				So(typed.WriteParquet(&buf, Params{}), ShouldBeNil)
				f, err := parquet.OpenFile(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
				So(err, ShouldBeNil)
				So(f.NumRows(), ShouldEqual, 2)
				kind := func(name string) parquet.Kind {
					leaf, ok := f.Schema().Lookup(name)
					So(ok, ShouldBeTrue)
					return leaf.Node.Type().Kind()
				}
				So(kind("name"), ShouldEqual, parquet.ByteArray)
				So(kind("change"), ShouldEqual, parquet.Int64)
				So(kind("volume"), ShouldEqual, parquet.Int64)
				So(kind("rate"), ShouldEqual, parquet.Double)
				So(kind("date"), ShouldEqual, parquet.Int32)

				Convey("rejects values of the wrong type", func() {
					typed.AddRow(TypedRow{"bad", "n/a", "0", "0", "2021-01-06"})
					So(typed.WriteParquet(&bytes.Buffer{}, Params{}), ShouldNotBeNil)
				})

				Convey("rejects a wrong number of types", func() {
					typed.Types = []Type{String, Int}
					So(typed.WriteParquet(&bytes.Buffer{}, Params{}), ShouldNotBeNil)
				})
			})

			Convey("no columns", func() {
				var buf bytes.Buffer
				So(NewTable().WriteParquet(&buf, Params{}), ShouldNotBeNil)
			})
		})
	})

	Convey("Wide characters are aligned by display width", t, func() {
		So(Width("티커"), ShouldEqual, 4)
		So(Width("NAV"), ShouldEqual, 3)
		So(truncate("거래대금", 5), ShouldEqual, "거..")

		t := NewTable("티커", "종가")
		t.AddRow(TestRow{"152100", "43405"})
		var buf bytes.Buffer
		So(t.WriteText(&buf, Params{}), ShouldBeNil)
		So("\n"+buf.String(), ShouldEqual, `
  티커 |  종가
------ | -----
152100 | 43405
`)
	})
}
