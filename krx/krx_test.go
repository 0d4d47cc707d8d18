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

package krx

import (
	"context"
	"net/url"
	"testing"

	"github.com/stockparfait/fetch"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestKRX(t *testing.T) {
	t.Parallel()

	Convey("Query builds nondestructively", t, func() {
		q := NewQuery(BldETFPriceByDate)
		q2 := q.Set(ParamISIN, "KR7152100004")
		q3 := q2.Period("20200101", "20200401")
		So(q.Values(), ShouldResemble, url.Values{"bld": []string{BldETFPriceByDate}})
		So(q2.Get(ParamISIN), ShouldEqual, "KR7152100004")
		So(q2.Get(ParamStartDate), ShouldEqual, "")
		So(q3.Values(), ShouldResemble, url.Values{
			"bld":          []string{BldETFPriceByDate},
			ParamISIN:      []string{"KR7152100004"},
			ParamStartDate: []string{"20200101"},
			ParamEndDate:   []string{"20200401"},
		})
		So(q3.Bld(), ShouldEqual, BldETFPriceByDate)
	})

	Convey("parseResponse", t, func() {
		Convey("reads any known block", func() {
			records, err := parseResponse(map[string]interface{}{
				"OutBlock_1": []interface{}{
					map[string]interface{}{"A": "1,000", "B": 2.5, "C": nil, "D": true},
				},
				"CURRENT_DATETIME": "2021.03.25 PM 04:00:00",
			})
			So(err, ShouldBeNil)
			So(records, ShouldResemble, []Record{{"A": "1,000", "B": "2.5", "C": "", "D": "true"}})
		})

		Convey("no block is an empty result", func() {
			records, err := parseResponse(map[string]interface{}{})
			So(err, ShouldBeNil)
			So(len(records), ShouldEqual, 0)
		})

		Convey("malformed blocks are errors", func() {
			_, err := parseResponse(map[string]interface{}{"output": "oops"})
			So(err, ShouldNotBeNil)
			_, err = parseResponse(map[string]interface{}{"output": []interface{}{1.0}})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Client works with the server", t, func() {
		server := testutil.NewTestServer()
		defer server.Close()
		ctx := fetch.UseClient(context.Background(), server.Client())
		client := NewClient(server.URL()+"/comm/bldAttendant/getJsonData.cmd", 0)

		Convey("Fetch", func() {
			page, err := TestResponse("output",
				Record{"TRD_DD": "2020/01/02", "TDD_CLSPRC": "8,285"},
				Record{"TRD_DD": "2020/01/03", "TDD_CLSPRC": "8,290"})
			So(err, ShouldBeNil)
			server.ResponseBody = []string{page}
			q := NewQuery(BldETFPriceByDate).Set(ParamISIN, "KR7295820000").Period("20200101", "20200105")
			records, err := client.Fetch(ctx, q)
			So(err, ShouldBeNil)
			So(records, ShouldResemble, []Record{
				{"TRD_DD": "2020/01/02", "TDD_CLSPRC": "8,285"},
				{"TRD_DD": "2020/01/03", "TDD_CLSPRC": "8,290"},
			})
			So(server.RequestPath, ShouldEqual, "/comm/bldAttendant/getJsonData.cmd")
			So(server.RequestQuery, ShouldResemble, q.Values())
		})

		Convey("Fetch with empty output", func() {
			page, err := TestResponse("output")
			So(err, ShouldBeNil)
			server.ResponseBody = []string{page}
			records, err := client.Fetch(ctx, NewQuery(BldETFPriceByTicker))
			So(err, ShouldBeNil)
			So(len(records), ShouldEqual, 0)
		})

		Convey("ISIN finds the short code", func() {
			page, err := TestResponse("block1",
				Record{"full_code": "KR7152100004", "short_code": "152100", "codeName": "ARIRANG 200"},
				Record{"full_code": "KR7152101002", "short_code": "152101", "codeName": "OTHER"})
			So(err, ShouldBeNil)
			server.ResponseBody = []string{page}
			isin, err := client.ISIN(ctx, "152100")
			So(err, ShouldBeNil)
			So(isin, ShouldEqual, "KR7152100004")
			So(server.RequestQuery.Get(ParamSearch), ShouldEqual, "152100")
			So(server.RequestQuery.Get(ParamMarket), ShouldEqual, "ETF")
			So(server.RequestQuery.Get("bld"), ShouldEqual, BldFinderETF)
		})

		Convey("ISIN fails for unknown tickers", func() {
			page, err := TestResponse("block1")
			So(err, ShouldBeNil)
			server.ResponseBody = []string{page}
			_, err = client.ISIN(ctx, "999999")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "999999")
		})
	})
}
