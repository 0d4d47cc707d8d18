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

// Package etf retrieves Korean ETF market data from KRX and converts the raw
// records into typed tables.
//
// Each operation fetches one KRX screen through a Source, selects and renames a
// fixed list of provider fields, cleans up numeric text ("1,690" -> "1690",
// "-" -> "0"), converts the values to fixed-width numeric types and keys the
// rows by date or ticker. Date-keyed tables are sorted by date.
//
// The projection of each operation is declared as a list of Column values:
// the provider field, the output label and the target Kind. An empty response
// yields a Table with the declared columns and no rows; a record lacking a
// declared field, or a value which does not convert to its Kind, fails the
// whole call with an *Error.
//
// A typical use:
//
//	client := krx.NewClient(krx.URL, krx.DefaultRate)
//	t, err := etf.OHLCVByDate(ctx, client, "20200101", "20200401", "295820")
//	if err != nil {
//	  ...
//	}
//	for _, r := range t.Rows {
//	  fmt.Println(r.Date, r.Close)
//	}
package etf
