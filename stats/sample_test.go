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

package stats

import (
	"math"
	"testing"

	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSample(t *testing.T) {
	t.Parallel()
	Convey("Sample works correctly", t, func() {
		data := []float64{1.5, 2.0, 2.5, 0.0, 1.5}

		Convey("Data is correct", func() {
			So(NewSample(data).Data(), ShouldResemble, data)
			So(NewSample(data).Len(), ShouldEqual, 5)
		})

		Convey("Mean", func() {
			So(NewSample(data).Mean(), ShouldEqual, 1.5)
			So(NewSample([]float64{2.0, 4.0}).Mean(), ShouldEqual, 3.0)
			So(NewSample([]float64{}).Mean(), ShouldEqual, 0.0)
		})

		Convey("Sigma", func() {
			So(testutil.Round(NewSample(data).Sigma(), 5), ShouldEqual,
				testutil.Round(math.Sqrt(0.875), 5))
			So(testutil.Round(NewSample([]float64{2.0, 4.0}).Sigma(), 5), ShouldEqual,
				testutil.Round(math.Sqrt(2.0), 5))
			So(NewSample([]float64{3.0}).Sigma(), ShouldEqual, 0.0)
			So(NewSample([]float64{}).Sigma(), ShouldEqual, 0.0)
		})

		Convey("Min, Max and quantiles", func() {
			s := NewSample(data)
			So(s.Min(), ShouldEqual, 0.0)
			So(s.Max(), ShouldEqual, 2.5)
			So(s.Median(), ShouldEqual, 1.5)
			So(s.Quantile(1.0), ShouldEqual, 2.5)
			So(s.Data(), ShouldResemble, []float64{1.5, 2.0, 2.5, 0.0, 1.5})
			So(NewSample(nil).Median(), ShouldEqual, 0.0)
		})

		Convey("Summary", func() {
			s := NewSample([]float64{1, 2, 3, 4, 5}).Summary()
			So(s.Count, ShouldEqual, 5)
			So(s.Mean, ShouldEqual, 3.0)
			So(testutil.Round(s.Sigma, 5), ShouldEqual, testutil.Round(math.Sqrt(2.5), 5))
			So(s.Min, ShouldEqual, 1.0)
			So(s.Max, ShouldEqual, 5.0)
			So(s.Median, ShouldEqual, 3.0)
			So(s.CSV(), ShouldResemble, []string{
				"5", "3.0000", "1.5811", "1.0000", "5.0000", "3.0000"})
			So(len(SummaryHeader), ShouldEqual, len(s.CSV()))
		})
	})
}
