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
	"github.com/stockparfait/errors"
	"github.com/stockparfait/krxetf/date"
)

// Timeseries stores numeric values along with dates. The dates are always
// sorted in ascending order.
type Timeseries struct {
	dates []date.Date
	data  []float64
}

// NewTimeseries creates a new Timeseries. The dates are expected to be sorted
// in ascending order (not checked). It panics if dates and data have different
// lengths.  Note, that the argument slices are used as is, not copied.
func NewTimeseries(dates []date.Date, data []float64) *Timeseries {
	if len(dates) != len(data) {
		panic(errors.Reason("len(dates) [%d] != len(data) [%d]",
			len(dates), len(data)))
	}
	return &Timeseries{dates: dates, data: data}
}

// TimeseriesFrom extracts a Timeseries from date-indexed rows, e.g. the rows of
// an ETF deviation table.
func TimeseriesFrom[R any](rows []R, d func(R) date.Date, v func(R) float64) *Timeseries {
	dates := make([]date.Date, len(rows))
	data := make([]float64, len(rows))
	for i, r := range rows {
		dates[i] = d(r)
		data[i] = v(r)
	}
	return NewTimeseries(dates, data)
}

// Dates of the Timeseries.
func (t *Timeseries) Dates() []date.Date { return t.dates }

// Data of the Timeseries.
func (t *Timeseries) Data() []float64 { return t.data }

// Len is the number of points in the Timeseries.
func (t *Timeseries) Len() int { return len(t.data) }

// Check that Timeseries is consistent: the lengths of dates and data are the
// same and the dates are strictly ascending.
func (t *Timeseries) Check() error {
	if len(t.dates) != len(t.data) {
		return errors.Reason("len(dates) [%d] != len(data) [%d]",
			len(t.dates), len(t.data))
	}
	for i := 1; i < len(t.dates); i++ {
		if !t.dates[i-1].Before(t.dates[i]) {
			return errors.Reason("dates[%d] = %s >= dates[%d] = %s",
				i-1, t.dates[i-1], i, t.dates[i])
		}
	}
	return nil
}

// Range extracts the sub-series from the inclusive date interval. It may return
// an empty Timeseries, but never nil.
func (t *Timeseries) Range(start, end date.Date) *Timeseries {
	var dates []date.Date
	var data []float64
	for i, d := range t.dates {
		if d.InRange(start, end) {
			dates = append(dates, d)
			data = append(data, t.data[i])
		}
	}
	return NewTimeseries(dates, data)
}

// Sample of the Timeseries values, sharing the data.
func (t *Timeseries) Sample() *Sample { return NewSample(t.data) }
