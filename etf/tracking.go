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
	"strconv"

	"github.com/stockparfait/krxetf/date"
	"github.com/stockparfait/krxetf/krx"
)

// DeviationRow is a row of PriceDeviation.
type DeviationRow struct {
	Date      date.Date
	Close     uint32
	NAV       float64
	Deviation float32 // (Close - NAV) / NAV, percent
}

// CSV implements table.Row.
func (r DeviationRow) CSV() []string {
	return []string{
		r.Date.String(),
		strconv.FormatUint(uint64(r.Close), 10),
		formatFloat(r.NAV, 64),
		formatFloat(float64(r.Deviation), 32),
	}
}

var deviationLayout = layout{
	op:    "PriceDeviation",
	index: Column{Source: "TRD_DD", Label: "날짜", Kind: KindDate},
	columns: []Column{
		{Source: "CLSPRC", Label: "종가", Kind: KindUint32},
		{Source: "LST_NAV", Label: "NAV", Kind: KindFloat64},
		{Source: "DIVRG_RT", Label: "괴리율", Kind: KindFloat32},
	},
	sorted: true,
}

// PriceDeviation returns the daily deviation of the ETF's close from its NAV
// over the inclusive date range, sorted by date.
func PriceDeviation(ctx context.Context, src Source, fromdate, todate, ticker string) (*Table[DeviationRow], error) {
	l := &deviationLayout
	if err := checkPeriod(l.op, fromdate, todate); err != nil {
		return nil, err
	}
	isin, err := resolve(ctx, src, l.op, ticker)
	if err != nil {
		return nil, err
	}
	q := krx.NewQuery(krx.BldETFDeviation).Set(krx.ParamISIN, isin).Period(fromdate, todate)
	return run(ctx, src, l, q, func(key Cell, c []Cell) DeviationRow {
		return DeviationRow{
			Date:      key.Date(),
			Close:     c[0].Uint32(),
			NAV:       c[1].Float64(),
			Deviation: c[2].Float32(),
		}
	})
}

// TrackingErrorRow is a row of TrackingError.
type TrackingErrorRow struct {
	Date          date.Date
	NAV           float64
	Index         float64 // level of the underlying index
	TrackingError float32 // percent
}

// CSV implements table.Row.
func (r TrackingErrorRow) CSV() []string {
	return []string{
		r.Date.String(),
		formatFloat(r.NAV, 64),
		formatFloat(r.Index, 64),
		formatFloat(float64(r.TrackingError), 32),
	}
}

var trackingErrorLayout = layout{
	op:    "TrackingError",
	index: Column{Source: "TRD_DD", Label: "날짜", Kind: KindDate},
	columns: []Column{
		{Source: "LST_NAV", Label: "NAV", Kind: KindFloat64},
		{Source: "OBJ_STKPRC_IDX", Label: "지수", Kind: KindFloat64},
		{Source: "TRACE_ERR_RT", Label: "추적오차율", Kind: KindFloat32},
	},
	sorted: true,
}

// TrackingError returns the daily tracking error rate of the ETF against its
// underlying index over the inclusive date range, sorted by date.
func TrackingError(ctx context.Context, src Source, fromdate, todate, ticker string) (*Table[TrackingErrorRow], error) {
	l := &trackingErrorLayout
	if err := checkPeriod(l.op, fromdate, todate); err != nil {
		return nil, err
	}
	isin, err := resolve(ctx, src, l.op, ticker)
	if err != nil {
		return nil, err
	}
	q := krx.NewQuery(krx.BldETFTrackingError).Set(krx.ParamISIN, isin).Period(fromdate, todate)
	return run(ctx, src, l, q, func(key Cell, c []Cell) TrackingErrorRow {
		return TrackingErrorRow{
			Date:          key.Date(),
			NAV:           c[0].Float64(),
			Index:         c[1].Float64(),
			TrackingError: c[2].Float32(),
		}
	})
}
