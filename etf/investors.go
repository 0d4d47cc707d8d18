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
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/krxetf/date"
	"github.com/stockparfait/krxetf/krx"
)

// Metric selects what investor trading is measured in.
type Metric uint8

const (
	MetricValue  Metric = 1 // trading value, KRW
	MetricVolume Metric = 2 // number of shares
)

func (m Metric) String() string {
	switch m {
	case MetricValue:
		return "value"
	case MetricVolume:
		return "volume"
	}
	return "unknown"
}

// Label is the column group label of the metric.
func (m Metric) Label() string {
	if m == MetricVolume {
		return "거래량"
	}
	return "거래대금"
}

func (m Metric) code() string { return strconv.Itoa(int(m)) }

// ParseMetric accepts "value" / "거래대금" and "volume" / "거래량".
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "value", "거래대금":
		return MetricValue, nil
	case "volume", "거래량":
		return MetricVolume, nil
	}
	return 0, errors.Reason("unknown metric: '%s'", s)
}

// Direction selects the side of the investor trades.
type Direction uint8

const (
	DirectionNet  Direction = 1
	DirectionBuy  Direction = 2
	DirectionSell Direction = 3
)

func (d Direction) String() string {
	switch d {
	case DirectionNet:
		return "net"
	case DirectionBuy:
		return "buy"
	case DirectionSell:
		return "sell"
	}
	return "unknown"
}

// Label is the column label of the direction.
func (d Direction) Label() string {
	switch d {
	case DirectionBuy:
		return "매수"
	case DirectionSell:
		return "매도"
	}
	return "순매수"
}

func (d Direction) code() string { return strconv.Itoa(int(d)) }

// ParseDirection accepts "net" / "순매수", "buy" / "매수" and "sell" / "매도".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "net", "순매수":
		return DirectionNet, nil
	case "buy", "매수":
		return DirectionBuy, nil
	case "sell", "매도":
		return DirectionSell, nil
	}
	return 0, errors.Reason("unknown direction: '%s'", s)
}

// TradeKey identifies a two-level column of TradingByInvestor.
type TradeKey struct {
	Metric    Metric
	Direction Direction
}

func (k TradeKey) String() string { return k.Metric.Label() + "/" + k.Direction.Label() }

// InvestorTradingRow is a row of TradingByInvestor: the totals of one investor
// category over the period.
type InvestorTradingRow struct {
	Investor   string
	VolumeSell uint64
	VolumeBuy  uint64
	VolumeNet  int64
	ValueSell  uint64
	ValueBuy   uint64
	ValueNet   int64
}

// Get returns the value of the two-level column. Unknown keys yield 0.
func (r InvestorTradingRow) Get(k TradeKey) int64 {
	switch k {
	case TradeKey{MetricVolume, DirectionSell}:
		return int64(r.VolumeSell)
	case TradeKey{MetricVolume, DirectionBuy}:
		return int64(r.VolumeBuy)
	case TradeKey{MetricVolume, DirectionNet}:
		return r.VolumeNet
	case TradeKey{MetricValue, DirectionSell}:
		return int64(r.ValueSell)
	case TradeKey{MetricValue, DirectionBuy}:
		return int64(r.ValueBuy)
	case TradeKey{MetricValue, DirectionNet}:
		return r.ValueNet
	}
	return 0
}

// CSV implements table.Row.
func (r InvestorTradingRow) CSV() []string {
	return []string{
		r.Investor,
		strconv.FormatUint(r.VolumeSell, 10),
		strconv.FormatUint(r.VolumeBuy, 10),
		strconv.FormatInt(r.VolumeNet, 10),
		strconv.FormatUint(r.ValueSell, 10),
		strconv.FormatUint(r.ValueBuy, 10),
		strconv.FormatInt(r.ValueNet, 10),
	}
}

// TradeKeys lists the columns of TradingByInvestor in order.
var TradeKeys = []TradeKey{
	{MetricVolume, DirectionSell},
	{MetricVolume, DirectionBuy},
	{MetricVolume, DirectionNet},
	{MetricValue, DirectionSell},
	{MetricValue, DirectionBuy},
	{MetricValue, DirectionNet},
}

func tradeColumn(source string, k TradeKey, kind Kind) Column {
	return Column{Source: source, Group: k.Metric.Label(), Label: k.Direction.Label(), Kind: kind}
}

var investorLayout = layout{
	op:    "TradingByInvestor",
	index: Column{Source: "INVST_NM", Label: "투자자", Kind: KindString},
	columns: []Column{
		tradeColumn("ASK_TRDVOL", TradeKeys[0], KindUint64),
		tradeColumn("BID_TRDVOL", TradeKeys[1], KindUint64),
		tradeColumn("NETBID_TRDVOL", TradeKeys[2], KindInt64),
		tradeColumn("ASK_TRDVAL", TradeKeys[3], KindUint64),
		tradeColumn("BID_TRDVAL", TradeKeys[4], KindUint64),
		tradeColumn("NETBID_TRDVAL", TradeKeys[5], KindInt64),
	},
}

// TradingByInvestor returns the ETF market's trading totals per investor
// category over the inclusive date range, in provider order.
func TradingByInvestor(ctx context.Context, src Source, fromdate, todate string) (*Table[InvestorTradingRow], error) {
	l := &investorLayout
	if err := checkPeriod(l.op, fromdate, todate); err != nil {
		return nil, err
	}
	q := krx.NewQuery(krx.BldETFInvestorsPeriod).Period(fromdate, todate)
	return run(ctx, src, l, q, func(key Cell, c []Cell) InvestorTradingRow {
		return InvestorTradingRow{
			Investor:   key.Text(),
			VolumeSell: c[0].Uint64(),
			VolumeBuy:  c[1].Uint64(),
			VolumeNet:  c[2].Int64(),
			ValueSell:  c[3].Uint64(),
			ValueBuy:   c[4].Uint64(),
			ValueNet:   c[5].Int64(),
		}
	})
}

// DailyTradingRow is a row of TradingByDate.
type DailyTradingRow struct {
	Date             date.Date
	Institution      int64
	OtherCorporation int64
	Individual       int64
	Foreign          int64
	Total            uint64
}

// CSV implements table.Row.
func (r DailyTradingRow) CSV() []string {
	return []string{
		r.Date.String(),
		strconv.FormatInt(r.Institution, 10),
		strconv.FormatInt(r.OtherCorporation, 10),
		strconv.FormatInt(r.Individual, 10),
		strconv.FormatInt(r.Foreign, 10),
		strconv.FormatUint(r.Total, 10),
	}
}

var dailyTradingLayout = layout{
	op:    "TradingByDate",
	index: Column{Source: "TRD_DD", Label: "날짜", Kind: KindDate},
	columns: []Column{
		{Source: "TRDVAL1", Label: "기관", Kind: KindInt64},
		{Source: "TRDVAL2", Label: "기타법인", Kind: KindInt64},
		{Source: "TRDVAL3", Label: "개인", Kind: KindInt64},
		{Source: "TRDVAL4", Label: "외국인", Kind: KindInt64},
		{Source: "TRDVAL_TOT", Label: "전체", Kind: KindUint64},
	},
	sorted: true,
}

// TradingByDate returns the ETF market's daily trading per investor category
// over the inclusive date range, sorted by date. The metric and the direction
// select which figure is reported.
func TradingByDate(ctx context.Context, src Source, fromdate, todate string, metric Metric, direction Direction) (*Table[DailyTradingRow], error) {
	l := &dailyTradingLayout
	if err := checkPeriod(l.op, fromdate, todate); err != nil {
		return nil, err
	}
	if metric != MetricValue && metric != MetricVolume {
		return nil, invalidInput(l.op, "metric", metric.String(), nil)
	}
	if direction < DirectionNet || direction > DirectionSell {
		return nil, invalidInput(l.op, "direction", direction.String(), nil)
	}
	q := krx.NewQuery(krx.BldETFInvestorsDaily).Period(fromdate, todate).
		Set(krx.ParamCond1, metric.code()).
		Set(krx.ParamCond2, direction.code())
	return run(ctx, src, l, q, func(key Cell, c []Cell) DailyTradingRow {
		return DailyTradingRow{
			Date:             key.Date(),
			Institution:      c[0].Int64(),
			OtherCorporation: c[1].Int64(),
			Individual:       c[2].Int64(),
			Foreign:          c[3].Int64(),
			Total:            c[4].Uint64(),
		}
	})
}
