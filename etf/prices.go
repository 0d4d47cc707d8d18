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

// Quote is the daily trading summary of an ETF.
type Quote struct {
	NAV       float64
	Open      uint32
	High      uint32
	Low       uint32
	Close     uint32
	Volume    uint64  // number of shares traded
	Value     uint64  // trading value, KRW
	BaseIndex float64 // level of the underlying index
}

func quoteColumns(nav string) []Column {
	return []Column{
		{Source: nav, Label: "NAV", Kind: KindFloat64},
		{Source: "TDD_OPNPRC", Label: "시가", Kind: KindUint32},
		{Source: "TDD_HGPRC", Label: "고가", Kind: KindUint32},
		{Source: "TDD_LWPRC", Label: "저가", Kind: KindUint32},
		{Source: "TDD_CLSPRC", Label: "종가", Kind: KindUint32},
		{Source: "ACC_TRDVOL", Label: "거래량", Kind: KindUint64},
		{Source: "ACC_TRDVAL", Label: "거래대금", Kind: KindUint64},
		{Source: "OBJ_STKPRC_IDX", Label: "기초지수", Kind: KindFloat64},
	}
}

func newQuote(c []Cell) Quote {
	return Quote{
		NAV:       c[0].Float64(),
		Open:      c[1].Uint32(),
		High:      c[2].Uint32(),
		Low:       c[3].Uint32(),
		Close:     c[4].Uint32(),
		Volume:    c[5].Uint64(),
		Value:     c[6].Uint64(),
		BaseIndex: c[7].Float64(),
	}
}

func (q Quote) csv() []string {
	return []string{
		formatFloat(q.NAV, 64),
		strconv.FormatUint(uint64(q.Open), 10),
		strconv.FormatUint(uint64(q.High), 10),
		strconv.FormatUint(uint64(q.Low), 10),
		strconv.FormatUint(uint64(q.Close), 10),
		strconv.FormatUint(q.Volume, 10),
		strconv.FormatUint(q.Value, 10),
		formatFloat(q.BaseIndex, 64),
	}
}

// PriceRow is a row of OHLCVByDate.
type PriceRow struct {
	Date date.Date
	Quote
}

// CSV implements table.Row.
func (r PriceRow) CSV() []string {
	return append([]string{r.Date.String()}, r.Quote.csv()...)
}

// TickerPriceRow is a row of OHLCVByTicker.
type TickerPriceRow struct {
	Ticker string
	Quote
}

// CSV implements table.Row.
func (r TickerPriceRow) CSV() []string {
	return append([]string{r.Ticker}, r.Quote.csv()...)
}

var ohlcvByDateLayout = layout{
	op:      "OHLCVByDate",
	index:   Column{Source: "TRD_DD", Label: "날짜", Kind: KindDate},
	columns: quoteColumns("LST_NAV"),
	sorted:  true,
}

var ohlcvByTickerLayout = layout{
	op:       "OHLCVByTicker",
	index:    Column{Source: "ISU_SRT_CD", Label: "티커", Kind: KindString},
	columns:  quoteColumns("NAV"),
	sanitize: true,
}

// OHLCVByDate returns the daily prices of the ETF for the inclusive date range
// [fromdate, todate] given as YYYYMMDD, sorted by date.
func OHLCVByDate(ctx context.Context, src Source, fromdate, todate, ticker string) (*Table[PriceRow], error) {
	l := &ohlcvByDateLayout
	if err := checkPeriod(l.op, fromdate, todate); err != nil {
		return nil, err
	}
	isin, err := resolve(ctx, src, l.op, ticker)
	if err != nil {
		return nil, err
	}
	q := krx.NewQuery(krx.BldETFPriceByDate).Set(krx.ParamISIN, isin).Period(fromdate, todate)
	return run(ctx, src, l, q, func(key Cell, c []Cell) PriceRow {
		return PriceRow{Date: key.Date(), Quote: newQuote(c)}
	})
}

// OHLCVByTicker returns the prices of all the ETFs on the given date (YYYYMMDD)
// keyed by ticker.
func OHLCVByTicker(ctx context.Context, src Source, day string) (*Table[TickerPriceRow], error) {
	l := &ohlcvByTickerLayout
	if _, err := checkDate(l.op, "date", day); err != nil {
		return nil, err
	}
	q := krx.NewQuery(krx.BldETFPriceByTicker).Set(krx.ParamTradeDate, day)
	return run(ctx, src, l, q, func(key Cell, c []Cell) TickerPriceRow {
		return TickerPriceRow{Ticker: key.Text(), Quote: newQuote(c)}
	})
}

// PriceChangeRow is a row of PriceChangeByTicker.
type PriceChangeRow struct {
	Ticker     string
	Open       uint32  // base price at the start of the period
	Close      uint32  // close at the end of the period
	Change     int32   // Close - Open
	ChangeRate float32 // percent
	Volume     uint64
	Value      uint64
}

// CSV implements table.Row.
func (r PriceChangeRow) CSV() []string {
	return []string{
		r.Ticker,
		strconv.FormatUint(uint64(r.Open), 10),
		strconv.FormatUint(uint64(r.Close), 10),
		strconv.FormatInt(int64(r.Change), 10),
		formatFloat(float64(r.ChangeRate), 32),
		strconv.FormatUint(r.Volume, 10),
		strconv.FormatUint(r.Value, 10),
	}
}

var priceChangeLayout = layout{
	op:    "PriceChangeByTicker",
	index: Column{Source: "ISU_SRT_CD", Label: "티커", Kind: KindString},
	columns: []Column{
		{Source: "BAS_PRC", Label: "시가", Kind: KindUint32},
		{Source: "CLSPRC", Label: "종가", Kind: KindUint32},
		{Source: "CMP_PRC", Label: "변동폭", Kind: KindInt32},
		{Source: "FLUC_RT", Label: "등락률", Kind: KindFloat32},
		{Source: "ACC_TRDVOL", Label: "거래량", Kind: KindUint64},
		{Source: "ACC_TRDVAL", Label: "거래대금", Kind: KindUint64},
	},
	sanitize: true,
}

// PriceChangeByTicker returns the price change of all the ETFs over the
// inclusive date range, keyed by ticker.
func PriceChangeByTicker(ctx context.Context, src Source, fromdate, todate string) (*Table[PriceChangeRow], error) {
	l := &priceChangeLayout
	if err := checkPeriod(l.op, fromdate, todate); err != nil {
		return nil, err
	}
	q := krx.NewQuery(krx.BldETFPriceChange).Period(fromdate, todate)
	return run(ctx, src, l, q, func(key Cell, c []Cell) PriceChangeRow {
		return PriceChangeRow{
			Ticker:     key.Text(),
			Open:       c[0].Uint32(),
			Close:      c[1].Uint32(),
			Change:     c[2].Int32(),
			ChangeRate: c[3].Float32(),
			Volume:     c[4].Uint64(),
			Value:      c[5].Uint64(),
		}
	})
}
