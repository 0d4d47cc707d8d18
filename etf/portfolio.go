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

	"github.com/stockparfait/krxetf/krx"
)

// HoldingRow is a row of the portfolio deposit file (PDF): one constituent of
// the ETF's creation basket.
type HoldingRow struct {
	Ticker string
	Shares float64 // number of shares (or contracts) per creation unit
	Amount uint64  // valuation, KRW
	Weight float32 // percent of the basket
}

// CSV implements table.Row.
func (r HoldingRow) CSV() []string {
	return []string{
		r.Ticker,
		formatFloat(r.Shares, 64),
		strconv.FormatUint(r.Amount, 10),
		formatFloat(float64(r.Weight), 32),
	}
}

// KRX mixes short codes and ISINs in COMPST_ISU_CD, hence FixTicker. Filler
// rows with all zeros are dropped.
var portfolioLayout = layout{
	op:    "PortfolioDepositFile",
	index: Column{Source: "COMPST_ISU_CD", Label: "티커", Kind: KindString},
	columns: []Column{
		{Source: "COMPST_ISU_CU1_SHRS", Label: "계약수", Kind: KindFloat64},
		{Source: "VALU_AMT", Label: "금액", Kind: KindUint64},
		{Source: "COMPST_RTO", Label: "비중", Kind: KindFloat32},
	},
	fixIndex: FixTicker,
	dropZero: true,
}

// PortfolioDepositFile returns the creation basket of the ETF on the given date
// (YYYYMMDD), keyed by the constituents' tickers in the order sent by KRX.
func PortfolioDepositFile(ctx context.Context, src Source, day, ticker string) (*Table[HoldingRow], error) {
	l := &portfolioLayout
	if _, err := checkDate(l.op, "date", day); err != nil {
		return nil, err
	}
	isin, err := resolve(ctx, src, l.op, ticker)
	if err != nil {
		return nil, err
	}
	q := krx.NewQuery(krx.BldETFPortfolio).Set(krx.ParamTradeDate, day).Set(krx.ParamISIN, isin)
	return run(ctx, src, l, q, func(key Cell, c []Cell) HoldingRow {
		return HoldingRow{
			Ticker: key.Text(),
			Shares: c[0].Float64(),
			Amount: c[1].Uint64(),
			Weight: c[2].Float32(),
		}
	})
}
