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

// Screen identifiers ("bld") of the ETF statistics used by this module.
const (
	BldETFPriceByDate     = "dbms/MDC/STAT/standard/MDCSTAT04501" // 개별종목 시세 추이
	BldETFPriceByTicker   = "dbms/MDC/STAT/standard/MDCSTAT04301" // 전종목 시세
	BldETFPriceChange     = "dbms/MDC/STAT/standard/MDCSTAT04401" // 전종목 등락률
	BldETFPortfolio       = "dbms/MDC/STAT/standard/MDCSTAT05001" // PDF
	BldETFTrackingError   = "dbms/MDC/STAT/standard/MDCSTAT05901" // 추적오차율 추이
	BldETFDeviation       = "dbms/MDC/STAT/standard/MDCSTAT06001" // 괴리율 추이
	BldETFInvestorsPeriod = "dbms/MDC/STAT/standard/MDCSTAT04801" // 투자자별 거래실적, 기간합계
	BldETFInvestorsDaily  = "dbms/MDC/STAT/standard/MDCSTAT04802" // 투자자별 거래실적, 일별추이
	BldFinderETF          = "dbms/comm/finder/finder_secuprodisu" // 종목 검색
)

// Query parameter names.
const (
	ParamISIN      = "isuCd"
	ParamTradeDate = "trdDd"
	ParamStartDate = "strtDd"
	ParamEndDate   = "endDd"
	ParamCond1     = "inqCondTpCd1"
	ParamCond2     = "inqCondTpCd2"
	ParamMarket    = "mktsel"
	ParamSearch    = "searchText"
)
