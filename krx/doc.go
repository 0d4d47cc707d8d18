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

// Package krx implements a client for the KRX (Korea Exchange) market data
// service at data.krx.co.kr.
//
// Every KRX statistics screen is backed by a single JSON endpoint selected by
// its "bld" parameter, e.g. "dbms/MDC/STAT/standard/MDCSTAT04501" for the
// daily prices of one ETF. The response is a JSON object holding one list of
// records under a block key ("output", "OutBlock_1" or "block1"), where each
// record maps provider field names like "TDD_CLSPRC" to text values such as
// "41,835".
//
// Query builds such a request, Client executes it and returns the records as
// plain string maps. Interpreting the fields is left to the callers, such as
// the etf package.
package krx
