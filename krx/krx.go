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
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
	"golang.org/x/time/rate"
)

// URL is the default JSON endpoint of the server. It may be overwritten in
// tests before creating a new client.
var URL = "http://data.krx.co.kr/comm/bldAttendant/getJsonData.cmd"

// DefaultRate is the default number of requests per second. KRX blocks clients
// which hammer the service.
const DefaultRate = 2.0

// blockKeys are the JSON keys under which KRX returns the list of records,
// depending on the screen.
var blockKeys = []string{"output", "OutBlock_1", "block1"}

// Record is a single row of a KRX response: field name -> raw text value.
type Record map[string]string

// Query is a builder for a KRX request. Builder methods never modify the
// receiver.
type Query struct {
	bld    string // screen identifier
	params map[string]string
}

// NewQuery creates a new query for the screen identified by bld.
func NewQuery(bld string) *Query {
	return &Query{bld: bld, params: make(map[string]string)}
}

// Copy creates a deep copy of the query.
func (q *Query) Copy() *Query {
	q2 := NewQuery(q.bld)
	for k, v := range q.params {
		q2.params[k] = v
	}
	return q2
}

// Bld returns the screen identifier of the query.
func (q *Query) Bld() string { return q.bld }

// Set adds or replaces a query parameter.
func (q *Query) Set(name, value string) *Query {
	q2 := q.Copy()
	q2.params[name] = value
	return q2
}

// Get returns the value of a query parameter, or "" if not set.
func (q *Query) Get(name string) string { return q.params[name] }

// Period sets the inclusive date range, each date as YYYYMMDD.
func (q *Query) Period(from, to string) *Query {
	return q.Set(ParamStartDate, from).Set(ParamEndDate, to)
}

// Values returns the URL query values of the request. Each call creates a new
// object, so the caller is free to modify it.
func (q *Query) Values() url.Values {
	v := make(url.Values)
	v.Set("bld", q.bld)
	for name, value := range q.params {
		v.Set(name, value)
	}
	return v
}

// Client for querying KRX screens.
type Client struct {
	baseURL string
	limiter *rate.Limiter
}

// NewClient creates a new client sending at most rps requests per second to
// baseURL. Non-positive rps disables the limit.
func NewClient(baseURL string, rps float64) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Client{
		baseURL: baseURL,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Fetch executes the query and returns its records. A response without any
// records is not an error: it results in an empty slice. The HTTP client is
// taken from the context, see fetch.UseClient.
func (c *Client) Fetch(ctx context.Context, q *Query) ([]Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Annotate(err, "rate limiter failed for %s", q.bld)
	}
	var resp map[string]interface{}
	if err := fetch.FetchJSON(ctx, c.baseURL, &resp, q.Values(), nil); err != nil {
		return nil, errors.Annotate(err, "failed to fetch %s", q.bld)
	}
	records, err := parseResponse(resp)
	if err != nil {
		return nil, errors.Annotate(err, "unexpected response for %s", q.bld)
	}
	logging.Debugf(ctx, "KRX %s: fetched %d records", q.bld, len(records))
	return records, nil
}

// ISIN finds the ISIN of an ETF given its 6-character short code.
func (c *Client) ISIN(ctx context.Context, ticker string) (string, error) {
	q := NewQuery(BldFinderETF).Set(ParamMarket, "ETF").Set(ParamSearch, ticker)
	records, err := c.Fetch(ctx, q)
	if err != nil {
		return "", errors.Annotate(err, "failed to look up ISIN for %s", ticker)
	}
	for _, r := range records {
		if r["short_code"] == ticker && r["full_code"] != "" {
			return r["full_code"], nil
		}
	}
	return "", errors.Reason("no ETF with ticker %s", ticker)
}

func parseResponse(resp map[string]interface{}) ([]Record, error) {
	for _, key := range blockKeys {
		v, ok := resp[key]
		if !ok || v == nil {
			continue
		}
		list, ok := v.([]interface{})
		if !ok {
			return nil, errors.Reason("block %s is not a list: %T", key, v)
		}
		records := make([]Record, 0, len(list))
		for i, item := range list {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, errors.Reason("record %d in %s is not an object: %T", i, key, item)
			}
			r := make(Record, len(m))
			for field, value := range m {
				r[field] = value2str(value)
			}
			records = append(records, r)
		}
		return records, nil
	}
	return []Record{}, nil
}

// value2str converts a JSON value to the text KRX would have sent.
func value2str(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64: // any number in JSON is unmarshaled as float64
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprintf("%v", v)
}

// TestResponse generates the JSON string in a format as returned by KRX, with
// records under the given block key. For use in tests.
func TestResponse(block string, records ...Record) (string, error) {
	bytes, err := json.Marshal(map[string][]Record{block: records})
	return string(bytes), err
}
