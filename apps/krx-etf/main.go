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

// Command krx-etf downloads and prints Korean ETF market data from KRX.
package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/krxetf/date"
	"github.com/stockparfait/krxetf/etf"
	"github.com/stockparfait/krxetf/krx"
	"github.com/stockparfait/krxetf/stats"
	"github.com/stockparfait/krxetf/table"
	"github.com/stockparfait/logging"

	toml "github.com/pelletier/go-toml/v2"
)

// Operations supported by the -op flag.
const (
	OpOHLCV         = "ohlcv"
	OpSnapshot      = "snapshot"
	OpChange        = "change"
	OpPDF           = "pdf"
	OpDeviation     = "deviation"
	OpTrackingError = "tracking-error"
	OpInvestors     = "investors"
	OpInvestorsDay  = "investors-daily"
)

type Flags struct {
	ConfDir   string // default: ~/.krxetf
	LogLevel  logging.Level
	Op        string
	From      string // YYYYMMDD
	To        string // YYYYMMDD
	Date      string // YYYYMMDD
	Tickers   []string
	Metric    etf.Metric
	Direction etf.Direction
	CSV       bool   // print CSV; default: text
	Parquet   string // write the table to this Parquet file instead
	Summary   bool   // print summary statistics of the rate column
}

// perTicker is true for the operations which take a ticker.
func perTicker(op string) bool {
	switch op {
	case OpOHLCV, OpPDF, OpDeviation, OpTrackingError:
		return true
	}
	return false
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	var tickers, metric, direction string
	fs := flag.NewFlagSet("krx-etf", flag.ExitOnError)
	fs.StringVar(&flags.ConfDir, "conf",
		filepath.Join(os.Getenv("HOME"), ".krxetf"),
		"directory with the optional config.toml")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.StringVar(&flags.Op, "op", "", "operation: "+strings.Join([]string{
		OpOHLCV, OpSnapshot, OpChange, OpPDF, OpDeviation, OpTrackingError,
		OpInvestors, OpInvestorsDay}, ", "))
	fs.StringVar(&flags.From, "from", "", "start date YYYYMMDD, inclusive")
	fs.StringVar(&flags.To, "to", "", "end date YYYYMMDD, inclusive; default: -from")
	fs.StringVar(&flags.Date, "date", "", "trading date YYYYMMDD")
	fs.StringVar(&tickers, "tickers", "", "comma-separated ETF tickers")
	fs.StringVar(&metric, "metric", "value", "investors-daily metric: value or volume")
	fs.StringVar(&direction, "direction", "net", "investors-daily direction: net, buy or sell")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")
	fs.StringVar(&flags.Parquet, "parquet", "", "write the table to a Parquet file")
	fs.BoolVar(&flags.Summary, "summary", false,
		"print statistics of the deviation or tracking error rates")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	var err error
	if flags.Metric, err = etf.ParseMetric(metric); err != nil {
		return nil, errors.Annotate(err, "invalid -metric")
	}
	if flags.Direction, err = etf.ParseDirection(direction); err != nil {
		return nil, errors.Annotate(err, "invalid -direction")
	}
	for _, t := range strings.Split(tickers, ",") {
		if t = strings.TrimSpace(t); t != "" {
			flags.Tickers = append(flags.Tickers, t)
		}
	}
	if flags.To == "" {
		flags.To = flags.From
	}
	switch flags.Op {
	case OpOHLCV, OpChange, OpDeviation, OpTrackingError, OpInvestors, OpInvestorsDay:
		if flags.From == "" {
			return nil, errors.Reason("-op %s requires -from", flags.Op)
		}
	case OpSnapshot, OpPDF:
		if flags.Date == "" {
			return nil, errors.Reason("-op %s requires -date", flags.Op)
		}
	case "":
		return nil, errors.Reason("missing required -op argument")
	default:
		return nil, errors.Reason("unknown -op %s", flags.Op)
	}
	if perTicker(flags.Op) && len(flags.Tickers) == 0 {
		return nil, errors.Reason("-op %s requires -tickers", flags.Op)
	}
	if flags.Summary && flags.Op != OpDeviation && flags.Op != OpTrackingError {
		return nil, errors.Reason("-summary requires -op %s or %s", OpDeviation, OpTrackingError)
	}
	return &flags, nil
}

type Config struct {
	URL       string  `toml:"url"`        // KRX JSON endpoint
	Rate      float64 `toml:"rate"`       // max. requests per second; 0 = unlimited
	Workers   int     `toml:"workers"`    // parallel tickers
	UserAgent string  `toml:"user_agent"` // sent with every request
	Referer   string  `toml:"referer"`    // sent with every request
}

func defaultConfig() *Config {
	return &Config{
		URL:       krx.URL,
		Rate:      krx.DefaultRate,
		Workers:   2 * runtime.NumCPU(),
		UserAgent: "Mozilla/5.0",
		Referer:   "http://data.krx.co.kr/contents/MDC/MDI/mdiLoader",
	}
}

// parseConfig reads <dir>/config.toml over the defaults. A missing file is not
// an error.
func parseConfig(dir string) (*Config, error) {
	c := defaultConfig()
	filePath := filepath.Join(dir, "config.toml")
	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	if err := d.Decode(c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	if c.URL == "" {
		return nil, errors.Reason("url must not be empty in %s", filePath)
	}
	if c.Rate < 0 {
		return nil, errors.Reason("rate=%g must be >= 0 in %s", c.Rate, filePath)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return c, nil
}

// headerTransport adds fixed headers to every request. KRX rejects requests
// without a browser-like User-Agent and Referer.
type headerTransport struct {
	base   http.RoundTripper
	header http.Header
}

var _ http.RoundTripper = &headerTransport{}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.header {
		r.Header[k] = v
	}
	return t.base.RoundTrip(r)
}

func newHTTPClient(c *Config, base http.RoundTripper) *http.Client {
	h := make(http.Header)
	if c.UserAgent != "" {
		h.Set("User-Agent", c.UserAgent)
	}
	if c.Referer != "" {
		h.Set("Referer", c.Referer)
	}
	return &http.Client{Transport: &headerTransport{base: base, header: h}}
}

// result of an operation for a single ticker.
type result struct {
	ticker  string
	table   *table.Table
	summary stats.Summary
	err     error
}

// tickerRow prefixes a row with its ticker.
type tickerRow struct {
	ticker string
	row    table.Row
}

func (r tickerRow) CSV() []string { return append([]string{r.ticker}, r.row.CSV()...) }

type namedSummary struct {
	ticker string
	stats.Summary
}

func (s namedSummary) CSV() []string { return append([]string{s.ticker}, s.Summary.CSV()...) }

// rates summarizes the rate column of date-indexed rows over the requested
// period. Rows outside of [From, To] are ignored.
func rates[R any](flags *Flags, rows []R, d func(R) date.Date, v func(R) float64) (stats.Summary, error) {
	ts := stats.TimeseriesFrom(rows, d, v)
	if err := ts.Check(); err != nil {
		return stats.Summary{}, errors.Annotate(err, "inconsistent daily rates")
	}
	from, err := date.ParseCompact(flags.From)
	if err != nil {
		return stats.Summary{}, errors.Annotate(err, "invalid -from")
	}
	to, err := date.ParseCompact(flags.To)
	if err != nil {
		return stats.Summary{}, errors.Annotate(err, "invalid -to")
	}
	return ts.Range(from, to).Sample().Summary(), nil
}

// tickerTable runs a per-ticker operation.
func tickerTable(ctx context.Context, src etf.Source, flags *Flags, ticker string) result {
	res := result{ticker: ticker}
	switch flags.Op {
	case OpOHLCV:
		t, err := etf.OHLCVByDate(ctx, src, flags.From, flags.To, ticker)
		if res.err = err; err == nil {
			res.table = t.Table()
		}
	case OpPDF:
		t, err := etf.PortfolioDepositFile(ctx, src, flags.Date, ticker)
		if res.err = err; err == nil {
			res.table = t.Table()
		}
	case OpDeviation:
		t, err := etf.PriceDeviation(ctx, src, flags.From, flags.To, ticker)
		if res.err = err; err == nil {
			res.table = t.Table()
			res.summary, res.err = rates(flags, t.Rows,
				func(r etf.DeviationRow) date.Date { return r.Date },
				func(r etf.DeviationRow) float64 { return float64(r.Deviation) })
		}
	case OpTrackingError:
		t, err := etf.TrackingError(ctx, src, flags.From, flags.To, ticker)
		if res.err = err; err == nil {
			res.table = t.Table()
			res.summary, res.err = rates(flags, t.Rows,
				func(r etf.TrackingErrorRow) date.Date { return r.Date },
				func(r etf.TrackingErrorRow) float64 { return float64(r.TrackingError) })
		}
	default:
		res.err = errors.Reason("operation %s does not take a ticker", flags.Op)
	}
	if res.err != nil {
		res.err = errors.Annotate(res.err, "failed to process %s", ticker)
	}
	return res
}

// tickersTable runs a per-ticker operation for all the tickers in parallel and
// merges the results ordered by ticker.
func tickersTable(ctx context.Context, src etf.Source, flags *Flags, workers int) (*table.Table, error) {
	f := func(ticker string) result {
		logging.Debugf(ctx, "processing %s", ticker)
		return tickerTable(ctx, src, flags, ticker)
	}
	pm := iterator.ParallelMap(ctx, workers, iterator.FromSlice(flags.Tickers), f)
	defer pm.Close()

	results := iterator.Reduce[result, []result](pm, []result{}, func(r result, rs []result) []result {
		return append(rs, r)
	})
	sort.Slice(results, func(i, j int) bool { return results[i].ticker < results[j].ticker })
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
	}
	if flags.Summary {
		tbl := table.NewTable(append([]string{"ETF"}, stats.SummaryHeader...)...)
		tbl.Types = []table.Type{
			table.String, table.Int, table.Float, table.Float, table.Float, table.Float, table.Float}
		for _, r := range results {
			tbl.AddRow(namedSummary{ticker: r.ticker, Summary: r.summary})
		}
		return tbl, nil
	}
	if len(results) == 1 {
		return results[0].table, nil
	}
	tbl := table.NewTable(append([]string{"ETF"}, results[0].table.Header...)...)
	if len(results[0].table.Types) > 0 {
		tbl.Types = append([]table.Type{table.String}, results[0].table.Types...)
	}
	for _, r := range results {
		for _, row := range r.table.Rows {
			tbl.AddRow(tickerRow{ticker: r.ticker, row: row})
		}
	}
	return tbl, nil
}

// marketTable runs an operation over the whole ETF market.
func marketTable(ctx context.Context, src etf.Source, flags *Flags) (*table.Table, error) {
	switch flags.Op {
	case OpSnapshot:
		t, err := etf.OHLCVByTicker(ctx, src, flags.Date)
		if err != nil {
			return nil, err
		}
		return t.Table(), nil
	case OpChange:
		t, err := etf.PriceChangeByTicker(ctx, src, flags.From, flags.To)
		if err != nil {
			return nil, err
		}
		return t.Table(), nil
	case OpInvestors:
		t, err := etf.TradingByInvestor(ctx, src, flags.From, flags.To)
		if err != nil {
			return nil, err
		}
		return t.Table(), nil
	case OpInvestorsDay:
		t, err := etf.TradingByDate(ctx, src, flags.From, flags.To, flags.Metric, flags.Direction)
		if err != nil {
			return nil, err
		}
		return t.Table(), nil
	}
	return nil, errors.Reason("unsupported operation %s", flags.Op)
}

func writeTable(ctx context.Context, tbl *table.Table, flags *Flags, w io.Writer) error {
	if flags.Parquet != "" {
		f, err := os.Create(flags.Parquet)
		if err != nil {
			return errors.Annotate(err, "failed to create %s", flags.Parquet)
		}
		if err := tbl.WriteParquet(f, table.Params{}); err != nil {
			f.Close()
			return errors.Annotate(err, "failed to write %s", flags.Parquet)
		}
		if err := f.Close(); err != nil {
			return errors.Annotate(err, "failed to close %s", flags.Parquet)
		}
		logging.Infof(ctx, "wrote %d rows to %s", len(tbl.Rows), flags.Parquet)
		return nil
	}
	if flags.CSV {
		if err := tbl.WriteCSV(w, table.Params{}); err != nil {
			return errors.Annotate(err, "failed to print CSV")
		}
		return nil
	}
	if err := tbl.WriteText(w, table.Params{}); err != nil {
		return errors.Annotate(err, "failed to print text")
	}
	return nil
}

// printData runs the operation and writes the result to w. The HTTP client is
// taken from the context.
func printData(ctx context.Context, flags *Flags, config *Config, w io.Writer) error {
	src := krx.NewClient(config.URL, config.Rate)
	var tbl *table.Table
	var err error
	if perTicker(flags.Op) {
		tbl, err = tickersTable(ctx, src, flags, config.Workers)
	} else {
		tbl, err = marketTable(ctx, src, flags)
	}
	if err != nil {
		return errors.Annotate(err, "failed to run %s", flags.Op)
	}
	return writeTable(ctx, tbl, flags, w)
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	config, err := parseConfig(flags.ConfDir)
	if err != nil {
		logging.Errorf(ctx, "failed to parse config: %s", err.Error())
		os.Exit(1)
	}
	ctx = fetch.UseClient(ctx, newHTTPClient(config, http.DefaultTransport))

	if err := printData(ctx, flags, config, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
