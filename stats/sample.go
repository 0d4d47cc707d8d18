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
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sample stores unordered set of numerical data (float64) and computes various
// statistics over it.
type Sample struct {
	data   []float64 // keep it private, so we correctly update caches.
	sorted []float64 // cached sorted copy of data, for quantiles
}

// NewSample creates a new sample. Note, that it reuses the slice without
// copying.
func NewSample(data []float64) *Sample {
	return &Sample{data: data}
}

// Data returns the sample data.
func (s *Sample) Data() []float64 { return s.data }

// Len is the number of samples.
func (s *Sample) Len() int { return len(s.data) }

// Mean of the Sample; 0 for an empty Sample.
func (s *Sample) Mean() float64 {
	if len(s.data) == 0 {
		return 0.0
	}
	return stat.Mean(s.data, nil)
}

// Sigma is the unbiased standard deviation of the Sample; 0 for fewer than two
// samples.
func (s *Sample) Sigma() float64 {
	if len(s.data) < 2 {
		return 0.0
	}
	return stat.StdDev(s.data, nil)
}

// Min of the Sample; 0 for an empty Sample.
func (s *Sample) Min() float64 {
	if len(s.data) == 0 {
		return 0.0
	}
	return floats.Min(s.data)
}

// Max of the Sample; 0 for an empty Sample.
func (s *Sample) Max() float64 {
	if len(s.data) == 0 {
		return 0.0
	}
	return floats.Max(s.data)
}

// Quantile returns the smallest sample value q such that at least the fraction
// p of the samples are <= q. It is 0 for an empty Sample.
func (s *Sample) Quantile(p float64) float64 {
	if len(s.data) == 0 {
		return 0.0
	}
	if s.sorted == nil {
		s.sorted = make([]float64, len(s.data))
		copy(s.sorted, s.data)
		sort.Float64s(s.sorted)
	}
	return stat.Quantile(p, stat.Empirical, s.sorted, nil)
}

// Median is the 0.5 Quantile.
func (s *Sample) Median() float64 { return s.Quantile(0.5) }

// Summary of a Sample.
type Summary struct {
	Count  int
	Mean   float64
	Sigma  float64
	Min    float64
	Max    float64
	Median float64
}

// SummaryHeader are the column names of Summary.CSV.
var SummaryHeader = []string{"count", "mean", "std", "min", "max", "median"}

// CSV implements table.Row.
func (s Summary) CSV() []string {
	f := func(x float64) string { return strconv.FormatFloat(x, 'f', 4, 64) }
	return []string{
		strconv.Itoa(s.Count), f(s.Mean), f(s.Sigma), f(s.Min), f(s.Max), f(s.Median),
	}
}

// Summary computes the Summary of the Sample.
func (s *Sample) Summary() Summary {
	return Summary{
		Count:  s.Len(),
		Mean:   s.Mean(),
		Sigma:  s.Sigma(),
		Min:    s.Min(),
		Max:    s.Max(),
		Median: s.Median(),
	}
}
