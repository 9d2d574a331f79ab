// Package timeline aggregates a cluster snapshot into a papers-per-year
// chart. It is the secondary view next to the scatter map: same snapshot,
// different axis. Like the scatter pipeline it is pure; hosts rebuild the
// series only when the snapshot changes and re-lay bars on resize.
package timeline

import (
	"sort"

	"github.com/vanderheijden86/litmap/pkg/model"
	"github.com/vanderheijden86/litmap/pkg/scatter"
)

// Mode selects how counts accumulate across years.
type Mode int

const (
	// ModeYearly shows the publication count of each year on its own.
	ModeYearly Mode = iota
	// ModeCumulative shows the running total up to and including each year.
	ModeCumulative
)

func (m Mode) String() string {
	if m == ModeCumulative {
		return "cumulative"
	}
	return "yearly"
}

// Toggle flips between the two modes.
func (m Mode) Toggle() Mode {
	if m == ModeYearly {
		return ModeCumulative
	}
	return ModeYearly
}

// YearCount is one chart column.
type YearCount struct {
	Year  int
	Count int
}

// Series is the aggregated chart data, ordered by ascending year with
// gap years filled in at zero so bars line up on a continuous axis.
type Series struct {
	Counts []YearCount
}

// Build aggregates points by publication year. Points with a zero year
// (missing in the source record) are dropped rather than charted as year 0.
func Build(points []model.ClusterPoint) Series {
	byYear := make(map[int]int)
	for _, p := range points {
		if p.Year == 0 {
			continue
		}
		byYear[p.Year]++
	}
	if len(byYear) == 0 {
		return Series{}
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	lo, hi := years[0], years[len(years)-1]
	counts := make([]YearCount, 0, hi-lo+1)
	for y := lo; y <= hi; y++ {
		counts = append(counts, YearCount{Year: y, Count: byYear[y]})
	}
	return Series{Counts: counts}
}

// Empty reports whether the series has nothing to chart.
func (s Series) Empty() bool { return len(s.Counts) == 0 }

// Total returns the number of charted papers.
func (s Series) Total() int {
	n := 0
	for _, c := range s.Counts {
		n += c.Count
	}
	return n
}

// Values returns the per-column values for the given mode.
func (s Series) Values(mode Mode) []YearCount {
	if mode != ModeCumulative {
		return s.Counts
	}
	out := make([]YearCount, len(s.Counts))
	run := 0
	for i, c := range s.Counts {
		run += c.Count
		out[i] = YearCount{Year: c.Year, Count: run}
	}
	return out
}

// Bar is one laid-out chart column in pixel space. Y is the top of the
// bar; the bar extends down to the chart baseline.
type Bar struct {
	Year  int
	Count int
	X, Y  float64
	W, H  float64
}

// Bars lays the series out inside the viewport. The tallest column fills
// the plot height; every other bar scales linearly against it.
func (s Series) Bars(mode Mode, vp scatter.Viewport) []Bar {
	vals := s.Values(mode)
	if len(vals) == 0 {
		return nil
	}
	maxCount := 0
	for _, v := range vals {
		if v.Count > maxCount {
			maxCount = v.Count
		}
	}
	if maxCount == 0 {
		return nil
	}

	m := vp.Margin
	plotW := vp.W - m.Left - m.Right
	plotH := vp.H - m.Top - m.Bottom
	baseline := vp.H - m.Bottom
	slot := plotW / float64(len(vals))
	// Leave a one-fifth gap between columns; never thinner than 1px.
	barW := slot * 0.8
	if barW < 1 {
		barW = 1
	}

	bars := make([]Bar, len(vals))
	for i, v := range vals {
		h := plotH * float64(v.Count) / float64(maxCount)
		bars[i] = Bar{
			Year:  v.Year,
			Count: v.Count,
			X:     m.Left + float64(i)*slot + (slot-barW)/2,
			Y:     baseline - h,
			W:     barW,
			H:     h,
		}
	}
	return bars
}
