// Package forecast holds the calendar arithmetic and series scanning for
// the freight-cost-index forecast window.
package forecast

import (
	"fmt"
	"sort"
	"time"
)

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int
	Month int
}

// YearMonthOf truncates t to its calendar month.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: int(t.Month())}
}

// AddMonths advances by n calendar months, crossing year boundaries.
func (ym YearMonth) AddMonths(n int) YearMonth {
	total := ym.Year*12 + (ym.Month - 1) + n
	return YearMonth{Year: total / 12, Month: total%12 + 1}
}

// Before reports chronological order.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// MonthsBetween counts calendar months from one month to another.
func MonthsBetween(from, to YearMonth) int {
	return (to.Year-from.Year)*12 + (to.Month - from.Month)
}

// Point is one month's freight cost index.
type Point struct {
	YearMonth
	Index int
}

// Window returns the inclusive [start, start+months] endpoints of the
// forecast horizon. Both endpoints belong to the window; this is calendar
// arithmetic, not a fixed day count.
func Window(start YearMonth, months int) (YearMonth, YearMonth) {
	return start, start.AddMonths(months)
}

// MinIndex finds the point with the lowest index, breaking ties on the
// chronologically first occurrence. Returns false on an empty series.
func MinIndex(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].YearMonth.Before(sorted[j].YearMonth)
	})

	min := sorted[0]
	for _, p := range sorted[1:] {
		if p.Index < min.Index {
			min = p
		}
	}
	return min, true
}

// Trend describes the month-over-month index movement.
type Trend struct {
	From      Point
	To        Point
	Direction string
}

// Trends pairs consecutive months of the series with a rising/falling
// direction. A flat step counts as falling, matching the published
// dashboard convention.
func Trends(points []Point) []Trend {
	if len(points) < 2 {
		return nil
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].YearMonth.Before(sorted[j].YearMonth)
	})

	trends := make([]Trend, 0, len(sorted)-1)
	for i := 0; i < len(sorted)-1; i++ {
		direction := "falling"
		if sorted[i+1].Index > sorted[i].Index {
			direction = "rising"
		}
		trends = append(trends, Trend{From: sorted[i], To: sorted[i+1], Direction: direction})
	}
	return trends
}
