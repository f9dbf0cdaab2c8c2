package helpers

import (
	"fmt"
	"math"
	"time"
)

// FormatAccountAge renders an account age as a short human string, the way
// the dashboard displays it ("3 days", "8 months", "5.2 years").
func FormatAccountAge(created, now time.Time) string {
	days := now.Sub(created).Hours() / 24
	switch {
	case days < 1:
		return "less than a day"
	case days < 60:
		return fmt.Sprintf("%d days", int(days))
	case days < 730:
		return fmt.Sprintf("%d months", int(days/30.44))
	default:
		return fmt.Sprintf("%.1f years", days/365.25)
	}
}

// Clamp01 bounds a normalized score to [0, 1]. Every extractor output passes
// through this before leaving the package.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// Mean of a float slice; zero for empty input rather than NaN.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// StdDev is the population standard deviation; zero for fewer than two
// samples.
func StdDev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := Mean(vals)
	sum := 0.0
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)))
}
