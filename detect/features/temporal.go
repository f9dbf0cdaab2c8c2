package features

import (
	"fmt"
	"time"

	"github.com/reddit-ranger/ranger/detect"
	"github.com/reddit-ranger/ranger/detect/helpers"
)

const lowDataRationale = "low-data: fewer than minimum activities for temporal analysis"

// TemporalFeatures scores the posting-cadence signals: interval regularity
// and round-the-clock activity coverage. Accounts with fewer than the
// configured minimum activities get the neutral default rather than a
// spurious reading off two or three intervals.
func TemporalFeatures(cfg *Config, profile *detect.AccountProfile, now time.Time) []detect.FeatureScore {
	if len(profile.Records) < cfg.MinActivities {
		return []detect.FeatureScore{
			detect.NeutralFeature("interval_regularity", detect.CategoryTemporal, lowDataRationale),
			detect.NeutralFeature("active_hours", detect.CategoryTemporal, lowDataRationale),
		}
	}
	return []detect.FeatureScore{
		intervalRegularity(profile),
		activeHours(profile),
	}
}

// mechanical schedules have near-constant spacing; the coefficient of
// variation of inter-activity intervals separates them from bursty human
// activity
func intervalRegularity(profile *detect.AccountProfile) detect.FeatureScore {
	intervals := make([]float64, 0, len(profile.Records)-1)
	for i := 1; i < len(profile.Records); i++ {
		gap := profile.Records[i].CreatedAt.Sub(profile.Records[i-1].CreatedAt).Seconds()
		intervals = append(intervals, gap)
	}

	mean := helpers.Mean(intervals)
	if mean == 0 {
		// every activity at the identical instant
		return detect.FeatureScore{
			Name:      "interval_regularity",
			Category:  detect.CategoryTemporal,
			Raw:       0,
			Value:     1,
			Rationale: "all activity shares a single timestamp",
		}
	}

	cv := helpers.StdDev(intervals) / mean
	var value float64
	switch {
	case cv < 0.1:
		value = 0.9
	case cv < 0.3:
		value = 0.7
	case cv < 0.5:
		value = 0.4
	default:
		value = 0.1
	}
	return detect.FeatureScore{
		Name:      "interval_regularity",
		Category:  detect.CategoryTemporal,
		Raw:       cv,
		Value:     value,
		Rationale: fmt.Sprintf("interval coefficient of variation %.3f over %d gaps", cv, len(intervals)),
	}
}

// sustained human engagement leaves multi-hour gaps (sleep); near-continuous
// 24-hour coverage over the trailing week does not
func activeHours(profile *detect.AccountProfile) detect.FeatureScore {
	last := profile.Records[len(profile.Records)-1].CreatedAt
	windowStart := last.Add(-7 * 24 * time.Hour)

	hoursSeen := make(map[int]bool)
	var windowed []time.Time
	for _, rec := range profile.Records {
		if rec.CreatedAt.Before(windowStart) {
			continue
		}
		hoursSeen[rec.CreatedAt.UTC().Hour()] = true
		windowed = append(windowed, rec.CreatedAt)
	}
	if len(windowed) < 2 {
		return detect.NeutralFeature("active_hours", detect.CategoryTemporal,
			"low-data: fewer than two activities in trailing 7-day window")
	}

	maxGap := 0.0
	for i := 1; i < len(windowed); i++ {
		gap := windowed[i].Sub(windowed[i-1]).Hours()
		if gap > maxGap {
			maxGap = gap
		}
	}

	coverage := float64(len(hoursSeen)) / 24
	// a human timeline has at least one long break per day; eight hours of
	// headroom before the signal zeroes out
	gaplessness := helpers.Clamp01(1 - maxGap/8)
	value := helpers.Clamp01(0.5*coverage + 0.5*gaplessness)
	return detect.FeatureScore{
		Name:      "active_hours",
		Category:  detect.CategoryTemporal,
		Raw:       maxGap,
		Value:     value,
		Rationale: fmt.Sprintf("%d of 24 hours active, longest gap %.1fh in trailing week", len(hoursSeen), maxGap),
	}
}
