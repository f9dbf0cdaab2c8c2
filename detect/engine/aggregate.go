package engine

import (
	"math"
	"time"

	"github.com/reddit-ranger/ranger/detect"
	"github.com/reddit-ranger/ranger/detect/helpers"
)

// Aggregate folds per-feature scores into sub-category scores and the
// overall probability. This is the deterministic core: no randomness, no
// clock reads; identical features and weights always produce bit-identical
// output. Categories are walked in canonical order and the incoming feature
// order is preserved in the result.
func Aggregate(profile *detect.AccountProfile, features []detect.FeatureScore, weights *WeightConfig, computedAt time.Time) *detect.AnalysisResult {
	byCategory := make(map[string][]detect.FeatureScore, len(detect.Categories))
	for _, fs := range features {
		byCategory[fs.Category] = append(byCategory[fs.Category], fs)
	}

	categoryScores := make(map[string]float64, len(detect.Categories))
	overall, weightSum := 0.0, 0.0
	for _, cat := range detect.Categories {
		members := byCategory[cat]
		if len(members) == 0 {
			continue
		}
		score := categoryScore(members, weights)
		categoryScores[cat] = round1(score * 100)
		overall += score * weights.Categories[cat]
		weightSum += weights.Categories[cat]
	}
	if weightSum > 0 {
		overall /= weightSum
	}

	return &detect.AnalysisResult{
		Username:       profile.Username,
		Probability:    round1(helpers.Clamp01(overall) * 100),
		CategoryScores: categoryScores,
		Features:       features,
		Summary:        buildSummary(profile, computedAt),
		ComputedAt:     computedAt,
	}
}

// A category's score blends the weighted mean of its members with the
// strongest single member. The blend keeps one fully-expressed signal from
// being washed out by quiet siblings, while a lone weak signal still cannot
// dominate.
func categoryScore(members []detect.FeatureScore, weights *WeightConfig) float64 {
	mean, weightSum, max := 0.0, 0.0, 0.0
	for _, fs := range members {
		v := helpers.Clamp01(fs.Value)
		w := weights.featureWeight(fs.Name)
		mean += v * w
		weightSum += w
		if v > max {
			max = v
		}
	}
	if weightSum > 0 {
		mean /= weightSum
	}
	return (mean + max) / 2
}

func buildSummary(profile *detect.AccountProfile, computedAt time.Time) detect.Summary {
	comments := profile.Comments()
	posts := profile.Posts()

	return detect.Summary{
		AccountAge:         helpers.FormatAccountAge(profile.CreatedAt, computedAt),
		Karma:              profile.LinkKarma + profile.CommentKarma,
		TotalComments:      len(comments),
		TotalSubmissions:   len(posts),
		UniqueSubreddits:   len(profile.SubredditCounts()),
		AvgCommentScore:    round1(avgScore(comments)),
		AvgSubmissionScore: round1(avgScore(posts)),
	}
}

func avgScore(records []detect.ActivityRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, rec := range records {
		sum += float64(rec.Score)
	}
	return sum / float64(len(records))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
