package detect

import (
	"fmt"
	"time"
)

// sub-category names, also used as weight table keys
const (
	CategoryAccount     = "account"
	CategoryTemporal    = "temporal"
	CategoryEngagement  = "engagement"
	CategoryLinguistic  = "linguistic"
	CategoryStylometric = "stylometric"
)

// Categories lists all sub-categories in canonical order. Aggregation
// iterates this slice, not a map, so output ordering is deterministic.
var Categories = []string{
	CategoryAccount,
	CategoryTemporal,
	CategoryEngagement,
	CategoryLinguistic,
	CategoryStylometric,
}

// NeutralScore is the fallback normalized value emitted when an extractor
// does not have enough data to say anything either way.
const NeutralScore = 0.5

// FeatureScore is one named signal. Value is always within [0, 1]; Raw is
// the unbounded measurement it was derived from.
type FeatureScore struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Raw       float64 `json:"raw"`
	Value     float64 `json:"value"`
	Rationale string  `json:"rationale"`
}

// NeutralFeature constructs a 0.5-valued score with an explanatory
// rationale, for low-data fallbacks.
func NeutralFeature(name, category, reason string) FeatureScore {
	return FeatureScore{
		Name:      name,
		Category:  category,
		Raw:       0,
		Value:     NeutralScore,
		Rationale: reason,
	}
}

func (fs FeatureScore) String() string {
	return fmt.Sprintf("%s: %0.2f", fs.Name, fs.Value)
}

// Summary is the human-oriented block included with every result.
type Summary struct {
	AccountAge         string  `json:"account_age"`
	Karma              int64   `json:"karma"`
	TotalComments      int     `json:"total_comments"`
	TotalSubmissions   int     `json:"total_submissions"`
	UniqueSubreddits   int     `json:"unique_subreddits"`
	AvgCommentScore    float64 `json:"avg_comment_score"`
	AvgSubmissionScore float64 `json:"avg_submission_score"`
}

// AnalysisResult is the complete output for one account. Immutable once
// produced; a re-analysis yields a new value.
type AnalysisResult struct {
	Username string `json:"username"`

	// estimated automation likelihood, percentage with one decimal
	Probability float64 `json:"probability"`

	// per-category aggregated scores, also 0-100
	CategoryScores map[string]float64 `json:"category_scores"`

	Features   []FeatureScore `json:"features"`
	Summary    Summary        `json:"summary"`
	ComputedAt time.Time      `json:"computed_at"`
}
