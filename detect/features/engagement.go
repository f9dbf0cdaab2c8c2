package features

import (
	"fmt"
	"strings"

	"github.com/reddit-ranger/ranger/detect"
	"github.com/reddit-ranger/ranger/detect/helpers"
	"github.com/reddit-ranger/ranger/detect/keyword"
)

// EngagementFeatures scores where and how the account participates:
// subreddit concentration and the post/comment balance.
func EngagementFeatures(cfg *Config, profile *detect.AccountProfile) []detect.FeatureScore {
	if len(profile.Records) < cfg.MinActivities {
		reason := "low-data: fewer than minimum activities for engagement analysis"
		return []detect.FeatureScore{
			detect.NeutralFeature("subreddit_concentration", detect.CategoryEngagement, reason),
			detect.NeutralFeature("post_comment_ratio", detect.CategoryEngagement, reason),
		}
	}
	return []detect.FeatureScore{
		subredditConcentration(cfg, profile),
		postCommentRatio(cfg, profile),
	}
}

// Herfindahl-style concentration over subreddit activity counts, rescaled so
// 0 is an even spread and 1 is single-subreddit activity. Concentration in
// promotional-looking subreddits is weighted up.
func subredditConcentration(cfg *Config, profile *detect.AccountProfile) detect.FeatureScore {
	counts := profile.SubredditCounts()
	if len(counts) == 0 {
		return detect.NeutralFeature("subreddit_concentration", detect.CategoryEngagement,
			"no subreddit data on any record")
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	hhi := 0.0
	for _, n := range counts {
		share := float64(n) / float64(total)
		hhi += share * share
	}

	n := float64(len(counts))
	normalized := 1.0
	if n > 1 {
		normalized = (hhi - 1/n) / (1 - 1/n)
	}

	promo := false
	for name := range counts {
		slug := keyword.Slugify(name)
		for _, tok := range cfg.PromoSubredditTokens {
			if strings.Contains(slug, tok) {
				promo = true
				break
			}
		}
		if promo {
			break
		}
	}
	value := normalized
	rationale := fmt.Sprintf("%d subreddits, concentration index %.2f", len(counts), hhi)
	if promo {
		value *= 1.25
		rationale += ", includes promotional-looking subreddits"
	}

	return detect.FeatureScore{
		Name:      "subreddit_concentration",
		Category:  detect.CategoryEngagement,
		Raw:       hhi,
		Value:     helpers.Clamp01(value),
		Rationale: rationale,
	}
}

// scores distance of the comment fraction from the configured expected human
// range; all-posts or all-comments accounts score high
func postCommentRatio(cfg *Config, profile *detect.AccountProfile) detect.FeatureScore {
	comments := len(profile.Comments())
	posts := len(profile.Posts())
	total := comments + posts
	if total == 0 {
		return detect.NeutralFeature("post_comment_ratio", detect.CategoryEngagement, "no activity")
	}

	ratio := float64(comments) / float64(total)
	var value float64
	switch {
	case ratio < cfg.CommentRatioLow:
		value = (cfg.CommentRatioLow - ratio) / cfg.CommentRatioLow
	case ratio > cfg.CommentRatioHigh:
		value = (ratio - cfg.CommentRatioHigh) / (1 - cfg.CommentRatioHigh)
	default:
		value = 0
	}
	return detect.FeatureScore{
		Name:      "post_comment_ratio",
		Category:  detect.CategoryEngagement,
		Raw:       ratio,
		Value:     helpers.Clamp01(value),
		Rationale: fmt.Sprintf("%d comments vs %d submissions", comments, posts),
	}
}
