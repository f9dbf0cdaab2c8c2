package features

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/reddit-ranger/ranger/detect"
	"github.com/reddit-ranger/ranger/detect/helpers"
	"github.com/reddit-ranger/ranger/detect/keyword"
)

// username shapes common among throwaway and scripted accounts
var (
	digitRunPattern   = regexp.MustCompile(`\d{4,}`)
	camelDigitPattern = regexp.MustCompile(`[A-Z][a-z]+\d{2,}`)
	wordDigitPattern  = regexp.MustCompile(`\w+_\w+_\d{2,}`)
	emailPattern      = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern      = regexp.MustCompile(`\d{3}[-.]?\d{3}[-.]?\d{4}`)
)

// AccountFeatures scores the account metadata signals: age, username
// pattern, and karma imbalance. The reference time is passed in so a given
// profile always scores identically within one analysis.
func AccountFeatures(cfg *Config, profile *detect.AccountProfile, now time.Time) []detect.FeatureScore {
	return []detect.FeatureScore{
		accountAge(cfg, profile, now),
		usernamePattern(cfg, profile),
		karmaImbalance(profile),
	}
}

// very young accounts score high; the signal decays linearly and plateaus at
// the configured maturity threshold
func accountAge(cfg *Config, profile *detect.AccountProfile, now time.Time) detect.FeatureScore {
	days := now.Sub(profile.CreatedAt).Hours() / 24
	value := helpers.Clamp01(1.0 - days/cfg.MaturityDays)
	return detect.FeatureScore{
		Name:      "account_age",
		Category:  detect.CategoryAccount,
		Raw:       days,
		Value:     value,
		Rationale: fmt.Sprintf("account is %s old", helpers.FormatAccountAge(profile.CreatedAt, now)),
	}
}

func usernamePattern(cfg *Config, profile *detect.AccountProfile) detect.FeatureScore {
	name := profile.Username
	lower := strings.ToLower(name)
	slug := keyword.Slugify(name)

	var hits []string
	if digitRunPattern.MatchString(name) {
		hits = append(hits, "digit-run")
	}
	if camelDigitPattern.MatchString(name) {
		hits = append(hits, "camelcase-digits")
	}
	if wordDigitPattern.MatchString(name) {
		hits = append(hits, "words-with-digits")
	}
	if emailPattern.MatchString(name) {
		hits = append(hits, "email-shape")
	}
	if phonePattern.MatchString(name) {
		hits = append(hits, "phone-shape")
	}
	for _, tok := range cfg.SpamUsernameTokens {
		if strings.Contains(slug, tok) {
			hits = append(hits, "spam-token:"+tok)
			break
		}
	}

	value := 0.2 * float64(len(hits))
	if shannonEntropy(lower) > 4.5 {
		hits = append(hits, "high-entropy")
		value += 0.15
	}
	if len(name) > 20 {
		hits = append(hits, "very-long")
		value += 0.1
	}

	rationale := "no suspicious username patterns"
	if len(hits) > 0 {
		rationale = "username matches: " + strings.Join(helpers.DedupeStrings(hits), ", ")
	}
	return detect.FeatureScore{
		Name:      "username_pattern",
		Category:  detect.CategoryAccount,
		Raw:       float64(len(hits)),
		Value:     helpers.Clamp01(value),
		Rationale: rationale,
	}
}

// extreme skew between link and comment karma, on a log scale. Six decades
// of skew saturates the signal.
func karmaImbalance(profile *detect.AccountProfile) detect.FeatureScore {
	link := math.Log10(1 + math.Max(0, float64(profile.LinkKarma)))
	comment := math.Log10(1 + math.Max(0, float64(profile.CommentKarma)))
	skew := math.Abs(link - comment)
	return detect.FeatureScore{
		Name:      "karma_imbalance",
		Category:  detect.CategoryAccount,
		Raw:       skew,
		Value:     helpers.Clamp01(skew / 6),
		Rationale: fmt.Sprintf("link karma %d vs comment karma %d", profile.LinkKarma, profile.CommentKarma),
	}
}

func shannonEntropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	freq := make(map[rune]int)
	total := 0
	for _, r := range s {
		freq[r]++
		total++
	}
	ent := 0.0
	for _, n := range freq {
		p := float64(n) / float64(total)
		ent -= p * math.Log2(p)
	}
	return ent
}
