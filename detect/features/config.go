// Package features implements the behavioral, temporal, and linguistic
// signal extractors. Every extractor is a pure function of an immutable
// AccountProfile and a static Config: no shared state, no wall clock other
// than the reference time passed in, so extractors can run concurrently and
// are individually unit-testable.
package features

import (
	"encoding/json"
	"io"
	"os"
)

// Config holds the extractor thresholds and curated match lists. Values here
// are versioned configuration, not runtime-tunable state.
type Config struct {
	// account age at which the age signal fully plateaus
	MaturityDays float64 `json:"maturity_days"`

	// minimum activity count for temporal analysis; below this the
	// temporal signals emit the neutral default
	MinActivities int `json:"min_activities"`

	// minimum words per timeline half for stylometric drift analysis
	MinStylometricWords int `json:"min_stylometric_words"`

	// token count for the comment-opening n-gram comparison
	GreetingTokens int `json:"greeting_tokens"`

	// max edit distance for a comment to count as a near-match of a
	// generic template
	GenericEditDistance int `json:"generic_edit_distance"`

	// match fraction at which a linguistic sub-signal saturates to 1.0
	LinguisticSaturation float64 `json:"linguistic_saturation"`

	// relative weights of the four linguistic sub-signals; normalized at
	// aggregation, defaults are equal
	LinguisticWeights map[string]float64 `json:"linguistic_weights"`

	// expected human range for the comment fraction of total activity
	CommentRatioLow  float64 `json:"comment_ratio_low"`
	CommentRatioHigh float64 `json:"comment_ratio_high"`

	// slug substrings marking a subreddit as promotional-looking
	PromoSubredditTokens []string `json:"promo_subreddit_tokens"`

	// slug substrings in usernames associated with spam accounts
	SpamUsernameTokens []string `json:"spam_username_tokens"`

	// URL substrings for shortener/affiliate link detection
	URLDenylist []string `json:"url_denylist"`

	// curated promotional phrases, matched case-insensitively
	PromoPhrases []string `json:"promo_phrases"`

	// low-effort comment templates, compared token-normalized
	GenericTemplates []string `json:"generic_templates"`
}

func DefaultConfig() *Config {
	return &Config{
		MaturityDays:         365,
		MinActivities:        5,
		MinStylometricWords:  40,
		GreetingTokens:       4,
		GenericEditDistance:  2,
		LinguisticSaturation: 0.35,
		LinguisticWeights: map[string]float64{
			"identical_greetings": 1,
			"url_density":         1,
			"promo_phrases":       1,
			"generic_responses":   1,
		},
		CommentRatioLow:  0.3,
		CommentRatioHigh: 0.9,
		PromoSubredditTokens: []string{
			"free", "deal", "discount", "promo", "sale", "offer",
			"buy", "sell", "shop", "store", "crypto", "referral",
		},
		SpamUsernameTokens: []string{
			"bot", "best", "top", "cheap", "deal", "price", "buy", "sell",
			"official", "promo",
		},
		URLDenylist: []string{
			"bit.ly", "tinyurl.com", "goo.gl", "ow.ly", "is.gd",
			"buff.ly", "amzn.to", "rebrand.ly", "cutt.ly",
			"?ref=", "&ref=", "?aff=", "&aff=", "affiliate",
		},
		PromoPhrases: []string{
			"check out my", "limited time", "best price", "discount code",
			"promo code", "use code", "free shipping", "special offer",
			"click here", "dm me", "link in bio",
		},
		GenericTemplates: []string{
			"great post", "thanks for sharing", "nice work", "this is so true",
			"came here to say this", "take my upvote", "underrated comment",
			"couldn't agree more", "this deserves more upvotes", "lol nice",
		},
	}
}

// LoadFromFileJSON overlays configuration from a JSON file onto the
// receiver. Zero-valued fields in the file keep their existing values.
func (c *Config) LoadFromFileJSON(p string) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, c)
}
