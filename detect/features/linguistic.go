package features

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/reddit-ranger/ranger/detect"
	"github.com/reddit-ranger/ranger/detect/helpers"
	"github.com/reddit-ranger/ranger/detect/keyword"
)

// LinguisticFeatures scores the four textual sub-signals: repeated comment
// openings, shortener/affiliate URL density, promotional phrasing, and
// low-effort template responses. Each is the matched fraction of eligible
// text units, ramped so that cfg.LinguisticSaturation of matches already
// counts as a fully-expressed signal.
func LinguisticFeatures(cfg *Config, profile *detect.AccountProfile) []detect.FeatureScore {
	return []detect.FeatureScore{
		identicalGreetings(cfg, profile),
		urlDensity(cfg, profile),
		promoPhrases(cfg, profile),
		genericResponses(cfg, profile),
	}
}

func ramp(fraction, saturation float64) float64 {
	if saturation <= 0 {
		return helpers.Clamp01(fraction)
	}
	return helpers.Clamp01(fraction / saturation)
}

// fraction of comments whose opening n-gram exactly matches another comment
// by the same account
func identicalGreetings(cfg *Config, profile *detect.AccountProfile) detect.FeatureScore {
	// bucket by hash of the normalized opening, not the raw text
	openings := make(map[string]int)
	eligible := 0
	for _, rec := range profile.Comments() {
		ngram := keyword.OpeningNgram(rec.Body, cfg.GreetingTokens)
		if ngram == "" {
			continue
		}
		eligible++
		openings[helpers.HashOfString(ngram)]++
	}
	if eligible == 0 {
		// absence of comments is not evidence of templating
		return detect.FeatureScore{
			Name:      "identical_greetings",
			Category:  detect.CategoryLinguistic,
			Rationale: "no comment text to compare openings",
		}
	}

	matched := 0
	for _, n := range openings {
		if n > 1 {
			matched += n
		}
	}
	fraction := float64(matched) / float64(eligible)
	return detect.FeatureScore{
		Name:      "identical_greetings",
		Category:  detect.CategoryLinguistic,
		Raw:       fraction,
		Value:     ramp(fraction, cfg.LinguisticSaturation),
		Rationale: fmt.Sprintf("%d of %d comments share an opening %d-gram", matched, eligible, cfg.GreetingTokens),
	}
}

// fraction of records containing a URL matching the shortener/affiliate
// denylist
func urlDensity(cfg *Config, profile *detect.AccountProfile) detect.FeatureScore {
	eligible, matched := 0, 0
	for _, rec := range profile.Records {
		if rec.Body == "" {
			continue
		}
		eligible++
		if recordHasDenylistedURL(cfg, rec.Body) {
			matched++
		}
	}
	if eligible == 0 {
		return detect.FeatureScore{
			Name:      "url_density",
			Category:  detect.CategoryLinguistic,
			Raw:       0,
			Value:     0,
			Rationale: "no text to scan for URLs",
		}
	}
	fraction := float64(matched) / float64(eligible)
	return detect.FeatureScore{
		Name:      "url_density",
		Category:  detect.CategoryLinguistic,
		Raw:       fraction,
		Value:     ramp(fraction, cfg.LinguisticSaturation),
		Rationale: fmt.Sprintf("%d of %d text units link to denylisted URL patterns", matched, eligible),
	}
}

func recordHasDenylistedURL(cfg *Config, body string) bool {
	for _, u := range helpers.ExtractTextURLs(body) {
		lower := strings.ToLower(u)
		for _, pat := range cfg.URLDenylist {
			if strings.Contains(lower, pat) {
				return true
			}
		}
	}
	return false
}

// fraction of records containing a curated promotional phrase
func promoPhrases(cfg *Config, profile *detect.AccountProfile) detect.FeatureScore {
	eligible, matched := 0, 0
	for _, rec := range profile.Records {
		if rec.Body == "" {
			continue
		}
		eligible++
		lower := strings.ToLower(rec.Body)
		for _, phrase := range cfg.PromoPhrases {
			if strings.Contains(lower, phrase) {
				matched++
				break
			}
		}
	}
	if eligible == 0 {
		return detect.FeatureScore{
			Name:      "promo_phrases",
			Category:  detect.CategoryLinguistic,
			Raw:       0,
			Value:     0,
			Rationale: "no text to scan for promotional phrasing",
		}
	}
	fraction := float64(matched) / float64(eligible)
	return detect.FeatureScore{
		Name:      "promo_phrases",
		Category:  detect.CategoryLinguistic,
		Raw:       fraction,
		Value:     ramp(fraction, cfg.LinguisticSaturation),
		Rationale: fmt.Sprintf("%d of %d text units contain promotional phrasing", matched, eligible),
	}
}

// fraction of comments whose token-normalized text exactly or near-exactly
// (bounded edit distance) matches a low-effort template
func genericResponses(cfg *Config, profile *detect.AccountProfile) detect.FeatureScore {
	templates := make([]string, 0, len(cfg.GenericTemplates))
	for _, t := range cfg.GenericTemplates {
		templates = append(templates, strings.Join(keyword.TokenizeText(t), " "))
	}

	eligible, matched := 0, 0
	for _, rec := range profile.Comments() {
		normed := strings.Join(keyword.TokenizeText(rec.Body), " ")
		if normed == "" {
			continue
		}
		eligible++
		for _, tmpl := range templates {
			if normed == tmpl || levenshtein.ComputeDistance(normed, tmpl) <= cfg.GenericEditDistance {
				matched++
				break
			}
		}
	}
	if eligible == 0 {
		return detect.FeatureScore{
			Name:      "generic_responses",
			Category:  detect.CategoryLinguistic,
			Rationale: "no comment text to compare against templates",
		}
	}
	fraction := float64(matched) / float64(eligible)
	return detect.FeatureScore{
		Name:      "generic_responses",
		Category:  detect.CategoryLinguistic,
		Raw:       fraction,
		Value:     ramp(fraction, cfg.LinguisticSaturation),
		Rationale: fmt.Sprintf("%d of %d comments match low-effort templates", matched, eligible),
	}
}
