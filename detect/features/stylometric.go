package features

import (
	"fmt"
	"math"
	"strings"

	"github.com/reddit-ranger/ranger/detect"
	"github.com/reddit-ranger/ranger/detect/helpers"
	"github.com/reddit-ranger/ranger/detect/keyword"
)

const insufficientHistoryRationale = "insufficient history: not enough text in both timeline halves"

// StylometricFeatures measures writing-style drift between the older and
// newer halves of the account's textual history. A large shift in sentence
// length, vocabulary richness, or punctuation habits suggests the account
// changed hands, a different signal than bot-from-birth.
func StylometricFeatures(cfg *Config, profile *detect.AccountProfile) []detect.FeatureScore {
	return []detect.FeatureScore{styleDrift(cfg, profile)}
}

type styleStats struct {
	meanSentenceLen float64 // words per sentence
	distinctRatio   float64 // unique words / total words
	punctPerSent    float64
	words           int
}

func styleDrift(cfg *Config, profile *detect.AccountProfile) detect.FeatureScore {
	var texts []string
	for _, rec := range profile.Records {
		if strings.TrimSpace(rec.Body) != "" {
			texts = append(texts, rec.Body)
		}
	}
	if len(texts) < 2 {
		return detect.NeutralFeature("style_drift", detect.CategoryStylometric, insufficientHistoryRationale)
	}

	// records are time-ascending, so a midpoint split partitions the
	// history into an early and a late era
	mid := len(texts) / 2
	early := computeStyleStats(texts[:mid])
	late := computeStyleStats(texts[mid:])
	if early.words < cfg.MinStylometricWords || late.words < cfg.MinStylometricWords {
		return detect.NeutralFeature("style_drift", detect.CategoryStylometric, insufficientHistoryRationale)
	}

	drift := (relativeDelta(early.meanSentenceLen, late.meanSentenceLen) +
		relativeDelta(early.distinctRatio, late.distinctRatio) +
		relativeDelta(early.punctPerSent, late.punctPerSent)) / 3

	// half of full-scale relative change is already a strong takeover signal
	value := helpers.Clamp01(drift * 2)
	return detect.FeatureScore{
		Name:      "style_drift",
		Category:  detect.CategoryStylometric,
		Raw:       drift,
		Value:     value,
		Rationale: fmt.Sprintf("mean relative style change %.2f between timeline halves (%d vs %d words)", drift, early.words, late.words),
	}
}

func computeStyleStats(texts []string) styleStats {
	var sentLens []float64
	totalWords, punct, sentences := 0, 0, 0
	distinct := make(map[string]bool)

	for _, text := range texts {
		punct += helpers.CountPunctuation(text)
		for _, sent := range helpers.SplitSentences(text) {
			toks := keyword.TokenizeText(sent)
			if len(toks) == 0 {
				continue
			}
			sentences++
			sentLens = append(sentLens, float64(len(toks)))
			totalWords += len(toks)
			for _, tok := range toks {
				distinct[tok] = true
			}
		}
	}

	stats := styleStats{words: totalWords}
	if totalWords > 0 {
		stats.distinctRatio = float64(len(distinct)) / float64(totalWords)
	}
	if sentences > 0 {
		stats.meanSentenceLen = helpers.Mean(sentLens)
		stats.punctPerSent = float64(punct) / float64(sentences)
	}
	return stats
}

// |a-b| relative to the larger magnitude; 0 for two zeros
func relativeDelta(a, b float64) float64 {
	denom := math.Max(math.Abs(a), math.Abs(b))
	if denom == 0 {
		return 0
	}
	return math.Abs(a-b) / denom
}
