package keyword

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonTokenChars = regexp.MustCompile(`[^\pL\pN\s]+`)
	nonSlugChars  = regexp.MustCompile(`[^\pL\pN]+`)
)

// TokenizeText splits free-form comment/post text into lower-case tokens,
// with unicode normalization and accent folding. Matching templated phrases
// against tokens (rather than raw text) keeps the linguistic signals stable
// under punctuation and casing tricks.
func TokenizeText(text string) []string {
	// the transform chain is stateful, so build it per call
	normFunc := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	bare := strings.ToLower(nonTokenChars.ReplaceAllString(text, " "))
	folded, _, err := transform.String(normFunc, bare)
	if err != nil {
		slog.Warn("unicode normalization error", "err", err)
		folded = bare
	}
	return strings.Fields(folded)
}

// Slugify strips all non-letter, non-digit characters and lower-cases. Used
// to compare usernames and subreddit names against token lists.
func Slugify(orig string) string {
	return strings.ToLower(nonSlugChars.ReplaceAllString(orig, ""))
}

// OpeningNgram returns the first n tokens of text joined by single spaces.
// Texts with fewer than n tokens yield their full token list, so a two-word
// templated comment still has a comparable opening; text with no tokens at
// all yields the empty string.
func OpeningNgram(text string, n int) string {
	toks := TokenizeText(text)
	if len(toks) == 0 {
		return ""
	}
	if len(toks) > n {
		toks = toks[:n]
	}
	return strings.Join(toks, " ")
}
