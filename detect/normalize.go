package detect

import (
	"fmt"
	"sort"
	"time"

	"github.com/araddon/dateparse"
)

// RawActivity is one post or comment as delivered by the upstream source,
// before validation. Timestamps come through as whatever the source sent:
// epoch seconds (float64 or int64), a formatted string, or a time.Time.
type RawActivity struct {
	Kind      string
	CreatedAt any
	Subreddit string
	Score     *int64
	Body      string
	Permalink string
}

// RawProfile is the unvalidated account payload handed to the normalizer.
type RawProfile struct {
	Username     string
	CreatedAt    any
	LinkKarma    int64
	CommentKarma int64
	Activities   []RawActivity
}

// no Reddit accounts exist before the site launched
var redditEpoch = time.Date(2005, 6, 1, 0, 0, 0, 0, time.UTC)

// NormalizeProfile validates a raw profile into an AccountProfile with
// records sorted ascending by timestamp. Records with unparseable timestamps
// are dropped and counted, never fatal. Returns ErrInsufficientData if the
// creation timestamp is missing/bogus or no records survive.
func NormalizeProfile(raw *RawProfile) (*AccountProfile, error) {
	if raw == nil || raw.Username == "" {
		return nil, fmt.Errorf("normalizing profile: %w", ErrInsufficientData)
	}

	created, err := parseWhen(raw.CreatedAt)
	if err != nil || !plausibleCreation(created) {
		return nil, fmt.Errorf("account %q has no usable creation timestamp: %w", raw.Username, ErrInsufficientData)
	}

	profile := &AccountProfile{
		Username:     raw.Username,
		CreatedAt:    created.UTC(),
		LinkKarma:    raw.LinkKarma,
		CommentKarma: raw.CommentKarma,
	}

	for _, act := range raw.Activities {
		when, err := parseWhen(act.CreatedAt)
		if err != nil {
			profile.DroppedRecords++
			continue
		}
		kind := ActivityComment
		if act.Kind == string(ActivityPost) {
			kind = ActivityPost
		}
		var score int64
		if act.Score != nil {
			score = *act.Score
		}
		profile.Records = append(profile.Records, ActivityRecord{
			Kind:      kind,
			CreatedAt: when.UTC(),
			Subreddit: act.Subreddit,
			Score:     score,
			Body:      act.Body,
			Permalink: act.Permalink,
		})
	}

	if len(profile.Records) == 0 {
		return nil, fmt.Errorf("account %q has no parseable activity: %w", raw.Username, ErrInsufficientData)
	}

	sort.SliceStable(profile.Records, func(i, j int) bool {
		return profile.Records[i].CreatedAt.Before(profile.Records[j].CreatedAt)
	})
	return profile, nil
}

// parseWhen accepts the timestamp shapes the upstream actually produces.
func parseWhen(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("missing timestamp")
	case time.Time:
		if t.IsZero() {
			return time.Time{}, fmt.Errorf("zero timestamp")
		}
		return t, nil
	case float64:
		return epochToTime(t)
	case int64:
		return epochToTime(float64(t))
	case int:
		return epochToTime(float64(t))
	case string:
		if t == "" {
			return time.Time{}, fmt.Errorf("empty timestamp")
		}
		when, err := dateparse.ParseAny(t)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", t, err)
		}
		return when, nil
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func epochToTime(sec float64) (time.Time, error) {
	if sec <= 0 {
		return time.Time{}, fmt.Errorf("non-positive epoch timestamp %f", sec)
	}
	whole := int64(sec)
	frac := sec - float64(whole)
	return time.Unix(whole, int64(frac*1e9)), nil
}

// a plausible creation time is after the platform launched and not in the
// future (small clock-skew allowance)
func plausibleCreation(when time.Time) bool {
	if when.IsZero() || !when.After(redditEpoch) {
		return false
	}
	return !when.After(time.Now().Add(time.Hour))
}
