package detect

import (
	"time"
)

type ActivityKind string

const (
	ActivityPost    ActivityKind = "post"
	ActivityComment ActivityKind = "comment"
)

// ActivityRecord is a single post or comment, validated and immutable.
type ActivityRecord struct {
	Kind      ActivityKind
	CreatedAt time.Time
	Subreddit string
	Score     int64
	Body      string
	Permalink string
}

// AccountProfile is the validated view of one account's history. Records are
// sorted ascending by CreatedAt. A profile is owned by a single analysis
// request and never mutated after construction.
type AccountProfile struct {
	Username     string
	CreatedAt    time.Time
	LinkKarma    int64
	CommentKarma int64
	Records      []ActivityRecord

	// records discarded during normalization (unparseable timestamps)
	DroppedRecords int
}

func (p *AccountProfile) Comments() []ActivityRecord {
	return p.byKind(ActivityComment)
}

func (p *AccountProfile) Posts() []ActivityRecord {
	return p.byKind(ActivityPost)
}

func (p *AccountProfile) byKind(kind ActivityKind) []ActivityRecord {
	var out []ActivityRecord
	for _, rec := range p.Records {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out
}

// SubredditCounts returns activity counts keyed by subreddit name. Records
// with an empty subreddit field are skipped.
func (p *AccountProfile) SubredditCounts() map[string]int {
	counts := make(map[string]int)
	for _, rec := range p.Records {
		if rec.Subreddit == "" {
			continue
		}
		counts[rec.Subreddit]++
	}
	return counts
}

func (p *AccountProfile) AgeAt(now time.Time) time.Duration {
	return now.Sub(p.CreatedAt)
}
