package features

import (
	"time"

	"github.com/reddit-ranger/ranger/detect"
)

// fixture helpers shared by the extractor tests

func ProfileFixture(username string, created time.Time, records []detect.ActivityRecord) *detect.AccountProfile {
	return &detect.AccountProfile{
		Username:     username,
		CreatedAt:    created,
		LinkKarma:    10,
		CommentKarma: 100,
		Records:      records,
	}
}

// CommentRun produces n comments at a fixed interval, all in one subreddit.
func CommentRun(n int, start time.Time, gap time.Duration, subreddit, body string) []detect.ActivityRecord {
	out := make([]detect.ActivityRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, detect.ActivityRecord{
			Kind:      detect.ActivityComment,
			CreatedAt: start.Add(time.Duration(i) * gap),
			Subreddit: subreddit,
			Score:     1,
			Body:      body,
		})
	}
	return out
}
