package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/reddit-ranger/ranger/detect"
)

func TestSubredditConcentration(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultConfig()
	now := time.Now().UTC()

	single := ProfileFixture("focused", now.AddDate(-1, 0, 0),
		CommentRun(20, now.AddDate(0, -1, 0), time.Hour, "CryptoDeals", "gm"))
	fs := subredditConcentration(cfg, single)
	assert.Equal(1.0, fs.Value)
	assert.Contains(fs.Rationale, "promotional-looking")

	var spread []detect.ActivityRecord
	for i, sub := range []string{"golang", "books", "cooking", "hiking", "music", "history"} {
		spread = append(spread, CommentRun(3, now.AddDate(0, -1, i), time.Hour, sub, "hi")...)
	}
	fs = subredditConcentration(cfg, ProfileFixture("curious", now.AddDate(-1, 0, 0), spread))
	assert.Less(fs.Value, 0.1)
}

func TestPostCommentRatio(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultConfig()
	now := time.Now().UTC()

	fixtures := []struct {
		comments, posts int
		expectHigh      bool
	}{
		{comments: 60, posts: 0, expectHigh: true},  // never submits
		{comments: 0, posts: 10, expectHigh: true},  // never engages
		{comments: 30, posts: 10, expectHigh: false}, // healthy mix
	}

	for _, fix := range fixtures {
		records := CommentRun(fix.comments, now.AddDate(0, -1, 0), time.Hour, "misc", "text")
		for i := 0; i < fix.posts; i++ {
			records = append(records, detect.ActivityRecord{
				Kind:      detect.ActivityPost,
				CreatedAt: now.AddDate(0, 0, -i),
				Subreddit: "misc",
				Body:      "a post",
			})
		}
		fs := postCommentRatio(cfg, ProfileFixture("u", now.AddDate(-1, 0, 0), records))
		if fix.expectHigh {
			assert.Equal(1.0, fs.Value)
		} else {
			assert.Equal(0.0, fs.Value)
		}
	}
}
