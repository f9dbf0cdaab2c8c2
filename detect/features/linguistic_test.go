package features

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/reddit-ranger/ranger/detect"
)

func varietyComments(n int, start time.Time) []detect.ActivityRecord {
	out := make([]detect.ActivityRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, detect.ActivityRecord{
			Kind:      detect.ActivityComment,
			CreatedAt: start.Add(time.Duration(i) * time.Hour),
			Subreddit: "misc",
			Body:      fmt.Sprintf("comment number %d talks about a distinct topic entirely its own", i),
		})
	}
	return out
}

func TestIdenticalGreetings(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultConfig()
	now := time.Now().UTC()

	templated := CommentRun(40, now.AddDate(0, -1, 0), time.Hour, "misc", "Thanks for sharing, great stuff!")
	varied := varietyComments(20, now.AddDate(0, -2, 0))

	profile := ProfileFixture("echo", now.AddDate(-1, 0, 0), append(varied, templated...))
	fs := identicalGreetings(cfg, profile)
	assert.Equal(1.0, fs.Value)
	assert.InDelta(40.0/60.0, fs.Raw, 0.001)

	human := ProfileFixture("varied", now.AddDate(-1, 0, 0), varietyComments(30, now.AddDate(0, -1, 0)))
	assert.Equal(0.0, identicalGreetings(cfg, human).Value)
}

func TestIdenticalGreetingsMonotonic(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultConfig()
	now := time.Now().UTC()

	// adding more identical greetings to a fixed comment set never lowers
	// the signal
	prev := -1.0
	for dup := 0; dup <= 20; dup += 5 {
		records := varietyComments(20, now.AddDate(0, -2, 0))
		records = append(records, CommentRun(dup, now.AddDate(0, -1, 0), time.Hour, "misc", "Great post, thanks for this!")...)
		fs := identicalGreetings(cfg, ProfileFixture("m", now.AddDate(-1, 0, 0), records))
		assert.GreaterOrEqual(fs.Raw, prev)
		prev = fs.Raw
	}
}

func TestURLDensity(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultConfig()
	now := time.Now().UTC()

	spam := CommentRun(10, now.AddDate(0, -1, 0), time.Hour, "deals", "huge savings at bit.ly/xk291 today")
	fs := urlDensity(cfg, ProfileFixture("shill", now.AddDate(-1, 0, 0), spam))
	assert.Equal(1.0, fs.Value)

	clean := CommentRun(10, now.AddDate(0, -1, 0), time.Hour, "golang", "see the docs at pkg.go.dev for details")
	fs = urlDensity(cfg, ProfileFixture("normal", now.AddDate(-1, 0, 0), clean))
	assert.Equal(0.0, fs.Value)
}

func TestPromoPhrases(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultConfig()
	now := time.Now().UTC()

	promo := CommentRun(8, now.AddDate(0, -1, 0), time.Hour, "deals", "Limited time offer, use code SAVE20 now")
	fs := promoPhrases(cfg, ProfileFixture("seller", now.AddDate(-1, 0, 0), promo))
	assert.Equal(1.0, fs.Value)
}

func TestGenericResponses(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultConfig()
	now := time.Now().UTC()

	records := CommentRun(12, now.AddDate(0, -1, 0), time.Hour, "misc", "Great post!")
	// near-match within edit distance of a template
	records = append(records, detect.ActivityRecord{
		Kind:      detect.ActivityComment,
		CreatedAt: now.AddDate(0, 0, -1),
		Subreddit: "misc",
		Body:      "grat post",
	})
	fs := genericResponses(cfg, ProfileFixture("lazy", now.AddDate(-1, 0, 0), records))
	assert.Equal(1.0, fs.Value)
	assert.InDelta(1.0, fs.Raw, 0.001)

	human := ProfileFixture("varied", now.AddDate(-1, 0, 0), varietyComments(15, now.AddDate(0, -1, 0)))
	assert.Equal(0.0, genericResponses(cfg, human).Value)
}
