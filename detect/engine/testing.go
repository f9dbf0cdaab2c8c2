package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/reddit-ranger/ranger/detect"
	"github.com/reddit-ranger/ranger/detect/cachestore"
	"github.com/reddit-ranger/ranger/detect/features"
)

// MockFetcher serves canned profiles keyed by lower-cased username and
// counts fetches, standing in for the upstream collaborator in tests.
type MockFetcher struct {
	Profiles map[string]*detect.RawProfile
	Err      error

	fetches atomic.Int64

	// optional hook invoked inside FetchProfile, for concurrency tests
	Delay time.Duration
}

func (m *MockFetcher) FetchProfile(ctx context.Context, username string) (*detect.RawProfile, error) {
	m.fetches.Add(1)
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	raw, ok := m.Profiles[strings.ToLower(username)]
	if !ok {
		return nil, detect.ErrAccountNotFound
	}
	return raw, nil
}

func (m *MockFetcher) Fetches() int64 {
	return m.fetches.Load()
}

// EngineTestFixture builds an engine with a memory cache and the default
// configuration, fetching from the supplied mock.
func EngineTestFixture(fetcher *MockFetcher) *Engine {
	return &Engine{
		Logger:   slog.Default(),
		Fetcher:  fetcher,
		Cache:    cachestore.NewMemCacheStore(time.Hour),
		Weights:  DefaultWeights(),
		Features: features.DefaultConfig(),
	}
}

// RawProfileFixture builds a raw profile with comments at a fixed interval.
func RawProfileFixture(username string, created time.Time, bodies []string, start time.Time, gap time.Duration) *detect.RawProfile {
	raw := &detect.RawProfile{
		Username:     username,
		CreatedAt:    created,
		LinkKarma:    5,
		CommentKarma: 120,
	}
	score := int64(1)
	for i, body := range bodies {
		raw.Activities = append(raw.Activities, detect.RawActivity{
			Kind:      "comment",
			CreatedAt: start.Add(time.Duration(i) * gap),
			Subreddit: "somesub",
			Score:     &score,
			Body:      body,
		})
	}
	return raw
}
