// Package engine wires the analysis pipeline together: cache lookup, the
// upstream profile fetch, normalization, concurrent feature extraction, and
// score aggregation.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/reddit-ranger/ranger/detect"
	"github.com/reddit-ranger/ranger/detect/cachestore"
	"github.com/reddit-ranger/ranger/detect/features"
)

const cacheName = "analysis"

// ProfileFetcher is the external data-fetch collaborator. Implementations
// report detect.ErrAccountNotFound for unknown accounts and wrap transport
// failures in detect.ErrUpstreamUnavailable.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, username string) (*detect.RawProfile, error)
}

// Engine is the analysis service facade. It is stateless per call; the
// injected Cache is the only shared mutable resource. One Engine value is
// safe for concurrent use.
//
// Careful when initializing: all fields must be non-nil.
type Engine struct {
	Logger   *slog.Logger
	Fetcher  ProfileFetcher
	Cache    cachestore.CacheStore
	Weights  *WeightConfig
	Features *features.Config

	// coalesces concurrent cache misses for the same account
	inflight singleflight.Group
}

// Analyze produces the bot-likelihood result for one account. Cache hits
// return immediately; concurrent misses for the same (case-folded) username
// share a single fetch-and-compute pipeline. The only retryable failure is
// detect.ErrUpstreamUnavailable, and retrying is the caller's decision.
func (eng *Engine) Analyze(ctx context.Context, username string) (*detect.AnalysisResult, error) {
	key := strings.ToLower(username)

	if cached, err := eng.lookupCached(ctx, key); err != nil {
		eng.Logger.Warn("result cache read failed", "err", err, "username", username)
	} else if cached != nil {
		cacheHitCount.Inc()
		return cached, nil
	}
	cacheMissCount.Inc()

	v, err, _ := eng.inflight.Do(key, func() (any, error) {
		return eng.analyzeUncached(ctx, username, key)
	})
	if err != nil {
		analysisCount.WithLabelValues("error").Inc()
		return nil, err
	}
	analysisCount.WithLabelValues("ok").Inc()
	return v.(*detect.AnalysisResult), nil
}

func (eng *Engine) analyzeUncached(ctx context.Context, username, key string) (result *detect.AnalysisResult, err error) {
	// like an HTTP server, recover panics from signal computation rather
	// than taking the whole service down
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("analysis pipeline exception", "err", r, "username", username)
			err = fmt.Errorf("analysis pipeline exception: %v", r)
		}
	}()

	start := time.Now()

	upstreamFetchCount.Inc()
	raw, err := eng.Fetcher.FetchProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	profile, err := detect.NormalizeProfile(raw)
	if err != nil {
		return nil, err
	}
	if profile.DroppedRecords > 0 {
		eng.Logger.Info("dropped malformed activity records", "username", username, "count", profile.DroppedRecords)
	}

	computedAt := time.Now().UTC()
	scores, err := eng.extractAll(ctx, profile, computedAt)
	if err != nil {
		return nil, err
	}
	result = Aggregate(profile, scores, eng.Weights, computedAt)

	if payload, err := json.Marshal(result); err != nil {
		eng.Logger.Warn("marshaling result for cache failed", "err", err, "username", username)
	} else if err := eng.Cache.Set(ctx, cacheName, key, string(payload)); err != nil {
		eng.Logger.Warn("result cache write failed", "err", err, "username", username)
	}

	analysisDuration.Observe(time.Since(start).Seconds())
	eng.Logger.Info("analysis complete",
		"username", username,
		"probability", result.Probability,
		"records", len(profile.Records),
		"dropped", profile.DroppedRecords,
		"weights", eng.Weights.Version,
	)
	return result, nil
}

// extractAll runs the extractor families concurrently. They are pure
// functions of the same immutable profile, so ordering only matters for the
// assembled output, which follows the fixed family order.
func (eng *Engine) extractAll(ctx context.Context, profile *detect.AccountProfile, now time.Time) ([]detect.FeatureScore, error) {
	extractors := []func() []detect.FeatureScore{
		func() []detect.FeatureScore { return features.AccountFeatures(eng.Features, profile, now) },
		func() []detect.FeatureScore { return features.TemporalFeatures(eng.Features, profile, now) },
		func() []detect.FeatureScore { return features.EngagementFeatures(eng.Features, profile) },
		func() []detect.FeatureScore { return features.LinguisticFeatures(eng.Features, profile) },
		func() []detect.FeatureScore { return features.StylometricFeatures(eng.Features, profile) },
	}

	partial := make([][]detect.FeatureScore, len(extractors))
	g, _ := errgroup.WithContext(ctx)
	for i, extract := range extractors {
		i, extract := i, extract
		g.Go(func() error {
			partial[i] = extract()
			return nil
		})
	}
	// no partial aggregation: wait for every extractor before scoring
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []detect.FeatureScore
	for _, scores := range partial {
		out = append(out, scores...)
	}
	return out, nil
}

func (eng *Engine) lookupCached(ctx context.Context, key string) (*detect.AnalysisResult, error) {
	payload, err := eng.Cache.Get(ctx, cacheName, key)
	if err != nil || payload == "" {
		return nil, err
	}
	var result detect.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		// treat a corrupt entry as a miss and drop it
		_ = eng.Cache.Purge(ctx, cacheName, key)
		return nil, nil
	}
	return &result, nil
}
