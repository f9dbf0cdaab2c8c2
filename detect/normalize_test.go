package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64p(v int64) *int64 { return &v }

func TestNormalizeProfile(t *testing.T) {
	assert := assert.New(t)

	raw := &RawProfile{
		Username:     "Some_User",
		CreatedAt:    float64(1609459200), // 2021-01-01
		LinkKarma:    12,
		CommentKarma: 340,
		Activities: []RawActivity{
			{Kind: "comment", CreatedAt: float64(1672531200), Subreddit: "golang", Score: int64p(5), Body: "nice"},
			{Kind: "post", CreatedAt: "2022-06-01T10:00:00Z", Subreddit: "books", Score: int64p(-2), Body: "a post"},
			{Kind: "comment", CreatedAt: nil, Subreddit: "lost", Body: "dropped"},
			{Kind: "comment", CreatedAt: "not a timestamp", Subreddit: "lost", Body: "dropped too"},
		},
	}

	profile, err := NormalizeProfile(raw)
	require.NoError(t, err)

	assert.Equal("Some_User", profile.Username)
	assert.Equal(2, len(profile.Records))
	assert.Equal(2, profile.DroppedRecords)
	// sorted ascending
	assert.True(profile.Records[0].CreatedAt.Before(profile.Records[1].CreatedAt))
	assert.Equal(ActivityPost, profile.Records[0].Kind)
	assert.Equal(int64(-2), profile.Records[0].Score)
	assert.True(profile.CreatedAt.Equal(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestNormalizeProfileEmptyActivity(t *testing.T) {
	assert := assert.New(t)

	raw := &RawProfile{
		Username:  "ghost",
		CreatedAt: float64(1609459200),
	}
	_, err := NormalizeProfile(raw)
	assert.ErrorIs(err, ErrInsufficientData)
}

func TestNormalizeProfileAllRecordsDropped(t *testing.T) {
	assert := assert.New(t)

	raw := &RawProfile{
		Username:  "ghost",
		CreatedAt: float64(1609459200),
		Activities: []RawActivity{
			{Kind: "comment", CreatedAt: nil, Body: "x"},
		},
	}
	_, err := NormalizeProfile(raw)
	assert.ErrorIs(err, ErrInsufficientData)
}

func TestNormalizeProfileBadCreation(t *testing.T) {
	assert := assert.New(t)

	fixtures := []any{
		nil,
		float64(0),
		"garbage",
		float64(100), // unix epoch era, before the platform existed
	}
	for _, created := range fixtures {
		raw := &RawProfile{
			Username:   "u",
			CreatedAt:  created,
			Activities: []RawActivity{{Kind: "comment", CreatedAt: float64(1672531200), Body: "x"}},
		}
		_, err := NormalizeProfile(raw)
		assert.ErrorIs(err, ErrInsufficientData)
	}
}
