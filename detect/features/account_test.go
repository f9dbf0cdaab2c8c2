package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/reddit-ranger/ranger/detect"
)

func TestAccountAge(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultConfig()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	young := ProfileFixture("fresh_user", now.AddDate(0, 0, -2), nil)
	old := ProfileFixture("veteran", now.AddDate(-5, 0, 0), nil)

	youngScore := accountAge(cfg, young, now)
	oldScore := accountAge(cfg, old, now)

	assert.Greater(youngScore.Value, 0.9)
	assert.Equal(0.0, oldScore.Value)
	assert.Greater(youngScore.Value, oldScore.Value)
}

func TestUsernamePattern(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultConfig()

	fixtures := []struct {
		name       string
		suspicious bool
	}{
		{name: "CheapDeals88221", suspicious: true},
		{name: "promo_bot_2024", suspicious: true},
		{name: "Taylor9912345", suspicious: true},
		{name: "quietwalker", suspicious: false},
	}

	for _, fix := range fixtures {
		score := usernamePattern(cfg, ProfileFixture(fix.name, time.Now(), nil))
		assert.GreaterOrEqual(score.Value, 0.0, fix.name)
		assert.LessOrEqual(score.Value, 1.0, fix.name)
		if fix.suspicious {
			assert.Greater(score.Value, 0.0, fix.name)
		} else {
			assert.Equal(0.0, score.Value, fix.name)
		}
	}
}

func TestKarmaImbalance(t *testing.T) {
	assert := assert.New(t)

	balanced := &detect.AccountProfile{Username: "a", LinkKarma: 500, CommentKarma: 450}
	skewed := &detect.AccountProfile{Username: "b", LinkKarma: 100000, CommentKarma: 2}

	assert.Less(karmaImbalance(balanced).Value, 0.05)
	assert.Greater(karmaImbalance(skewed).Value, 0.5)
}

func TestShannonEntropy(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0.0, shannonEntropy("aaaa"))
	assert.Greater(shannonEntropy("x9kq2vz81mwp4rty"), shannonEntropy("hellohello"))
}
