package risk

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/khanghh/kaudit/internal/store"
	"github.com/khanghh/kaudit/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginEvent(hour int, result model.Result) *model.AuditEvent {
	return &model.AuditEvent{
		ID:          "ev-" + time.Duration(hour).String(),
		Timestamp:   time.Date(2024, 3, 4, hour, 15, 0, 0, time.UTC),
		EventType:   model.EventTypeAuthentication,
		ActorType:   model.ActorTypeUser,
		ActorID:     "alice",
		Action:      "login",
		Result:      result,
		Sensitivity: model.SensitivityInternal,
	}
}

func TestScoreIsBoundedAndDeterministic(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	quiet := loginEvent(10, model.ResultSuccess)
	assert.Zero(t, scorer.Score(quiet, History{}))

	worst := loginEvent(3, model.ResultFailure)
	worst.Sensitivity = model.SensitivityRestricted
	worst.ActorRoles = []string{"admin"}
	worst.OnBehalfOf = "bob"
	worst.GeoLocation = "KP"
	h := History{
		RecentAuthFailures: 12,
		TotalEvents:        5,
		KnownCountries:     map[string]struct{}{"VN": {}},
	}
	first := scorer.Score(worst, h)
	assert.Equal(t, uint8(MaxScore), first)
	assert.Equal(t, first, scorer.Score(worst, h))
}

func TestAuthFailureContributionIsCapped(t *testing.T) {
	scorer := NewScorer(DefaultWeights())
	ev := loginEvent(10, model.ResultFailure)

	assert.Equal(t, uint8(10), scorer.Score(ev, History{}))
	assert.Equal(t, uint8(30), scorer.Score(ev, History{RecentAuthFailures: 2}))
	assert.Equal(t, uint8(40), scorer.Score(ev, History{RecentAuthFailures: 50}))
}

func TestOffHoursUsesProfileWhenLargeEnough(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	night := loginEvent(2, model.ResultSuccess)
	assert.Equal(t, uint8(15), scorer.Score(night, History{}))

	var nightOwl History
	nightOwl.TotalEvents = 100
	nightOwl.HourCounts[2] = 60
	assert.Zero(t, scorer.Score(night, nightOwl))

	day := loginEvent(11, model.ResultSuccess)
	assert.Equal(t, uint8(15), scorer.Score(day, nightOwl))
}

func TestSignalsExplainScore(t *testing.T) {
	scorer := NewScorer(DefaultWeights())
	ev := loginEvent(12, model.ResultSuccess)
	ev.Sensitivity = model.SensitivityConfidential
	ev.ActorRoles = []string{"viewer", "security_admin"}

	signals := scorer.Signals(ev, History{})
	assert.ElementsMatch(t, []Signal{
		{Name: "confidential_data", Score: 10},
		{Name: "admin_role", Score: 15},
	}, signals)
}

func TestCountry(t *testing.T) {
	assert.Equal(t, "US", Country("us/CA"))
	assert.Equal(t, "VN", Country("VN"))
	assert.Empty(t, Country(""))
}

func TestRedisHistoryLearnsFromEvents(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	history := NewRedisHistory(store.NewRedisStorage(rdb), time.Hour)

	for i := 0; i < 3; i++ {
		ev := loginEvent(9, model.ResultFailure)
		ev.ID = string(rune('a' + i))
		ev.Timestamp = ev.Timestamp.Add(time.Duration(i) * time.Minute)
		ev.GeoLocation = "VN/HN"
		require.NoError(t, history.Observe(ctx, ev))
	}

	next := loginEvent(9, model.ResultSuccess)
	next.Timestamp = next.Timestamp.Add(10 * time.Minute)
	h, err := history.Snapshot(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, int64(3), h.RecentAuthFailures)
	assert.Equal(t, int64(3), h.TotalEvents)
	assert.Equal(t, int64(3), h.HourCounts[9])
	assert.Contains(t, h.KnownCountries, "VN")

	later := loginEvent(9, model.ResultSuccess)
	later.Timestamp = later.Timestamp.Add(3 * time.Hour)
	h, err = history.Snapshot(ctx, later)
	require.NoError(t, err)
	assert.Zero(t, h.RecentAuthFailures)

	anonymous := &model.AuditEvent{ActorType: model.ActorTypeAnonymous}
	h, err = history.Snapshot(ctx, anonymous)
	require.NoError(t, err)
	assert.Zero(t, h.TotalEvents)
}
