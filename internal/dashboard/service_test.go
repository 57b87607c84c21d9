package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatsRepo struct {
	stats *Stats
	err   error
	calls int
}

func (r *fakeStatsRepo) Stats(_ context.Context) (*Stats, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.stats, nil
}

func sampleStats() *Stats {
	return &Stats{
		TotalBookings:  42,
		AwaitingAction: 7,
		Confirmed:      20,
		EventsToday:    2,
		UpcomingEvents: 11,
		MonthlyRevenue: 1250000,
	}
}

func TestStatsCacheMissQueriesAndCaches(t *testing.T) {
	repo := &fakeStatsRepo{stats: sampleStats()}
	client, mock := redismock.NewClientMock()

	payload, err := json.Marshal(repo.stats)
	require.NoError(t, err)

	mock.ExpectGet(statsCacheKey).RedisNil()
	mock.ExpectSet(statsCacheKey, payload, statsCacheTTL).SetVal("OK")

	svc := NewService(repo, client)
	got, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, repo.stats, got)
	assert.Equal(t, 1, repo.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsCacheHitSkipsRepository(t *testing.T) {
	repo := &fakeStatsRepo{err: errors.New("repository must not be called")}
	client, mock := redismock.NewClientMock()

	payload, err := json.Marshal(sampleStats())
	require.NoError(t, err)
	mock.ExpectGet(statsCacheKey).SetVal(string(payload))

	svc := NewService(repo, client)
	got, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sampleStats(), got)
	assert.Equal(t, 0, repo.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsCacheFailureFallsThrough(t *testing.T) {
	repo := &fakeStatsRepo{stats: sampleStats()}
	client, mock := redismock.NewClientMock()

	mock.ExpectGet(statsCacheKey).SetErr(errors.New("connection refused"))

	svc := NewService(repo, client)
	got, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, repo.stats, got)
	assert.Equal(t, 1, repo.calls)
}

func TestStatsWithoutRedis(t *testing.T) {
	repo := &fakeStatsRepo{stats: sampleStats()}

	svc := NewService(repo, nil)
	got, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, repo.stats, got)
	assert.Equal(t, 1, repo.calls)
}
