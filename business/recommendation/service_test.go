//go:build !integration

package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"wildNest/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testShareKey = "0123456789abcdef"

type fakeCatalog struct {
	options []domain.Option
	rules   []domain.RecommendationRule
	drinks  []domain.Drink
	err     error
	loads   int
}

func (f *fakeCatalog) FindAll(ctx context.Context) ([]domain.Option, error) {
	f.loads++
	return f.options, f.err
}

type fakeRules struct{ c *fakeCatalog }

func (f fakeRules) FindActive(ctx context.Context) ([]domain.RecommendationRule, error) {
	return f.c.rules, f.c.err
}

type fakeDrinks struct{ c *fakeCatalog }

func (f fakeDrinks) FindAll(ctx context.Context) ([]domain.Drink, error) {
	return f.c.drinks, f.c.err
}

type fakeLogs struct {
	entries   map[uint64]domain.RecommendationLog
	nextID    uint64
	createErr error
	stats     domain.RecommendationStatistics
	since     time.Time
}

func newFakeLogs() *fakeLogs {
	return &fakeLogs{entries: map[uint64]domain.RecommendationLog{}}
}

func (f *fakeLogs) Create(ctx context.Context, log *domain.RecommendationLog) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	log.ID = f.nextID
	f.entries[log.ID] = *log
	return nil
}

func (f *fakeLogs) FindByID(ctx context.Context, id uint64) (domain.RecommendationLog, error) {
	entry, ok := f.entries[id]
	if !ok {
		return domain.RecommendationLog{}, domain.ErrLogNotFound
	}
	return entry, nil
}

func (f *fakeLogs) FindBySessionID(ctx context.Context, sessionID string) ([]domain.RecommendationLog, error) {
	var out []domain.RecommendationLog
	for id := f.nextID; id > 0; id-- {
		if e, ok := f.entries[id]; ok && e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLogs) FindPage(ctx context.Context, filter domain.RecommendationLogFilter) (domain.Page[domain.RecommendationLog], error) {
	return domain.Page[domain.RecommendationLog]{Page: filter.Page, PageSize: filter.PageSize, Total: int64(len(f.entries))}, nil
}

func (f *fakeLogs) UpdateFeedback(ctx context.Context, id uint64, feedback int, reason string) error {
	entry, ok := f.entries[id]
	if !ok {
		return domain.ErrLogNotFound
	}
	entry.UserFeedback = &feedback
	entry.FeedbackReason = reason
	f.entries[id] = entry
	return nil
}

func (f *fakeLogs) Statistics(ctx context.Context, since time.Time) (domain.RecommendationStatistics, error) {
	f.since = since
	return f.stats, nil
}

func (f *fakeLogs) DailyStats(ctx context.Context, since time.Time) ([]domain.DailyRecommendationStat, error) {
	f.since = since
	return []domain.DailyRecommendationStat{{Date: since.Format("2006-01-02"), AverageScore: 71.234}}, nil
}

type fakeCache struct {
	snapshot *domain.CatalogSnapshot
	getErr   error
	sets     int
}

func (f *fakeCache) GetSnapshot(ctx context.Context) (domain.CatalogSnapshot, error) {
	if f.getErr != nil {
		return domain.CatalogSnapshot{}, f.getErr
	}
	if f.snapshot == nil {
		return domain.CatalogSnapshot{}, domain.ErrCacheMiss
	}
	return *f.snapshot, nil
}

func (f *fakeCache) SetSnapshot(ctx context.Context, snapshot domain.CatalogSnapshot) error {
	f.sets++
	f.snapshot = &snapshot
	return nil
}

func newTestService(cat *fakeCatalog, logs *fakeLogs, cache CatalogCache) *recommendationService {
	return NewRecommendationService(newTestEngine(), cat, fakeRules{cat}, fakeDrinks{cat}, logs, cache, testShareKey)
}

func sampleCatalog() *fakeCatalog {
	return &fakeCatalog{
		options: []domain.Option{opt(10, f64(1.0), "citrus"), opt(11, f64(1.5), "")},
		rules: []domain.RecommendationRule{
			rule(1, domain.ConditionExact, []uint64{10, 11}, []uint64{5}, 80, 2),
		},
		drinks: []domain.Drink{drink(5, "citrus"), drink(6, "citrus,smoky")},
	}
}

func TestServiceRecommendPersistsLog(t *testing.T) {
	cat := sampleCatalog()
	logs := newFakeLogs()
	svc := newTestService(cat, logs, nil)

	out, err := svc.Recommend(context.Background(), RecommendRequest{
		Answers:    domain.UserAnswers{1: {10}, 2: {11}},
		ClientIP:   "10.0.0.1",
		UserAgent:  "test-agent",
		DeviceInfo: map[string]interface{}{"platform": "ios"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.SessionID)
	assert.Equal(t, uint64(1), out.LogID)
	assert.NotEmpty(t, out.ShareCode)
	assert.Equal(t, domain.StrategyRanked, out.Result.Strategy)
	require.Len(t, out.Result.RecommendedDrinks, 2)
	assert.Equal(t, uint64(5), out.Result.RecommendedDrinks[0].Drink.ID)

	entry := logs.entries[1]
	assert.Equal(t, out.SessionID, entry.SessionID)
	assert.Equal(t, "10.0.0.1", entry.UserIP)
	assert.Equal(t, AlgorithmVersion, entry.AlgorithmVersion)
	assert.Equal(t, domain.StrategyRanked, entry.Strategy)
	assert.Equal(t, "ios", entry.DeviceInfo["platform"])

	var answers map[string][]uint64
	require.NoError(t, json.Unmarshal(entry.UserAnswers, &answers))
	assert.Equal(t, []uint64{10}, answers["1"])

	var drinks []domain.RecommendedDrink
	require.NoError(t, json.Unmarshal(entry.RecommendedDrinks, &drinks))
	assert.Len(t, drinks, 2)
}

func TestServiceRecommendKeepsSessionID(t *testing.T) {
	svc := newTestService(sampleCatalog(), newFakeLogs(), nil)

	out, err := svc.Recommend(context.Background(), RecommendRequest{
		SessionID: "session-1",
		Answers:   domain.UserAnswers{1: {10}},
	})
	require.NoError(t, err)
	assert.Equal(t, "session-1", out.SessionID)
}

func TestServiceRecommendRejectsEmptyAnswers(t *testing.T) {
	svc := newTestService(sampleCatalog(), newFakeLogs(), nil)

	_, err := svc.Recommend(context.Background(), RecommendRequest{Answers: domain.UserAnswers{1: {}}})
	assert.ErrorIs(t, err, domain.ErrEmptyAnswers)
}

func TestServiceRecommendCatalogFailure(t *testing.T) {
	cat := sampleCatalog()
	cat.err = errors.New("db down")
	svc := newTestService(cat, newFakeLogs(), nil)

	_, err := svc.Recommend(context.Background(), RecommendRequest{Answers: domain.UserAnswers{1: {10}}})
	assert.ErrorContains(t, err, "failed to load catalog")
}

func TestServiceRecommendSurvivesLogFailure(t *testing.T) {
	logs := newFakeLogs()
	logs.createErr = errors.New("insert failed")
	svc := newTestService(sampleCatalog(), logs, nil)

	out, err := svc.Recommend(context.Background(), RecommendRequest{Answers: domain.UserAnswers{1: {10}, 2: {11}}})
	require.NoError(t, err)
	assert.Zero(t, out.LogID)
	assert.Empty(t, out.ShareCode)
	assert.NotEmpty(t, out.Result.RecommendedDrinks)
}

func TestServiceRecommendUsesCache(t *testing.T) {
	cat := sampleCatalog()
	cache := &fakeCache{}
	svc := newTestService(cat, newFakeLogs(), cache)

	req := RecommendRequest{Answers: domain.UserAnswers{1: {10}, 2: {11}}}

	_, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Recommend(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, cat.loads)
	assert.Equal(t, 1, cache.sets)
}

func TestServiceRecommendCacheErrorFallsBackToDatabase(t *testing.T) {
	cat := sampleCatalog()
	cache := &fakeCache{getErr: errors.New("circuit breaker is open")}
	svc := newTestService(cat, newFakeLogs(), cache)

	out, err := svc.Recommend(context.Background(), RecommendRequest{Answers: domain.UserAnswers{1: {10}, 2: {11}}})
	require.NoError(t, err)
	assert.Equal(t, 1, cat.loads)
	assert.Equal(t, domain.StrategyRanked, out.Result.Strategy)
}

func TestServiceSharedResultRoundTrip(t *testing.T) {
	svc := newTestService(sampleCatalog(), newFakeLogs(), nil)

	out, err := svc.Recommend(context.Background(), RecommendRequest{Answers: domain.UserAnswers{1: {10}, 2: {11}}})
	require.NoError(t, err)

	entry, err := svc.GetSharedResult(context.Background(), out.ShareCode)
	require.NoError(t, err)
	assert.Equal(t, out.LogID, entry.ID)

	_, err = svc.GetSharedResult(context.Background(), "bm90LWEtY29kZQ==")
	assert.ErrorIs(t, err, domain.ErrInvalidShareCode)

	_, err = svc.GetSharedResult(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidShareCode)
}

func TestServiceGetResult(t *testing.T) {
	svc := newTestService(sampleCatalog(), newFakeLogs(), nil)

	_, err := svc.GetResult(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetResult(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrLogNotFound)
}

func TestServiceHistoryNewestFirst(t *testing.T) {
	logs := newFakeLogs()
	svc := newTestService(sampleCatalog(), logs, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Recommend(context.Background(), RecommendRequest{SessionID: "s1", Answers: domain.UserAnswers{1: {10}}})
		require.NoError(t, err)
	}
	_, err := svc.Recommend(context.Background(), RecommendRequest{SessionID: "s2", Answers: domain.UserAnswers{1: {10}}})
	require.NoError(t, err)

	history, err := svc.History(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, uint64(3), history[0].ID)

	_, err = svc.History(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrSessionRequired)
}

func TestServiceSubmitFeedback(t *testing.T) {
	logs := newFakeLogs()
	svc := newTestService(sampleCatalog(), logs, nil)

	out, err := svc.Recommend(context.Background(), RecommendRequest{Answers: domain.UserAnswers{1: {10}}})
	require.NoError(t, err)

	require.NoError(t, svc.SubmitFeedback(context.Background(), out.LogID, domain.FeedbackSatisfied, "spot on"))
	entry := logs.entries[out.LogID]
	require.NotNil(t, entry.UserFeedback)
	assert.Equal(t, 1, *entry.UserFeedback)
	assert.Equal(t, "spot on", entry.FeedbackReason)

	assert.ErrorIs(t, svc.SubmitFeedback(context.Background(), out.LogID, 2, ""), domain.ErrInvalidFeedback)
	assert.ErrorIs(t, svc.SubmitFeedback(context.Background(), 0, 1, ""), domain.ErrInvalidID)
	assert.ErrorIs(t, svc.SubmitFeedback(context.Background(), 999, 0, ""), domain.ErrLogNotFound)
}

func TestServiceStatistics(t *testing.T) {
	logs := newFakeLogs()
	logs.stats = domain.RecommendationStatistics{
		TotalRecommendations: 10,
		SatisfiedCount:       2,
		UnsatisfiedCount:     1,
		AverageScore:         81.2345,
	}
	svc := newTestService(sampleCatalog(), logs, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC) }

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 66.67, stats.SatisfactionRate)
	assert.Equal(t, 81.23, stats.AverageScore)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), logs.since)
}

func TestServiceDailyStats(t *testing.T) {
	logs := newFakeLogs()
	svc := newTestService(sampleCatalog(), logs, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC) }

	stats, err := svc.DailyStats(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), logs.since)
	require.Len(t, stats, 1)
	assert.Equal(t, 71.23, stats[0].AverageScore)

	_, err = svc.DailyStats(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -89), logs.since)
}

func TestServiceListLogsNormalizesPaging(t *testing.T) {
	svc := newTestService(sampleCatalog(), newFakeLogs(), nil)

	page, err := svc.ListLogs(context.Background(), domain.RecommendationLogFilter{Page: -1, PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, domain.MaxPageSize, page.PageSize)
}

func TestShareCodeRoundTrip(t *testing.T) {
	for id := uint64(1); id < 200; id++ {
		code, err := encodeShareCode(id, testShareKey)
		require.NoError(t, err)

		got, err := decodeShareCode(code, testShareKey)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}
