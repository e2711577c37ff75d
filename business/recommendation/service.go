package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wildNest/domain"
	"wildNest/pkg/logger"
	"wildNest/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	defaultStatsDays = 7
	maxStatsDays     = 90
)

// ---- Repository interfaces ----

type OptionRepository interface {
	FindAll(ctx context.Context) ([]domain.Option, error)
}

type RuleRepository interface {
	FindActive(ctx context.Context) ([]domain.RecommendationRule, error)
}

type DrinkRepository interface {
	FindAll(ctx context.Context) ([]domain.Drink, error)
}

type LogRepository interface {
	Create(ctx context.Context, log *domain.RecommendationLog) error
	FindByID(ctx context.Context, id uint64) (domain.RecommendationLog, error)
	FindBySessionID(ctx context.Context, sessionID string) ([]domain.RecommendationLog, error)
	FindPage(ctx context.Context, filter domain.RecommendationLogFilter) (domain.Page[domain.RecommendationLog], error)
	UpdateFeedback(ctx context.Context, id uint64, feedback int, reason string) error
	Statistics(ctx context.Context, since time.Time) (domain.RecommendationStatistics, error)
	DailyStats(ctx context.Context, since time.Time) ([]domain.DailyRecommendationStat, error)
}

// CatalogCache stores the engine inputs between requests. GetSnapshot
// returns domain.ErrCacheMiss when nothing is cached.
type CatalogCache interface {
	GetSnapshot(ctx context.Context) (domain.CatalogSnapshot, error)
	SetSnapshot(ctx context.Context, snapshot domain.CatalogSnapshot) error
}

type RecommendRequest struct {
	SessionID  string
	Answers    domain.UserAnswers
	ClientIP   string
	UserAgent  string
	DeviceInfo map[string]interface{}
	IsTestData bool
}

type RecommendOutcome struct {
	LogID     uint64                      `json:"log_id"`
	SessionID string                      `json:"session_id"`
	ShareCode string                      `json:"share_code,omitempty"`
	Result    domain.RecommendationResult `json:"result"`
}

type recommendationService struct {
	engine     *Engine
	optionRepo OptionRepository
	ruleRepo   RuleRepository
	drinkRepo  DrinkRepository
	logRepo    LogRepository
	cache      CatalogCache
	shareKey   string
	now        func() time.Time
}

func NewRecommendationService(
	engine *Engine,
	optionRepo OptionRepository,
	ruleRepo RuleRepository,
	drinkRepo DrinkRepository,
	logRepo LogRepository,
	cache CatalogCache,
	shareKey string,
) *recommendationService {
	return &recommendationService{
		engine:     engine,
		optionRepo: optionRepo,
		ruleRepo:   ruleRepo,
		drinkRepo:  drinkRepo,
		logRepo:    logRepo,
		cache:      cache,
		shareKey:   shareKey,
		now:        time.Now,
	}
}

func hasSelections(answers domain.UserAnswers) bool {
	for _, ids := range answers {
		if len(ids) > 0 {
			return true
		}
	}
	return false
}

func (s *recommendationService) Recommend(ctx context.Context, req RecommendRequest) (RecommendOutcome, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when recommending")
		return RecommendOutcome{}, fmt.Errorf("context error: %w", err)
	}

	if !hasSelections(req.Answers) {
		return RecommendOutcome{}, domain.ErrEmptyAnswers
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	log := logger.With("trace_id", TraceIDFromContext(ctx), "session_id", sessionID)

	snapshot, err := s.loadCatalog(ctx)
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		return RecommendOutcome{}, fmt.Errorf("failed to load catalog: %w", err)
	}

	result := s.engine.Recommend(req.Answers, snapshot.Options, snapshot.Rules, snapshot.Drinks)
	if result.Strategy == "" {
		return RecommendOutcome{}, domain.ErrUnavailable
	}

	metrics.RecommendRequests.Inc()
	metrics.RecommendStrategy.WithLabelValues(result.Strategy).Inc()
	metrics.RecommendMatchedRules.Observe(float64(len(result.MatchedRules)))

	outcome := RecommendOutcome{
		SessionID: sessionID,
		Result:    result,
	}

	entry, err := s.buildLog(sessionID, req, result)
	if err != nil {
		log.Error("failed to encode recommendation log", "error", err)
		return outcome, nil
	}

	if err := s.logRepo.Create(ctx, &entry); err != nil {
		log.Error("failed to save recommendation log", "error", err)
		return outcome, nil
	}
	outcome.LogID = entry.ID

	code, err := encodeShareCode(entry.ID, s.shareKey)
	if err != nil {
		log.Warn("failed to build share code", "error", err)
	}
	outcome.ShareCode = code

	log.Info("recommendation served",
		"log_id", entry.ID,
		"strategy", result.Strategy,
		"drinks", len(result.RecommendedDrinks),
		"execution_time_ms", result.ExecutionTimeMs,
	)

	return outcome, nil
}

func (s *recommendationService) buildLog(sessionID string, req RecommendRequest, result domain.RecommendationResult) (domain.RecommendationLog, error) {
	answers, err := json.Marshal(req.Answers)
	if err != nil {
		return domain.RecommendationLog{}, err
	}
	drinks, err := json.Marshal(result.RecommendedDrinks)
	if err != nil {
		return domain.RecommendationLog{}, err
	}
	rules, err := json.Marshal(result.MatchedRules)
	if err != nil {
		return domain.RecommendationLog{}, err
	}

	return domain.RecommendationLog{
		SessionID:         sessionID,
		UserAnswers:       datatypes.JSON(answers),
		RecommendedDrinks: datatypes.JSON(drinks),
		MatchedRules:      datatypes.JSON(rules),
		AlgorithmVersion:  result.AlgorithmVersion,
		Strategy:          result.Strategy,
		TotalScore:        roundHalfUp(result.TotalScore, 2),
		ExecutionTimeMs:   result.ExecutionTimeMs,
		UserIP:            req.ClientIP,
		UserAgent:         req.UserAgent,
		DeviceInfo:        datatypes.JSONMap(req.DeviceInfo),
		IsTestData:        req.IsTestData,
		CreatedAt:         s.now(),
	}, nil
}

// loadCatalog prefers the cached snapshot. Cache errors are logged and
// the database is used instead.
func (s *recommendationService) loadCatalog(ctx context.Context) (domain.CatalogSnapshot, error) {
	if s.cache != nil {
		snapshot, err := s.cache.GetSnapshot(ctx)
		if err == nil {
			metrics.CatalogCacheLookups.WithLabelValues("hit").Inc()
			return snapshot, nil
		}
		if errors.Is(err, domain.ErrCacheMiss) {
			metrics.CatalogCacheLookups.WithLabelValues("miss").Inc()
		} else {
			metrics.CatalogCacheLookups.WithLabelValues("error").Inc()
			logger.Warn("catalog cache unavailable", "error", err)
		}
	}

	options, err := s.optionRepo.FindAll(ctx)
	if err != nil {
		return domain.CatalogSnapshot{}, err
	}
	rules, err := s.ruleRepo.FindActive(ctx)
	if err != nil {
		return domain.CatalogSnapshot{}, err
	}
	drinks, err := s.drinkRepo.FindAll(ctx)
	if err != nil {
		return domain.CatalogSnapshot{}, err
	}

	snapshot := domain.CatalogSnapshot{Options: options, Rules: rules, Drinks: drinks}

	if s.cache != nil {
		if err := s.cache.SetSnapshot(ctx, snapshot); err != nil {
			logger.Warn("failed to cache catalog snapshot", "error", err)
		}
	}

	return snapshot, nil
}

func (s *recommendationService) GetResult(ctx context.Context, id uint64) (domain.RecommendationLog, error) {
	if id == 0 {
		return domain.RecommendationLog{}, domain.ErrInvalidID
	}

	if err := ctx.Err(); err != nil {
		return domain.RecommendationLog{}, fmt.Errorf("context error: %w", err)
	}

	entry, err := s.logRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find recommendation log", err)
		return domain.RecommendationLog{}, err
	}

	return entry, nil
}

func (s *recommendationService) GetSharedResult(ctx context.Context, code string) (domain.RecommendationLog, error) {
	id, err := decodeShareCode(code, s.shareKey)
	if err != nil {
		logger.Warn("invalid share code", "code", code)
		return domain.RecommendationLog{}, err
	}

	return s.GetResult(ctx, id)
}

func (s *recommendationService) History(ctx context.Context, sessionID string) ([]domain.RecommendationLog, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionRequired
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	logs, err := s.logRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		logger.Error("failed to find recommendation history", err)
		return nil, err
	}

	return logs, nil
}

func (s *recommendationService) SubmitFeedback(ctx context.Context, logID uint64, feedback int, reason string) error {
	if logID == 0 {
		return domain.ErrInvalidID
	}

	if feedback != domain.FeedbackSatisfied && feedback != domain.FeedbackUnsatisfied {
		return domain.ErrInvalidFeedback
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.logRepo.UpdateFeedback(ctx, logID, feedback, reason); err != nil {
		logger.Error("failed to save feedback", err)
		return err
	}

	verdict := "unsatisfied"
	if feedback == domain.FeedbackSatisfied {
		verdict = "satisfied"
	}
	FeedbackEventsTotal.WithLabelValues(verdict, s.engine.Version()).Inc()

	logger.Info("feedback saved successfully", "log_id", logID, "verdict", verdict)

	return nil
}

func (s *recommendationService) ListLogs(ctx context.Context, filter domain.RecommendationLogFilter) (domain.Page[domain.RecommendationLog], error) {
	if err := ctx.Err(); err != nil {
		return domain.Page[domain.RecommendationLog]{}, fmt.Errorf("context error: %w", err)
	}

	filter.Page, filter.PageSize = domain.NormalizePage(filter.Page, filter.PageSize)

	page, err := s.logRepo.FindPage(ctx, filter)
	if err != nil {
		logger.Error("failed to list recommendation logs", err)
		return domain.Page[domain.RecommendationLog]{}, err
	}

	return page, nil
}

func (s *recommendationService) Statistics(ctx context.Context) (domain.RecommendationStatistics, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationStatistics{}, fmt.Errorf("context error: %w", err)
	}

	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := s.logRepo.Statistics(ctx, startOfDay)
	if err != nil {
		logger.Error("failed to compute recommendation statistics", err)
		return domain.RecommendationStatistics{}, err
	}

	if rated := stats.SatisfiedCount + stats.UnsatisfiedCount; rated > 0 {
		stats.SatisfactionRate = roundHalfUp(float64(stats.SatisfiedCount)/float64(rated)*100, 2)
	}
	stats.AverageScore = roundHalfUp(stats.AverageScore, 2)
	stats.AverageExecutionTimeMs = roundHalfUp(stats.AverageExecutionTimeMs, 2)

	return stats, nil
}

func (s *recommendationService) DailyStats(ctx context.Context, days int) ([]domain.DailyRecommendationStat, error) {
	if days <= 0 {
		days = defaultStatsDays
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	now := s.now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))

	stats, err := s.logRepo.DailyStats(ctx, since)
	if err != nil {
		logger.Error("failed to compute daily statistics", err)
		return nil, err
	}

	for i := range stats {
		stats[i].AverageScore = roundHalfUp(stats[i].AverageScore, 2)
	}

	return stats, nil
}
