//go:build !integration

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wildNest/business/recommendation"
	"wildNest/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.ErrEmptyAnswers, http.StatusBadRequest},
		{domain.ErrRuleNameTaken, http.StatusBadRequest},
		{domain.ErrDrinkNotFound, http.StatusNotFound},
		{domain.ErrInvalidCredential, http.StatusUnauthorized},
		{domain.ErrUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, statusFor(tt.err))
		})
	}
}

func TestErrorJSON_HidesInternalErrors(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/", "")
	require.NoError(t, errorJSON(c, errors.New("dial tcp 10.0.0.3:5432: refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
}

type fakeRecommendationService struct {
	lastReq      recommendation.RecommendRequest
	recommendErr error
	feedbackID   uint64
	feedback     int
	logs         map[uint64]domain.RecommendationLog
	shared       map[string]uint64
}

func (f *fakeRecommendationService) Recommend(ctx context.Context, req recommendation.RecommendRequest) (recommendation.RecommendOutcome, error) {
	f.lastReq = req
	if f.recommendErr != nil {
		return recommendation.RecommendOutcome{}, f.recommendErr
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "generated-session"
	}
	return recommendation.RecommendOutcome{
		LogID:     11,
		SessionID: sessionID,
		ShareCode: "share-11",
		Result: domain.RecommendationResult{
			RecommendedDrinks: []domain.RecommendedDrink{{Drink: domain.Drink{ID: 5, Name: "Mojito"}, MatchScore: 100}},
			MatchedRules:      []domain.MatchedRule{},
			Strategy:          domain.StrategyRanked,
			AlgorithmVersion:  recommendation.AlgorithmVersion,
		},
	}, nil
}

func (f *fakeRecommendationService) GetResult(ctx context.Context, id uint64) (domain.RecommendationLog, error) {
	entry, ok := f.logs[id]
	if !ok {
		return domain.RecommendationLog{}, domain.ErrLogNotFound
	}
	return entry, nil
}

func (f *fakeRecommendationService) GetSharedResult(ctx context.Context, code string) (domain.RecommendationLog, error) {
	id, ok := f.shared[code]
	if !ok {
		return domain.RecommendationLog{}, domain.ErrInvalidShareCode
	}
	return f.GetResult(ctx, id)
}

func (f *fakeRecommendationService) History(ctx context.Context, sessionID string) ([]domain.RecommendationLog, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionRequired
	}
	return []domain.RecommendationLog{{ID: 11, SessionID: sessionID}}, nil
}

func (f *fakeRecommendationService) SubmitFeedback(ctx context.Context, logID uint64, feedback int, reason string) error {
	if _, ok := f.logs[logID]; !ok {
		return domain.ErrLogNotFound
	}
	f.feedbackID = logID
	f.feedback = feedback
	return nil
}

func (f *fakeRecommendationService) ListLogs(ctx context.Context, filter domain.RecommendationLogFilter) (domain.Page[domain.RecommendationLog], error) {
	return domain.Page[domain.RecommendationLog]{Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (f *fakeRecommendationService) Statistics(ctx context.Context) (domain.RecommendationStatistics, error) {
	return domain.RecommendationStatistics{TotalRecommendations: 3}, nil
}

func (f *fakeRecommendationService) DailyStats(ctx context.Context, days int) ([]domain.DailyRecommendationStat, error) {
	return []domain.DailyRecommendationStat{{Date: "2026-10-19", Recommendations: 3}}, nil
}

func TestRecommendHandler_Recommend(t *testing.T) {
	svc := &fakeRecommendationService{}
	h := NewRecommendHandler(svc)

	c, rec := newContext(http.MethodPost, "/api/v1/recommend/result", `{"answers":{"1":[1],"2":[4]}}`)
	c.Request().Header.Set(headerSessionID, "sess-from-header")
	c.Request().Header.Set("X-Device-Type", "tablet")

	require.NoError(t, h.Recommend(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mojito")
	assert.Equal(t, "sess-from-header", rec.Header().Get(headerSessionID))

	assert.Equal(t, "sess-from-header", svc.lastReq.SessionID)
	assert.Equal(t, []uint64{1}, svc.lastReq.Answers[1])
	assert.Equal(t, []uint64{4}, svc.lastReq.Answers[2])
	assert.Equal(t, "tablet", svc.lastReq.DeviceInfo["device_type"])
}

func TestRecommendHandler_RecommendErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"missing answers", `{}`, nil, http.StatusBadRequest},
		{"malformed json", `{"answers":`, nil, http.StatusBadRequest},
		{"empty selections", `{"answers":{"1":[]}}`, domain.ErrEmptyAnswers, http.StatusBadRequest},
		{"engine failure", `{"answers":{"1":[1]}}`, domain.ErrUnavailable, http.StatusServiceUnavailable},
		{"database down", `{"answers":{"1":[1]}}`, errors.New("failed to load catalog"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRecommendHandler(&fakeRecommendationService{recommendErr: tt.err})
			c, rec := newContext(http.MethodPost, "/api/v1/recommend/result", tt.body)

			require.NoError(t, h.Recommend(c))
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusServiceUnavailable {
				assert.Contains(t, rec.Body.String(), "temporarily unavailable")
			}
		})
	}
}

func TestRecommendHandler_ResultAndShare(t *testing.T) {
	svc := &fakeRecommendationService{
		logs:   map[uint64]domain.RecommendationLog{11: {ID: 11, SessionID: "s-1"}},
		shared: map[string]uint64{"abc": 11},
	}
	h := NewRecommendHandler(svc)

	c, rec := newContext(http.MethodGet, "/api/v1/recommend/result/11", "")
	c.SetParamNames("id")
	c.SetParamValues("11")
	require.NoError(t, h.GetResult(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(http.MethodGet, "/api/v1/recommend/result/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, h.GetResult(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newContext(http.MethodGet, "/api/v1/recommend/shared?code=abc", "")
	require.NoError(t, h.GetSharedResult(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "s-1")

	c, rec = newContext(http.MethodGet, "/api/v1/recommend/shared?code=forged", "")
	require.NoError(t, h.GetSharedResult(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendHandler_History(t *testing.T) {
	h := NewRecommendHandler(&fakeRecommendationService{})

	c, rec := newContext(http.MethodGet, "/api/v1/recommend/history", "")
	require.NoError(t, h.History(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodGet, "/api/v1/recommend/history?session_id=s-9", "")
	require.NoError(t, h.History(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "s-9")
}

func TestRecommendHandler_Feedback(t *testing.T) {
	svc := &fakeRecommendationService{logs: map[uint64]domain.RecommendationLog{11: {ID: 11}}}
	h := NewRecommendHandler(svc)

	c, rec := newContext(http.MethodPost, "/api/v1/recommend/feedback", `{"log_id":11,"feedback":0,"reason":"too sweet"}`)
	require.NoError(t, h.Feedback(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint64(11), svc.feedbackID)
	assert.Equal(t, 0, svc.feedback)

	for _, body := range []string{`{"log_id":11}`, `{"log_id":11,"feedback":3}`, `{"feedback":1}`} {
		c, rec = newContext(http.MethodPost, "/api/v1/recommend/feedback", body)
		require.NoError(t, h.Feedback(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	c, rec = newContext(http.MethodPost, "/api/v1/recommend/feedback", `{"log_id":77,"feedback":1}`)
	require.NoError(t, h.Feedback(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecommendHandler_ListLogsFilters(t *testing.T) {
	h := NewRecommendHandler(&fakeRecommendationService{})

	c, rec := newContext(http.MethodGet, "/api/v1/admin/recommend/logs?page=2&page_size=5&user_feedback=1", "")
	require.NoError(t, h.ListLogs(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Logs domain.Page[domain.RecommendationLog] `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Logs.Page)
	assert.Equal(t, 5, body.Logs.PageSize)
}

func TestRuleRequest_ToDomain(t *testing.T) {
	score := 80.0
	req := RuleRequest{
		RuleName:          "citrus lovers",
		OptionCombination: []uint64{1, 4},
		TargetDrinkIDs:    []uint64{5, 7},
		MatchScore:        &score,
		ConditionType:     domain.ConditionPartial,
	}

	rule, err := req.toDomain()
	require.NoError(t, err)

	ids, err := rule.OptionIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 4}, ids)
	assert.Equal(t, "5,7", rule.TargetDrinkIDs)
	assert.True(t, rule.IsActive)
}

func TestRuleRequest_EmptyCombinationStaysEmpty(t *testing.T) {
	rule, err := RuleRequest{RuleName: "x"}.toDomain()
	require.NoError(t, err)
	assert.Empty(t, rule.OptionCombination)
	assert.Empty(t, rule.TargetDrinkIDs)
}

func TestRuleHandler_RejectsNegativePriority(t *testing.T) {
	h := NewRuleHandler(nil)
	c, rec := newContext(http.MethodPost, "/api/v1/admin/rules",
		`{"rule_name":"sour","option_combination":[10],"target_drink_ids":[5],"match_score":80,"condition_type":"fuzzy","priority_level":-20}`)

	require.NoError(t, h.CreateRule(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakeDrinkService struct {
	DrinkService
	drinks     map[uint64]domain.Drink
	lastFilter domain.DrinkFilter
	created    *domain.Drink
}

func (f *fakeDrinkService) ListDrinks(ctx context.Context, filter domain.DrinkFilter) (domain.Page[domain.Drink], error) {
	f.lastFilter = filter
	return domain.Page[domain.Drink]{Page: 1, PageSize: 10}, nil
}

func (f *fakeDrinkService) GetDrink(ctx context.Context, id uint64) (*domain.Drink, error) {
	d, ok := f.drinks[id]
	if !ok {
		return nil, domain.ErrDrinkNotFound
	}
	return &d, nil
}

func (f *fakeDrinkService) CreateDrink(ctx context.Context, drink *domain.Drink) (*domain.Drink, error) {
	drink.ID = 9
	f.created = drink
	return drink, nil
}

func TestDrinkHandler_Listing(t *testing.T) {
	svc := &fakeDrinkService{}
	h := NewDrinkHandler(svc)

	c, rec := newContext(http.MethodGet, "/api/v1/drinks?category_id=3&page=2", "")
	require.NoError(t, h.GetDrinks(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(3), svc.lastFilter.CategoryID)
	assert.Equal(t, 2, svc.lastFilter.Page)
	assert.False(t, svc.lastFilter.IncludeUnavailable)

	c, rec = newContext(http.MethodGet, "/api/v1/drinks/search", "")
	require.NoError(t, h.SearchDrinks(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodGet, "/api/v1/drinks/tag?tag=sour", "")
	require.NoError(t, h.GetDrinksByTag(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sour", svc.lastFilter.Tag)

	c, rec = newContext(http.MethodGet, "/api/v1/admin/drinks", "")
	require.NoError(t, h.AdminGetDrinks(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.lastFilter.IncludeUnavailable)
}

func TestDrinkHandler_GetAndCreate(t *testing.T) {
	svc := &fakeDrinkService{drinks: map[uint64]domain.Drink{5: {ID: 5, Name: "Mojito"}}}
	h := NewDrinkHandler(svc)

	c, rec := newContext(http.MethodGet, "/api/v1/drinks/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.GetDrinkByID(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodGet, "/api/v1/drinks/6", "")
	c.SetParamNames("id")
	c.SetParamValues("6")
	require.NoError(t, h.GetDrinkByID(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newContext(http.MethodPost, "/api/v1/admin/drinks", `{"name":"Paloma","price":12,"alcohol_content":120}`)
	require.NoError(t, h.CreateDrink(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodPost, "/api/v1/admin/drinks", `{"name":"Paloma","price":12,"tags":["sour"," citrus"]}`)
	require.NoError(t, h.CreateDrink(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "sour,citrus", svc.created.Tags)
	assert.True(t, svc.created.IsAvailable)
}

type fakeAdminService struct {
	loggedOut uint
}

func (f *fakeAdminService) Login(ctx context.Context, username, password, ip, ua string) (string, domain.AdminUser, error) {
	if username != "root" || password != "secret" {
		return "", domain.AdminUser{}, domain.ErrInvalidCredential
	}
	return "jwt-token", domain.AdminUser{ID: 1, Username: "root", Role: domain.RoleAdmin}, nil
}

func (f *fakeAdminService) Logout(ctx context.Context, adminID uint) error {
	f.loggedOut = adminID
	return nil
}

func (f *fakeAdminService) Me(ctx context.Context, adminID uint) (domain.AdminUser, error) {
	return domain.AdminUser{ID: adminID, Username: "root"}, nil
}

func TestAdminHandler_Login(t *testing.T) {
	h := NewAdminHandler(&fakeAdminService{})

	c, rec := newContext(http.MethodPost, "/api/v1/admin/auth/login", `{"username":"root","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newContext(http.MethodPost, "/api/v1/admin/auth/login", `{"username":"root","password":"secret"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jwt-token")
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestAdminHandler_LogoutUsesContextUser(t *testing.T) {
	svc := &fakeAdminService{}
	h := NewAdminHandler(svc)

	c, rec := newContext(http.MethodPost, "/api/v1/admin/auth/logout", "")
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newContext(http.MethodPost, "/api/v1/admin/auth/logout", "")
	c.Set("user_id", uint(4))
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(4), svc.loggedOut)
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler("v1.0", map[string]HealthCheck{
		"database": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("down") },
	})

	c, rec := newContext(http.MethodGet, "/api/v1/health", "")
	require.NoError(t, h.Health(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"down"`)
	assert.Contains(t, rec.Body.String(), `"database":"up"`)
}
