package rest

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"apt-trade-map/internal/core/domain"
	"apt-trade-map/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearchUC фиксирует последний запрос и отдает заготовленный результат.
type fakeSearchUC struct {
	lastReq usecases_port.SearchRequest
	result  *usecases_port.SearchResult
	err     error
}

func (f *fakeSearchUC) Execute(ctx context.Context, req usecases_port.SearchRequest) (*usecases_port.SearchResult, error) {
	f.lastReq = req
	return f.result, f.err
}

type fakeVisibleAreaUC struct {
	lastReq usecases_port.VisibleAreaSearchRequest
	called  bool
	result  *usecases_port.SearchResult
	err     error
}

func (f *fakeVisibleAreaUC) Execute(ctx context.Context, req usecases_port.VisibleAreaSearchRequest) (*usecases_port.SearchResult, error) {
	f.called = true
	f.lastReq = req
	return f.result, f.err
}

type fakeGetViewUC struct {
	result *usecases_port.SessionView
	err    error
}

func (f *fakeGetViewUC) Execute(ctx context.Context, sessionID string) (*usecases_port.SessionView, error) {
	return f.result, f.err
}

func emptyResult() *usecases_port.SearchResult {
	return &usecases_port.SearchResult{
		SessionID: "sess-1",
		Center:    domain.Coordinate{Lat: 37.517, Lng: 127.047},
		View:      domain.NewViewState().Derive(),
	}
}

func TestSearchDispatchesByRegionCode(t *testing.T) {
	searchUC := &fakeSearchUC{result: emptyResult()}
	visibleUC := &fakeVisibleAreaUC{result: emptyResult()}
	h := NewSearchHandler(searchUC, visibleUC)

	body := `{"region_code":"11680","dong":"삼성동","deal_ym":"202401"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/searches", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.Search(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "11680", searchUC.lastReq.RegionCode)
	assert.Equal(t, "삼성동", searchUC.lastReq.Dong)
	assert.False(t, visibleUC.called)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "sess-1", resp.SessionID)
}

func TestSearchWithoutRegionCodeGoesToVisibleArea(t *testing.T) {
	searchUC := &fakeSearchUC{result: emptyResult()}
	visibleUC := &fakeVisibleAreaUC{result: emptyResult()}
	h := NewSearchHandler(searchUC, visibleUC)

	body := `{"deal_ym":"202401","viewport":{"min_lng":126.8,"min_lat":37.4,"max_lng":127.2,"max_lat":37.7}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/searches", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.Search(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, visibleUC.called)
	assert.Equal(t, 126.8, visibleUC.lastReq.Viewport.MinLng)
}

func TestSearchRejectsInvalidBody(t *testing.T) {
	h := NewSearchHandler(&fakeSearchUC{}, &fakeVisibleAreaUC{})

	tests := []struct {
		name string
		body string
	}{
		{"кривой JSON", `{not json`},
		{"без deal_ym", `{"region_code":"11680"}`},
		{"кривой код региона", `{"region_code":"12","deal_ym":"202401"}`},
		{"visible area без вьюпорта", `{"deal_ym":"202401"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/searches", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			h.Search(rr, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestSearchViewportErrorsMapTo400(t *testing.T) {
	visibleUC := &fakeVisibleAreaUC{err: domain.ErrViewportTooLarge}
	h := NewSearchHandler(&fakeSearchUC{}, visibleUC)

	body := `{"deal_ym":"202401","viewport":{"min_lng":125,"min_lat":33,"max_lng":130,"max_lat":39}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/searches", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.Search(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSearchUpstreamErrorMapsTo502(t *testing.T) {
	searchUC := &fakeSearchUC{err: &domain.UpstreamError{Code: "30", Message: "bad key"}}
	h := NewSearchHandler(searchUC, &fakeVisibleAreaUC{})

	body := `{"region_code":"11680","deal_ym":"202401"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/searches", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.Search(rr, req)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestGetSessionNotFound(t *testing.T) {
	h := &SessionHandler{getViewUC: &fakeGetViewUC{err: domain.ErrSessionNotFound}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/missing", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "missing")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	h.GetSession(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)

	var errResp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
	assert.Contains(t, errResp, "error")
}

func TestRecordResponseOmitsNaNArea(t *testing.T) {
	rec := toRecordResponse(domain.TransactionRecord{
		ID:       "1",
		Amount:   152000,
		Area:     math.NaN(),
		DealDate: "20240105",
	})

	assert.Nil(t, rec.Area)
	assert.Equal(t, "15억 2,000만원", rec.PriceDisplay)
	assert.Equal(t, "2024.01.05", rec.DealDateDisplay)

	// DTO с nil-площадью должен сериализоваться без ошибок
	_, err := json.Marshal(rec)
	assert.NoError(t, err)
}
