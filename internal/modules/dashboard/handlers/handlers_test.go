package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stockdash/internal/clients/objectstore"
	"github.com/aristath/stockdash/internal/domain"
	"github.com/aristath/stockdash/internal/modules/acquisition"
	"github.com/aristath/stockdash/internal/modules/charts"
	"github.com/aristath/stockdash/internal/modules/dashboard"
	"github.com/aristath/stockdash/internal/modules/export"
	"github.com/aristath/stockdash/internal/session"
)

type stubFetcher struct {
	calls      int
	err        error
	lastPeriod domain.Period
}

func (f *stubFetcher) Fetch(ctx context.Context, symbol string, period domain.Period) (*domain.Snapshot, error) {
	f.calls++
	f.lastPeriod = period
	if f.err != nil {
		return nil, f.err
	}
	if symbol != "AAPL" {
		return nil, &acquisition.NotFoundError{Symbol: symbol}
	}

	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	history := make(domain.PriceHistory, 60)
	for i := range history {
		history[i] = domain.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   100 + float64(i),
			High:   102 + float64(i),
			Low:    99 + float64(i),
			Close:  101 + float64(i),
			Volume: 1_234_567,
		}
	}

	return &domain.Snapshot{
		FetchedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Symbol:    symbol,
		Period:    period,
		History:   history,
		Metadata: domain.Metadata{
			"longName":     domain.String("Apple Inc."),
			"currentPrice": domain.Number(189.84),
		},
	}, nil
}

type memStore struct {
	uploads map[string][]byte
}

func (m *memStore) Upload(_ context.Context, key string, body io.Reader, _ string, _ map[string]string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.uploads[key] = data
	return nil
}

func (m *memStore) List(_ context.Context, prefix string) ([]objectstore.Object, error) {
	var out []objectstore.Object
	for key, data := range m.uploads {
		if strings.HasPrefix(key, prefix) {
			out = append(out, objectstore.Object{Key: key, SizeBytes: int64(len(data))})
		}
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.uploads, key)
	return nil
}

type testEnv struct {
	router  *chi.Mux
	fetcher *stubFetcher
	store   *memStore
}

func newTestEnv(t *testing.T, withArchive bool) *testEnv {
	t.Helper()
	return newTestEnvWithPeriod(t, withArchive, domain.DefaultPeriod)
}

func newTestEnvWithPeriod(t *testing.T, withArchive bool, defaultPeriod domain.Period) *testEnv {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)

	fetcher := &stubFetcher{}
	service := dashboard.NewService(fetcher, charts.NewService(log), log)
	sessions := session.NewStore(time.Hour, log)

	env := &testEnv{fetcher: fetcher}
	var archiver *export.Archiver
	if withArchive {
		env.store = &memStore{uploads: map[string][]byte{}}
		archiver = export.NewArchiver(env.store, log)
	}

	handler := NewHandler(service, sessions, archiver, "AAPL", defaultPeriod, log)

	env.router = chi.NewRouter()
	env.router.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
		handler.RegisterStreamRoutes(r)
	})
	return env
}

// do sends a request carrying the given session cookie and returns the recorder
// plus the session cookie in effect afterwards.
func (e *testEnv) do(t *testing.T, method, target string, body []byte, cookie *http.Cookie) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	return w, cookie
}

type outcomeResponse struct {
	Data struct {
		View *struct {
			Symbol  string `json:"symbol"`
			Header  string `json:"header"`
			Metrics []struct {
				Metric string `json:"metric"`
				Value  string `json:"value"`
			} `json:"metrics"`
			Historical []json.RawMessage `json:"historical"`
			Figure     struct {
				Data []map[string]interface{} `json:"data"`
			} `json:"figure"`
		} `json:"view"`
		Error *struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
		Fetched bool                      `json:"fetched"`
		Popular []dashboard.PopularSymbol `json:"popular_symbols"`
	} `json:"data"`
	Metadata struct {
		Timestamp string `json:"timestamp"`
	} `json:"metadata"`
}

func decodeOutcome(t *testing.T, w *httptest.ResponseRecorder) outcomeResponse {
	t.Helper()
	var resp outcomeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleGetPeriods(t *testing.T) {
	env := newTestEnv(t, false)

	w, _ := env.do(t, http.MethodGet, "/api/periods", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Options []domain.PeriodOption `json:"options"`
			Default string                `json:"default"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Options, 8)
	assert.Equal(t, "1y", resp.Data.Default)
}

func TestHandleLoad_FetchesDefaultSymbolOnce(t *testing.T) {
	env := newTestEnv(t, false)

	w, cookie := env.do(t, http.MethodGet, "/api/dashboard", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, cookie)

	resp := decodeOutcome(t, w)
	require.NotNil(t, resp.Data.View)
	assert.Equal(t, "Apple Inc. (AAPL)", resp.Data.View.Header)
	assert.Len(t, resp.Data.View.Metrics, 23)
	assert.Len(t, resp.Data.View.Historical, 60)
	assert.Len(t, resp.Data.View.Figure.Data, 4, "candles, two overlays, volume")
	assert.NotEmpty(t, resp.Metadata.Timestamp)

	w, _ = env.do(t, http.MethodGet, "/api/dashboard?symbol=MSFT", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.fetcher.calls, "reload of a populated session does not fetch")
	assert.Equal(t, "AAPL", decodeOutcome(t, w).Data.View.Symbol)
}

func TestHandleLoad_EmptySymbolShowsSuggestions(t *testing.T) {
	env := newTestEnv(t, false)

	w, _ := env.do(t, http.MethodGet, "/api/dashboard?symbol=", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeOutcome(t, w)
	assert.Nil(t, resp.Data.View)
	assert.Len(t, resp.Data.Popular, 7)
	assert.Equal(t, 0, env.fetcher.calls)
}

func TestHandleFetch(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
		wantView   bool
	}{
		{name: "success", body: `{"symbol":"aapl","period":"6mo"}`, wantStatus: http.StatusOK, wantView: true},
		{name: "not found", body: `{"symbol":"ZZZZINVALID","period":"1y"}`, wantStatus: http.StatusOK, wantError: "not_found"},
		{name: "bad period", body: `{"symbol":"AAPL","period":"7 Years"}`, wantStatus: http.StatusBadRequest, wantError: "invalid"},
		{name: "empty symbol", body: `{"symbol":"  "}`, wantStatus: http.StatusBadRequest, wantError: "invalid"},
		{name: "malformed body", body: `{`, wantStatus: http.StatusBadRequest, wantError: "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, false)
			if tt.name == "empty symbol" {
				env.fetcher.err = acquisition.ErrEmptySymbol
			}

			w, _ := env.do(t, http.MethodPost, "/api/dashboard/fetch", []byte(tt.body), nil)
			assert.Equal(t, tt.wantStatus, w.Code)

			resp := decodeOutcome(t, w)
			if tt.wantError != "" {
				require.NotNil(t, resp.Data.Error)
				assert.Equal(t, tt.wantError, resp.Data.Error.Kind)
			} else {
				assert.Nil(t, resp.Data.Error)
			}
			assert.Equal(t, tt.wantView, resp.Data.View != nil)
		})
	}
}

func TestHandleFetch_FailureKeepsPreviousData(t *testing.T) {
	env := newTestEnv(t, false)

	_, cookie := env.do(t, http.MethodPost, "/api/dashboard/fetch", []byte(`{"symbol":"AAPL"}`), nil)

	w, _ := env.do(t, http.MethodPost, "/api/dashboard/fetch", []byte(`{"symbol":"ZZZZINVALID"}`), cookie)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeOutcome(t, w)
	require.NotNil(t, resp.Data.Error)
	assert.Equal(t, "No data found for symbol 'ZZZZINVALID'. Please check the symbol and try again.", resp.Data.Error.Message)
	require.NotNil(t, resp.Data.View)
	assert.Equal(t, "AAPL", resp.Data.View.Symbol)
}

func TestHandleExport(t *testing.T) {
	env := newTestEnv(t, false)

	w, cookie := env.do(t, http.MethodGet, "/api/dashboard/export/historical.csv", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "empty session has nothing to export")

	_, cookie = env.do(t, http.MethodPost, "/api/dashboard/fetch", []byte(`{"symbol":"AAPL"}`), cookie)

	w, _ = env.do(t, http.MethodGet, "/api/dashboard/export/historical.csv", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="AAPL_historical_data.csv"`, w.Header().Get("Content-Disposition"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 61)
	assert.Equal(t, "Date,Open,High,Low,Close,Volume", lines[0])
	assert.Equal(t, "2024-03-01,159.00,161.00,158.00,160.00,1234567", lines[1])

	w, _ = env.do(t, http.MethodGet, "/api/dashboard/export/metrics.csv", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="AAPL_financial_metrics.csv"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "Metric,Value\nCurrent Price,$189.84\n"))

	w, _ = env.do(t, http.MethodGet, "/api/dashboard/export/portfolio.csv", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleArchive(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		env := newTestEnv(t, false)
		w, _ := env.do(t, http.MethodPost, "/api/dashboard/export/historical/archive", nil, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		w, _ = env.do(t, http.MethodGet, "/api/dashboard/archives", nil, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("uploads the current export", func(t *testing.T) {
		env := newTestEnv(t, true)

		w, cookie := env.do(t, http.MethodPost, "/api/dashboard/export/metrics/archive", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		_, cookie = env.do(t, http.MethodPost, "/api/dashboard/fetch", []byte(`{"symbol":"AAPL"}`), cookie)

		w, _ = env.do(t, http.MethodPost, "/api/dashboard/export/metrics/archive", nil, cookie)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data export.Archive `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, strings.HasPrefix(resp.Data.Key, "exports/AAPL/"))
		assert.True(t, strings.HasSuffix(resp.Data.Key, "_AAPL_financial_metrics.csv"))
		require.Len(t, env.store.uploads, 1)

		w, _ = env.do(t, http.MethodGet, "/api/dashboard/archives?symbol=aapl", nil, cookie)
		require.Equal(t, http.StatusOK, w.Code)
		var list struct {
			Data struct {
				Count int `json:"count"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Equal(t, 1, list.Data.Count)

		w, _ = env.do(t, http.MethodPost, "/api/dashboard/export/charts/archive", nil, cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t, false)

	_, alice := env.do(t, http.MethodPost, "/api/dashboard/fetch", []byte(`{"symbol":"AAPL"}`), nil)
	w, bob := env.do(t, http.MethodGet, "/api/dashboard?symbol=", nil, nil)

	require.NotNil(t, alice)
	require.NotNil(t, bob)
	assert.NotEqual(t, alice.Value, bob.Value)
	assert.Nil(t, decodeOutcome(t, w).Data.View)

	w, _ = env.do(t, http.MethodGet, "/api/dashboard/export/metrics.csv", nil, bob)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfiguredDefaultPeriod(t *testing.T) {
	env := newTestEnvWithPeriod(t, false, domain.Period6M)

	w, _ := env.do(t, http.MethodGet, "/api/periods", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var periods struct {
		Data struct {
			Default string `json:"default"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &periods))
	assert.Equal(t, "6mo", periods.Data.Default)

	tests := []struct {
		name   string
		method string
		target string
		body   []byte
		want   domain.Period
	}{
		{"load without period", http.MethodGet, "/api/dashboard", nil, domain.Period6M},
		{"load with period", http.MethodGet, "/api/dashboard?period=5d", nil, domain.Period1W},
		{"fetch without period", http.MethodPost, "/api/dashboard/fetch", []byte(`{"symbol":"AAPL"}`), domain.Period6M},
		{"fetch with period", http.MethodPost, "/api/dashboard/fetch", []byte(`{"symbol":"AAPL","period":"2y"}`), domain.Period2Y},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// a fresh session per case so every load fetches
			w, _ := env.do(t, tt.method, tt.target, tt.body, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, env.fetcher.lastPeriod)
		})
	}
}
