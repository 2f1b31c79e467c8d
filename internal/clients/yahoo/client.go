// Package yahoo provides Yahoo Finance market data providers.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"

	"github.com/aristath/stockdash/internal/domain"
	"github.com/aristath/stockdash/internal/utils"
)

const (
	defaultBaseURL   = "https://query1.finance.yahoo.com"
	defaultCookieURL = "https://fc.yahoo.com"
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// summaryModules are requested from quoteSummary and flattened in this order.
// A key seen in an earlier module is not overwritten by a later one.
var summaryModules = []string{
	"price",
	"summaryDetail",
	"financialData",
	"defaultKeyStatistics",
	"assetProfile",
}

// ClientConfig configures the HTTP client. Zero values fall back to Yahoo's public endpoints.
type ClientConfig struct {
	BaseURL   string
	CookieURL string
	UserAgent string
	Timeout   time.Duration
}

// Client is a Yahoo Finance API client talking to the public JSON endpoints directly
type Client struct {
	client    *http.Client
	baseURL   string
	cookieURL string
	userAgent string
	log       zerolog.Logger

	mu    sync.Mutex
	crumb string
}

// NewClient creates a new Yahoo Finance client
func NewClient(cfg ClientConfig, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.CookieURL == "" {
		cfg.CookieURL = defaultCookieURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	jar, _ := cookiejar.New(nil)

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		cookieURL: cfg.CookieURL,
		userAgent: cfg.UserAgent,
		log:       log.With().Str("client", "yahoo").Logger(),
	}
}

// chartResponse mirrors the v8 chart endpoint. Quote arrays hold nulls for missing bars.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string `json:"symbol"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				GMTOffset            int    `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func (e *apiError) notFound() bool {
	return e != nil && strings.EqualFold(e.Code, "Not Found")
}

// GetHistory fetches daily bars for the period. Prices are adjusted for splits and
// dividends the same way the adjusted close is. An unknown symbol yields an empty history.
func (c *Client) GetHistory(ctx context.Context, symbol string, period domain.Period) (domain.PriceHistory, error) {
	params := url.Values{}
	params.Set("range", string(period))
	params.Set("interval", "1d")
	params.Set("includeAdjustedClose", "true")
	params.Set("events", "div,splits")

	reqURL := c.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol) + "?" + params.Encode()

	body, status, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch historical data: %w", err)
	}

	var result chartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		if status != http.StatusOK {
			return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", status, truncate(body))
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Chart.Error != nil {
		if result.Chart.Error.notFound() {
			c.log.Debug().Str("symbol", symbol).Msg("Symbol not found")
			return domain.PriceHistory{}, nil
		}
		return nil, fmt.Errorf("Yahoo Finance API error: %w", result.Chart.Error)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", status, truncate(body))
	}
	if len(result.Chart.Result) == 0 {
		return domain.PriceHistory{}, nil
	}

	r := result.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return domain.PriceHistory{}, nil
	}
	q := r.Indicators.Quote[0]
	var adj []*float64
	if len(r.Indicators.AdjClose) > 0 {
		adj = r.Indicators.AdjClose[0].AdjClose
	}

	loc := exchangeLocation(r.Meta.ExchangeTimezoneName, r.Meta.GMTOffset)

	history := make(domain.PriceHistory, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		open, okO := at(q.Open, i)
		high, okH := at(q.High, i)
		low, okL := at(q.Low, i)
		closePrice, okC := at(q.Close, i)
		if !okO || !okH || !okL || !okC {
			continue
		}
		volume, _ := at(q.Volume, i)

		if adjClose, ok := at(adj, i); ok && closePrice != 0 {
			ratio := adjClose / closePrice
			open *= ratio
			high *= ratio
			low *= ratio
			closePrice = adjClose
		}

		t := time.Unix(ts, 0).In(loc)
		history = append(history, domain.Bar{
			Date:   domain.CalendarDate(t),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: int64(volume),
		})
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})

	return history, nil
}

// GetMetadata fetches company metadata from quoteSummary and flattens it into
// provider field names (currentPrice, marketCap, sector, ...).
func (c *Client) GetMetadata(ctx context.Context, symbol string) (domain.Metadata, error) {
	params := url.Values{}
	params.Set("modules", strings.Join(summaryModules, ","))
	crumb := c.ensureCrumb(ctx)
	if crumb != "" {
		params.Set("crumb", crumb)
	}

	reqURL := c.baseURL + "/v10/finance/quoteSummary/" + url.PathEscape(symbol) + "?" + params.Encode()

	body, status, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote summary: %w", err)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		c.invalidateCrumb(crumb)
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		if status != http.StatusOK {
			return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", status, truncate(body))
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if desc, err := jsonpath.Get("$.quoteSummary.error.description", doc); err == nil {
		if s, ok := desc.(string); ok && s != "" {
			if status == http.StatusNotFound {
				c.log.Debug().Str("symbol", symbol).Str("error", s).Msg("No quote summary for symbol")
				return domain.Metadata{}, nil
			}
			return nil, fmt.Errorf("Yahoo Finance API error: %s", s)
		}
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", status, truncate(body))
	}

	return flattenSummary(doc), nil
}

// flattenSummary merges the requested modules into one flat mapping.
// {"raw": x, "fmt": "..."} objects collapse to x; nested lists and empty objects are dropped.
func flattenSummary(doc interface{}) domain.Metadata {
	meta := domain.Metadata{}
	for _, module := range summaryModules {
		section, err := jsonpath.Get("$.quoteSummary.result[0]."+module, doc)
		if err != nil {
			continue
		}
		fields, ok := section.(map[string]interface{})
		if !ok {
			continue
		}
		for key, raw := range fields {
			if key == "maxAge" {
				continue
			}
			if _, seen := meta[key]; seen {
				continue
			}
			meta.Set(key, domain.ValueOf(unwrapRaw(raw)))
		}
	}
	return meta
}

func unwrapRaw(v interface{}) interface{} {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return v
	}
	if raw, ok := obj["raw"]; ok {
		return raw
	}
	return nil
}

// ensureCrumb returns the session crumb quoteSummary expects, fetching it once.
// Failures are logged and yield an empty crumb so the request is still attempted.
func (c *Client) ensureCrumb(ctx context.Context) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb != "" {
		return c.crumb
	}

	// The cookie endpoint answers 404 but sets the session cookie
	if _, _, err := c.get(ctx, c.cookieURL); err != nil {
		c.log.Warn().Err(err).Msg("Failed to obtain session cookie")
	}

	body, status, err := c.get(ctx, c.baseURL+"/v1/test/getcrumb")
	if err != nil || status != http.StatusOK {
		c.log.Warn().Err(err).Int("status", status).Msg("Failed to obtain crumb")
		return ""
	}

	c.crumb = strings.TrimSpace(string(body))
	return c.crumb
}

// invalidateCrumb drops a crumb Yahoo rejected so the next request fetches a new one.
// A crumb already replaced by another request is left alone.
func (c *Client) invalidateCrumb(rejected string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb == rejected {
		c.log.Debug().Msg("Crumb rejected, will refresh on next request")
		c.crumb = ""
	}
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic browser
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	timer := utils.NewTimer("yahoo_request", 5*time.Second, c.log)
	resp, err := c.client.Do(req)
	if err != nil {
		timer.StopWithContext(map[string]interface{}{"path": req.URL.Path, "error": err.Error()})
		return nil, 0, err
	}
	defer resp.Body.Close()
	timer.StopWithContext(map[string]interface{}{"path": req.URL.Path, "status": resp.StatusCode})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.StatusCode, nil
}

func at(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}
	return *values[i], true
}

func exchangeLocation(name string, gmtOffset int) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.FixedZone("exchange", gmtOffset)
}

func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
