package sportmonks

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/prediction-league/internal/domain/rawdata"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

const (
	defaultBaseURL         = "https://api.sportmonks.com/v3/football"
	defaultIncludeStanding = "participant;details.type"
	defaultTimeout         = 20 * time.Second
	maxResponseBytes       = 6 << 20
	bodyPreviewLimit       = 240
)

var roundNumberRegex = regexp.MustCompile(`\d+`)
var tokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
var errProviderTransient = crerr.New("sportmonks transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	token          string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "prediction-league",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxConnsPerHost:     16,
			MaxResponseBodySize: maxResponseBytes,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

// Standing is one provider table row reduced to the fields ingestion cares
// about. Metric fields hold season totals once detail rows are applied.
type Standing struct {
	TeamExternalID int64
	TeamName       string
	TeamShort      string
	Position       int
	Played         int
	Won            int
	Draw           int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	Points         int
	GoalDifference int
}

// SeasonTable is one provider snapshot of a season: the ranked table, the
// latest finished round it covers, and the raw bodies for archiving.
type SeasonTable struct {
	Round     int
	Standings []Standing
	RawJSON   string
	Payloads  []rawdata.Payload
}

// FetchSeasonTable pulls the standings and the round list for a season in
// parallel. The round list is advisory: when it cannot be fetched the round
// is inferred from matches played instead of failing the whole snapshot.
func (c *Client) FetchSeasonTable(ctx context.Context, seasonID int64) (SeasonTable, error) {
	if seasonID <= 0 {
		return SeasonTable{}, fmt.Errorf("season id must be greater than zero")
	}

	var (
		standingRows     []Standing
		standingsRaw     []byte
		standingsPayload rawdata.Payload
		rounds           []Round
		roundsPayload    *rawdata.Payload
	)

	group := pool.New().WithContext(ctx).WithCancelOnError()
	group.Go(func(ctx context.Context) error {
		path := fmt.Sprintf("/standings/seasons/%d", seasonID)
		query := map[string]string{
			"include": defaultIncludeStanding,
		}

		var envelope standingsEnvelope
		raw, err := c.doJSON(ctx, path, query, &envelope)
		if err != nil {
			return fmt.Errorf("fetch standings season_id=%d: %w", seasonID, err)
		}

		standingRows = parseStandingsPayload(raw, envelope.Data)
		standingsRaw = raw
		standingsPayload = archivePayload(path, query, raw)
		return nil
	})
	group.Go(func(ctx context.Context) error {
		path := fmt.Sprintf("/rounds/seasons/%d", seasonID)

		var envelope roundsEnvelope
		raw, err := c.doJSON(ctx, path, nil, &envelope)
		if err != nil {
			c.logger.WarnContext(ctx, "sportmonks rounds fetch failed, inferring round from matches played", "season_id", seasonID, "error", err)
			return nil
		}

		rounds = envelope.Data
		payload := archivePayload(path, nil, raw)
		roundsPayload = &payload
		return nil
	})
	if err := group.Wait(); err != nil {
		return SeasonTable{}, err
	}

	if len(standingRows) == 0 {
		return SeasonTable{}, fmt.Errorf("standings season_id=%d: provider returned no table rows", seasonID)
	}

	table := SeasonTable{
		Round:     resolveLatestFinishedRound(rounds, maxPlayed(standingRows)),
		Standings: standingRows,
		RawJSON:   string(standingsRaw),
		Payloads:  []rawdata.Payload{standingsPayload},
	}
	if roundsPayload != nil {
		table.Payloads = append(table.Payloads, *roundsPayload)
	}
	return table, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sportmonks circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.requestURL(path, query)
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			c.recordOutcome(reqErr)
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	return raw, nil
}

func (c *Client) requestURL(path string, query map[string]string) string {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("api_token", c.token)
	return c.baseURL + path + "?" + values.Encode()
}

// recordOutcome feeds the circuit breaker. Only transient failures count
// against it; a definitive provider rejection means the provider is up.
func (c *Client) recordOutcome(err error) {
	if err != nil && stderrors.Is(err, errProviderTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, status, err := c.roundTrip(ctx, fullURL)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errProviderTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else if status >= 200 && status < 300 {
			return raw, nil
		} else if isRetryableStatus(status) {
			lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, status, clipBody(raw))
		} else {
			return nil, fmt.Errorf("provider status=%d body=%s", status, clipBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "sportmonks request failed", "url", redactAPIURL(fullURL), "curl", c.curlPreview(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) roundTrip(ctx context.Context, fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, 0, ctx.Err()
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	if err := c.httpClient.DoTimeout(req, resp, timeout); err != nil {
		return nil, 0, err
	}

	// The response object goes back to the pool; detach the body first.
	raw := append([]byte(nil), resp.Body()...)
	return raw, resp.StatusCode(), nil
}

func (c *Client) curlPreview(fullURL string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-sS")
	appendPart(shellQuote(redactAPIURL(fullURL)))
	appendPart("-H")
	appendPart(shellQuote("Accept: application/json"))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	value = tokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
	return value
}

// resolveLatestFinishedRound picks the highest round the provider marks
// finished. Rounds still in progress are excluded so a snapshot never claims
// a round whose matches are not all played.
func resolveLatestFinishedRound(rounds []Round, fallback int) int {
	latest := 0
	for _, item := range rounds {
		if !item.Finished {
			continue
		}
		number := parseRoundNumber(item.Name)
		if number > latest {
			latest = number
		}
	}
	if latest > 0 {
		return latest
	}
	return fallback
}

func parseRoundNumber(raw string) int {
	match := roundNumberRegex.FindString(raw)
	if match == "" {
		return 0
	}
	value, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return value
}

func maxPlayed(rows []Standing) int {
	played := 0
	for _, row := range rows {
		played = max(played, row.Played)
	}
	return played
}

// archivePayload wraps one raw provider body for the raw data store. The
// entity key is the canonical resource without the token.
func archivePayload(path string, query map[string]string, raw []byte) rawdata.Payload {
	return rawdata.Payload{
		EntityType:  "api_response",
		EntityKey:   resourceKey(path, query),
		PayloadJSON: string(raw),
	}
}

func resourceKey(path string, query map[string]string) string {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	if encoded := values.Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}

func isRetryableStatus(code int) bool {
	return code == fasthttp.StatusTooManyRequests || code >= fasthttp.StatusInternalServerError
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if !query.Has("api_token") {
		return rawURL
	}
	query.Set("api_token", "REDACTED")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func clipBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > bodyPreviewLimit {
		text = text[:bodyPreviewLimit] + "..."
	}
	return text
}
