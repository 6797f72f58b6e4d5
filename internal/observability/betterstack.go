package observability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

const (
	shipQueueDepth     = 1024
	shipBatchLimit     = 64
	shipFlushEvery     = 2 * time.Second
	defaultShipTimeout = 3 * time.Second
	defaultDrainWait   = 5 * time.Second
)

// InitBetterStackLogger tees the service log to Better Stack. Stdout keeps
// the configured level; the remote sink gets its own minimum level so only
// the interesting entries leave the box. The returned flush func drains
// the ship queue and must run during shutdown.
func InitBetterStackLogger(cfg config.Config, baseLogger *logging.Logger) (*logging.Logger, func(context.Context) error, error) {
	if baseLogger == nil {
		baseLogger = logging.NewJSON(cfg.LogLevel)
	}

	if !cfg.BetterStackEnabled {
		baseLogger.Info("log shipping disabled", "reason", "BETTERSTACK_ENABLED=false")
		return baseLogger, func(context.Context) error { return nil }, nil
	}

	endpoint := normalizeEndpoint(cfg.BetterStackEndpoint)
	if endpoint == "" {
		return nil, nil, fmt.Errorf("betterstack endpoint cannot be empty")
	}

	shipper := newLogShipper(endpoint, strings.TrimSpace(cfg.BetterStackToken), cfg.BetterStackTimeout)

	encoder := zapcore.NewJSONEncoder(logging.EncoderConfig())
	tee := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), cfg.LogLevel),
		zapcore.NewCore(encoder, zapcore.AddSync(shipper), cfg.BetterStackMinLevel),
	)

	logger := logging.FromZap(zap.New(tee, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
	logger.Info("log shipping enabled",
		"endpoint", endpoint,
		"min_level", cfg.BetterStackMinLevel.String(),
		"service_name", cfg.ServiceName,
		"environment", cfg.AppEnv,
	)

	flush := func(ctx context.Context) error {
		if ctx == nil {
			ctx = context.Background()
		}
		if _, ok := ctx.Deadline(); !ok {
			bounded, cancel := context.WithTimeout(ctx, defaultDrainWait)
			defer cancel()
			ctx = bounded
		}
		if err := shipper.Close(ctx); err != nil {
			return fmt.Errorf("drain betterstack queue: %w", err)
		}
		if err := logger.Sync(); err != nil && !stdoutSyncErr(err) {
			return err
		}
		return nil
	}

	return logger, flush, nil
}

func normalizeEndpoint(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	return "https://" + value
}

// logShipper batches encoded log lines and posts them to an ingest
// endpoint from a single background worker. Write never blocks the
// logging hot path: when the queue is full the entry is dropped and
// counted.
type logShipper struct {
	endpoint string
	token    string
	client   *http.Client

	mu      sync.RWMutex
	closing bool
	pending chan []byte
	done    chan struct{}
	dropped atomic.Uint64
}

func newLogShipper(endpoint, token string, timeout time.Duration) *logShipper {
	if timeout <= 0 {
		timeout = defaultShipTimeout
	}

	s := &logShipper{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: timeout},
		pending:  make(chan []byte, shipQueueDepth),
		done:     make(chan struct{}),
	}
	go s.run()

	return s
}

func (s *logShipper) Write(p []byte) (int, error) {
	line := bytes.TrimSpace(p)
	if len(line) == 0 {
		return len(p), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closing {
		return len(p), nil
	}

	// zap reuses its encode buffer after Write returns.
	owned := append([]byte(nil), line...)

	select {
	case s.pending <- owned:
	default:
		if n := s.dropped.Add(1); n == 1 || n%200 == 0 {
			fmt.Fprintf(os.Stderr, "betterstack queue full, dropped=%d\n", n)
		}
	}

	return len(p), nil
}

// run groups queued lines into batches so a busy service ships a few
// requests per flush interval instead of one per entry.
func (s *logShipper) run() {
	defer close(s.done)

	ticker := time.NewTicker(shipFlushEvery)
	defer ticker.Stop()

	batch := make([][]byte, 0, shipBatchLimit)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.post(batch)
		batch = batch[:0]
	}

	for {
		select {
		case line, ok := <-s.pending:
			if !ok {
				flush()
				return
			}
			batch = append(batch, line)
			if len(batch) >= shipBatchLimit {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// post ships one batch as a JSON array, the ingest API's bulk format.
func (s *logShipper) post(batch [][]byte) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_ = buf.WriteByte('[')
	for i, line := range batch {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		_, _ = buf.Write(line)
	}
	_ = buf.WriteByte(']')

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, s.endpoint, bytes.NewReader(buf.B))
	if err != nil {
		fmt.Fprintf(os.Stderr, "betterstack request build failed: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "betterstack ship failed: %v\n", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		fmt.Fprintf(os.Stderr, "betterstack ship got status=%d batch=%d\n", resp.StatusCode, len(batch))
	}
}

// Close stops accepting entries and waits for queued batches to ship or
// the context to expire.
func (s *logShipper) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	if !s.closing {
		s.closing = true
		close(s.pending)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *logShipper) Sync() error {
	return nil
}

// Stdout cannot always be synced on Linux; those failures are noise, not
// lost logs.
func stdoutSyncErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad file descriptor") || strings.Contains(msg, "invalid argument")
}
