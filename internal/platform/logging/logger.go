package logging

import (
	"context"
	"os"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// Logger wraps zap behind a key/value call style. The context-taking
// variants stamp entries with the active trace and span ids so log lines
// can be joined to their traces.
type Logger struct {
	zl     *zap.Logger
	synced atomic.Bool
}

var active atomic.Pointer[Logger]

func init() {
	active.Store(NewNop())
}

// EncoderConfig is the JSON field layout shared by every sink the service
// logs to: zap's production schema with readable timestamps and levels.
func EncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return cfg
}

func NewJSON(level Level) *Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(EncoderConfig()),
		zapcore.Lock(os.Stdout),
		level,
	)
	return FromZap(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
}

func NewNop() *Logger {
	return &Logger{zl: zap.NewNop()}
}

// FromZap adopts an already-configured zap logger. Entries pass through
// two wrapper frames on the way in, so caller reporting skips them.
func FromZap(zl *zap.Logger) *Logger {
	if zl == nil {
		return NewNop()
	}
	return &Logger{zl: zl.WithOptions(zap.AddCallerSkip(2))}
}

// Default returns the process-wide logger. Before SetDefault runs it is
// a no-op logger, so init-time code can log unconditionally.
func Default() *Logger {
	if l := active.Load(); l != nil {
		return l
	}
	return NewNop()
}

func SetDefault(l *Logger) {
	if l == nil {
		l = NewNop()
	}
	active.Store(l)
}

func (l *Logger) Zap() *zap.Logger {
	if l == nil || l.zl == nil {
		return zap.NewNop()
	}
	return l.zl
}

// Sync flushes buffered entries once; repeated calls are no-ops.
func (l *Logger) Sync() error {
	if l == nil || l.zl == nil {
		return nil
	}
	if !l.synced.CompareAndSwap(false, true) {
		return nil
	}
	return l.zl.Sync()
}

func (l *Logger) With(kv ...any) *Logger {
	if l == nil || l.zl == nil {
		return NewNop()
	}
	return &Logger{zl: l.zl.With(fields(kv)...)}
}

func (l *Logger) Debug(msg string, kv ...any) { l.emit(nil, LevelDebug, msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.emit(nil, LevelInfo, msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.emit(nil, LevelWarn, msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.emit(nil, LevelError, msg, kv) }

func (l *Logger) DebugContext(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, LevelDebug, msg, kv)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, LevelInfo, msg, kv)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, LevelWarn, msg, kv)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, LevelError, msg, kv)
}

func (l *Logger) emit(ctx context.Context, level Level, msg string, kv []any) {
	logger := l
	if logger == nil || logger.zl == nil {
		logger = Default()
	}
	entry := logger.zl.Check(level, msg)
	if entry == nil {
		return
	}
	entry.Write(append(fields(kv), spanFields(ctx)...)...)
}

// fields pairs up a key/value argument list. Errors become named error
// fields; a key without a value is logged as nil rather than dropped.
func fields(kv []any) []zap.Field {
	if len(kv) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, (len(kv)+1)/2)
	for len(kv) > 0 {
		key, ok := kv[0].(string)
		if !ok || key == "" {
			key = "field"
		}
		if len(kv) == 1 {
			return append(out, zap.Any(key, nil))
		}
		switch value := kv[1].(type) {
		case error:
			out = append(out, zap.NamedError(key, value))
		default:
			out = append(out, zap.Any(key, value))
		}
		kv = kv[2:]
	}
	return out
}

func spanFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.Stringer("trace_id", sc.TraceID()),
		zap.Stringer("span_id", sc.SpanID()),
	}
}
