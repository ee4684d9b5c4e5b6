// Package log is a small structured logger with leveled, asynchronous
// line-delimited JSON output and request-id propagation via context.
package log

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// bufferSize is the capacity of the async delivery queue. When the queue
// is full new entries are dropped and counted rather than blocking the
// caller.
const bufferSize = 1024

// Logger delivers structured entries asynchronously to its transporters.
type Logger struct {
	level        atomic.Int32
	baseFields   map[string]any
	transporters []Transporter

	entries chan Entry
	done    chan struct{}
	wg      sync.WaitGroup
	closed  atomic.Bool
	dropped atomic.Int64
}

// New creates a logger with the given minimum level and transporters.
func New(level Level, transporters ...Transporter) *Logger {
	l := &Logger{
		baseFields:   make(map[string]any),
		transporters: transporters,
		entries:      make(chan Entry, bufferSize),
		done:         make(chan struct{}),
	}
	l.level.Store(int32(level))

	l.wg.Add(1)
	go l.worker()

	return l
}

// SetLevel changes the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// With creates a child logger with additional base fields. The child
// shares the parent's delivery queue.
func (l *Logger) With(keysAndValues ...any) *Logger {
	child := &Logger{
		baseFields:   make(map[string]any, len(l.baseFields)),
		transporters: l.transporters,
		entries:      l.entries,
		done:         l.done,
	}
	child.level.Store(l.level.Load())
	for k, v := range l.baseFields {
		child.baseFields[k] = v
	}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			child.baseFields[key] = keysAndValues[i+1]
		}
	}
	return child
}

// DroppedCount returns the number of entries dropped due to a full queue.
func (l *Logger) DroppedCount() int64 {
	return l.dropped.Load()
}

// Close stops the worker and flushes remaining entries.
// Safe to call multiple times, but only on the root logger.
func (l *Logger) Close() {
	if !l.closed.CompareAndSwap(false, true) {
		return
	}

	close(l.done)
	l.wg.Wait()

	for {
		select {
		case entry := <-l.entries:
			l.deliver(entry)
		default:
			for _, t := range l.transporters {
				_ = t.Close()
			}
			return
		}
	}
}

// log assembles an entry and queues it for delivery.
func (l *Logger) log(level Level, ctx context.Context, msg string, keysAndValues ...any) {
	if !Level(l.level.Load()).Enables(level) {
		return
	}

	entry := Entry{
		Timestamp: time.Now(),
		Level:     level,
		Caller:    caller(3),
		Message:   msg,
		Fields:    make(map[string]any, len(l.baseFields)+len(keysAndValues)/2),
	}

	for k, v := range l.baseFields {
		entry.Fields[k] = v
	}
	if ctx != nil {
		entry.RequestID = RequestIDFromContext(ctx)
		for k, v := range FieldsFromContext(ctx) {
			entry.Fields[k] = v
		}
	}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			entry.Fields[key] = keysAndValues[i+1]
		}
	}

	if l.closed.Load() {
		return
	}
	select {
	case l.entries <- entry:
	default:
		l.dropped.Add(1)
	}
}

// worker drains the queue until Close.
func (l *Logger) worker() {
	defer l.wg.Done()
	for {
		select {
		case entry := <-l.entries:
			l.deliver(entry)
		case <-l.done:
			return
		}
	}
}

// deliver writes an entry to every transporter, falling back to stderr
// on write failure.
func (l *Logger) deliver(entry Entry) {
	for _, t := range l.transporters {
		if err := t.Write(entry); err != nil {
			fmt.Fprintf(os.Stderr, "log transporter %q failed: %v\n", t.Name(), err)
		}
	}
}

// caller returns the file:line of the log call site.
func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	short := file
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			short = file[i+1:]
			break
		}
	}
	return fmt.Sprintf("%s:%d", short, line)
}

// Debug logs at Debug level.
func (l *Logger) Debug(msg string, keysAndValues ...any) { l.log(Debug, nil, msg, keysAndValues...) }

// Info logs at Info level.
func (l *Logger) Info(msg string, keysAndValues ...any) { l.log(Info, nil, msg, keysAndValues...) }

// Warn logs at Warn level.
func (l *Logger) Warn(msg string, keysAndValues ...any) { l.log(Warn, nil, msg, keysAndValues...) }

// Error logs at Error level.
func (l *Logger) Error(msg string, keysAndValues ...any) { l.log(Error, nil, msg, keysAndValues...) }

// Fatal logs at Fatal level. It does not exit; that is the caller's call.
func (l *Logger) Fatal(msg string, keysAndValues ...any) { l.log(Fatal, nil, msg, keysAndValues...) }

// DebugCtx logs at Debug level with context.
func (l *Logger) DebugCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(Debug, ctx, msg, keysAndValues...)
}

// InfoCtx logs at Info level with context.
func (l *Logger) InfoCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(Info, ctx, msg, keysAndValues...)
}

// WarnCtx logs at Warn level with context.
func (l *Logger) WarnCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(Warn, ctx, msg, keysAndValues...)
}

// ErrorCtx logs at Error level with context.
func (l *Logger) ErrorCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(Error, ctx, msg, keysAndValues...)
}

// --- Global logger ---

var (
	globalLogger *Logger
	globalMu     sync.RWMutex

	silentOnce   sync.Once
	silentLogger *Logger
)

// SetDefault sets the global default logger.
func SetDefault(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// Default returns the global logger, or a silent one if none is set.
func Default() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()

	if l == nil {
		silentOnce.Do(func() {
			silentLogger = New(Fatal + 1)
		})
		return silentLogger
	}
	return l
}

// GlobalDebug logs at Debug level using the global logger.
func GlobalDebug(msg string, keysAndValues ...any) { Default().Debug(msg, keysAndValues...) }

// GlobalInfo logs at Info level using the global logger.
func GlobalInfo(msg string, keysAndValues ...any) { Default().Info(msg, keysAndValues...) }

// GlobalWarn logs at Warn level using the global logger.
func GlobalWarn(msg string, keysAndValues ...any) { Default().Warn(msg, keysAndValues...) }

// GlobalError logs at Error level using the global logger.
func GlobalError(msg string, keysAndValues ...any) { Default().Error(msg, keysAndValues...) }

// GlobalDebugCtx logs at Debug level with context using the global logger.
func GlobalDebugCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().DebugCtx(ctx, msg, keysAndValues...)
}

// GlobalInfoCtx logs at Info level with context using the global logger.
func GlobalInfoCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().InfoCtx(ctx, msg, keysAndValues...)
}

// GlobalWarnCtx logs at Warn level with context using the global logger.
func GlobalWarnCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().WarnCtx(ctx, msg, keysAndValues...)
}

// GlobalErrorCtx logs at Error level with context using the global logger.
func GlobalErrorCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().ErrorCtx(ctx, msg, keysAndValues...)
}
