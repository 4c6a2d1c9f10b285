// Package runtime provides graceful shutdown handling for the API server.
package runtime

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sabrisig-create/sadar/internal/logging"
)

// ShutdownFunc is a cleanup function called during shutdown.
type ShutdownFunc func(ctx context.Context) error

// DefaultShutdownTimeout bounds the whole cleanup phase.
const DefaultShutdownTimeout = 15 * time.Second

// ShutdownManager coordinates cleanup of the server's resources. Handlers
// run in reverse registration order, so the HTTP listener registered last
// drains before the store closes.
type ShutdownManager struct {
	mu       sync.Mutex
	handlers []namedHandler
	timeout  time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
	log      *logging.Logger
}

type namedHandler struct {
	name string
	fn   ShutdownFunc
}

// NewShutdownManager creates a manager with the given cleanup timeout.
func NewShutdownManager(timeout time.Duration, log *logging.Logger) *ShutdownManager {
	if log == nil {
		log = logging.New("runtime")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ShutdownManager{
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		log:     log,
	}
}

// Register adds a cleanup handler. Handlers run LIFO.
func (m *ShutdownManager) Register(name string, fn ShutdownFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, namedHandler{name: name, fn: fn})
}

// Context is cancelled when shutdown begins.
func (m *ShutdownManager) Context() context.Context { return m.ctx }

// Done is closed when all handlers have finished (or timed out).
func (m *ShutdownManager) Done() <-chan struct{} { return m.done }

// ListenForSignals triggers shutdown on SIGTERM or SIGINT. Non-blocking.
func (m *ShutdownManager) ListenForSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-sigChan
		m.log.Info("signal_received", map[string]any{"signal": sig.String()})
		m.Shutdown()
	}()
}

// Shutdown runs the cleanup handlers once. Safe to call from multiple
// goroutines.
func (m *ShutdownManager) Shutdown() {
	m.once.Do(m.performShutdown)
}

// Wait blocks until shutdown is complete.
func (m *ShutdownManager) Wait() { <-m.done }

func (m *ShutdownManager) performShutdown() {
	defer close(m.done)

	m.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	m.mu.Lock()
	handlers := make([]namedHandler, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	for i := len(handlers) - 1; i >= 0; i-- {
		h := handlers[i]
		start := time.Now()
		if err := h.fn(ctx); err != nil {
			m.log.Error("shutdown_handler_failed", map[string]any{"handler": h.name}, err)
		} else {
			m.log.TimedEvent("shutdown_handler_done", start, map[string]any{"handler": h.name})
		}
		if ctx.Err() != nil {
			m.log.Warn("shutdown_timeout", map[string]any{"remaining": i}, ctx.Err())
			return
		}
	}
}
