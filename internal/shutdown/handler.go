package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler manages graceful shutdown: it cancels a context on SIGINT/SIGTERM
// and runs registered cleanup functions exactly once, whether shutdown is
// triggered by a signal or by a normal exit.
type Handler struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	once       sync.Once
	cleanupFns []func()
}

// New creates a new shutdown handler
func New() *Handler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Handler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the context cancelled on shutdown
func (h *Handler) Context() context.Context {
	return h.ctx
}

// AddCleanup registers a cleanup function to be called on shutdown
func (h *Handler) AddCleanup(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleanupFns = append(h.cleanupFns, fn)
}

// Listen starts listening for shutdown signals
func (h *Handler) Listen() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		h.Shutdown()
	}()
}

// Shutdown cancels the context and runs cleanup functions. Safe to call
// more than once; cleanups run only the first time.
func (h *Handler) Shutdown() {
	h.cancel()

	h.once.Do(func() {
		h.mu.Lock()
		fns := h.cleanupFns
		h.mu.Unlock()

		// Most recently registered first, like deferred calls.
		for i := len(fns) - 1; i >= 0; i-- {
			fns[i]()
		}
	})
}
