package shutdown

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"raster-filters/internal/logger"
)

// ComponentTimeout bounds how long a single Close may take during shutdown.
const ComponentTimeout = 10 * time.Second

// Manager cancels a root context on SIGINT or SIGTERM and closes registered
// components in reverse registration order.
type Manager struct {
	components []io.Closer
	logger     logger.Logger
	mu         sync.Mutex
	done       chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
	stopSignal func()
}

func NewManager(parent context.Context) *Manager {
	ctx, cancel := context.WithCancel(parent)

	return &Manager{
		logger: logger.Nop(),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (m *Manager) SetLogger(log logger.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = log
}

func (m *Manager) Register(component io.Closer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.components = append(m.components, component)
}

// Listen cancels the manager's context on the first interrupt. Running
// filters finish; batch jobs not yet started are skipped.
func (m *Manager) Listen() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	m.mu.Lock()
	m.stopSignal = func() { signal.Stop(sigChan) }
	m.mu.Unlock()

	go func() {
		select {
		case sig := <-sigChan:
			m.mu.Lock()
			log := m.logger
			m.mu.Unlock()
			log.Info("ShutdownManager", "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			m.cancel()
		case <-m.done:
		}
	}()
}

// Shutdown cancels the context and closes every component once. It returns
// the first Close error.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		return nil
	default:
		close(m.done)
	}

	m.cancel()
	if m.stopSignal != nil {
		m.stopSignal()
	}

	var firstErr error
	for i := len(m.components) - 1; i >= 0; i-- {
		component := m.components[i]

		errCh := make(chan error, 1)
		go func() {
			errCh <- component.Close()
		}()

		select {
		case err := <-errCh:
			if err != nil && firstErr == nil {
				firstErr = err
			}
		case <-time.After(ComponentTimeout):
			m.logger.Warning("ShutdownManager", "component shutdown timeout", map[string]interface{}{
				"component_index": i,
			})
		}
	}

	return firstErr
}

func (m *Manager) Context() context.Context {
	return m.ctx
}

func (m *Manager) Done() <-chan struct{} {
	return m.done
}
