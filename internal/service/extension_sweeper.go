package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/makeup-api/internal/dto"
)

type extensionSweeper interface {
	SweepExpired(ctx context.Context) (*dto.SweepResponse, error)
}

// ExtensionSweeper runs the expiry sweep on a fixed interval.
type ExtensionSweeper struct {
	svc      extensionSweeper
	interval time.Duration
	logger   *zap.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewExtensionSweeper constructs a sweeper. A non-positive interval disables it.
func NewExtensionSweeper(svc extensionSweeper, interval time.Duration, logger *zap.Logger) *ExtensionSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtensionSweeper{svc: svc, interval: interval, logger: logger, stopCh: make(chan struct{})}
}

// Start launches the sweep loop; the first sweep runs immediately.
func (s *ExtensionSweeper) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("extension sweeper disabled")
		return
	}
	s.logger.Info("starting extension sweeper", zap.Duration("interval", s.interval))
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop halts the loop and waits for an in-flight sweep.
func (s *ExtensionSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

func (s *ExtensionSweeper) run(ctx context.Context) {
	defer s.wg.Done()
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopCh:
			s.logger.Info("extension sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("extension sweeper cancelled")
			return
		}
	}
}

func (s *ExtensionSweeper) sweep(ctx context.Context) {
	if _, err := s.svc.SweepExpired(ctx); err != nil {
		s.logger.Error("extension sweep failed", zap.Error(err))
	}
}
