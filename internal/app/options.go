package service

import (
	"time"

	"github.com/okian/pokecalc/internal/adapters/repository"
	"github.com/okian/pokecalc/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGeneration sets the ruleset version for requests that do not name one.
func WithGeneration(gen int) Option {
	return func(s *Service) {
		if gen > 0 {
			s.generation = gen
		}
	}
}

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued batch jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithCacheSize sets the number of memoised results; <= 0 disables eviction.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		s.cacheSize = size
	}
}

// WithHistorySize sets the in-memory history capacity.
func WithHistorySize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.historySize = size
		}
	}
}

// WithHistoryPath persists history in a SQLite file instead of memory.
func WithHistoryPath(path string) Option {
	return func(s *Service) {
		s.historyPath = path
	}
}

// WithHistoryStore uses store for history, ignoring size and path.
func WithHistoryStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.history = store
		}
	}
}

// WithMaxBatchSize caps the number of requests in one batch.
func WithMaxBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// WithCalcTimeout bounds each calculation and each batch.
func WithCalcTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.calcTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
