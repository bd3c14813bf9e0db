// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/okian/pokecalc/internal/adapters/mq/queue"
	workerpool "github.com/okian/pokecalc/internal/adapters/mq/worker"
	"github.com/okian/pokecalc/internal/adapters/repository"
	"github.com/okian/pokecalc/internal/adapters/repository/sqlite"
	"github.com/okian/pokecalc/internal/domain/cache"
	"github.com/okian/pokecalc/internal/domain/calc"
	"github.com/okian/pokecalc/internal/domain/model"
	"github.com/okian/pokecalc/internal/domain/policy"
	"github.com/okian/pokecalc/internal/invoker"
	"github.com/okian/pokecalc/pkg/logger"
	"github.com/okian/pokecalc/pkg/metrics"
)

// Default service configuration.
const (
	defaultQueueSize    = 10_000
	defaultCacheSize    = 50_000
	defaultHistorySize  = 10_000
	defaultMaxBatchSize = 100
	defaultCalcTimeout  = 5 * time.Second
)

// Service runs calculations for the HTTP API: it memoises results, fans
// batches out to the worker pool and keeps a history of every call.
type Service struct {
	mu sync.RWMutex

	// Core components
	invoker    *invoker.Invoker
	cache      cache.Cache
	history    repository.Store
	jobQueue   jobqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	generation   int
	workerCount  int
	queueSize    int
	cacheSize    int
	historySize  int
	historyPath  string
	maxBatchSize int
	calcTimeout  time.Duration

	// State
	started      bool
	runCancel    context.CancelFunc
	calculations atomic.Int64
	cacheHits    atomic.Int64
	failures     atomic.Int64

	logger logger.Logger
}

// poolAdapter lets workers share the service cache.
type poolAdapter struct {
	svc *Service
}

func (a poolAdapter) Compute(ctx context.Context, req model.Request) (calc.Result, bool, error) {
	return a.svc.compute(ctx, req)
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		generation:   invoker.DefaultGeneration,
		workerCount:  runtime.NumCPU() * 2,
		queueSize:    defaultQueueSize,
		cacheSize:    defaultCacheSize,
		historySize:  defaultHistorySize,
		maxBatchSize: defaultMaxBatchSize,
		calcTimeout:  defaultCalcTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting calculation service...")

	inv, err := invoker.New(invoker.WithGeneration(s.generation), invoker.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("create invoker: %w", err)
	}
	s.invoker = inv

	if s.history == nil {
		if s.historyPath != "" {
			store, err := sqlite.Open(ctx, s.historyPath)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			s.history = store
			s.logger.Info(ctx, "using sqlite history", logger.String("path", s.historyPath))
		} else {
			s.history = repository.NewMemoryStore(repository.WithCapacity(s.historySize))
			s.logger.Info(ctx, "using in-memory history", logger.Int("capacity", s.historySize))
		}
	}

	s.cache = cache.NewInMemoryCache(cache.WithMaxSize(s.cacheSize))
	s.jobQueue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, poolAdapter{svc: s})

	// workers live until Stop, not until the caller's context ends
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.runCancel = cancel
	s.workerPool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "calculation service started",
		logger.Int("generation", s.generation),
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("cacheSize", s.cacheSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping calculation service...")

	if err := s.workerPool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	s.runCancel()
	if err := s.history.Close(); err != nil {
		s.logger.Warn(ctx, "closing history", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "calculation service stopped")
}

func (s *Service) running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Calculate evaluates one request, using the cache when possible, and
// records it in the history.
func (s *Service) Calculate(ctx context.Context, req model.Request) (model.Record, error) {
	if !s.running() {
		return model.Record{}, ErrNotStarted
	}
	ctx, cancel := context.WithTimeout(ctx, s.calcTimeout)
	defer cancel()

	res, cached, err := s.compute(ctx, req)
	if err != nil {
		return model.Record{}, err
	}
	return s.record(ctx, s.normalise(req), res, cached), nil
}

// CalculateBatch evaluates reqs on the worker pool. Items come back in
// input order; a failing item carries its error and does not fail the batch.
func (s *Service) CalculateBatch(ctx context.Context, reqs []model.Request) ([]model.BatchItem, error) {
	if !s.running() {
		return nil, ErrNotStarted
	}
	switch {
	case len(reqs) == 0:
		return nil, ErrEmptyBatch
	case len(reqs) > s.maxBatchSize:
		return nil, fmt.Errorf("%w: %d requests, limit %d", ErrBatchTooLarge, len(reqs), s.maxBatchSize)
	}
	metrics.RecordBatchSize(len(reqs))

	if free := s.jobQueue.Cap() - s.jobQueue.Len(ctx); free < len(reqs) {
		return nil, fmt.Errorf("%w: %d free slots for %d requests", ErrBackpressure, free, len(reqs))
	}

	ctx, cancel := context.WithTimeout(ctx, s.calcTimeout)
	defer cancel()

	reply := make(chan jobqueue.Outcome, len(reqs))
	for i, req := range reqs {
		err := s.jobQueue.Enqueue(ctx, jobqueue.Job{Ctx: ctx, Index: i, Request: req, Reply: reply})
		if errors.Is(err, jobqueue.ErrFull) {
			return nil, fmt.Errorf("%w: at item %d", ErrBackpressure, i)
		}
		if err != nil {
			return nil, fmt.Errorf("enqueue item %d: %w", i, err)
		}
	}

	outcomes := make([]*jobqueue.Outcome, len(reqs))
collect:
	for received := 0; received < len(reqs); received++ {
		select {
		case o := <-reply:
			outcomes[o.Index] = &o
		case <-ctx.Done():
			break collect
		}
	}

	// records outlive the batch deadline
	saveCtx := context.WithoutCancel(ctx)

	items := make([]model.BatchItem, len(reqs))
	for i, o := range outcomes {
		items[i].Index = i
		switch {
		case o == nil:
			items[i].Error = ctx.Err().Error()
		case o.Err != nil:
			items[i].Error = o.Err.Error()
			items[i].Invalid = calc.IsInputError(o.Err)
		default:
			rec := s.record(saveCtx, s.normalise(reqs[i]), o.Result, o.Cached)
			items[i].Record = &rec
		}
	}
	return items, nil
}

// Example runs the fixed example matchup with the configured generation.
func (s *Service) Example(ctx context.Context) (model.Record, error) {
	if !s.running() {
		return model.Record{}, ErrNotStarted
	}
	start := time.Now()
	res, err := s.invoker.RunExample(ctx)
	s.observe(s.generation, start, err)
	if err != nil {
		return model.Record{}, err
	}
	return s.record(ctx, invoker.ExampleRequest(s.generation), res, false), nil
}

// Choose picks the next action for st. A zero generation means the
// configured one. Decisions are not stored in the history.
func (s *Service) Choose(ctx context.Context, st policy.State) (policy.Decision, error) {
	if !s.running() {
		return policy.Decision{}, ErrNotStarted
	}
	if err := ctx.Err(); err != nil {
		return policy.Decision{}, err
	}
	if st.Generation == 0 {
		st.Generation = s.generation
	}
	g, err := s.invoker.Dex().Gen(st.Generation)
	if err != nil {
		return policy.Decision{}, err
	}
	d, err := policy.Choose(g, st)
	if err != nil {
		return policy.Decision{}, err
	}
	metrics.RecordChoice(string(d.Kind), string(d.Reason))
	s.logger.Debug(ctx, "action chosen",
		logger.String("kind", string(d.Kind)),
		logger.String("name", d.Name),
		logger.String("reason", string(d.Reason)))
	return d, nil
}

// Get returns a stored calculation.
func (s *Service) Get(ctx context.Context, id string) (model.Record, error) {
	if !s.running() {
		return model.Record{}, ErrNotStarted
	}
	return s.history.Get(ctx, id)
}

// Recent returns up to n stored calculations, newest first.
func (s *Service) Recent(ctx context.Context, n int) ([]model.Record, error) {
	if !s.running() {
		return nil, ErrNotStarted
	}
	return s.history.Recent(ctx, n)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"generation":   s.generation,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"cacheSize":    s.cacheSize,
		"maxBatchSize": s.maxBatchSize,
		"calculations": s.calculations.Load(),
		"cacheHits":    s.cacheHits.Load(),
		"failures":     s.failures.Load(),
	}

	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		cacheEntries := s.cache.Size()
		historyRecords := s.history.Count(ctx)

		stats["workerCount"] = s.workerPool.Size()
		stats["queueLength"] = queueLen
		stats["cacheEntries"] = cacheEntries
		stats["historyRecords"] = historyRecords

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateCacheEntries(cacheEntries)
		metrics.UpdateHistoryRecords(historyRecords)
		metrics.UpdateWorkerCount(s.workerPool.Size())
	}

	return stats
}

// normalise fills in the default generation so equal requests share a fingerprint.
func (s *Service) normalise(req model.Request) model.Request {
	if req.Generation == 0 {
		req.Generation = s.generation
	}
	return req
}

// compute returns the memoised result for req or calculates it.
func (s *Service) compute(ctx context.Context, req model.Request) (calc.Result, bool, error) {
	req = s.normalise(req)
	key, err := Fingerprint(req)
	if err != nil {
		return calc.Result{}, false, err
	}

	if res, ok := s.cache.Get(ctx, key); ok {
		s.cacheHits.Add(1)
		metrics.RecordCacheHit()
		return res, true, nil
	}
	metrics.RecordCacheMiss()

	start := time.Now()
	res, err := s.invoker.Compute(ctx, req)
	s.observe(req.Generation, start, err)
	if err != nil {
		return calc.Result{}, false, err
	}

	s.cache.Put(ctx, key, res)
	metrics.UpdateCacheEntries(s.cache.Size())
	return res, false, nil
}

// observe records the outcome and latency of one calculator call.
func (s *Service) observe(gen int, start time.Time, err error) {
	metrics.RecordCalculationLatency(float64(time.Since(start).Microseconds()) / 1000)
	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
		s.calculations.Add(1)
	case calc.IsInputError(err):
		outcome = metrics.OutcomeInvalid
	default:
		outcome = metrics.OutcomeError
		s.failures.Add(1)
		metrics.RecordErrorByComponent("service", "calculation_error")
	}
	if mErr := metrics.RecordCalculation(gen, outcome); mErr != nil {
		s.logger.Warn(context.Background(), "recording calculation metric", logger.Error(mErr))
	}
}

// record builds a history record and stores it. Storage failures are
// logged; the caller still gets the record.
func (s *Service) record(ctx context.Context, req model.Request, res calc.Result, cached bool) model.Record {
	rec := model.Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Request:   req,
		Result:    res,
		Cached:    cached,
	}
	if err := s.history.Save(ctx, rec); err != nil {
		metrics.RecordHistoryWriteError()
		metrics.RecordErrorByComponent("history", "write_error")
		s.logger.Error(ctx, "saving calculation", logger.String("id", rec.ID), logger.Error(err))
	}
	return rec
}

// Fingerprint is the cache key for req: a SHA-256 over its JSON form.
// Stat tables marshal with sorted keys, so equal requests hash equally.
func Fingerprint(req model.Request) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("fingerprint request: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
