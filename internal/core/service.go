package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"tsload/internal/logging"
)

// ErrLoadNotFound is returned when no active or recently finished load has
// the requested ID.
var ErrLoadNotFound = errors.New("load not found")

// resultRetention is how long a finished load stays queryable.
const resultRetention = 5 * time.Minute

// ServiceConfig carries the load-processing settings the service needs.
type ServiceConfig struct {
	MaxFileSize   int64
	MaxConcurrent int
	MaxWaitTime   time.Duration
	Timeout       time.Duration
}

// Service orchestrates CSV loads: concurrency limiting, the ingestion
// pipeline, progress broadcasting, and persistence.
type Service struct {
	store   *Store
	limiter *LoadLimiter
	cfg     ServiceConfig

	mu    sync.RWMutex
	loads map[uuid.UUID]*activeLoad
}

// activeLoad tracks one in-flight (or recently finished) load.
type activeLoad struct {
	id       uuid.UUID
	fileName string
	cancel   context.CancelFunc
	done     chan struct{}

	mu        sync.Mutex
	progress  LoadProgress
	result    *LoadResult
	listeners []chan LoadProgress
}

// NewService creates a load service. store may be nil, in which case parsed
// values are reported but not persisted.
func NewService(store *Store, cfg ServiceConfig) *Service {
	return &Service{
		store:   store,
		limiter: NewLoadLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		cfg:     cfg,
		loads:   make(map[uuid.UUID]*activeLoad),
	}
}

// StartLoad begins processing a CSV stream asynchronously and returns the
// load ID. It fails fast when the file exceeds the size limit or no load
// slot frees up within the configured wait time.
func (s *Service) StartLoad(ctx context.Context, fileName string, r io.Reader, size int64) (uuid.UUID, error) {
	if s.cfg.MaxFileSize > 0 && size > s.cfg.MaxFileSize {
		return uuid.Nil, fmt.Errorf("file size %d exceeds limit %d", size, s.cfg.MaxFileSize)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return uuid.Nil, err
	}

	timeout := s.cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	loadCtx, cancel := context.WithTimeout(context.Background(), timeout)

	load := &activeLoad{
		id:       uuid.New(),
		fileName: fileName,
		cancel:   cancel,
		done:     make(chan struct{}),
		progress: LoadProgress{Phase: PhaseReading},
	}

	s.mu.Lock()
	s.loads[load.id] = load
	s.mu.Unlock()

	go s.processLoad(loadCtx, load, r)

	return load.id, nil
}

// processLoad runs the full ingestion pipeline for one load.
func (s *Service) processLoad(ctx context.Context, load *activeLoad, r io.Reader) {
	start := time.Now()
	logger := logging.WithFields(ctx, "load_id", load.id, "file", load.fileName)

	defer func() {
		load.cancel()
		load.closeListeners()
		close(load.done)
		s.limiter.Release()
		s.scheduleCleanup(load.id, resultRetention)
	}()

	fail := func(err error) {
		phase := PhaseFailed
		if errors.Is(err, context.Canceled) {
			phase = PhaseCancelled
		}
		logger.Error("load failed", "phase", phase, "error", err)
		load.setProgress(LoadProgress{Phase: phase, Error: err.Error()})
		load.setResult(&LoadResult{
			LoadID:   load.id,
			FileName: load.fileName,
			Error:    err.Error(),
			Duration: time.Since(start),
		})
	}

	load.setProgress(LoadProgress{Phase: PhaseReading})
	header, rows, err := readRecords(WrapForStreaming(r))
	if err != nil {
		fail(err)
		return
	}

	load.setProgress(LoadProgress{Phase: PhaseDetecting, Rows: len(rows)})
	infos := detectColumns(header, rows)

	load.setProgress(LoadProgress{Phase: PhaseParsing, Rows: len(rows)})
	columns, reports, err := parseColumns(ctx, header, rows, infos, func(done int) {
		load.setProgress(LoadProgress{Phase: PhaseParsing, RowsDone: done, Rows: len(rows)})
	})
	if err != nil {
		fail(err)
		return
	}

	result := &LoadResult{
		LoadID:   load.id,
		FileName: load.fileName,
		Rows:     len(rows),
		Columns:  reports,
	}

	if s.store != nil {
		load.setProgress(LoadProgress{Phase: PhaseStoring, RowsDone: len(rows), Rows: len(rows)})
		if err := s.store.SaveLoad(ctx, result, columns); err != nil {
			fail(fmt.Errorf("persist load: %w", err))
			return
		}
	}

	result.Duration = time.Since(start)
	load.setResult(result)
	load.setProgress(LoadProgress{Phase: PhaseComplete, RowsDone: len(rows), Rows: len(rows)})

	logger.Info("load complete",
		"rows", result.Rows,
		"columns", len(result.Columns),
		"duration_ms", result.Duration.Milliseconds(),
	)
}

// SubscribeProgress registers a progress listener for a load. The returned
// cancel function must be called when the subscriber is done. The channel is
// closed when the load finishes.
func (s *Service) SubscribeProgress(id uuid.UUID) (<-chan LoadProgress, func(), error) {
	load, ok := s.get(id)
	if !ok {
		return nil, nil, ErrLoadNotFound
	}

	ch := make(chan LoadProgress, 16)

	// Deliver the current snapshot immediately so late subscribers are not
	// left waiting for the next transition. The send happens under the lock
	// (the channel is buffered) so it cannot race with closeListeners.
	load.mu.Lock()
	finished := load.result != nil
	ch <- load.progress
	if !finished {
		load.listeners = append(load.listeners, ch)
	}
	load.mu.Unlock()

	if finished {
		close(ch)
		return ch, func() {}, nil
	}

	unsubscribe := func() {
		load.mu.Lock()
		for i, l := range load.listeners {
			if l == ch {
				load.listeners = append(load.listeners[:i], load.listeners[i+1:]...)
				break
			}
		}
		load.mu.Unlock()
	}
	return ch, unsubscribe, nil
}

// Result returns the outcome of a finished load, or ok=false while it is
// still running. ErrLoadNotFound is returned for unknown IDs.
func (s *Service) Result(id uuid.UUID) (*LoadResult, bool, error) {
	load, found := s.get(id)
	if !found {
		return nil, false, ErrLoadNotFound
	}

	load.mu.Lock()
	defer load.mu.Unlock()
	if load.result == nil {
		return nil, false, nil
	}
	return load.result, true, nil
}

// Cancel aborts a running load.
func (s *Service) Cancel(id uuid.UUID) error {
	load, ok := s.get(id)
	if !ok {
		return ErrLoadNotFound
	}
	load.cancel()
	return nil
}

// ActiveLoads returns the number of loads currently holding a slot.
func (s *Service) ActiveLoads() int {
	return s.limiter.Active()
}

// WaitForLoads blocks until all active loads finish or ctx is done. Used
// during graceful shutdown.
func (s *Service) WaitForLoads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

func (s *Service) get(id uuid.UUID) (*activeLoad, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	load, ok := s.loads[id]
	return load, ok
}

// scheduleCleanup drops the load record after the retention window so the
// map does not grow without bound.
func (s *Service) scheduleCleanup(id uuid.UUID, after time.Duration) {
	time.AfterFunc(after, func() {
		s.mu.Lock()
		delete(s.loads, id)
		s.mu.Unlock()
	})
}

// setProgress updates the snapshot and fans it out to listeners. Slow
// listeners are skipped rather than blocking the pipeline.
func (l *activeLoad) setProgress(p LoadProgress) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.progress = p
	for _, ch := range l.listeners {
		select {
		case ch <- p:
		default:
		}
	}
}

func (l *activeLoad) setResult(r *LoadResult) {
	l.mu.Lock()
	l.result = r
	l.mu.Unlock()
}

func (l *activeLoad) closeListeners() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.listeners {
		close(ch)
	}
	l.listeners = nil
}
