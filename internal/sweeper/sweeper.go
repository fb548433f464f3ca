package sweeper

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"time"

	"photo-manager/internal/database"
	"photo-manager/internal/filesystem"
	"photo-manager/internal/logging"
	"photo-manager/internal/metrics"
	"photo-manager/internal/workers"
)

const (
	// DefaultInterval between sweeps.
	DefaultInterval = 15 * time.Minute

	// maxStatWorkers caps the concurrent file checks so a sweep cannot
	// saturate a slow NFS mount.
	maxStatWorkers = 16
)

// Sweeper periodically reconciles the catalog with the filesystem. Rows
// whose original file has vanished move to the recycle bin, and expired
// sessions are removed.
type Sweeper struct {
	db       *database.Database
	interval time.Duration
	stopChan chan struct{}

	runMu     sync.Mutex
	isRunning bool
}

// New creates a Sweeper. A non-positive interval uses DefaultInterval.
func New(db *database.Database, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		db:       db,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start runs an immediate sweep and then sweeps on the configured
// interval until Stop is called.
func (s *Sweeper) Start() {
	go func() {
		logging.Info("Sweeper: starting, interval %v", s.interval)
		s.runOnce()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runOnce()
			case <-s.stopChan:
				logging.Info("Sweeper: stopped")
				return
			}
		}
	}()
}

// Stop halts the sweep loop. An in-flight sweep finishes.
func (s *Sweeper) Stop() {
	close(s.stopChan)
}

func (s *Sweeper) runOnce() {
	if err := s.Sweep(context.Background()); err != nil {
		metrics.SweeperErrors.Inc()
		logging.Error("Sweeper: sweep failed: %v", err)
	}
}

// Sweep runs one reconciliation pass. Concurrent calls beyond the first
// are no-ops.
func (s *Sweeper) Sweep(ctx context.Context) error {
	if !s.tryStart() {
		logging.Debug("Sweeper: sweep already in progress, skipping")
		return nil
	}
	defer s.finish()

	start := time.Now()
	metrics.SweeperIsRunning.Set(1)
	defer metrics.SweeperIsRunning.Set(0)

	missing, err := s.findMissingFiles(ctx)
	if err != nil {
		return err
	}

	var recycled int64
	if len(missing) > 0 {
		recycled, err = s.db.SoftDeleteMissing(missing)
		if err != nil {
			return err
		}
		metrics.SweeperMissingFiles.Add(float64(recycled))
		logging.Warn("Sweeper: recycled %d images with missing originals", recycled)
	}

	expired, err := s.db.CleanExpiredSessions()
	if err != nil {
		return err
	}
	metrics.SweeperSessionsExpired.Add(float64(expired))

	metrics.SweeperRunsTotal.Inc()
	metrics.SweeperLastRunTimestamp.SetToCurrentTime()
	metrics.SweeperLastRunDuration.Set(time.Since(start).Seconds())

	logging.Info("Sweeper: pass complete in %v (%d missing files, %d expired sessions)",
		time.Since(start).Round(time.Millisecond), recycled, expired)
	return nil
}

// findMissingFiles stats every active original concurrently and returns
// the ids whose file is gone. Stat errors other than absence are skipped;
// a flapping mount must not recycle live rows.
func (s *Sweeper) findMissingFiles(ctx context.Context) ([]int64, error) {
	refs, err := s.db.ListActiveFiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}

	numWorkers := workers.ForIO(maxStatWorkers)
	jobs := make(chan database.FileRef)
	var mu sync.Mutex
	var missing []int64
	var wg sync.WaitGroup

	retryConfig := filesystem.DefaultRetryConfig()
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ref := range jobs {
				_, statErr := filesystem.StatWithRetry(ref.FilePath, retryConfig)
				if statErr == nil {
					continue
				}
				if !isNotExist(statErr) {
					logging.Debug("Sweeper: stat %s failed (%v), leaving row alone", ref.FilePath, statErr)
					continue
				}
				mu.Lock()
				missing = append(missing, ref.ID)
				mu.Unlock()
			}
		}()
	}

	for _, ref := range refs {
		select {
		case jobs <- ref:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()
	return missing, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func (s *Sweeper) tryStart() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.isRunning {
		return false
	}
	s.isRunning = true
	return true
}

func (s *Sweeper) finish() {
	s.runMu.Lock()
	s.isRunning = false
	s.runMu.Unlock()
}
