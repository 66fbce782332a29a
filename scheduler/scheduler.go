package scheduler

import (
	"context"
	"sync"
	"time"

	"trip_recommender/config"
	"trip_recommender/logger"
)

// secondsToDuration converts a config value in seconds.
func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// TaskType identifies a periodic task.
type TaskType int

const (
	TaskCacheSweep TaskType = iota
	TaskChangeCheck
)

// TaskFunc is the body of a periodic task.
type TaskFunc func(ctx context.Context) error

// TaskStatus tracks one task's schedule.
type TaskStatus struct {
	LastRun     time.Time
	NextRun     time.Time
	IsRunning   bool
	Description string
	Interval    time.Duration

	run TaskFunc
}

// Scheduler runs registered tasks on a fixed tick. A task that is still
// running when its next run is due is skipped for that tick.
type Scheduler struct {
	checkInterval time.Duration
	tasks         map[TaskType]*TaskStatus
	mutex         sync.Mutex
	now           func() time.Time

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// Sweeper removes expired cache entries.
type Sweeper interface {
	Sweep() int
}

// ChangeChecker detects changed source data.
type ChangeChecker interface {
	Check(ctx context.Context) (bool, error)
}

func NewScheduler(cfg *config.Config) *Scheduler {
	checkInterval := secondsToDuration(cfg.Scheduler.CheckIntervalSec)
	if checkInterval <= 0 {
		checkInterval = 30 * time.Second
	}
	return &Scheduler{
		checkInterval: checkInterval,
		tasks:         make(map[TaskType]*TaskStatus),
		now:           time.Now,
	}
}

// Start builds the scheduler with the cache sweep and data change tasks
// and starts its loop. Stop it with Stop.
func Start(ctx context.Context, cfg *config.Config, sweeper Sweeper, watcher ChangeChecker) *Scheduler {
	s := NewScheduler(cfg)
	s.initTasks(cfg, sweeper, watcher)
	s.Run(ctx)

	logger.Info("scheduler started", "check_interval", s.checkInterval.String(), "tasks", len(s.tasks))
	return s
}

func (s *Scheduler) initTasks(cfg *config.Config, sweeper Sweeper, watcher ChangeChecker) {
	if sweeper != nil {
		s.AddTask(TaskCacheSweep, "recommendation cache sweep", secondsToDuration(cfg.Cache.SweepIntervalSec),
			func(context.Context) error {
				n := sweeper.Sweep()
				logger.Debug("expired recommendations removed", "entries", n)
				return nil
			})
	}
	if watcher != nil {
		s.AddTask(TaskChangeCheck, "trip and user change check", secondsToDuration(cfg.Scheduler.ChangeCheckIntervalSec),
			func(ctx context.Context) error {
				_, err := watcher.Check(ctx)
				return err
			})
	}
}

// AddTask registers a task. Its first run is one interval from now.
func (s *Scheduler) AddTask(taskType TaskType, description string, interval time.Duration, run TaskFunc) {
	if interval <= 0 {
		logger.Warn("task has no interval, not scheduled", "task", description)
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	s.tasks[taskType] = &TaskStatus{
		LastRun:     now,
		NextRun:     now.Add(interval),
		Description: description,
		Interval:    interval,
		run:         run,
	}
}

// Run starts the tick loop in the background.
func (s *Scheduler) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()
}

// Stop ends the loop and waits for running tasks to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.checkTasks(ctx, now)
		}
	}
}

func (s *Scheduler) checkTasks(ctx context.Context, now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for taskType, status := range s.tasks {
		if status.IsRunning {
			continue
		}
		if !now.Before(status.NextRun) {
			status.IsRunning = true
			s.wg.Add(1)
			go s.runTask(ctx, taskType, status.run, now)
		}
	}
}

func (s *Scheduler) runTask(ctx context.Context, taskType TaskType, run TaskFunc, now time.Time) {
	defer s.wg.Done()
	defer func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		status := s.tasks[taskType]
		status.IsRunning = false
		status.LastRun = now
		status.NextRun = now.Add(status.Interval)
	}()

	if err := run(ctx); err != nil {
		logger.Error("scheduled task failed", "task", taskType.String(), "error", err)
		return
	}
	logger.Debug("scheduled task done", "task", taskType.String())
}

// Status returns a copy of the task's schedule.
func (s *Scheduler) Status(taskType TaskType) (TaskStatus, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	status, ok := s.tasks[taskType]
	if !ok {
		return TaskStatus{}, false
	}
	return *status, true
}

func (t TaskType) String() string {
	switch t {
	case TaskCacheSweep:
		return "cache_sweep"
	case TaskChangeCheck:
		return "change_check"
	default:
		return "unknown"
	}
}
