package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Backuper copies the data file into a directory
type Backuper interface {
	Backup(dir string, now time.Time) (string, error)
}

// Scheduler runs data file backups, once or on a cron schedule
type Scheduler struct {
	backuper Backuper
	dir      string
	log      *logrus.Logger
	now      func() time.Time
}

// NewScheduler creates a scheduler writing backups into dir
func NewScheduler(backuper Backuper, dir string, log *logrus.Logger) *Scheduler {
	return &Scheduler{backuper: backuper, dir: dir, log: log, now: time.Now}
}

// RunBackup takes one backup and returns its path
func (s *Scheduler) RunBackup() (string, error) {
	path, err := s.backuper.Backup(s.dir, s.now())
	if err != nil {
		return "", fmt.Errorf("backup failed: %w", err)
	}
	return path, nil
}

// Start runs RunBackup on spec until ctx is cancelled. spec accepts the
// standard five-field syntax and descriptors such as "@hourly" or "@every 30m".
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}

	c := cron.New()
	c.Schedule(schedule, cron.FuncJob(func() {
		if path, err := s.RunBackup(); err != nil {
			s.log.Errorf("Scheduled backup failed: %v", err)
		} else {
			s.log.Infof("Scheduled backup written to %s", path)
		}
	}))
	c.Start()
	s.log.Infof("Backup scheduler started (%s), next run at %s", spec, schedule.Next(s.now()).Format(time.RFC3339))

	<-ctx.Done()
	// wait for a running backup to finish
	<-c.Stop().Done()
	s.log.Infof("Backup scheduler stopped")
	return nil
}
