package jobs

import (
	"context"
	"log"
	"time"
)

// Cleaner drops expired state. Both the session store and the rate limiter
// registry satisfy it through small adapters in main.
type Cleaner interface {
	Cleanup(ctx context.Context) error
}

// CleanupFunc adapts a function to Cleaner
type CleanupFunc func(ctx context.Context) error

func (f CleanupFunc) Cleanup(ctx context.Context) error {
	return f(ctx)
}

// SessionCleanupJob periodically removes expired sessions
type SessionCleanupJob struct {
	cleaner  Cleaner
	interval time.Duration
	stopChan chan struct{}
	done     chan struct{}
}

// NewSessionCleanupJob creates a new cleanup job
func NewSessionCleanupJob(cleaner Cleaner, interval time.Duration) *SessionCleanupJob {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &SessionCleanupJob{
		cleaner:  cleaner,
		interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the cleanup job
func (j *SessionCleanupJob) Start() {
	go j.run()
	log.Println("🚀 Session cleanup job started")
}

// Stop stops the cleanup job and waits for a running pass to finish
func (j *SessionCleanupJob) Stop() {
	close(j.stopChan)
	<-j.done
	log.Println("🛑 Session cleanup job stopped")
}

func (j *SessionCleanupJob) run() {
	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.RunOnce()
		case <-j.stopChan:
			return
		}
	}
}

// RunOnce performs a single cleanup pass
func (j *SessionCleanupJob) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := j.cleaner.Cleanup(ctx); err != nil {
		log.Printf("❌ Session cleanup failed: %v", err)
	}
}
