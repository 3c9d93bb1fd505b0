package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/bskmt/club-api/internal/model"
)

// PassRunner defines the interface for executing a renewal pass
type PassRunner interface {
	RunRenewalPass(ctx context.Context, now time.Time) (*model.PassResult, error)
}

// RenewalPassJob runs the daily renewal pass over all memberships
type RenewalPassJob struct {
	runner  PassRunner
	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

// NewRenewalPassJob creates a new renewal pass job
func NewRenewalPassJob(runner PassRunner) *RenewalPassJob {
	return &RenewalPassJob{
		runner: runner,
		stopCh: make(chan struct{}),
	}
}

// Start begins the renewal pass job (runs once per day)
func (j *RenewalPassJob) Start() {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return
	}
	j.running = true
	j.mu.Unlock()

	j.wg.Add(1)
	go j.run()
	log.Println("Renewal pass job started")
}

// Stop gracefully stops the job
func (j *RenewalPassJob) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	j.running = false
	j.mu.Unlock()

	close(j.stopCh)
	j.wg.Wait()
	log.Println("Renewal pass job stopped")
}

// run ticks every 24 hours and triggers a pass
func (j *RenewalPassJob) run() {
	defer j.wg.Done()

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	// Run once on startup to catch up after restarts
	j.runPass()

	for {
		select {
		case <-ticker.C:
			j.runPass()
		case <-j.stopCh:
			return
		}
	}
}

// runPass executes a single pass with a bounded timeout
func (j *RenewalPassJob) runPass() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := j.RunOnce(ctx); err != nil {
		log.Printf("Error running renewal pass: %v", err)
	}
}

// RunOnce runs a single renewal pass (for manual trigger or testing)
func (j *RenewalPassJob) RunOnce(ctx context.Context) error {
	result, err := j.runner.RunRenewalPass(ctx, time.Now())
	if err != nil {
		return err
	}

	log.Printf("Renewal pass complete: %d memberships processed, %d notifications sent",
		result.RenewalsProcessed, result.NotificationsSent)
	for _, e := range result.Errors {
		log.Printf("Renewal pass error: %s", e)
	}
	return nil
}

// IsRunning returns whether the job is running
func (j *RenewalPassJob) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}
