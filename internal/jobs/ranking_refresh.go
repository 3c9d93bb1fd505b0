package jobs

import (
	"context"
	"log"
	"sync"
	"time"
)

// RankRefresher defines the interface for recomputing and persisting ranks
type RankRefresher interface {
	RefreshRanks(ctx context.Context) (int, error)
}

// RankingRefresher periodically recomputes the club-wide ranking
type RankingRefresher struct {
	refresher RankRefresher
	interval  time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	mu        sync.Mutex
}

// NewRankingRefresher creates a new ranking refresh job
func NewRankingRefresher(refresher RankRefresher, interval time.Duration) *RankingRefresher {
	if interval == 0 {
		interval = 1 * time.Hour // Default refresh every hour
	}
	return &RankingRefresher{
		refresher: refresher,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the ranking refresh job
func (r *RankingRefresher) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run()
	log.Printf("Ranking refresher started (interval: %v)", r.interval)
}

// Stop gracefully stops the ranking refresh job
func (r *RankingRefresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	r.wg.Wait()
	log.Println("Ranking refresher stopped")
}

// run is the main loop
func (r *RankingRefresher) run() {
	defer r.wg.Done()

	// Refresh immediately on start
	r.refresh()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refresh()
		case <-r.stopCh:
			return
		}
	}
}

// refresh recomputes ranks with a bounded timeout
func (r *RankingRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ranked, err := r.refresher.RefreshRanks(ctx)
	if err != nil {
		log.Printf("Error refreshing ranks: %v", err)
		return
	}

	if ranked > 0 {
		log.Printf("Ranking refresh complete: %d users ranked", ranked)
	}
}

// IsRunning returns whether the job is running
func (r *RankingRefresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
