package jobs

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Arrties/backend/internal/services"
)

// AuctionScheduler drives the auction lifecycle on the clock: it starts a
// scheduled auction once its start time passes and terminates the running
// auction once its end time passes. Only one auction runs at a time, so a
// due turn waits until the current one terminates.
type AuctionScheduler struct {
	auctionService *services.AuctionService
	interval       time.Duration
	stopChan       chan struct{}
}

// NewAuctionScheduler creates a new auction scheduler job
func NewAuctionScheduler(auctionService *services.AuctionService, interval time.Duration) *AuctionScheduler {
	return &AuctionScheduler{
		auctionService: auctionService,
		interval:       interval,
		stopChan:       make(chan struct{}),
	}
}

// Start begins the scheduling loop
func (as *AuctionScheduler) Start() {
	log.Printf("[AuctionScheduler] Starting auction scheduler (interval: %v)", as.interval)

	ticker := time.NewTicker(as.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			as.tick()
		case <-as.stopChan:
			log.Println("[AuctionScheduler] Stopping auction scheduler")
			return
		}
	}
}

// Stop stops the scheduling loop
func (as *AuctionScheduler) Stop() {
	close(as.stopChan)
}

func (as *AuctionScheduler) tick() {
	ctx := context.Background()
	now := time.Now()

	as.terminateDue(ctx, now)
	as.startDue(ctx, now)
}

func (as *AuctionScheduler) terminateDue(ctx context.Context, now time.Time) {
	current, err := as.auctionService.CurrentAuction(ctx)
	if err != nil {
		log.Printf("[AuctionScheduler] Error fetching current auction: %v", err)
		return
	}
	if current == nil || now.Before(current.EndDate) {
		return
	}

	if err := as.auctionService.TerminateAuction(ctx, current.Turn); err != nil {
		// A concurrent operator call may have terminated it already.
		if errors.Is(err, services.ErrInvalidTransition) {
			return
		}
		log.Printf("[AuctionScheduler] Error terminating auction turn %d: %v", current.Turn, err)
		return
	}

	log.Printf("[AuctionScheduler] Terminated auction turn %d", current.Turn)
}

func (as *AuctionScheduler) startDue(ctx context.Context, now time.Time) {
	scheduled, err := as.auctionService.ScheduledAuctions(ctx)
	if err != nil {
		log.Printf("[AuctionScheduler] Error fetching scheduled auctions: %v", err)
		return
	}

	for _, auction := range scheduled {
		if now.Before(auction.StartDate) {
			continue
		}

		err := as.auctionService.StartAuction(ctx, auction.Turn)
		if errors.Is(err, services.ErrAuctionInProgress) {
			// Wait for the running auction to terminate first.
			return
		}
		if errors.Is(err, services.ErrInvalidTransition) {
			continue
		}
		if err != nil {
			log.Printf("[AuctionScheduler] Error starting auction turn %d: %v", auction.Turn, err)
			return
		}

		log.Printf("[AuctionScheduler] Started auction turn %d", auction.Turn)
		return
	}
}
