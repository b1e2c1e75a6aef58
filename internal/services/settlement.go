package services

import (
	"context"

	"github.com/Arrties/backend/internal/models"
)

// BidChecker is the single read settlement performs against the bidding
// store.
type BidChecker interface {
	ExistsBidForArtWork(ctx context.Context, artWorkID uint) (bool, error)
}

// SettlementEngine decides each art work's final sale outcome when its
// auction terminates: SOLD if at least one bid exists, UNSOLD otherwise.
// It never mutates anything; the caller applies the returned status.
type SettlementEngine struct {
	bids BidChecker
}

// NewSettlementEngine creates a new SettlementEngine
func NewSettlementEngine(bids BidChecker) *SettlementEngine {
	return &SettlementEngine{bids: bids}
}

// Settle classifies one art work. A lookup failure is returned as-is so the
// enclosing transition aborts instead of defaulting to UNSOLD.
func (e *SettlementEngine) Settle(ctx context.Context, artWork *models.ArtWork) (models.ArtWorkStatus, error) {
	exists, err := e.bids.ExistsBidForArtWork(ctx, artWork.ID)
	if err != nil {
		return "", storeErr(err)
	}

	if exists {
		return models.ArtWorkStatusSold, nil
	}
	return models.ArtWorkStatusUnsold, nil
}
