package repository

import (
	"context"

	"github.com/Arrties/backend/internal/models"

	"gorm.io/gorm"
)

// Repository owns the auction, art-work and bidding queries the lifecycle
// service runs. All mutating call sites go through Transaction so a turn
// transition applies as one unit.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn against a transactional copy of the repository.
// Returning an error rolls back everything fn did.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// CreateAuction creates a new auction. The unique turn index rejects a
// second auction for the same turn.
func (r *Repository) CreateAuction(ctx context.Context, auction *models.Auction) error {
	return r.db.WithContext(ctx).Create(auction).Error
}

// GetAuctionByTurn retrieves an auction by its turn number
func (r *Repository) GetAuctionByTurn(ctx context.Context, turn int) (*models.Auction, error) {
	var auction models.Auction
	err := r.db.WithContext(ctx).Where("turn = ?", turn).First(&auction).Error
	if err != nil {
		return nil, err
	}
	return &auction, nil
}

// GetProcessingAuction returns the auction currently in PROCESSING state,
// or nil when no auction is running
func (r *Repository) GetProcessingAuction(ctx context.Context) (*models.Auction, error) {
	var auction models.Auction
	err := r.db.WithContext(ctx).
		Where("status = ?", models.AuctionStatusProcessing).
		First(&auction).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &auction, nil
}

// GetScheduledAuctions returns all scheduled auctions ordered by turn
func (r *Repository) GetScheduledAuctions(ctx context.Context) ([]models.Auction, error) {
	var auctions []models.Auction
	err := r.db.WithContext(ctx).
		Where("status = ?", models.AuctionStatusScheduled).
		Order("turn ASC").
		Find(&auctions).Error
	return auctions, err
}

// CompareAndSwapAuctionStatus flips an auction's status only if it still has
// the expected one. Returns false when another transition won the race or
// the auction already moved on. The lookup-then-mutate sequence stays a
// single conditional UPDATE.
func (r *Repository) CompareAndSwapAuctionStatus(ctx context.Context, auctionID uint, from, to models.AuctionStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Auction{}).
		Where("id = ? AND status = ?", auctionID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// BulkSetArtWorkStatus moves every art work of an auction from one sale
// status to another in a single statement
func (r *Repository) BulkSetArtWorkStatus(ctx context.Context, auctionID uint, from, to models.ArtWorkStatus) error {
	return r.db.WithContext(ctx).Model(&models.ArtWork{}).
		Where("auction_id = ? AND status = ?", auctionID, from).
		Update("status", to).Error
}

// GetArtWorksByAuction returns every art work listed under an auction
func (r *Repository) GetArtWorksByAuction(ctx context.Context, auctionID uint) ([]models.ArtWork, error) {
	var artWorks []models.ArtWork
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("id ASC").
		Find(&artWorks).Error
	return artWorks, err
}

// SettleArtWork records an art work's final sale outcome
func (r *Repository) SettleArtWork(ctx context.Context, artWorkID uint, status models.ArtWorkStatus, winningBidID *uint) error {
	return r.db.WithContext(ctx).Model(&models.ArtWork{}).
		Where("id = ?", artWorkID).
		Updates(map[string]interface{}{
			"status":         status,
			"winning_bid_id": winningBidID,
		}).Error
}

// ExistsBidForArtWork reports whether at least one bid was placed on an art
// work. This is the only bid read settlement performs.
func (r *Repository) ExistsBidForArtWork(ctx context.Context, artWorkID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bidding{}).
		Where("art_work_id = ?", artWorkID).
		Count(&count).Error
	return count > 0, err
}

// GetHighestBidForArtWork returns the highest bid on an art work, or nil
// when no bid exists
func (r *Repository) GetHighestBidForArtWork(ctx context.Context, artWorkID uint) (*models.Bidding, error) {
	var bid models.Bidding
	err := r.db.WithContext(ctx).
		Where("art_work_id = ?", artWorkID).
		Order("price DESC").
		First(&bid).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bid, nil
}
