package services

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Arrties/backend/internal/models"
)

// BiddingService accepts bids on art works while their auction is running.
// Settlement later only asks whether any bid exists; the price ordering here
// additionally determines the winning bid recorded at termination.
type BiddingService struct {
	db            *gorm.DB
	notifications *NotificationService
}

// NewBiddingService creates a new BiddingService
func NewBiddingService(db *gorm.DB, notifications *NotificationService) *BiddingService {
	return &BiddingService{db: db, notifications: notifications}
}

// PlaceBid records a bid on an art work. The owning auction must be
// PROCESSING and the price must strictly exceed the current highest bid.
func (s *BiddingService) PlaceBid(ctx context.Context, memberID, artWorkID uint, price decimal.Decimal) (*models.Bidding, error) {
	var bid *models.Bidding

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var artWork models.ArtWork
		if err := tx.Where("id = ?", artWorkID).First(&artWork).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrArtWorkNotFound
			}
			return storeErr(err)
		}

		if artWork.ArtistID == memberID {
			return ErrSelfBid
		}
		if artWork.Status != models.ArtWorkStatusProcessing || artWork.AuctionID == nil {
			return ErrAuctionNotInProgress
		}

		var auction models.Auction
		if err := tx.Where("id = ?", *artWork.AuctionID).First(&auction).Error; err != nil {
			return storeErr(err)
		}
		if auction.Status != models.AuctionStatusProcessing {
			return ErrAuctionNotInProgress
		}

		var highest models.Bidding
		err := tx.Where("art_work_id = ?", artWorkID).Order("price DESC").First(&highest).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return storeErr(err)
		}
		if err == nil && price.LessThanOrEqual(highest.Price) {
			return ErrBidTooLow
		}

		bid = &models.Bidding{
			ArtWorkID: artWorkID,
			MemberID:  memberID,
			Price:     price,
		}
		if err := tx.Create(bid).Error; err != nil {
			return storeErr(err)
		}

		if s.notifications != nil {
			s.notifications.NotifyNewBid(ctx, tx, &artWork, bid)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[BiddingService] Bid placed on art work %d by member %d: %s", artWorkID, memberID, price.String())
	return bid, nil
}

// ListByArtWork returns all bids on an art work, highest first
func (s *BiddingService) ListByArtWork(ctx context.Context, artWorkID uint) ([]models.Bidding, error) {
	var bids []models.Bidding
	err := s.db.WithContext(ctx).
		Where("art_work_id = ?", artWorkID).
		Order("price DESC").
		Find(&bids).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return bids, nil
}

// HighestBid returns the current highest bid on an art work, or nil
func (s *BiddingService) HighestBid(ctx context.Context, artWorkID uint) (*models.Bidding, error) {
	var bid models.Bidding
	err := s.db.WithContext(ctx).
		Where("art_work_id = ?", artWorkID).
		Order("price DESC").
		First(&bid).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &bid, nil
}
