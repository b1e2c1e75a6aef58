package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Arrties/backend/internal/models"
	"github.com/Arrties/backend/internal/repository"

	"gorm.io/gorm"
)

// SettlementNotifier is told about each art work's outcome after a
// termination commits. Delivery is best-effort and never fails the
// transition.
type SettlementNotifier interface {
	NotifySettlement(ctx context.Context, artWork *models.ArtWork, status models.ArtWorkStatus)
}

// AuctionService drives auctions through their lifecycle: it registers
// turns, starts and terminates them, and settles the listed art works on
// termination. Every transition runs inside one transaction so either the
// auction and all of its art works move together or nothing changes.
type AuctionService struct {
	repo     *repository.Repository
	notifier SettlementNotifier
}

// NewAuctionService creates a new AuctionService
func NewAuctionService(repo *repository.Repository, notifier SettlementNotifier) *AuctionService {
	return &AuctionService{repo: repo, notifier: notifier}
}

// AuctionListItem is one row of the auction listing
type AuctionListItem struct {
	Turn      int                  `json:"turn"`
	StartDate time.Time            `json:"start_date"`
	EndDate   time.Time            `json:"end_date"`
	Status    models.AuctionStatus `json:"status"`
}

// RegisterAuction creates a new auction for a turn in SCHEDULED state.
// Turns are globally unique; reusing one fails with ErrDuplicateTurn.
func (s *AuctionService) RegisterAuction(ctx context.Context, turn int, startDate, endDate time.Time) (*models.Auction, error) {
	auction := &models.Auction{
		Turn:      turn,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    models.AuctionStatusScheduled,
	}

	if err := s.repo.CreateAuction(ctx, auction); err != nil {
		// The unique turn index decides duplicates, so concurrent
		// registers for one turn cannot both commit.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateTurn
		}
		return nil, storeErr(err)
	}

	return auction, nil
}

// StartAuction moves a scheduled auction to PROCESSING and every art work
// listed under it from PENDING to PROCESSING. At most one auction may be
// processing at a time.
func (s *AuctionService) StartAuction(ctx context.Context, turn int) error {
	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		auction, err := s.findByTurn(ctx, tx, turn)
		if err != nil {
			return err
		}
		if auction.Status != models.AuctionStatusScheduled {
			return ErrInvalidTransition
		}

		processing, err := tx.GetProcessingAuction(ctx)
		if err != nil {
			return storeErr(err)
		}
		if processing != nil {
			return ErrAuctionInProgress
		}

		swapped, err := tx.CompareAndSwapAuctionStatus(ctx, auction.ID,
			models.AuctionStatusScheduled, models.AuctionStatusProcessing)
		if err != nil {
			// The partial unique index admits one PROCESSING row; a racer
			// on a different turn that slipped past the read above fails
			// here instead of committing a second running auction.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAuctionInProgress
			}
			return storeErr(err)
		}
		if !swapped {
			// A concurrent transition won; this caller observes the
			// post-transition state.
			return ErrInvalidTransition
		}

		if err := tx.BulkSetArtWorkStatus(ctx, auction.ID,
			models.ArtWorkStatusPending, models.ArtWorkStatusProcessing); err != nil {
			return storeErr(err)
		}

		log.Printf("[AuctionService] Auction turn %d started", turn)
		return nil
	})
}

// TerminateAuction moves a processing auction to TERMINATED and settles
// every art work listed under it: SOLD when at least one bid exists, UNSOLD
// otherwise. A failed bid lookup aborts the whole transition.
func (s *AuctionService) TerminateAuction(ctx context.Context, turn int) error {
	var settled []settledArtWork

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		auction, err := s.findByTurn(ctx, tx, turn)
		if err != nil {
			return err
		}
		if auction.Status != models.AuctionStatusProcessing {
			return ErrInvalidTransition
		}

		swapped, err := tx.CompareAndSwapAuctionStatus(ctx, auction.ID,
			models.AuctionStatusProcessing, models.AuctionStatusTerminated)
		if err != nil {
			return storeErr(err)
		}
		if !swapped {
			return ErrInvalidTransition
		}

		artWorks, err := tx.GetArtWorksByAuction(ctx, auction.ID)
		if err != nil {
			return storeErr(err)
		}

		engine := NewSettlementEngine(tx)
		for i := range artWorks {
			artWork := &artWorks[i]

			status, err := engine.Settle(ctx, artWork)
			if err != nil {
				return err
			}

			var winningBidID *uint
			if status == models.ArtWorkStatusSold {
				bid, err := tx.GetHighestBidForArtWork(ctx, artWork.ID)
				if err != nil {
					return storeErr(err)
				}
				if bid != nil {
					winningBidID = &bid.ID
				}
			}

			if err := tx.SettleArtWork(ctx, artWork.ID, status, winningBidID); err != nil {
				return storeErr(err)
			}

			settled = append(settled, settledArtWork{artWork: artWork, status: status})
		}

		log.Printf("[AuctionService] Auction turn %d terminated, %d art works settled", turn, len(artWorks))
		return nil
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		for _, item := range settled {
			s.notifier.NotifySettlement(ctx, item.artWork, item.status)
		}
	}

	return nil
}

type settledArtWork struct {
	artWork *models.ArtWork
	status  models.ArtWorkStatus
}

// ListAuctions returns the currently processing auction (when one exists)
// followed by every scheduled auction in turn order. Both reads share one
// transaction so an auction starting mid-listing still appears exactly once.
func (s *AuctionService) ListAuctions(ctx context.Context) ([]AuctionListItem, error) {
	items := []AuctionListItem{}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		processing, err := tx.GetProcessingAuction(ctx)
		if err != nil {
			return storeErr(err)
		}
		if processing != nil {
			items = append(items, toListItem(processing))
		}

		scheduled, err := tx.GetScheduledAuctions(ctx)
		if err != nil {
			return storeErr(err)
		}
		for i := range scheduled {
			items = append(items, toListItem(&scheduled[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// GetAuctionByTurn retrieves an auction by its turn number
func (s *AuctionService) GetAuctionByTurn(ctx context.Context, turn int) (*models.Auction, error) {
	return s.findByTurn(ctx, s.repo, turn)
}

// CurrentAuction returns the auction currently in PROCESSING state, or nil
func (s *AuctionService) CurrentAuction(ctx context.Context) (*models.Auction, error) {
	auction, err := s.repo.GetProcessingAuction(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return auction, nil
}

// ScheduledAuctions returns every scheduled auction in turn order
func (s *AuctionService) ScheduledAuctions(ctx context.Context) ([]models.Auction, error) {
	auctions, err := s.repo.GetScheduledAuctions(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return auctions, nil
}

func (s *AuctionService) findByTurn(ctx context.Context, r *repository.Repository, turn int) (*models.Auction, error) {
	auction, err := r.GetAuctionByTurn(ctx, turn)
	if err == gorm.ErrRecordNotFound {
		return nil, ErrTurnNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return auction, nil
}

func toListItem(a *models.Auction) AuctionListItem {
	return AuctionListItem{
		Turn:      a.Turn,
		StartDate: a.StartDate,
		EndDate:   a.EndDate,
		Status:    a.Status,
	}
}
