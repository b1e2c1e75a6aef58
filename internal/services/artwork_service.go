package services

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Arrties/backend/internal/models"
)

// ArtWorkService handles art-work listings: creation with images, lookup
// and assignment to an auction turn.
type ArtWorkService struct {
	db *gorm.DB
}

// NewArtWorkService creates a new ArtWorkService
func NewArtWorkService(db *gorm.DB) *ArtWorkService {
	return &ArtWorkService{db: db}
}

// ArtWorkInput carries the fields for a new listing
type ArtWorkInput struct {
	Title          string
	Description    string
	Material       string
	Size           string
	ProductionYear int
	EstimatedPrice decimal.Decimal
	Images         []string
}

// Save creates a new art work with its images in PENDING state
func (s *ArtWorkService) Save(ctx context.Context, artistID uint, input ArtWorkInput) (*models.ArtWork, error) {
	artWork := &models.ArtWork{
		ArtistID:       artistID,
		Title:          input.Title,
		Description:    input.Description,
		Material:       input.Material,
		Size:           input.Size,
		ProductionYear: input.ProductionYear,
		EstimatedPrice: input.EstimatedPrice,
		Status:         models.ArtWorkStatusPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(artWork).Error; err != nil {
			return err
		}

		for _, image := range input.Images {
			if err := tx.Create(&models.ArtWorkImage{
				ArtWorkID: artWork.ID,
				Image:     image,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}

	return artWork, nil
}

// GetByID retrieves an art work with its images
func (s *ArtWorkService) GetByID(ctx context.Context, artWorkID uint) (*models.ArtWork, error) {
	var artWork models.ArtWork
	err := s.db.WithContext(ctx).Preload("Images").Where("id = ?", artWorkID).First(&artWork).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrArtWorkNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &artWork, nil
}

// ListByAuction returns every art work listed under an auction
func (s *ArtWorkService) ListByAuction(ctx context.Context, auctionID uint) ([]models.ArtWork, error) {
	var artWorks []models.ArtWork
	err := s.db.WithContext(ctx).Preload("Images").
		Where("auction_id = ?", auctionID).
		Order("id ASC").
		Find(&artWorks).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return artWorks, nil
}

// AssignToAuction lists a pending art work under an auction. Only scheduled
// auctions accept new listings; once a turn starts its catalogue is fixed.
func (s *ArtWorkService) AssignToAuction(ctx context.Context, artWorkID uint, turn int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var auction models.Auction
		if err := tx.Where("turn = ?", turn).First(&auction).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrTurnNotFound
			}
			return storeErr(err)
		}
		if auction.Status != models.AuctionStatusScheduled {
			return ErrArtWorkNotAssignable
		}

		res := tx.Model(&models.ArtWork{}).
			Where("id = ? AND status = ?", artWorkID, models.ArtWorkStatusPending).
			Update("auction_id", auction.ID)
		if res.Error != nil {
			return storeErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrArtWorkNotFound
		}
		return nil
	})
}
