package services

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/Arrties/backend/internal/models"
)

// NotificationService records per-member messages for bidding and
// settlement events.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// List returns a member's notifications, newest first
func (s *NotificationService) List(ctx context.Context, memberID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return notifications, nil
}

// NotifyNewBid tells an artist about a new highest bid on their work. It
// writes through the caller's transaction so the notification lands with
// the bid.
func (s *NotificationService) NotifyNewBid(ctx context.Context, tx *gorm.DB, artWork *models.ArtWork, bid *models.Bidding) {
	notification := &models.Notification{
		MemberID: artWork.ArtistID,
		Title:    "New bid",
		Message:  fmt.Sprintf("A bid of %s was placed on \"%s\".", bid.Price.String(), artWork.Title),
		Link:     fmt.Sprintf("/art-works/%d", artWork.ID),
	}
	if err := tx.WithContext(ctx).Create(notification).Error; err != nil {
		log.Printf("[NotificationService] Failed to record bid notification: %v", err)
	}
}

// NotifySettlement tells an artist how their work settled. Called after the
// termination transaction commits; a failure here is logged, never surfaced.
func (s *NotificationService) NotifySettlement(ctx context.Context, artWork *models.ArtWork, status models.ArtWorkStatus) {
	message := fmt.Sprintf("\"%s\" did not sell this turn.", artWork.Title)
	if status == models.ArtWorkStatusSold {
		message = fmt.Sprintf("Congratulations! \"%s\" was sold.", artWork.Title)
	}

	notification := &models.Notification{
		MemberID: artWork.ArtistID,
		Title:    "Auction result",
		Message:  message,
		Link:     fmt.Sprintf("/art-works/%d", artWork.ID),
	}
	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		log.Printf("[NotificationService] Failed to record settlement notification: %v", err)
	}
}
