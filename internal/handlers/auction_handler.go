package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Arrties/backend/internal/services"
)

type AuctionHandler struct {
	auctionService *services.AuctionService
}

func NewAuctionHandler(auctionService *services.AuctionService) *AuctionHandler {
	return &AuctionHandler{auctionService: auctionService}
}

// RegisterAuction creates a new auction for a turn
func (h *AuctionHandler) RegisterAuction(c *gin.Context) {
	var req struct {
		Turn      int       `json:"turn" binding:"required,gt=0"`
		StartDate time.Time `json:"start_date" binding:"required"`
		EndDate   time.Time `json:"end_date" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.StartDate.Before(req.EndDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be before end_date"})
		return
	}

	auction, err := h.auctionService.RegisterAuction(c.Request.Context(), req.Turn, req.StartDate, req.EndDate)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    auction,
	})
}

// StartAuction moves a scheduled auction to processing
func (h *AuctionHandler) StartAuction(c *gin.Context) {
	var req struct {
		Turn int `json:"turn" binding:"required,gt=0"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auctionService.StartAuction(c.Request.Context(), req.Turn); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TerminateAuction ends a processing auction and settles its art works
func (h *AuctionHandler) TerminateAuction(c *gin.Context) {
	var req struct {
		Turn int `json:"turn" binding:"required,gt=0"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auctionService.TerminateAuction(c.Request.Context(), req.Turn); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListAuctions returns the processing auction (if any) followed by the
// scheduled ones
func (h *AuctionHandler) ListAuctions(c *gin.Context) {
	items, err := h.auctionService.ListAuctions(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"count":   len(items),
	})
}

func (h *AuctionHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicateTurn):
		c.JSON(http.StatusConflict, gin.H{"error": "Auction turn already exists"})
	case errors.Is(err, services.ErrTurnNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Auction turn not found"})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Auction status does not permit this transition"})
	case errors.Is(err, services.ErrAuctionInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "Another auction is already in progress"})
	case errors.Is(err, services.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporarily unavailable, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process auction request"})
	}
}
