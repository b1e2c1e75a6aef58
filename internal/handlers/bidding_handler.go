package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Arrties/backend/internal/auth"
	"github.com/Arrties/backend/internal/services"
)

type BiddingHandler struct {
	biddingService *services.BiddingService
}

func NewBiddingHandler(biddingService *services.BiddingService) *BiddingHandler {
	return &BiddingHandler{biddingService: biddingService}
}

// PlaceBid records a bid on an art work
func (h *BiddingHandler) PlaceBid(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	artWorkID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid art work id"})
		return
	}

	var req struct {
		Price string `json:"price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || !price.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
		return
	}

	bid, err := h.biddingService.PlaceBid(c.Request.Context(), memberID, uint(artWorkID), price)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    bid,
	})
}

// ListBids returns all bids on an art work, highest first
func (h *BiddingHandler) ListBids(c *gin.Context) {
	artWorkID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid art work id"})
		return
	}

	bids, err := h.biddingService.ListByArtWork(c.Request.Context(), uint(artWorkID))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bids,
		"count":   len(bids),
	})
}

func (h *BiddingHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrArtWorkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Art work not found"})
	case errors.Is(err, services.ErrAuctionNotInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "Auction is not in progress"})
	case errors.Is(err, services.ErrBidTooLow):
		c.JSON(http.StatusConflict, gin.H{"error": "Bid must exceed the current highest bid"})
	case errors.Is(err, services.ErrSelfBid):
		c.JSON(http.StatusForbidden, gin.H{"error": "Artists cannot bid on their own work"})
	case errors.Is(err, services.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporarily unavailable, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process bid"})
	}
}
