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

type ArtWorkHandler struct {
	artWorkService *services.ArtWorkService
}

func NewArtWorkHandler(artWorkService *services.ArtWorkService) *ArtWorkHandler {
	return &ArtWorkHandler{artWorkService: artWorkService}
}

// CreateArtWork lists a new work for the authenticated artist
func (h *ArtWorkHandler) CreateArtWork(c *gin.Context) {
	artistID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Title          string   `json:"title" binding:"required"`
		Description    string   `json:"description"`
		Material       string   `json:"material"`
		Size           string   `json:"size"`
		ProductionYear int      `json:"production_year"`
		EstimatedPrice string   `json:"estimated_price"`
		Images         []string `json:"images"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	estimatedPrice := decimal.Zero
	if req.EstimatedPrice != "" {
		parsed, err := decimal.NewFromString(req.EstimatedPrice)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid estimated_price"})
			return
		}
		estimatedPrice = parsed
	}

	artWork, err := h.artWorkService.Save(c.Request.Context(), artistID, services.ArtWorkInput{
		Title:          req.Title,
		Description:    req.Description,
		Material:       req.Material,
		Size:           req.Size,
		ProductionYear: req.ProductionYear,
		EstimatedPrice: estimatedPrice,
		Images:         req.Images,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    artWork,
	})
}

// GetArtWork returns a single art work with its images
func (h *ArtWorkHandler) GetArtWork(c *gin.Context) {
	artWorkID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid art work id"})
		return
	}

	artWork, err := h.artWorkService.GetByID(c.Request.Context(), uint(artWorkID))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    artWork,
	})
}

// ListByAuction returns the catalogue of an auction
func (h *ArtWorkHandler) ListByAuction(c *gin.Context) {
	auctionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid auction id"})
		return
	}

	artWorks, err := h.artWorkService.ListByAuction(c.Request.Context(), uint(auctionID))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    artWorks,
		"count":   len(artWorks),
	})
}

// AssignToAuction lists an art work under a scheduled auction turn
func (h *ArtWorkHandler) AssignToAuction(c *gin.Context) {
	artWorkID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid art work id"})
		return
	}

	var req struct {
		Turn int `json:"turn" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.artWorkService.AssignToAuction(c.Request.Context(), uint(artWorkID), req.Turn); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ArtWorkHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrArtWorkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Art work not found"})
	case errors.Is(err, services.ErrTurnNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Auction turn not found"})
	case errors.Is(err, services.ErrArtWorkNotAssignable):
		c.JSON(http.StatusConflict, gin.H{"error": "Art work can only join a scheduled auction"})
	case errors.Is(err, services.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporarily unavailable, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process art work request"})
	}
}
