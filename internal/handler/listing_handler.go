package handler

import (
	"net/http"

	"github.com/SergeiKhy/shop-directory/internal/models"
	"github.com/SergeiKhy/shop-directory/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ListingHandler struct {
	listings service.ListingService
	clicks   service.ClickService
	logger   *zap.Logger
}

func NewListingHandler(listings service.ListingService, clicks service.ClickService, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{
		listings: listings,
		clicks:   clicks,
		logger:   logger,
	}
}

// ListListings godoc
// @Summary List active listings
// @Description Filtered listings in display order: premium first, then by clicks, then by id
// @Tags listings
// @Produce json
// @Param region_id query int false "Region id"
// @Param sub_region_id query int false "Sub-region id"
// @Param keyword query string false "Substring of listing, region or sub-region name"
// @Param limit query int false "Result size" default(100)
// @Success 200 {array} models.Listing
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/listings [get]
func (h *ListingHandler) ListListings(c *gin.Context) {
	var (
		q   models.ListingQuery
		err error
	)
	if q.RegionID, err = query(c, "region_id", "region"); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if q.SubRegionID, err = query(c, "sub_region_id", "sub_region", "subRegion"); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if q.Keyword, err = query(c, "keyword"); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if q.Limit, err = query(c, "limit"); err != nil {
		respondError(c, h.logger, err)
		return
	}

	listings, err := h.listings.ListListings(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, listings)
}

// GetListing godoc
// @Summary Get an active listing
// @Tags listings
// @Produce json
// @Param id path int true "Listing id"
// @Success 200 {object} models.Listing
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/listings/{id} [get]
func (h *ListingHandler) GetListing(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	listing, err := h.listings.GetListing(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// RecordClick godoc
// @Summary Record a click-through
// @Tags listings
// @Produce json
// @Param id path int true "Listing id"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/listings/{id}/click [post]
func (h *ListingHandler) RecordClick(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	if err := h.clicks.RecordClick(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// ResetClicks godoc
// @Summary Reset the click counter (admin)
// @Description Sets click_count to 0; the click log is kept
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing id"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/listings/{id}/reset-clicks [post]
func (h *ListingHandler) ResetClicks(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	if err := h.clicks.ResetClicks(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	auditAdmin(c, h.logger, "reset_clicks", id)

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (h *ListingHandler) CreateListing(c *gin.Context) {
	var input models.CreateListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}

	listing, err := h.listings.CreateListing(c.Request.Context(), &input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, listing)
}

func (h *ListingHandler) UpdateListing(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	var input models.UpdateListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}

	listing, err := h.listings.UpdateListing(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// DeleteListing снимает листинг с публикации; ?purge=true удаляет его совсем
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	purge := c.Query("purge") == "true"
	if err := h.listings.DeleteListing(c.Request.Context(), id, purge); err != nil {
		respondError(c, h.logger, err)
		return
	}
	auditAdmin(c, h.logger, "delete_listing", id)

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
