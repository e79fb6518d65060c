package handler

import (
	"net/http"

	"github.com/SergeiKhy/shop-directory/internal/models"
	"github.com/SergeiKhy/shop-directory/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegionHandler обслуживает регионы и подрегионы
type RegionHandler struct {
	regions service.RegionService
	logger  *zap.Logger
}

func NewRegionHandler(regions service.RegionService, logger *zap.Logger) *RegionHandler {
	return &RegionHandler{regions: regions, logger: logger}
}

// ListRegions godoc
// @Summary List regions in navigation order
// @Tags regions
// @Produce json
// @Success 200 {array} models.Region
// @Router /api/v1/regions [get]
func (h *RegionHandler) ListRegions(c *gin.Context) {
	regions, err := h.regions.ListRegions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, regions)
}

func (h *RegionHandler) GetRegion(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	region, err := h.regions.GetRegion(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, region)
}

func (h *RegionHandler) CreateRegion(c *gin.Context) {
	var input models.CreateRegionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}

	region, err := h.regions.CreateRegion(c.Request.Context(), &input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, region)
}

func (h *RegionHandler) UpdateRegion(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	var input models.UpdateRegionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}

	region, err := h.regions.UpdateRegion(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, region)
}

// DeleteRegion удаляет регион каскадом: подрегионы, листинги, журнал кликов
func (h *RegionHandler) DeleteRegion(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	if err := h.regions.DeleteRegion(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	auditAdmin(c, h.logger, "delete_region", id)
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// ListSubRegions godoc
// @Summary List sub-regions
// @Tags regions
// @Produce json
// @Param region_id query int false "Restrict to one region"
// @Success 200 {array} models.SubRegion
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/subregions [get]
func (h *RegionHandler) ListSubRegions(c *gin.Context) {
	regionID, err := query(c, "region_id", "region")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	subs, err := h.regions.ListSubRegions(c.Request.Context(), regionID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *RegionHandler) GetSubRegion(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	sub, err := h.regions.GetSubRegion(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *RegionHandler) CreateSubRegion(c *gin.Context) {
	var input models.CreateSubRegionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}

	sub, err := h.regions.CreateSubRegion(c.Request.Context(), &input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *RegionHandler) UpdateSubRegion(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	var input models.UpdateSubRegionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}

	sub, err := h.regions.UpdateSubRegion(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *RegionHandler) DeleteSubRegion(c *gin.Context) {
	id, ok := pathID(c, h.logger)
	if !ok {
		return
	}

	if err := h.regions.DeleteSubRegion(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	auditAdmin(c, h.logger, "delete_sub_region", id)
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
