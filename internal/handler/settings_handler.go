package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/dto"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/service"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/middleware"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/response"
)

// SettingsHandler handles tenant settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get handles retrieving the tenant's settings
// GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Tenant context missing"))
		return
	}

	settings, err := h.settingsService.Get(c.Request.Context(), tenantID)
	if err != nil {
		if errors.Is(err, service.ErrSettingsNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Settings not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToSettingsResponse(settings)))
}

// Save handles creating or replacing the tenant's settings
// POST /api/v1/settings and PUT /api/v1/settings
func (h *SettingsHandler) Save(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Tenant context missing"))
		return
	}

	var req dto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	settings := req.ToDomain(tenantID)
	if err := h.settingsService.Save(c.Request.Context(), settings); err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToSettingsResponse(settings)))
}

// Delete handles removing the tenant's settings
// DELETE /api/v1/settings
func (h *SettingsHandler) Delete(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Tenant context missing"))
		return
	}

	if err := h.settingsService.Delete(c.Request.Context(), tenantID); err != nil {
		if errors.Is(err, service.ErrSettingsNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Settings not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"deleted": true}))
}

// Design handles retrieving the merged document design
// GET /api/v1/design
func (h *SettingsHandler) Design(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Tenant context missing"))
		return
	}

	design, err := h.settingsService.Design(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(design))
}
