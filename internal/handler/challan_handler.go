package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/dto"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/service"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/middleware"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/response"
)

// ChallanHandler handles challan lifecycle HTTP requests
type ChallanHandler struct {
	challanService *service.ChallanService
}

// NewChallanHandler creates a new ChallanHandler
func NewChallanHandler(challanService *service.ChallanService) *ChallanHandler {
	return &ChallanHandler{challanService: challanService}
}

// Create handles challan creation
// POST /api/v1/challan
func (h *ChallanHandler) Create(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Tenant context missing"))
		return
	}

	var req dto.CreateChallanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	employeeID, _ := middleware.GetUserID(c)
	challan, warnings, err := h.challanService.Create(c.Request.Context(), req.ToDomain(tenantID, employeeID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.SuccessWithWarnings(dto.ToChallanResponse(challan), warnings))
}

// List handles listing a tenant's challans
// GET /api/v1/challans
func (h *ChallanHandler) List(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Tenant context missing"))
		return
	}

	challans, err := h.challanService.List(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToChallanResponses(challans)))
}

// Get handles retrieving one challan
// GET /api/v1/challan/:challan_no
func (h *ChallanHandler) Get(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Tenant context missing"))
		return
	}
	challanNo := c.Param("challan_no")

	challan, err := h.challanService.Get(c.Request.Context(), tenantID, challanNo)
	if err != nil {
		if errors.Is(err, service.ErrChallanNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Challan not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToChallanResponse(challan)))
}

// Update handles changing a pending challan
// PUT /api/v1/challan/:challan_no
func (h *ChallanHandler) Update(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Tenant context missing"))
		return
	}
	challanNo := c.Param("challan_no")

	var req dto.UpdateChallanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	challan, warnings, err := h.challanService.Update(c.Request.Context(), tenantID, challanNo, req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChallanNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Challan not found"))
		case errors.Is(err, service.ErrInvalidState):
			c.JSON(http.StatusConflict, response.Error(response.ErrCodeInvalidState, "Delivered challans cannot be changed"))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithWarnings(dto.ToChallanResponse(challan), warnings))
}

// Delete handles removing a challan and its artifacts
// DELETE /api/v1/challan/:challan_no
func (h *ChallanHandler) Delete(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Tenant context missing"))
		return
	}
	challanNo := c.Param("challan_no")

	if err := h.challanService.Delete(c.Request.Context(), tenantID, challanNo); err != nil {
		if errors.Is(err, service.ErrChallanNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Challan not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"challan_no": challanNo, "deleted": true}))
}

// SendOTP handles issuing a pickup code
// POST /api/v1/challan/:challan_no/send_otp
func (h *ChallanHandler) SendOTP(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Tenant context missing"))
		return
	}
	challanNo := c.Param("challan_no")

	// Empty body means default TTL
	var req dto.SendOTPRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
			return
		}
	}

	ttl := time.Duration(req.TTLMinutes) * time.Minute
	if err := h.challanService.RequestPickup(c.Request.Context(), tenantID, challanNo, ttl); err != nil {
		switch {
		case errors.Is(err, service.ErrChallanNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Challan not found"))
		case errors.Is(err, service.ErrInvalidState):
			c.JSON(http.StatusConflict, response.Error(response.ErrCodeInvalidState, "Challan has already been delivered"))
		case errors.Is(err, service.ErrRecipientMissing):
			c.JSON(http.StatusBadRequest, response.Error(response.ErrCodeRecipientMissing, "Challan has no customer email on record"))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"challan_no": challanNo, "otp_sent": true}))
}

// VerifyOTP handles confirming a pickup
// POST /api/v1/challan/:challan_no/verify_otp
func (h *ChallanHandler) VerifyOTP(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Tenant context missing"))
		return
	}
	challanNo := c.Param("challan_no")

	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	actor, _ := middleware.GetName(c)
	challan, err := h.challanService.ConfirmPickup(c.Request.Context(), tenantID, challanNo, req.OTP, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChallanNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Challan not found"))
		case errors.Is(err, service.ErrInvalidState):
			c.JSON(http.StatusConflict, response.Error(response.ErrCodeInvalidState, "Challan has already been delivered"))
		case errors.Is(err, service.ErrNoOtpIssued):
			c.JSON(http.StatusBadRequest, response.Error(response.ErrCodeNoOTPIssued, "No OTP has been issued for this challan"))
		case errors.Is(err, service.ErrOTPMismatch):
			c.JSON(http.StatusBadRequest, response.Error(response.ErrCodeOTPMismatch, "OTP does not match"))
		case errors.Is(err, service.ErrOTPExpired):
			c.JSON(http.StatusBadRequest, response.Error(response.ErrCodeOTPExpired, "OTP has expired, request a new one"))
		case errors.Is(err, service.ErrTooManyAttempts):
			c.JSON(http.StatusTooManyRequests, response.Error(response.ErrCodeTooManyAttempts, "Too many failed attempts, try again later"))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToChallanResponse(challan)))
}
