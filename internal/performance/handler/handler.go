package handler

import (
	"net/http"

	"telecrm_backend/internal/performance/service"
	"telecrm_backend/internal/performance/transport"
	"telecrm_backend/platform/httpkit"
	"telecrm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", httpkit.RequireRole("TELECALLER"), h.MyDashboard)
	rg.GET("/team", httpkit.RequireRole("MANAGER"), h.TeamDashboard)
	rg.GET("/team/trend", httpkit.RequireRole("MANAGER"), h.TeamTrend)
	rg.GET("/org", httpkit.RequireRole("HEAD"), h.OrgDashboard)
	rg.GET("/org/trend", httpkit.RequireRole("HEAD"), h.OrgTrend)
	rg.PATCH("/targets/:staffId", httpkit.RequireRole("MANAGER"), h.SetTarget)
}

func (h *Handler) MyDashboard(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	req, ok := h.bindDashboard(c)
	if !ok {
		return
	}

	out, err := h.svc.TelecallerDashboard(c.Request.Context(), id.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, out)
}

func (h *Handler) TeamDashboard(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	req, ok := h.bindDashboard(c)
	if !ok {
		return
	}

	out, err := h.svc.ManagerDashboard(c.Request.Context(), id.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, out)
}

func (h *Handler) TeamTrend(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	req, ok := h.bindDashboard(c)
	if !ok {
		return
	}

	managerID := id.UserID()
	out, err := h.svc.TeamTrend(c.Request.Context(), &managerID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, out)
}

func (h *Handler) OrgDashboard(c *gin.Context) {
	req, ok := h.bindDashboard(c)
	if !ok {
		return
	}

	out, err := h.svc.HeadDashboard(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, out)
}

func (h *Handler) OrgTrend(c *gin.Context) {
	req, ok := h.bindDashboard(c)
	if !ok {
		return
	}

	out, err := h.svc.TeamTrend(c.Request.Context(), nil, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, out)
}

func (h *Handler) SetTarget(c *gin.Context) {
	staffID, err := uuid.Parse(c.Param("staffId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.SetTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.SetTarget(c.Request.Context(), staffID, req.MonthlyTarget); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"updated": true})
}

func (h *Handler) bindDashboard(c *gin.Context) (transport.DashboardRequest, bool) {
	var req transport.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return req, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return req, false
	}
	return req, true
}
