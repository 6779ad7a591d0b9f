package handler

import (
	"net/http"

	"telecrm_backend/internal/directory/service"
	"telecrm_backend/internal/directory/transport"
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
	rg.GET("/managers", httpkit.RequireRole("HEAD"), h.ListManagers)
	rg.GET("/managers/:managerId/telecallers", httpkit.RequireRole("HEAD"), h.ListManagerTelecallers)
	rg.POST("/managers/:managerId/telecallers", httpkit.RequireRole("HEAD"), h.AssignTelecaller)
	rg.DELETE("/managers/:managerId/telecallers", httpkit.RequireRole("HEAD"), h.RemoveTelecaller)
	rg.GET("/telecallers", httpkit.RequireRole("MANAGER"), h.ListOwnTelecallers)
	rg.GET("/telecallers/available", h.ListAvailableTelecallers)
	rg.GET("/counsellors", h.ListCounselors)
	rg.GET("/staff/:id", h.GetByID)
	rg.PATCH("/staff/:id/status", h.UpdateStatus)
}

func (h *Handler) AssignTelecaller(c *gin.Context) {
	managerID, err := uuid.Parse(c.Param("managerId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.AssignTelecallerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	member, err := h.svc.AssignTelecaller(c.Request.Context(), req.TelecallerID, managerID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, member)
}

func (h *Handler) RemoveTelecaller(c *gin.Context) {
	managerID, err := uuid.Parse(c.Param("managerId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.RemoveTelecallerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	member, err := h.svc.RemoveTelecaller(c.Request.Context(), req.TelecallerID, managerID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, member)
}

func (h *Handler) ListManagers(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	list, err := h.svc.ListManagers(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, list)
}

func (h *Handler) ListManagerTelecallers(c *gin.Context) {
	managerID, err := uuid.Parse(c.Param("managerId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	list, err := h.svc.ListTelecallers(c.Request.Context(), managerID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, list)
}

func (h *Handler) ListOwnTelecallers(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	list, err := h.svc.ListTelecallers(c.Request.Context(), id.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, list)
}

func (h *Handler) ListAvailableTelecallers(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	list, err := h.svc.ListAvailableTelecallers(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, list)
}

func (h *Handler) ListCounselors(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	list, err := h.svc.ListCounselors(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, list)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	member, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, member)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	member, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, member)
}

func (h *Handler) bindListRequest(c *gin.Context) (transport.ListStaffRequest, bool) {
	var req transport.ListStaffRequest
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
