package handler

import (
	"net/http"

	"aquadesk/internal/apierror"
	"aquadesk/internal/dto"
	"aquadesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RidersHandler struct{ svc service.RiderService }

func NewRidersHandler(svc service.RiderService) *RidersHandler { return &RidersHandler{svc: svc} }

// Create godoc
// @Summary      Register a rider
// @Tags         riders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateRiderRequest true "Rider details"
// @Success      201  {object} dto.RiderResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/riders [post]
func (h *RidersHandler) Create(c *gin.Context) {
	var req dto.CreateRiderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List riders
// @Tags         riders
// @Produce      json
// @Security     BearerAuth
// @Param        include_inactive query bool false "Include deactivated riders"
// @Success      200 {array} dto.RiderResponse
// @Router       /v1/riders [get]
func (h *RidersHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	resp, err := h.svc.List(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get one rider
// @Tags         riders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Rider UUID"
// @Success      200 {object} dto.RiderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/riders/{id} [get]
func (h *RidersHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid rider id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update rider details
// @Tags         riders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Rider UUID"
// @Param        body body dto.UpdateRiderRequest true "New details"
// @Success      200  {object} dto.RiderResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/riders/{id} [put]
func (h *RidersHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid rider id"))
		return
	}
	var req dto.UpdateRiderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate godoc
// @Summary      Deactivate a rider
// @Description  Blocks future assignments. Orders already assigned stay assigned.
// @Tags         riders
// @Security     BearerAuth
// @Param        id path string true "Rider UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/riders/{id} [delete]
func (h *RidersHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid rider id"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reactivate godoc
// @Summary      Reactivate a rider
// @Tags         riders
// @Security     BearerAuth
// @Param        id path string true "Rider UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/riders/{id}/reactivate [post]
func (h *RidersHandler) Reactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid rider id"))
		return
	}
	if err := h.svc.Reactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
