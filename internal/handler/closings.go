package handler

import (
	"net/http"

	"aquadesk/internal/dto"
	"aquadesk/internal/service"

	"github.com/gin-gonic/gin"
)

type ClosingsHandler struct{ svc service.ClosingService }

func NewClosingsHandler(svc service.ClosingService) *ClosingsHandler {
	return &ClosingsHandler{svc: svc}
}

// Summary godoc
// @Summary      Preview a daily closing
// @Description  Read-only aggregate for one business date. can_close is false while any order of the date is still open.
// @Tags         closings
// @Produce      json
// @Security     BearerAuth
// @Param        date query string false "Date YYYY-MM-DD (default: today)"
// @Success      200 {object} dto.ClosingSummaryResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/closings/summary [get]
func (h *ClosingsHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Save godoc
// @Summary      Save a daily closing
// @Description  Persists the day snapshot. Refused while orders of the date are still open; re-saving the same date overwrites the prior record.
// @Tags         closings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SaveClosingRequest true "Date to close"
// @Success      201  {object} dto.ClosingResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/closings [post]
func (h *ClosingsHandler) Save(c *gin.Context) {
	var req dto.SaveClosingRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Save(c.Request.Context(), req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List saved closings
// @Description  All persisted daily closings, newest first.
// @Tags         closings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.ClosingResponse
// @Router       /v1/closings [get]
func (h *ClosingsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
