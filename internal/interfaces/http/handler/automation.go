package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/commercehub/backend/internal/domain/automation"
	"github.com/commercehub/backend/internal/infrastructure/persistence"
	"github.com/commercehub/backend/internal/interfaces/http/dto"
)

// AutomationHandler mirrors automation definitions from the external config
// UI into the execution core and exposes run history for monitoring.
type AutomationHandler struct {
	store *persistence.InMemoryAutomationStore
}

// NewAutomationHandler creates an automation handler
func NewAutomationHandler(store *persistence.InMemoryAutomationStore) *AutomationHandler {
	return &AutomationHandler{store: store}
}

// Upsert handles PUT /api/v1/automations/:id
func (h *AutomationHandler) Upsert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Err(dto.CodeInvalidRequest, "invalid automation id"))
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Err(dto.CodeInvalidRequest, "failed to read request body"))
		return
	}

	auto, err := automation.ParseConfig(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Err(dto.CodeInvalidRequest, err.Error()))
		return
	}
	auto.ID = id

	if err := h.store.Put(*auto); err != nil {
		c.JSON(http.StatusBadRequest, dto.Err(dto.CodeInvalidRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OK(gin.H{"id": id}))
}

// Get handles GET /api/v1/automations/:id
func (h *AutomationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Err(dto.CodeInvalidRequest, "invalid automation id"))
		return
	}

	auto, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrAutomationNotFound) {
			c.JSON(http.StatusNotFound, dto.Err(dto.CodeNotFound, "automation not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Err(dto.CodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OK(auto))
}

// Delete handles DELETE /api/v1/automations/:id
func (h *AutomationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Err(dto.CodeInvalidRequest, "invalid automation id"))
		return
	}
	h.store.Delete(id)
	c.JSON(http.StatusOK, dto.OK(gin.H{"id": id}))
}

// ListRuns handles GET /api/v1/automations/:id/runs
func (h *AutomationHandler) ListRuns(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Err(dto.CodeInvalidRequest, "invalid automation id"))
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, dto.Err(dto.CodeInvalidRequest, "invalid limit"))
			return
		}
		limit = n
	}

	c.JSON(http.StatusOK, dto.OK(h.store.ListRuns(id, limit)))
}
