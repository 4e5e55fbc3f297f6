package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hillview/occupancy-backend-go/internal/models"
	"github.com/hillview/occupancy-backend-go/internal/service"
	"github.com/hillview/occupancy-backend-go/pkg/response"
)

// ScenarioHandler handles HTTP requests for occupancy scenarios
type ScenarioHandler struct {
	service *service.ScenarioService
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(service *service.ScenarioService) *ScenarioHandler {
	return &ScenarioHandler{service: service}
}

// CreateScenario handles POST /api/v1/scenarios
func (h *ScenarioHandler) CreateScenario(c *gin.Context) {
	var req models.ScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid scenario request", err)
		return
	}

	scenario, err := h.service.CreateAndRun(req)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Failed to create scenario", err)
		return
	}

	response.Success(c, scenario)
}

// ListScenarios handles GET /api/v1/scenarios
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	scenarios, err := h.service.ListScenarios()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list scenarios", err)
		return
	}
	response.Success(c, scenarios)
}

// GetScenarioByID handles GET /api/v1/scenarios/:id
func (h *ScenarioHandler) GetScenarioByID(c *gin.Context) {
	id, ok := h.scenarioID(c)
	if !ok {
		return
	}

	scenario, err := h.service.GetScenarioByID(id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get scenario", err)
		return
	}
	if scenario == nil {
		response.Error(c, http.StatusNotFound, "Scenario not found", nil)
		return
	}

	response.Success(c, scenario)
}

// GetBydate handles GET /api/v1/scenarios/:id/bydate
func (h *ScenarioHandler) GetBydate(c *gin.Context) {
	id, ok := h.scenarioID(c)
	if !ok {
		return
	}

	var filter models.BydateFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	rows, total, err := h.service.GetBydateRows(id, filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get bydate rows", err)
		return
	}

	response.Success(c, gin.H{
		"data":  rows,
		"total": total,
	})
}

// GetSummary handles GET /api/v1/scenarios/:id/summary
func (h *ScenarioHandler) GetSummary(c *gin.Context) {
	id, ok := h.scenarioID(c)
	if !ok {
		return
	}

	summary, err := h.service.GetOccupancySummary(id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get occupancy summary", err)
		return
	}
	if summary == nil {
		response.Error(c, http.StatusNotFound, "Scenario not found or not yet analyzed", nil)
		return
	}

	response.Success(c, summary)
}

// scenarioID parses the :id path parameter, replying 400 on failure
func (h *ScenarioHandler) scenarioID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid scenario ID", err)
		return 0, false
	}
	return id, true
}
