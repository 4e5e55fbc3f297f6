package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hillview/occupancy-backend-go/internal/models"
	"github.com/hillview/occupancy-backend-go/internal/service"
	"github.com/hillview/occupancy-backend-go/pkg/response"
)

// StopRecordHandler handles HTTP requests for stop records
type StopRecordHandler struct {
	service *service.StopRecordService
}

// NewStopRecordHandler creates a new stop record handler
func NewStopRecordHandler(service *service.StopRecordService) *StopRecordHandler {
	return &StopRecordHandler{service: service}
}

// GetStopRecords handles GET /api/v1/stop-records
func (h *StopRecordHandler) GetStopRecords(c *gin.Context) {
	var filter models.StopRecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	records, total, err := h.service.GetStopRecords(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get stop records", err)
		return
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	response.Success(c, gin.H{
		"data":       records,
		"total":      total,
		"page":       filter.Page,
		"pageSize":   filter.PageSize,
		"totalPages": totalPages,
	})
}

// GetStopRecordByID handles GET /api/v1/stop-records/:id
func (h *StopRecordHandler) GetStopRecordByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid stop record ID", err)
		return
	}

	record, err := h.service.GetStopRecordByID(id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get stop record", err)
		return
	}
	if record == nil {
		response.Error(c, http.StatusNotFound, "Stop record not found", nil)
		return
	}

	response.Success(c, record)
}

// Ingest handles POST /api/v1/stop-records/ingest
func (h *StopRecordHandler) Ingest(c *gin.Context) {
	var req models.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid ingest request", err)
		return
	}

	result, err := h.service.Ingest(req)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Ingest failed", err)
		return
	}

	response.Success(c, result)
}
