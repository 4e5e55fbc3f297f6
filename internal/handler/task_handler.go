package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hillview/occupancy-backend-go/internal/service"
	"github.com/hillview/occupancy-backend-go/pkg/response"
)

// TaskHandler handles HTTP requests for analysis tasks
type TaskHandler struct {
	service *service.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(service *service.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// ListTasks handles GET /api/v1/tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.service.ListTasks()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}
	response.Success(c, tasks)
}

// GetTaskByID handles GET /api/v1/tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid task ID", err)
		return
	}

	task, err := h.service.GetTaskByID(id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get task", err)
		return
	}
	if task == nil {
		response.Error(c, http.StatusNotFound, "Task not found", nil)
		return
	}

	response.Success(c, task)
}
