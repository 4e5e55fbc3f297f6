package service

import (
	"github.com/hillview/occupancy-backend-go/internal/models"
	"github.com/hillview/occupancy-backend-go/internal/repository"
)

// TaskService handles business logic for analysis tasks
type TaskService struct {
	repo *repository.TaskRepository
}

// NewTaskService creates a new task service
func NewTaskService(repo *repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// GetTaskByID retrieves a single task by ID
func (s *TaskService) GetTaskByID(id int64) (*models.AnalysisTask, error) {
	return s.repo.GetTaskByID(id)
}

// ListTasks retrieves all tasks
func (s *TaskService) ListTasks() ([]models.AnalysisTask, error) {
	return s.repo.ListTasks()
}
