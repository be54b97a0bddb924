package dto

import (
	"time"

	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/services"
)

// TodoDTO represents a todo in API responses
type TodoDTO struct {
	ID             uint64              `json:"id"`
	Content        string              `json:"content"`
	Done           bool                `json:"done"`
	Priority       models.TodoPriority `json:"priority"`
	OrganizationID uint64              `json:"organization_id"`
	UserID         string              `json:"user_id"`
	AssignedTo     string              `json:"assigned_to,omitempty"`
	DueDate        *time.Time          `json:"due_date"`
	Tags           []string            `json:"tags"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// TodoListResponse represents a paginated list of todos
type TodoListResponse struct {
	Todos      []TodoDTO `json:"todos"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// SuggestedTodoDTO represents an AI-extracted todo candidate
type SuggestedTodoDTO struct {
	Content  string     `json:"content"`
	Priority string     `json:"priority"`
	DueDate  *time.Time `json:"due_date"`
	Tags     []string   `json:"tags"`
}

// ToTodoDTO converts a Todo model to TodoDTO
func ToTodoDTO(todo models.Todo) TodoDTO {
	return TodoDTO{
		ID:             todo.ID,
		Content:        todo.Content,
		Done:           todo.Done,
		Priority:       todo.Priority,
		OrganizationID: todo.OrganizationID,
		UserID:         todo.UserID,
		AssignedTo:     todo.AssignedTo,
		DueDate:        todo.DueDate,
		Tags:           services.DecodeTags(todo.Tags),
		CreatedAt:      todo.CreatedAt,
		UpdatedAt:      todo.UpdatedAt,
	}
}

// ToTodoListResponse converts a slice of todos to TodoListResponse
func ToTodoListResponse(todos []models.Todo, page, pageSize int, totalCount int64) TodoListResponse {
	items := make([]TodoDTO, len(todos))
	for i, todo := range todos {
		items[i] = ToTodoDTO(todo)
	}

	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return TodoListResponse{
		Todos:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}

// ToSuggestedTodoDTOs converts AI suggestions to DTOs
func ToSuggestedTodoDTOs(suggestions []services.SuggestedTodo) []SuggestedTodoDTO {
	dtos := make([]SuggestedTodoDTO, len(suggestions))
	for i, s := range suggestions {
		dtos[i] = SuggestedTodoDTO{
			Content:  s.Content,
			Priority: s.Priority,
			DueDate:  s.DueDate,
			Tags:     s.Tags,
		}
	}
	return dtos
}
