package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/yamakawa-dev/multitenant-todo-api/internal/identity"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTodoNotFound           = errors.New("todo not found")
	ErrTodoContentRequired    = errors.New("content is required")
	ErrTodoPermissionDenied   = errors.New("only the todo owner can perform this action")
	ErrInvalidTodoPriority    = errors.New("priority must be low, medium or high")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTodosSuggested     = errors.New("AI did not suggest any todos")
)

// TodoService handles organization-scoped todo business logic. Todos are
// owner-scoped: only the creator reads or mutates them, and creating one
// requires an active membership in the target organization.
type TodoService struct {
	todoRepo       repository.TodoRepository
	membershipRepo repository.MembershipRepository
	aiService      *AIService
}

// NewTodoService creates a new TodoService.
func NewTodoService(todoRepo repository.TodoRepository, membershipRepo repository.MembershipRepository, aiService *AIService) *TodoService {
	return &TodoService{
		todoRepo:       todoRepo,
		membershipRepo: membershipRepo,
		aiService:      aiService,
	}
}

// CreateTodoInput represents input for creating a todo.
type CreateTodoInput struct {
	Content        string
	Priority       models.TodoPriority
	OrganizationID uint64
	AssignedTo     string
	DueDate        *time.Time
	Tags           []string
}

// ListTodosInput represents filters for listing todos.
type ListTodosInput struct {
	OrganizationID *uint64
	Done           *bool
	Priority       *models.TodoPriority
	AssignedToMe   bool
	Page           int
	PageSize       int
}

// UpdateTodoInput represents input for updating a todo.
type UpdateTodoInput struct {
	Content      *string
	Done         *bool
	Priority     *models.TodoPriority
	AssignedTo   *string
	DueDate      *time.Time
	ClearDueDate bool
	Tags         []string
}

func validPriority(p models.TodoPriority) bool {
	switch p {
	case "", models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	}
	return false
}

// EncodeTags serializes a tag list for storage.
func EncodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return ""
	}
	return string(raw)
}

// DecodeTags parses a stored tag list.
func DecodeTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}

// CreateTodo creates a todo in an organization the principal belongs to.
func (s *TodoService) CreateTodo(principal identity.Principal, input CreateTodoInput) (*models.Todo, error) {
	if input.Content == "" {
		return nil, ErrTodoContentRequired
	}
	if !validPriority(input.Priority) {
		return nil, ErrInvalidTodoPriority
	}

	if err := s.ensureMembership(input.OrganizationID, principal.SubjectID); err != nil {
		return nil, err
	}

	todo := &models.Todo{
		Content:        input.Content,
		Priority:       input.Priority,
		OrganizationID: input.OrganizationID,
		UserID:         principal.SubjectID,
		AssignedTo:     input.AssignedTo,
		DueDate:        input.DueDate,
		Tags:           EncodeTags(input.Tags),
	}

	if err := s.todoRepo.Create(todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return todo, nil
}

// ListTodos returns the principal's todos with filters applied.
func (s *TodoService) ListTodos(principal identity.Principal, input ListTodosInput) ([]models.Todo, int64, error) {
	filter := repository.TodoFilter{
		SubjectID:      principal.SubjectID,
		OrganizationID: input.OrganizationID,
		Done:           input.Done,
		Priority:       input.Priority,
		Page:           input.Page,
		PageSize:       input.PageSize,
	}
	if input.AssignedToMe {
		subject := principal.SubjectID
		filter.AssignedTo = &subject
	}

	todos, total, err := s.todoRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, total, nil
}

// GetTodo returns one of the principal's todos.
func (s *TodoService) GetTodo(principal identity.Principal, todoID uint64) (*models.Todo, error) {
	todo, err := s.findOwned(principal, todoID)
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// UpdateTodo updates one of the principal's todos.
func (s *TodoService) UpdateTodo(principal identity.Principal, todoID uint64, input UpdateTodoInput) (*models.Todo, error) {
	todo, err := s.findOwned(principal, todoID)
	if err != nil {
		return nil, err
	}

	if input.Content != nil {
		if *input.Content == "" {
			return nil, ErrTodoContentRequired
		}
		todo.Content = *input.Content
	}
	if input.Done != nil {
		todo.Done = *input.Done
	}
	if input.Priority != nil {
		if !validPriority(*input.Priority) {
			return nil, ErrInvalidTodoPriority
		}
		todo.Priority = *input.Priority
	}
	if input.AssignedTo != nil {
		todo.AssignedTo = *input.AssignedTo
	}
	if input.ClearDueDate {
		todo.DueDate = nil
	} else if input.DueDate != nil {
		todo.DueDate = input.DueDate
	}
	if input.Tags != nil {
		todo.Tags = EncodeTags(input.Tags)
	}

	if err := s.todoRepo.Update(todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return todo, nil
}

// DeleteTodo deletes one of the principal's todos.
func (s *TodoService) DeleteTodo(principal identity.Principal, todoID uint64) error {
	if _, err := s.findOwned(principal, todoID); err != nil {
		return err
	}
	if err := s.todoRepo.Delete(todoID); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

// SuggestTodos asks the AI service to extract todos from free text for an
// organization the principal belongs to. Suggestions are not persisted.
func (s *TodoService) SuggestTodos(ctx context.Context, principal identity.Principal, organizationID uint64, text string) ([]SuggestedTodo, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	if err := s.ensureMembership(organizationID, principal.SubjectID); err != nil {
		return nil, err
	}

	suggestions, err := s.aiService.SuggestTodosFromText(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(suggestions) == 0 {
		return nil, ErrAINoTodosSuggested
	}
	return suggestions, nil
}

func (s *TodoService) findOwned(principal identity.Principal, todoID uint64) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(todoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	if todo.UserID != principal.SubjectID {
		return nil, ErrTodoPermissionDenied
	}
	return todo, nil
}

func (s *TodoService) ensureMembership(organizationID uint64, subjectID string) error {
	if _, err := s.membershipRepo.FindActive(organizationID, subjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotOrganizationMember
		}
		return fmt.Errorf("failed to verify membership: %w", err)
	}
	return nil
}
