package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/dto"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/middleware"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/response"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/services"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/utils"
)

// TodoHandler coordinates todo HTTP handlers.
type TodoHandler struct {
	todoService *services.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
	}
}

// Create creates a todo in an organization the principal belongs to.
func (h *TodoHandler) Create(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return
	}

	type CreateRequest struct {
		Content        string     `json:"content" binding:"required"`
		Priority       string     `json:"priority"`
		OrganizationID uint64     `json:"organization_id" binding:"required"`
		AssignedTo     string     `json:"assigned_to"`
		DueDate        *time.Time `json:"due_date"`
		Tags           []string   `json:"tags"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	todo, err := h.todoService.CreateTodo(principal, services.CreateTodoInput{
		Content:        req.Content,
		Priority:       models.TodoPriority(req.Priority),
		OrganizationID: req.OrganizationID,
		AssignedTo:     req.AssignedTo,
		DueDate:        req.DueDate,
		Tags:           req.Tags,
	})
	if err != nil {
		respondTodoError(c, err)
		return
	}

	response.Created(c, dto.ToTodoDTO(*todo))
}

// List returns the principal's todos, filtered and paginated.
func (h *TodoHandler) List(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTodosInput{
		Page:         params.Page,
		PageSize:     params.Limit,
		AssignedToMe: c.Query("assigned_to_me") == "true",
	}

	if raw := c.Query("organization_id"); raw != "" {
		orgID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.BadRequest(c, "Invalid organization ID")
			return
		}
		input.OrganizationID = &orgID
	}
	if raw := c.Query("done"); raw != "" {
		done := raw == "true"
		input.Done = &done
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.TodoPriority(raw)
		input.Priority = &priority
	}

	todos, total, err := h.todoService.ListTodos(principal, input)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	response.OK(c, dto.ToTodoListResponse(todos, params.Page, params.Limit, total))
}

// Get returns a single todo owned by the principal.
func (h *TodoHandler) Get(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return
	}

	todoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid todo ID")
		return
	}

	todo, err := h.todoService.GetTodo(principal, todoID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	response.OK(c, dto.ToTodoDTO(*todo))
}

// Update applies a partial update to a todo owned by the principal.
func (h *TodoHandler) Update(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return
	}

	todoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid todo ID")
		return
	}

	type UpdateRequest struct {
		Content      *string    `json:"content"`
		Done         *bool      `json:"done"`
		Priority     *string    `json:"priority"`
		AssignedTo   *string    `json:"assigned_to"`
		DueDate      *time.Time `json:"due_date"`
		ClearDueDate bool       `json:"clear_due_date"`
		Tags         []string   `json:"tags"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTodoInput{
		Content:      req.Content,
		Done:         req.Done,
		AssignedTo:   req.AssignedTo,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		Tags:         req.Tags,
	}
	if req.Priority != nil {
		priority := models.TodoPriority(*req.Priority)
		input.Priority = &priority
	}

	todo, err := h.todoService.UpdateTodo(principal, todoID, input)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	response.OK(c, dto.ToTodoDTO(*todo))
}

// Delete soft deletes a todo owned by the principal.
func (h *TodoHandler) Delete(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return
	}

	todoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid todo ID")
		return
	}

	if err := h.todoService.DeleteTodo(principal, todoID); err != nil {
		respondTodoError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Todo deleted successfully"})
}

// Suggest extracts todo candidates from free text with the AI service.
func (h *TodoHandler) Suggest(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return
	}

	type SuggestRequest struct {
		OrganizationID uint64 `json:"organization_id" binding:"required"`
		Text           string `json:"text" binding:"required"`
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	suggestions, err := h.todoService.SuggestTodos(c.Request.Context(), principal, req.OrganizationID, req.Text)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	response.OK(c, dto.ToSuggestedTodoDTOs(suggestions))
}

func respondTodoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTodoContentRequired):
		response.BadRequest(c, "Content is required")
	case errors.Is(err, services.ErrInvalidTodoPriority):
		response.BadRequest(c, "Priority must be low, medium or high")
	case errors.Is(err, services.ErrTodoNotFound):
		response.NotFound(c, "Todo not found")
	case errors.Is(err, services.ErrTodoPermissionDenied), errors.Is(err, services.ErrNotOrganizationMember):
		response.Forbidden(c, "Not allowed")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		response.ServiceUnavailable(c, "AI suggestions are not configured")
	case errors.Is(err, services.ErrAINoTodosSuggested):
		response.OK(c, []dto.SuggestedTodoDTO{})
	default:
		response.InternalError(c, "Todo operation failed")
	}
}
