package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/brandsync/brandsync/internal/domain/task"
	"github.com/brandsync/brandsync/internal/domain/views"
	"github.com/brandsync/brandsync/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TaskController handles campaign task HTTP requests.
type TaskController struct {
	taskService *service.TaskService
}

// NewTaskController creates a new TaskController.
func NewTaskController(taskService *service.TaskService) *TaskController {
	return &TaskController{taskService: taskService}
}

// targetInputs converts payloads to service inputs, resolving the view-count
// shorthand. Malformed counts coerce to zero with a warning; the calculator
// yields a zero row and task creation rejects the target downstream.
func targetInputs(payloads []TargetPayload) []service.TargetInput {
	out := make([]service.TargetInput, 0, len(payloads))
	for _, p := range payloads {
		n, err := views.Parse(p.TargetViews)
		if err != nil {
			log.Warn().Str("target_views", p.TargetViews).Msg("malformed view count, coercing to zero")
			n = 0
		}
		out = append(out, service.TargetInput{
			Platform:       p.Platform,
			TargetViews:    n,
			DeadlineOption: p.DeadlineOption,
		})
	}
	return out
}

// Create handles POST /api/v1/tasks
func (h *TaskController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ownerID, err := actorID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	t, err := h.taskService.CreateTask(r.Context(), service.CreateTaskRequest{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Targets:     targetInputs(req.Targets),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, FromTask(t))
}

// Get handles GET /api/v1/tasks/{id}
func (h *TaskController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid task id", Code: "invalid_id"})
		return
	}

	t, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromTask(t))
}

// List handles GET /api/v1/tasks
func (h *TaskController) List(w http.ResponseWriter, r *http.Request) {
	filter := task.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := task.Status(s)
		filter.Status = &status
	}
	if s := r.URL.Query().Get("owner_id"); s != "" {
		id, err := uuid.Parse(s)
		if err == nil {
			filter.OwnerID = &id
		}
	}
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	filter.SortBy = r.URL.Query().Get("sort_by")
	filter.SortOrder = r.URL.Query().Get("sort_order")

	tasks, err := h.taskService.ListTasks(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, FromTask(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Publish handles POST /api/v1/tasks/{id}/publish
func (h *TaskController) Publish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.taskService.PublishTask)
}

// Cancel handles POST /api/v1/tasks/{id}/cancel
func (h *TaskController) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.taskService.CancelTask)
}

// Estimate handles POST /api/v1/estimates. Public: the pricing calculator
// runs before signup.
func (h *TaskController) Estimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateCostRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	b, err := h.taskService.Estimate(r.Context(), service.EstimateRequest{
		Targets:    targetInputs(req.Targets),
		IncludeFee: req.Audience != "influencer",
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, EstimateResponse{
		Base:  b.Base.StringFixed(2),
		Fee:   b.Fee.StringFixed(2),
		Total: b.Total.StringFixed(2),
	})
}

func (h *TaskController) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, actorID, taskID uuid.UUID) (*task.Task, error),
) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid task id", Code: "invalid_id"})
		return
	}

	actor, err := actorID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	t, err := fn(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromTask(t))
}
