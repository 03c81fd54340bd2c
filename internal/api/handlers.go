package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"runam-backend/internal/middleware"
	"runam-backend/internal/models"
	"runam-backend/internal/services"
	"runam-backend/internal/store"
	"runam-backend/internal/validation"

	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	tasks      *store.TaskStore
	arbiter    *services.Arbiter
	payment    *services.PaymentTrack
	completion *services.CompletionTrack
	dispute    *services.DisputeGate
	chatGate   *services.ChatGate
	matching   services.MatchingIndex
	jwtService *services.JWTService
	radiusKm   float64
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	tasks *store.TaskStore,
	arbiter *services.Arbiter,
	payment *services.PaymentTrack,
	completion *services.CompletionTrack,
	dispute *services.DisputeGate,
	chatGate *services.ChatGate,
	matching services.MatchingIndex,
	jwtService *services.JWTService,
	radiusKm float64,
) *Handlers {
	return &Handlers{
		tasks:      tasks,
		arbiter:    arbiter,
		payment:    payment,
		completion: completion,
		dispute:    dispute,
		chatGate:   chatGate,
		matching:   matching,
		jwtService: jwtService,
		radiusKm:   radiusKm,
	}
}

// respondError maps a typed core error to its HTTP status. Every error keeps
// its kind so the client can react to the code instead of parsing text.
func respondError(c *gin.Context, err error) {
	var typed *models.Error
	if !errors.As(err, &typed) {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "message": err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch typed.Kind {
	case models.ErrNotFound:
		status = http.StatusNotFound
	case models.ErrAlreadyTaken, models.ErrConflict, models.ErrInvalidTransition, models.ErrTaskClosed:
		status = http.StatusConflict
	case models.ErrForbidden:
		status = http.StatusForbidden
	case models.ErrUnderReview:
		status = http.StatusLocked
	case models.ErrBusy:
		status = http.StatusServiceUnavailable
	case models.ErrValidation:
		status = http.StatusBadRequest
	}

	body := gin.H{"code": string(typed.Kind), "message": typed.Message}
	if typed.CurrentState != "" {
		body["currentState"] = typed.CurrentState
	}
	c.JSON(status, body)
}

// DevTokenHandler handles POST /api/auth/token
// Mints a development JWT. The production OTP login flow lives in a separate
// auth service and issues tokens with the same claims.
func (h *Handlers) DevTokenHandler(c *gin.Context) {
	var req models.DevTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "message": err.Error()})
		return
	}

	token, err := h.jwtService.GenerateToken(req.UserID, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "message": "failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// CreateTaskHandler handles POST /api/tasks
func (h *Handlers) CreateTaskHandler(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "message": "failed to read request body"})
		return
	}
	if err := validation.ValidateCreateTask(body); err != nil {
		respondError(c, err)
		return
	}

	var req models.CreateTaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "message": err.Error()})
		return
	}

	task := h.tasks.Create(middleware.GetUserID(c), req)
	c.JSON(http.StatusCreated, task)
}

// NearbyTasksHandler handles GET /api/tasks/nearby
// The caller's location comes as query parameters; without one there is no
// feed, which the client surfaces as its location prompt.
func (h *Handlers) NearbyTasksHandler(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "NO_LOCATION", "message": "lat and lng query parameters are required"})
		return
	}

	radiusKm := h.radiusKm
	if v := c.Query("radiusKm"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "message": "radiusKm must be a positive number"})
			return
		}
		radiusKm = parsed
	}

	tasks := h.matching.Nearby(lat, lng, radiusKm)
	if tasks == nil {
		tasks = []models.NearbyTask{}
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTaskHandler handles GET /api/tasks/:taskId
func (h *Handlers) GetTaskHandler(c *gin.Context) {
	task, err := h.tasks.Get(c.Param("taskId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// TaskHistoryHandler handles GET /api/tasks/:taskId/history
// The audit trail is readable by participants; it is the record dispute
// review works from.
func (h *Handlers) TaskHistoryHandler(c *gin.Context) {
	taskID := c.Param("taskId")
	task, err := h.tasks.Get(taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !task.IsParticipant(middleware.GetUserID(c)) {
		respondError(c, models.NewError(models.ErrForbidden, "only task participants can view the history"))
		return
	}

	history, err := h.tasks.History(taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// AcceptTaskHandler handles POST /api/tasks/:taskId/accept
func (h *Handlers) AcceptTaskHandler(c *gin.Context) {
	task, err := h.arbiter.Accept(c.Param("taskId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Snapshot(task))
}

// MarkPaidHandler handles PUT /api/tasks/:taskId/payment/mark-paid
func (h *Handlers) MarkPaidHandler(c *gin.Context) {
	task, err := h.payment.MarkPaid(c.Param("taskId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Snapshot(task))
}

// ConfirmPaymentHandler handles PUT /api/tasks/:taskId/payment/confirm
func (h *Handlers) ConfirmPaymentHandler(c *gin.Context) {
	task, err := h.payment.ConfirmPayment(c.Param("taskId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Snapshot(task))
}

// DisputePaymentHandler handles PUT /api/tasks/:taskId/payment/dispute
func (h *Handlers) DisputePaymentHandler(c *gin.Context) {
	task, err := h.payment.DisputePayment(c.Param("taskId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Snapshot(task))
}

// MarkCompletedHandler handles PUT /api/tasks/:taskId/completion/mark-completed
func (h *Handlers) MarkCompletedHandler(c *gin.Context) {
	task, err := h.completion.MarkCompleted(c.Param("taskId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Snapshot(task))
}

// ConfirmCompletionHandler handles PUT /api/tasks/:taskId/completion/confirm
func (h *Handlers) ConfirmCompletionHandler(c *gin.Context) {
	task, err := h.completion.ConfirmCompletion(c.Param("taskId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Snapshot(task))
}

// DisputeCompletionHandler handles PUT /api/tasks/:taskId/completion/dispute
func (h *Handlers) DisputeCompletionHandler(c *gin.Context) {
	task, err := h.completion.DisputeCompletion(c.Param("taskId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Snapshot(task))
}

// FileReportHandler handles POST /api/reports
func (h *Handlers) FileReportHandler(c *gin.Context) {
	var req models.FileReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "message": err.Error()})
		return
	}

	report, err := h.dispute.FileReport(middleware.GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// ResolveTaskHandler handles PUT /api/admin/tasks/:taskId/resolve
func (h *Handlers) ResolveTaskHandler(c *gin.Context) {
	var req models.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "message": err.Error()})
		return
	}

	task, err := h.dispute.Resolve(c.Param("taskId"), middleware.GetUserID(c), req.Outcome)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Snapshot(task))
}
