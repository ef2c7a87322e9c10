package handler

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artikelin/api/internal/model"
	"github.com/artikelin/api/internal/service"
	ws "github.com/artikelin/api/internal/websocket"
	"github.com/artikelin/api/pkg/response"
)

type JobHandler struct {
	service   *service.JobService
	hub       *ws.Hub
	validator *validator.Validate
}

func NewJobHandler(svc *service.JobService, hub *ws.Hub, v *validator.Validate) *JobHandler {
	return &JobHandler{
		service:   svc,
		hub:       hub,
		validator: v,
	}
}

// Create handles POST /api/jobs
func (h *JobHandler) Create(c *fiber.Ctx) error {
	var req model.CreateJobRequest
	if berr := bindJSON(c, h.validator, &req); berr != nil {
		return berr.write(c)
	}

	job, err := h.service.CreateJob(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}

	return response.OK(c, job)
}

// List handles GET /api/jobs
func (h *JobHandler) List(c *fiber.Ctx) error {
	jobs, err := h.service.ListActiveJobs(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, jobs)
}

// Get handles GET /api/jobs/:jobId
func (h *JobHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return response.ValidationError(c, "Invalid job ID", nil)
	}

	job, err := h.service.GetJob(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, job)
}

// Cancel handles POST /api/jobs/:jobId/cancel and DELETE /api/jobs/:jobId
func (h *JobHandler) Cancel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return response.ValidationError(c, "Invalid job ID", nil)
	}

	result, err := h.service.CancelJob(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, result)
}

// Upgrade guards GET /ws/jobs/:jobId. The job is looked up before the
// upgrade so unknown ids get a normal HTTP error.
func (h *JobHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	id, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return response.ValidationError(c, "Invalid job ID", nil)
	}

	job, err := h.service.GetJob(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}

	c.Locals("job", job)
	return c.Next()
}

// Stream serves job updates over the upgraded connection
func (h *JobHandler) Stream(c *websocket.Conn) {
	job, ok := c.Locals("job").(*model.JobResponse)
	if !ok {
		return
	}

	var initial interface{} = model.WSStatusMessage{
		Type:    model.WSMessageTypeStatus,
		JobID:   job.ID,
		JobType: job.JobType,
		Status:  job.Status,
	}
	if job.Status == model.JobStatusCompleted {
		initial = model.WSCompleteMessage{
			Type:    model.WSMessageTypeComplete,
			JobID:   job.ID,
			Status:  job.Status,
			Article: job.Article,
		}
	}

	data, _ := json.Marshal(initial)
	h.hub.HandleConnection(c, job.ID, data)
}
