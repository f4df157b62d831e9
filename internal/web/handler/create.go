package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/memeboard/internal/backend"
	"github.com/timmy/memeboard/internal/domain"
	"github.com/timmy/memeboard/internal/generate"
)

// CreateHandler serves the meme creation flow: style listing, prompt
// submission, and generation status.
type CreateHandler struct {
	client *backend.Client
	poller *generate.Poller
}

// NewCreateHandler creates a new creation handler.
func NewCreateHandler(client *backend.Client, poller *generate.Poller) *CreateHandler {
	return &CreateHandler{
		client: client,
		poller: poller,
	}
}

// Styles handles GET /api/styles.
func (h *CreateHandler) Styles(c *gin.Context) {
	styles, err := h.client.Styles(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, styles)
}

// Generate handles POST /api/generate.
// Validates the prompt locally, submits the job, and starts the status
// poller. Rejects re-submission while a job is in flight.
func (h *CreateHandler) Generate(c *gin.Context) {
	var req domain.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid generate request: " + err.Error()})
		return
	}

	if fieldErrs := validatePrompt(req.Prompt); len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"fields": fieldErrs})
		return
	}

	if h.poller.Active() {
		c.JSON(http.StatusConflict, gin.H{
			"error": "a generation job is already in flight",
		})
		return
	}

	job, err := h.client.Generate(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.poller.Track(job); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, job)
}

// Status handles GET /api/generate/status.
// Returns the poller's view of the current job; the form polls this to
// render progress and the final image.
func (h *CreateHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.poller.Snapshot())
}
