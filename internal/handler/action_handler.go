package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"senstosales/internal/command"
	"senstosales/internal/domain"
	"senstosales/internal/middleware"
)

// maxActionPayload bounds the body an assistant can submit.
const maxActionPayload = 1 << 20

// ActionHandler exposes the command dispatcher to the conversational assistant.
type ActionHandler struct {
	dispatcher *command.Dispatcher
}

// NewActionHandler creates a new ActionHandler.
func NewActionHandler(dispatcher *command.Dispatcher) *ActionHandler {
	return &ActionHandler{dispatcher: dispatcher}
}

// Verify handles POST /api/v1/actions/:action/verify
// @Summary Check a proposed action without writing
// @Tags actions
// @Accept json
// @Produce json
// @Param action path string true "create_dc, create_invoice, query_remaining or query_pending_deliveries"
// @Success 200 {object} Response{data=command.Verification} "Verification"
// @Failure 400 {object} ErrorResponseBody "Malformed payload"
// @Failure 403 {object} ErrorResponseBody "Action not permitted"
// @Security BearerAuth
// @Router /actions/{action}/verify [post]
func (h *ActionHandler) Verify(c *gin.Context) {
	payload, ok := readPayload(c)
	if !ok {
		return
	}

	v, err := h.dispatcher.Verify(c.Request.Context(), middleware.GetOwnerID(c), c.Param("action"), payload)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, v)
}

// Confirm handles POST /api/v1/actions/:action/confirm
// @Summary Execute a confirmed action
// @Tags actions
// @Accept json
// @Produce json
// @Param action path string true "create_dc, create_invoice, query_remaining or query_pending_deliveries"
// @Success 200 {object} Response{data=command.Outcome} "Outcome"
// @Failure 400 {object} ErrorResponseBody "Malformed payload"
// @Failure 403 {object} ErrorResponseBody "Action not permitted"
// @Failure 409 {object} ErrorResponseBody "Conflict"
// @Failure 422 {object} ErrorResponseBody "Quantity exceeds remaining"
// @Security BearerAuth
// @Router /actions/{action}/confirm [post]
func (h *ActionHandler) Confirm(c *gin.Context) {
	payload, ok := readPayload(c)
	if !ok {
		return
	}

	out, err := h.dispatcher.Execute(c.Request.Context(), middleware.GetOwnerID(c), c.Param("action"), payload)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, out)
}

func readPayload(c *gin.Context) (json.RawMessage, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxActionPayload))
	if err != nil {
		HandleError(c, domain.InvalidInput("reading payload: %v", err))
		return nil, false
	}
	return body, true
}
