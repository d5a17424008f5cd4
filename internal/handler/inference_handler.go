package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"labelscan/internal/domain"
	"labelscan/internal/inference"
	"labelscan/internal/service"
)

// InferenceHandler handles free-form questions to the text model.
type InferenceHandler struct {
	inference service.InferenceService
}

// NewInferenceHandler creates a new InferenceHandler.
func NewInferenceHandler(inferenceSvc service.InferenceService) *InferenceHandler {
	return &InferenceHandler{inference: inferenceSvc}
}

// AskRequest is the body of POST /api/v1/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse carries the model's answer verbatim.
type AskResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Ask handles POST /api/v1/ask
func (h *InferenceHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		HandleError(c, domain.ErrEmptyQuestion)
		return
	}

	answer, err := h.inference.AskText(c.Request.Context(), req.Question)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, AskResponse{Question: req.Question, Answer: answer})
}

// Prompt handles GET /api/v1/prompt
func (h *InferenceHandler) Prompt(c *gin.Context) {
	RespondOK(c, gin.H{"prompt": inference.DefaultPrompt})
}
