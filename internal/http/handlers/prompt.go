package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/promptsheet-backend/internal/http/response"
	"github.com/yungbote/promptsheet-backend/internal/services"
)

type PromptHandler struct {
	prompts services.PromptService
}

func NewPromptHandler(prompts services.PromptService) *PromptHandler {
	return &PromptHandler{prompts: prompts}
}

// POST /api/prompts
func (h *PromptHandler) SavePrompt(c *gin.Context) {
	var in services.SavePromptInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p, err := h.prompts.Save(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err, "save_prompt_failed")
		return
	}
	response.RespondOK(c, gin.H{"prompt": p})
}

// GET /api/prompts
func (h *PromptHandler) ListPrompts(c *gin.Context) {
	list, err := h.prompts.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err, "list_prompts_failed")
		return
	}
	response.RespondOK(c, gin.H{"prompts": list})
}

// DELETE /api/prompts/:id
func (h *PromptHandler) DeletePrompt(c *gin.Context) {
	if err := h.prompts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondServiceError(c, err, "delete_prompt_failed")
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
