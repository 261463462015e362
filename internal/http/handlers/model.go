package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/promptsheet-backend/internal/http/response"
	"github.com/yungbote/promptsheet-backend/internal/inference/config"
	"github.com/yungbote/promptsheet-backend/internal/inference/router"
)

type ModelHandler struct {
	router  *router.Router
	catalog *config.Config
}

func NewModelHandler(rt *router.Router, catalog *config.Config) *ModelHandler {
	return &ModelHandler{router: rt, catalog: catalog}
}

// GET /api/models
func (h *ModelHandler) ListModels(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"default_provider": h.router.DefaultProvider(),
		"providers":        h.router.ListModels(),
	})
}

// GET /api/config/missing-keys
func (h *ModelHandler) MissingKeys(c *gin.Context) {
	missing := []string{}
	if h.catalog != nil {
		missing = append(missing, h.catalog.MissingKeys()...)
	}
	response.RespondOK(c, gin.H{"missing": missing})
}
