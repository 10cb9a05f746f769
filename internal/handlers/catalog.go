package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffrepaul/sentry-academy-backend/internal/catalog"
	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
)

type CatalogHandler struct {
	log *logger.Logger
	cat *catalog.Catalog
}

func NewCatalogHandler(log *logger.Logger, cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{
		log: log.With("handler", "CatalogHandler"),
		cat: cat,
	}
}

// GET /api/roles
func (h *CatalogHandler) ListRoles(c *gin.Context) {
	RespondOK(c, gin.H{"roles": h.cat.Roles()})
}

// GET /api/roles/:id
func (h *CatalogHandler) GetRole(c *gin.Context) {
	role, ok := h.cat.Role(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "role_not_found", errors.New("unknown role"))
		return
	}
	RespondOK(c, gin.H{"role": role})
}

// GET /api/roles/:id/path
func (h *CatalogHandler) GetLearningPath(c *gin.Context) {
	path, ok := h.cat.PathForRole(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "path_not_found", errors.New("no learning path for role"))
		return
	}
	RespondOK(c, gin.H{"path": path})
}
