package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantrychef/backend/internal/logging"
	"github.com/pageza/pantrychef/backend/internal/service"
)

const maxSimilarLimit = 50

type RecipeHandler struct {
	catalog *service.CatalogService
	images  *service.ImageService
}

func NewRecipeHandler(catalog *service.CatalogService, images *service.ImageService) *RecipeHandler {
	return &RecipeHandler{catalog: catalog, images: images}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/:id/similar", h.Similar)
	}
}

// Similar lists the recipes whose tag vectors are closest to the given recipe.
func (h *RecipeHandler) Similar(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe ID"})
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		if limit > maxSimilarLimit {
			limit = maxSimilarLimit
		}
	}

	similar, err := h.catalog.SimilarRecipes(c.Request.Context(), uint(id), limit)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		logging.Ctx(c.Request.Context()).Error().Err(err).Uint64("recipe_id", id).Msg("failed to find similar recipes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to find similar recipes"})
		return
	}

	for i := range similar {
		similar[i].ImageURL = h.images.ResolveURL(c.Request.Context(), similar[i].ImageURL)
	}
	c.JSON(http.StatusOK, gin.H{"recipes": similar})
}
