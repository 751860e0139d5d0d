package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Look up a SKU
// @Description  status is found, not_registered or catalog_empty
// @Tags         skus
// @Produce      json
// @Param        code  path      string  true  "Product code"
// @Success      200   {object}  service.SkuLookup
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/skus/{code} [get]
// @Security     BearerAuth
func (h *Handler) getSku(c *gin.Context) {
	code := c.Param("code")
	res, err := h.services.Lookup.Sku(c.Request.Context(), code)
	if err != nil {
		h.respondServiceError(c, "failed to look up sku", "sku_lookup_failed", err, "code", code)
		return
	}
	c.JSON(http.StatusOK, res)
}
