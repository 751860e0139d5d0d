package handlers

import (
	"net/http"

	"coldspec/internal/models"
	"coldspec/internal/service"

	"github.com/gin-gonic/gin"
)

// NCRequest is the payload of a non-conformance report.
type NCRequest struct {
	SkuCode string `json:"sku_code" example:"A1"`
	// Allowed: A, B, C, R, M
	Warehouse string `json:"warehouse" example:"B"`
	Aisle     string `json:"aisle,omitempty" example:"12"`
	// Allowed: Top, Middle, Base
	RackPosition string         `json:"rack_position" example:"Top"`
	Defects      models.Defects `json:"defects"`
	Notes        string         `json:"notes"`
}

// NCTableResponse is the stored NC table. Null cells are JSON null.
type NCTableResponse struct {
	Columns []string             `json:"columns"`
	Rows    []map[string]*string `json:"rows"`
	Skipped int                  `json:"skipped"`
}

// @Summary      Report a non-conformance
// @Description  The SKU description is taken from the catalog; unknown codes are stored as "SKU não cadastrado".
// @Tags         nc
// @Accept       json
// @Produce      json
// @Param        body  body      NCRequest  true  "Report"
// @Success      201   {object}  models.NCReport
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      423   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/nc [post]
// @Security     BearerAuth
func (h *Handler) createNC(c *gin.Context) {
	var req NCRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	sess := currentSession(c)

	report, err := h.services.Report(c.Request.Context(), sess, service.NCInput{
		SkuCode:      req.SkuCode,
		Warehouse:    req.Warehouse,
		Aisle:        req.Aisle,
		RackPosition: req.RackPosition,
		Defects:      req.Defects,
		Notes:        req.Notes,
	})
	if err != nil {
		h.respondServiceError(c, "failed to record nc", "nc_append_failed", err, "badge_id", sess.BadgeID, "sku", req.SkuCode)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// @Summary      List non-conformance reports
// @Tags         nc
// @Produce      json
// @Success      200  {object}  NCTableResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/nc [get]
// @Security     BearerAuth
func (h *Handler) listNC(c *gin.Context) {
	tbl, err := h.services.Table(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "failed to load nc reports", "nc_list_failed", err)
		return
	}

	resp := NCTableResponse{
		Columns: tbl.Columns,
		Rows:    make([]map[string]*string, 0, len(tbl.Rows)),
		Skipped: tbl.Skipped,
	}
	if resp.Columns == nil {
		resp.Columns = []string{}
	}
	for _, rec := range tbl.Rows {
		row := make(map[string]*string, len(tbl.Columns))
		for _, col := range tbl.Columns {
			if v, ok := rec.Get(col); ok {
				v := v
				row[col] = &v
			} else {
				row[col] = nil
			}
		}
		resp.Rows = append(resp.Rows, row)
	}
	c.JSON(http.StatusOK, resp)
}
