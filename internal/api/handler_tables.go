package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"

	"comanda-dashboard-backend/internal/model"
)

type tablesResponse struct {
	Tables    []model.Table     `json:"tables"`
	Filter    model.TableFilter `json:"filter"`
	Lifecycle model.Lifecycle   `json:"lifecycle"`
}

func (h *Handler) tablesView() tablesResponse {
	return tablesResponse{
		Tables:    h.root.FilteredTables(),
		Filter:    h.root.Tables.Filter(),
		Lifecycle: h.root.Tables.Lifecycle(),
	}
}

// ListTables handles GET /api/tables: the filtered table view.
func (h *Handler) ListTables(c *gin.Context) {
	c.JSON(http.StatusOK, h.tablesView())
}

// GetTableOptions handles GET /api/tables/options.
func (h *Handler) GetTableOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.root.Options())
}

// GetAreas handles GET /api/areas.
func (h *Handler) GetAreas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"areas": h.root.Tables.Areas()})
}

// RefreshTables handles POST /api/tables/refresh. A failed fetch still answers 200: the failure is
// reported in the lifecycle and the collection is empty.
func (h *Handler) RefreshTables(c *gin.Context) {
	ctx := c.Request.Context()
	h.root.Tables.FetchAll(ctx)
	_ = h.root.Tables.FetchAreas(ctx)
	c.JSON(http.StatusOK, h.tablesView())
}

type patchTableRequest struct {
	Status      *string  `json:"status"`
	Attendant   *string  `json:"attendant"`
	IdleMinutes *int     `json:"idleMinutesSinceLastOrder"`
	TotalValue  *float64 `json:"totalValue"`
}

func (r *patchTableRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status, validation.By(func(value interface{}) error {
			s, _ := value.(*string)
			if s != nil && !model.TableStatus(*s).Valid() {
				return errors.New("must be available, occupied, reserved or inactive")
			}
			return nil
		})),
		validation.Field(&r.IdleMinutes, validation.Min(0)),
		validation.Field(&r.TotalValue, validation.Min(0.0)),
	)
}

// PatchTable handles PATCH /api/tables/:id.
func (h *Handler) PatchTable(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid table id"})
		return
	}
	var req patchTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if err := req.Validate(); err != nil {
		invalid(c, err)
		return
	}

	patch := model.TablePatch{
		Attendant:   req.Attendant,
		IdleMinutes: req.IdleMinutes,
		TotalValue:  req.TotalValue,
	}
	if req.Status != nil {
		status := model.TableStatus(*req.Status)
		patch.Status = &status
	}

	table, err := h.root.Tables.UpdateOne(c.Request.Context(), id, patch)
	if err != nil {
		h.fail(c, "update table", err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// filtersRequest carries the filter dimensions to change. Absent fields are left as they are.
type filtersRequest struct {
	Status        *string `json:"status"`
	Area          *string `json:"area"`
	Attendant     *string `json:"attendant"`
	ExtendedState *string `json:"extendedState"`
	Query         *string `json:"query"`
}

func (r *filtersRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ExtendedState, validation.By(func(value interface{}) error {
			s, _ := value.(*string)
			if s == nil {
				return nil
			}
			if _, err := model.ParseExtendedState(*s); err != nil {
				return errors.New("must be all, in-service, idle, no-order or available")
			}
			return nil
		})),
	)
}

// applyShared sets the dimensions both views share.
func (h *Handler) applyShared(req filtersRequest) {
	if req.Area != nil {
		h.root.SetAreaFilter(*req.Area)
	}
	if req.Attendant != nil {
		h.root.SetAttendantFilter(*req.Attendant)
	}
}

// PutTableFilters handles PUT /api/tables/filters.
func (h *Handler) PutTableFilters(c *gin.Context) {
	var req filtersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if err := req.Validate(); err != nil {
		invalid(c, err)
		return
	}
	if req.Status != nil {
		if err := h.root.Tables.SetStatusFilter(*req.Status); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "field": "status"})
			return
		}
	}
	h.applyShared(req)
	if req.ExtendedState != nil {
		h.root.Tables.SetExtendedStateFilter(model.ExtendedState(*req.ExtendedState))
	}
	if req.Query != nil {
		h.root.Tables.SetQuery(*req.Query)
	}
	c.JSON(http.StatusOK, h.tablesView())
}

// Health reports the lifecycle of both collections.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"tables": h.root.Tables.Lifecycle(),
		"tabs":   h.root.Tabs.Lifecycle(),
	})
}
