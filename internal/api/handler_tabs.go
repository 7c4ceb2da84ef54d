package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"

	"comanda-dashboard-backend/internal/model"
)

type tabsResponse struct {
	Tabs       []model.Tab     `json:"tabs"`
	TotalCount int             `json:"totalCount"`
	Filter     model.TabView   `json:"filter"`
	Lifecycle  model.Lifecycle `json:"lifecycle"`
	Legacy     bool            `json:"legacy,omitempty"`
}

func (h *Handler) tabsView() tabsResponse {
	return tabsResponse{
		Tabs:       h.root.FilteredTabs(),
		TotalCount: h.root.Tabs.TotalCount(),
		Filter:     h.root.Tabs.View(),
		Lifecycle:  h.root.Tabs.Lifecycle(),
		Legacy:     h.root.Tabs.Legacy(),
	}
}

// ListTabs handles GET /api/tabs: the filtered tab view and the server-reported total.
func (h *Handler) ListTabs(c *gin.Context) {
	c.Header("X-Total-Count", strconv.Itoa(h.root.Tabs.TotalCount()))
	c.JSON(http.StatusOK, h.tabsView())
}

// RefreshTabs handles POST /api/tabs/refresh.
func (h *Handler) RefreshTabs(c *gin.Context) {
	h.root.Tabs.FetchAll(c.Request.Context())
	c.JSON(http.StatusOK, h.tabsView())
}

type patchTabRequest struct {
	TotalValue    *float64 `json:"totalValue"`
	CustomerName  *string  `json:"customerName"`
	Phone         *string  `json:"phone"`
	CustomerCount *int     `json:"customerCount"`
}

func (r *patchTabRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TotalValue, validation.Min(0.0)),
		validation.Field(&r.CustomerCount, validation.Min(1)),
	)
}

// PatchTab handles PATCH /api/tabs/:key. The key is the tab's display id.
func (h *Handler) PatchTab(c *gin.Context) {
	var req patchTabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if err := req.Validate(); err != nil {
		invalid(c, err)
		return
	}

	tab, err := h.root.Tabs.UpdateOne(c.Request.Context(), c.Param("key"), model.TabPatch{
		TotalValue:    req.TotalValue,
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		CustomerCount: req.CustomerCount,
	})
	if err != nil {
		h.fail(c, "update tab", err)
		return
	}
	c.JSON(http.StatusOK, tab)
}

// PutTabFilters handles PUT /api/tabs/filters. Area and attendant are shared with the tables view.
func (h *Handler) PutTabFilters(c *gin.Context) {
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
		if err := h.root.Tabs.SetStatusFilter(*req.Status); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "field": "status"})
			return
		}
	}
	h.applyShared(req)
	if req.ExtendedState != nil {
		h.root.Tabs.SetExtendedStateFilter(model.ExtendedState(*req.ExtendedState))
	}
	if req.Query != nil {
		h.root.Tabs.SetQuery(*req.Query)
	}
	c.JSON(http.StatusOK, h.tabsView())
}
