package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"comanda-dashboard-backend/internal/workflow"
)

type createWorkflowRequest struct {
	PreselectedTable string `json:"preselectedTable"`
}

type workflowResponse struct {
	ID string `json:"id"`
	workflow.Snapshot
}

// session loads a workflow and renews its expiry. It answers 404 itself when the id is unknown.
func (h *Handler) session(c *gin.Context) (string, *workflow.Workflow, bool) {
	id := c.Param("id")
	v, ok := h.workflows.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "workflow not found"})
		return id, nil, false
	}
	h.workflows.Set(id, v, cache.DefaultExpiration)
	return id, v.(*workflow.Workflow), true
}

// CreateWorkflow handles POST /api/workflows. The body is optional.
func (h *Handler) CreateWorkflow(c *gin.Context) {
	var req createWorkflowRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
	}

	id := uuid.NewString()
	w := workflow.New(h.root.Tables, h.root.Tabs, req.PreselectedTable, h.logger.Named("workflow").With(zap.String("workflow_id", id)))
	h.workflows.Set(id, w, cache.DefaultExpiration)
	c.JSON(http.StatusCreated, workflowResponse{ID: id, Snapshot: w.Snapshot()})
}

// GetWorkflow handles GET /api/workflows/:id.
func (h *Handler) GetWorkflow(c *gin.Context) {
	id, w, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, workflowResponse{ID: id, Snapshot: w.Snapshot()})
}

// PutWorkflowCustomer handles PUT /api/workflows/:id/customer.
func (h *Handler) PutWorkflowCustomer(c *gin.Context) {
	id, w, ok := h.session(c)
	if !ok {
		return
	}
	var info workflow.CustomerInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		badRequest(c)
		return
	}
	if err := w.SubmitCustomer(info); err != nil {
		h.fail(c, "record customer", err)
		return
	}
	c.JSON(http.StatusOK, workflowResponse{ID: id, Snapshot: w.Snapshot()})
}

// PutWorkflowLocation handles PUT /api/workflows/:id/location.
func (h *Handler) PutWorkflowLocation(c *gin.Context) {
	id, w, ok := h.session(c)
	if !ok {
		return
	}
	var loc workflow.Location
	if err := c.ShouldBindJSON(&loc); err != nil {
		badRequest(c)
		return
	}
	if err := w.SelectLocation(loc); err != nil {
		h.fail(c, "select table", err)
		return
	}
	c.JSON(http.StatusOK, workflowResponse{ID: id, Snapshot: w.Snapshot()})
}

// SubmitWorkflow handles POST /api/workflows/:id/submit.
func (h *Handler) SubmitWorkflow(c *gin.Context) {
	id, w, ok := h.session(c)
	if !ok {
		return
	}
	tab, err := w.Submit(c.Request.Context())
	if err != nil {
		h.fail(c, "create tab", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "tab": tab, "workflow": w.Snapshot()})
}

// CancelWorkflow handles DELETE /api/workflows/:id. The session is discarded.
func (h *Handler) CancelWorkflow(c *gin.Context) {
	id, w, ok := h.session(c)
	if !ok {
		return
	}
	w.Cancel()
	h.workflows.Delete(id)
	c.Status(http.StatusNoContent)
}
