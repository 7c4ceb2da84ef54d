package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
)

type searchRequest struct {
	View  string `json:"view"`
	Query string `json:"query"`
}

func (r *searchRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.View, validation.Required, validation.In(ViewTables, ViewTabs)),
	)
}

// Search handles POST /api/search. Each call is one keystroke: the value is echoed back at once and
// committed to the view's filter only after the debounce window passes without another keystroke.
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if err := req.Validate(); err != nil {
		invalid(c, err)
		return
	}

	d := h.searches[req.View]
	d.Input(req.Query)
	c.JSON(http.StatusAccepted, gin.H{
		"view":    req.View,
		"query":   d.Latest(),
		"pending": d.Pending(),
	})
}
