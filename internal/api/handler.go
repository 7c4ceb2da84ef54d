// Package api serves the dashboard state tree to the presentation layer over HTTP/JSON.
package api

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"comanda-dashboard-backend/internal/cart"
	"comanda-dashboard-backend/internal/debounce"
	"comanda-dashboard-backend/internal/notification"
	"comanda-dashboard-backend/internal/state"
	"comanda-dashboard-backend/internal/workflow"
)

// Search views.
const (
	ViewTables = "tables"
	ViewTabs   = "tabs"
)

// Deps are the collaborators the handlers serve.
type Deps struct {
	Root          *state.Root
	Catalog       *cart.Catalog
	Carts         *cart.Registry
	Subscriptions *notification.Subscriptions
	WebPush       *webpush.Options
	SearchWindow  time.Duration
	SessionTTL    time.Duration
	Logger        *zap.Logger
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	root      *state.Root
	catalog   *cart.Catalog
	carts     *cart.Registry
	subs      *notification.Subscriptions
	webpush   *webpush.Options
	workflows *cache.Cache
	areas     *cache.Cache
	searches  map[string]*debounce.Debouncer
	logger    *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	ttl := d.SessionTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		root:      d.Root,
		catalog:   d.Catalog,
		carts:     d.Carts,
		subs:      d.Subscriptions,
		webpush:   d.WebPush,
		workflows: cache.New(ttl, 2*ttl),
		areas:     cache.New(5*time.Minute, 10*time.Minute),
		logger:    logger,
	}
	if d.Root != nil {
		h.searches = map[string]*debounce.Debouncer{
			ViewTables: debounce.New(d.SearchWindow, d.Root.Tables.SetQuery),
			ViewTabs:   debounce.New(d.SearchWindow, d.Root.Tabs.SetQuery),
		}
	}
	return h
}

// Close cancels pending search commits.
// FlushAreaCache drops cached /api/areas responses. main registers it as a poller refresh hook.
func (h *Handler) FlushAreaCache() {
	h.areas.Flush()
}

func (h *Handler) Close() {
	for _, d := range h.searches {
		d.Stop()
	}
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}

// invalid answers 422 with the first failing field of an ozzo error map.
func invalid(c *gin.Context, err error) {
	var errs validation.Errors
	if errors.As(err, &errs) {
		fields := make([]string, 0, len(errs))
		for field, fieldErr := range errs {
			if fieldErr != nil {
				fields = append(fields, field)
			}
		}
		sort.Strings(fields)
		if len(fields) > 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": errs[fields[0]].Error(), "field": fields[0]})
			return
		}
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
}

// fail maps a domain error to a response. Remote failures are reported as the action that did not
// complete, never as the protocol error.
func (h *Handler) fail(c *gin.Context, action string, err error) {
	var verr *workflow.ValidationError
	var rerr *workflow.RejectionError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.As(err, &rerr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": rerr.Message})
	case errors.Is(err, workflow.ErrWrongStep):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrEmptyCart), errors.Is(err, cart.ErrNotInCart):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Warn("request failed", zap.String("action", action), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not " + action})
	}
}
