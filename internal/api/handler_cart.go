package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"

	"comanda-dashboard-backend/internal/cart"
)

// Cart actions.
const (
	cartAdd       = "add"
	cartIncrement = "increment"
	cartDecrement = "decrement"
	cartRemove    = "remove"
	cartClear     = "clear"
)

type cartResponse struct {
	Tab      string      `json:"tab"`
	Lines    []cart.Line `json:"lines"`
	Subtotal float64     `json:"subtotal"`
}

func newCartResponse(key string, c *cart.Cart) cartResponse {
	return cartResponse{Tab: key, Lines: c.Lines(), Subtotal: c.Subtotal()}
}

// GetMenu handles GET /api/menu?category=&q=.
func (h *Handler) GetMenu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": append([]string{cart.BestSellers}, h.catalog.Categories()...),
		"items":      h.catalog.Search(c.Query("category"), c.Query("q")),
	})
}

// tabCart resolves the cart of an existing tab. It answers 404 itself when the tab is unknown.
func (h *Handler) tabCart(c *gin.Context) (string, *cart.Cart, bool) {
	key := c.Param("key")
	if _, ok := h.root.Tabs.Get(key); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "tab not found"})
		return key, nil, false
	}
	return key, h.carts.For(key), true
}

// GetCart handles GET /api/tabs/:key/cart.
func (h *Handler) GetCart(c *gin.Context) {
	key, ct, ok := h.tabCart(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newCartResponse(key, ct))
}

type cartRequest struct {
	Action string `json:"action"`
	ItemID string `json:"itemId"`
}

func (r *cartRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Action, validation.Required, validation.In(cartAdd, cartIncrement, cartDecrement, cartRemove, cartClear)),
		validation.Field(&r.ItemID, validation.By(func(value interface{}) error {
			if id, _ := value.(string); id == "" && r.Action != cartClear {
				return errors.New("cannot be blank")
			}
			return nil
		})),
	)
}

// PostCart handles POST /api/tabs/:key/cart: one reducer action on the tab's cart.
func (h *Handler) PostCart(c *gin.Context) {
	key, ct, ok := h.tabCart(c)
	if !ok {
		return
	}
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if err := req.Validate(); err != nil {
		invalid(c, err)
		return
	}

	var err error
	switch req.Action {
	case cartAdd:
		item, found := h.catalog.Get(req.ItemID)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		ct.Add(item)
	case cartIncrement:
		err = ct.Increment(req.ItemID)
	case cartDecrement:
		err = ct.Decrement(req.ItemID)
	case cartRemove:
		err = ct.Remove(req.ItemID)
	case cartClear:
		ct.Clear()
	}
	if err != nil {
		h.fail(c, "update cart", err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(key, ct))
}

type checkoutRequest struct {
	PaymentMethod string  `json:"paymentMethod"`
	Tendered      float64 `json:"tendered"`
}

func (r *checkoutRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PaymentMethod, validation.Required, validation.By(func(value interface{}) error {
			s, _ := value.(string)
			if !cart.PaymentMethod(s).Valid() {
				return errors.New("unknown payment method")
			}
			return nil
		})),
		validation.Field(&r.Tendered, validation.Min(0.0)),
	)
}

// Checkout handles POST /api/tabs/:key/checkout: the cart subtotal is added to the tab total.
func (h *Handler) Checkout(c *gin.Context) {
	key, ct, ok := h.tabCart(c)
	if !ok {
		return
	}
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if err := req.Validate(); err != nil {
		invalid(c, err)
		return
	}

	receipt, err := cart.Checkout(c.Request.Context(), h.root.Tabs, key, ct, cart.PaymentMethod(req.PaymentMethod), req.Tendered)
	if err != nil {
		h.fail(c, "post order to tab", err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}
