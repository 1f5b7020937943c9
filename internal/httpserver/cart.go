package httpserver

import (
	"io"
	"net/http"
	"strings"

	"boutique-storefront/internal/domain"
	"boutique-storefront/internal/service/cart"
	"github.com/gin-gonic/gin"
)

type qtyRequest struct {
	Qty int `json:"qty"`
}

type cartResponse struct {
	cart.Snapshot
	IsWholesale bool `json:"isWholesale"`
	WholesaleAt int  `json:"wholesaleAt"`
}

func (h *handlers) cartView(c *gin.Context, snap cart.Snapshot) cartResponse {
	threshold := h.deps.Settings.Get(c.Request.Context()).WholesaleAt
	return cartResponse{
		Snapshot:    snap,
		IsWholesale: threshold > 0 && snap.Count >= threshold,
		WholesaleAt: threshold,
	}
}

func (h *handlers) getCart(c *gin.Context) {
	s := currentSession(c)
	c.JSON(http.StatusOK, h.cartView(c, s.Cart.Snapshot()))
}

func (h *handlers) addItem(c *gin.Context) {
	var in domain.LineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	in.ProductID = strings.TrimSpace(in.ProductID)
	if in.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}
	if in.Qty < 1 {
		in.Qty = 1
	}
	s := currentSession(c)
	s.Cart.AddItem(c.Request.Context(), in)
	c.JSON(http.StatusOK, h.cartView(c, s.Cart.Snapshot()))
}

func (h *handlers) setQty(c *gin.Context) {
	var req qtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	s := currentSession(c)
	s.Cart.SetQty(c.Request.Context(), c.Param("key"), req.Qty)
	c.JSON(http.StatusOK, h.cartView(c, s.Cart.Snapshot()))
}

func (h *handlers) removeItem(c *gin.Context) {
	s := currentSession(c)
	s.Cart.RemoveItem(c.Request.Context(), c.Param("key"))
	c.JSON(http.StatusOK, h.cartView(c, s.Cart.Snapshot()))
}

func (h *handlers) clearCart(c *gin.Context) {
	s := currentSession(c)
	s.Cart.Clear(c.Request.Context())
	c.JSON(http.StatusOK, h.cartView(c, s.Cart.Snapshot()))
}

func (h *handlers) openCart(c *gin.Context) {
	s := currentSession(c)
	s.Cart.Open()
	c.JSON(http.StatusOK, h.cartView(c, s.Cart.Snapshot()))
}

func (h *handlers) closeCart(c *gin.Context) {
	s := currentSession(c)
	s.Cart.Close()
	c.JSON(http.StatusOK, h.cartView(c, s.Cart.Snapshot()))
}

// cartEvents streams a snapshot on connect and after every change until the
// client goes away. Slow readers only see the latest snapshot. The open
// subscription pins the session against idle eviction.
func (h *handlers) cartEvents(c *gin.Context) {
	s := currentSession(c)
	updates := make(chan cart.Snapshot, 1)
	push := func(snap cart.Snapshot) {
		select {
		case updates <- snap:
		default:
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- snap:
			default:
			}
		}
	}
	unsubscribe := s.Cart.Subscribe(push)
	defer unsubscribe()
	push(s.Cart.Snapshot())

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snap := <-updates:
			c.SSEvent("cart", h.cartView(c, snap))
			return true
		}
	})
}
