package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"boutique-storefront/internal/service/order"
	"boutique-storefront/internal/session"
	"boutique-storefront/internal/whatsapp"
	"github.com/gin-gonic/gin"
)

type orderResponse struct {
	order.Outcome
	Prompt   order.Prompt `json:"prompt"`
	CanOrder bool         `json:"canOrder"`
	Notices  []string     `json:"notices"`
	Cart     cartResponse `json:"cart"`
}

func (h *handlers) orderView(c *gin.Context, s *session.Session, out order.Outcome) orderResponse {
	notices := s.TakeNotices()
	if notices == nil {
		notices = []string{}
	}
	return orderResponse{
		Outcome:  out,
		Prompt:   s.Flow.Prompt(),
		CanOrder: s.Flow.CanOrder(),
		Notices:  notices,
		Cart:     h.cartView(c, s.Cart.Snapshot()),
	}
}

func (h *handlers) orderStatus(c *gin.Context) {
	s := currentSession(c)
	state := order.StateIdle
	if s.Flow.Placing() {
		state = order.StatePlacing
	}
	c.JSON(http.StatusOK, h.orderView(c, s, order.Outcome{State: state, DeepLink: s.LastLink()}))
}

func (h *handlers) placeOrder(c *gin.Context) {
	s := currentSession(c)
	out := s.Flow.PlaceOrder(c.Request.Context())
	c.JSON(http.StatusOK, h.orderView(c, s, out))
}

func (h *handlers) continueOrder(c *gin.Context) {
	s := currentSession(c)
	out := s.Flow.ContinueWithoutUnavailable(c.Request.Context())
	c.JSON(http.StatusOK, h.orderView(c, s, out))
}

func (h *handlers) cancelPrompt(c *gin.Context) {
	s := currentSession(c)
	if !s.Flow.CancelPrompt() {
		c.JSON(http.StatusConflict, gin.H{"error": "reorder in progress"})
		return
	}
	c.JSON(http.StatusOK, h.orderView(c, s, order.Outcome{State: order.StateIdle}))
}

// productLink builds the direct "order this product" link for the selection
// given in the query string.
func (h *handlers) productLink(c *gin.Context) {
	ctx := c.Request.Context()
	product, err := h.deps.Catalog.Product(ctx, c.Param("id"))
	if err != nil {
		h.upstreamError(c, "product", err)
		return
	}

	qty := queryInt(c, "qty")
	if qty < 1 {
		qty = 1
	}
	var image string
	if len(product.Images) > 0 {
		image = whatsapp.AbsoluteURL(h.deps.SiteURL, product.Images[0].URL)
	}
	price := strconv.FormatFloat(product.Price, 'f', -1, 64)
	if h.deps.CurrencyLabel != "" {
		price += " " + h.deps.CurrencyLabel
	}

	settings := h.deps.Settings.Get(ctx)
	msg := whatsapp.ProductMessage{
		Name:        product.Name,
		Price:       price,
		Size:        strings.TrimSpace(c.Query("size")),
		Color:       strings.TrimSpace(c.Query("color")),
		Qty:         qty,
		Note:        c.Query("note"),
		ProductURL:  whatsapp.ProductURL(h.deps.SiteURL, product.ID),
		ImageURL:    image,
		WholesaleAt: settings.WholesaleAt,
		CartCount:   currentSession(c).Cart.Count(),
	}
	c.JSON(http.StatusOK, gin.H{"link": whatsapp.ProductLink(settings.WhatsApp, msg)})
}
