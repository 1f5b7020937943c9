package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"boutique-storefront/internal/storeapi"
	"github.com/gin-gonic/gin"
)

type searchRequest struct {
	Search   string `json:"search"`
	Category string `json:"category"`
}

func (h *handlers) settings(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Settings.Get(c.Request.Context()))
}

func (h *handlers) home(c *gin.Context) {
	p := storeapi.HomeParams{
		LatestPage:  queryInt(c, "latest_page"),
		PopularPage: queryInt(c, "popular_page"),
		OrderedPage: queryInt(c, "ordered_page"),
		PerPage:     queryInt(c, "per_page"),
	}
	home, err := h.deps.Catalog.Home(c.Request.Context(), p)
	if err != nil {
		h.upstreamError(c, "home", err)
		return
	}
	c.JSON(http.StatusOK, home)
}

func (h *handlers) listProducts(c *gin.Context) {
	page, err := h.deps.Catalog.Products(c.Request.Context(), listParams(c))
	if err != nil {
		h.upstreamError(c, "products", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *handlers) getProduct(c *gin.Context) {
	product, err := h.deps.Catalog.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.upstreamError(c, "product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (h *handlers) listCategories(c *gin.Context) {
	fetch := h.deps.Catalog.Categories
	if c.Query("active") == "1" {
		fetch = h.deps.Catalog.ActiveCategories
	}
	categories, err := fetch(c.Request.Context())
	if err != nil {
		h.upstreamError(c, "categories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *handlers) categoryProducts(c *gin.Context) {
	page, err := h.deps.Catalog.CategoryProducts(c.Request.Context(), c.Param("id"), listParams(c))
	if err != nil {
		h.upstreamError(c, "category products", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *handlers) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.Search = strings.TrimSpace(req.Search)
	if req.Search == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search is required"})
		return
	}
	page, err := h.deps.Catalog.Search(c.Request.Context(), storeapi.SearchParams{
		Search:   req.Search,
		Category: strings.TrimSpace(req.Category),
		Page:     queryInt(c, "page"),
		PerPage:  queryInt(c, "per_page"),
	})
	if err != nil {
		h.upstreamError(c, "search", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": page})
}

// upstreamError maps a catalog API failure onto the response.
func (h *handlers) upstreamError(c *gin.Context, what string, err error) {
	if storeapi.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	h.logger.Printf("%s: %v", what, err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
}

func listParams(c *gin.Context) storeapi.ListParams {
	return storeapi.ListParams{
		Page:    queryInt(c, "page"),
		PerPage: queryInt(c, "per_page"),
		Query:   c.Query("q"),
	}
}

// queryInt reads a positive integer query value; anything else is zero.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
