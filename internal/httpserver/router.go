package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"boutique-storefront/internal/domain"
	"boutique-storefront/internal/repository/cartblob"
	"boutique-storefront/internal/session"
	"boutique-storefront/internal/storeapi"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type catalogService interface {
	Home(ctx context.Context, p storeapi.HomeParams) (*domain.Home, error)
	Products(ctx context.Context, p storeapi.ListParams) (*domain.Page[domain.Product], error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	ActiveCategories(ctx context.Context) ([]domain.Category, error)
	CategoryProducts(ctx context.Context, categoryID string, p storeapi.ListParams) (*domain.Page[domain.Product], error)
	Search(ctx context.Context, p storeapi.SearchParams) (*domain.Page[domain.Product], error)
}

type settingsSource interface {
	Get(ctx context.Context) domain.ShopSettings
}

type sessionStore interface {
	Get(ctx context.Context, id string) *session.Session
}

// Deps are the collaborators the router needs.
type Deps struct {
	Catalog       catalogService
	Settings      settingsSource
	Sessions      sessionStore
	Store         cartblob.Store
	CurrencyLabel string
	SiteURL       string
	CORSOrigins   []string
	SecureCookies bool
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if deps.Catalog == nil || deps.Settings == nil || deps.Sessions == nil {
		return nil, errors.New("catalog, settings and sessions are required")
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Store))

	h := &handlers{deps: deps, logger: logger}

	api := router.Group("/api")
	api.GET("/settings", h.settings)
	api.GET("/home", h.home)
	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/categories", h.listCategories)
	api.GET("/categories/:id/products", h.categoryProducts)
	api.POST("/search", h.search)

	shop := api.Group("", sessionMiddleware(deps.Sessions, deps.SecureCookies))
	shop.GET("/products/:id/whatsapp", h.productLink)

	cartGroup := shop.Group("/cart")
	cartGroup.GET("", h.getCart)
	cartGroup.DELETE("", h.clearCart)
	cartGroup.POST("/items", h.addItem)
	cartGroup.PATCH("/items/:key", h.setQty)
	cartGroup.DELETE("/items/:key", h.removeItem)
	cartGroup.POST("/open", h.openCart)
	cartGroup.POST("/close", h.closeCart)
	cartGroup.GET("/events", h.cartEvents)

	cartGroup.GET("/order", h.orderStatus)
	cartGroup.POST("/order", h.placeOrder)
	cartGroup.POST("/order/continue", h.continueOrder)
	cartGroup.POST("/order/cancel", h.cancelPrompt)

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}
