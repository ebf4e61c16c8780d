package handlers

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ViacheslavGIT/MegaMart/internal/auth"
	"github.com/ViacheslavGIT/MegaMart/internal/chat"
	"github.com/ViacheslavGIT/MegaMart/internal/shop"
)

type Deps struct {
	Tokens      *auth.Tokens
	Accounts    *shop.Accounts
	Catalog     *shop.Catalog
	Favorites   *shop.Favorites
	Orders      *shop.Orders
	Chat        *chat.Relay
	CORSOrigins []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(), SecurityHeaders(), cors.New(corsConfig(d.CORSOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authH := NewAuthHandler(d.Accounts)
	productH := NewProductHandler(d.Catalog)
	userH := NewUserHandler(d.Favorites, d.Orders)

	api := r.Group("/api")

	// Auth
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)

	// Products
	api.GET("/products", productH.List)
	api.GET("/products/filter", productH.Filter)
	api.GET("/products/random", productH.Random)
	api.GET("/products/facets", productH.Facets)
	api.GET("/products/:id", productH.Get)

	// User
	user := api.Group("", d.Tokens.Middleware())
	{
		user.GET("/user/favorites", userH.Favorites)
		user.POST("/user/favorites/:productId", userH.ToggleFavorite)
		user.POST("/checkout", userH.Checkout)
		user.GET("/user/orders", userH.Orders)
		user.GET("/user/orders/:id", userH.Order)
	}

	// Admin
	admin := api.Group("/admin", d.Tokens.Middleware(), auth.RequireAdmin)
	{
		admin.POST("/products", productH.Create)
		admin.PUT("/products/:id", productH.Update)
		admin.DELETE("/products/:id", productH.Delete)
	}

	if d.Chat != nil {
		r.GET("/ws", d.Chat.Handle)
		api.GET("/chat/ws", d.Chat.Handle)
	}

	return r
}
