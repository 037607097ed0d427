package routes

import (
	"net/http"

	"velore/auth"
	"velore/cart"
	"velore/catalog"
	"velore/middleware"
	"velore/orders"
	"velore/ratelim"
	"velore/toasts"
	"velore/wishlist"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("static/productpic"))
}

func AddCartRoutes(router *httprouter.Router, h *cart.Handlers, rl *ratelim.RateLimiter) {
	router.GET("/api/cart", h.GetCart)
	router.POST("/api/cart", rl.Limit(h.AddToCart))
	router.PUT("/api/cart/:productid", rl.Limit(h.UpdateQuantity))
	router.DELETE("/api/cart/:productid", rl.Limit(h.RemoveFromCart))
	router.DELETE("/api/cart", rl.Limit(h.ClearCart))
}

func AddWishlistRoutes(router *httprouter.Router, h *wishlist.Handlers, rl *ratelim.RateLimiter) {
	router.GET("/api/wishlist", h.GetWishlist)
	router.POST("/api/wishlist", rl.Limit(h.Add))
	router.POST("/api/wishlist/toggle", rl.Limit(h.Toggle))
	router.DELETE("/api/wishlist/:productid", rl.Limit(h.Remove))
	router.DELETE("/api/wishlist", rl.Limit(h.Clear))
}

func AddOrderRoutes(router *httprouter.Router, h *orders.Handlers, rl *ratelim.RateLimiter) {
	router.POST("/api/orders", rl.Limit(h.PlaceOrder))
	router.GET("/api/orders/last", h.GetLastOrder)
	router.GET("/api/orders/history", h.GetOrderHistory)
	router.GET("/api/orders/track/:ordernumber", h.GetOrder)
	router.GET("/api/orders/track/:ordernumber/invoice", h.Invoice)

	router.GET("/api/admin/orders", middleware.RequireAdmin(h.AdminListOrders))
	router.PATCH("/api/admin/orders/:ordernumber", middleware.RequireAdmin(h.AdminUpdateStatus))
	router.GET("/api/admin/stats", middleware.RequireAdmin(h.AdminStats))
}

func AddCatalogRoutes(router *httprouter.Router, h *catalog.Handlers, rl *ratelim.RateLimiter) {
	router.GET("/api/products", h.ListProducts)
	router.GET("/api/products/:id", h.GetProduct)
	router.GET("/api/categories", h.ListCategories)

	router.POST("/api/admin/products", middleware.RequireAdmin(h.AdminCreateProduct))
	router.PUT("/api/admin/products/:id", middleware.RequireAdmin(h.AdminUpdateProduct))
	router.DELETE("/api/admin/products/:id", middleware.RequireAdmin(h.AdminDeleteProduct))
	router.POST("/api/admin/products/:id/image", middleware.RequireAdmin(rl.Limit(h.UploadProductImage)))
	router.POST("/api/admin/catalog/reload", middleware.RequireAdmin(h.ReloadCatalog))
}

func AddAuthRoutes(router *httprouter.Router, h *auth.Handlers, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.POST("/api/auth/logout", rl.Limit(h.Logout))
	router.GET("/api/auth/session", h.Session)
}

func AddToastRoutes(router *httprouter.Router, hub *toasts.Hub) {
	router.GET("/ws/notifications", toasts.WebSocketHandler(hub))
}
