package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"velore/auth"
	"velore/cart"
	"velore/catalog"
	"velore/orders"
	"velore/persist"
	"velore/ratelim"
	"velore/rdx"
	"velore/recordapi"
	"velore/routes"
	"velore/toasts"
	"velore/wishlist"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// XSS, content sniffing, framing
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		// HSTS (must be on HTTPS)
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		// Referrer and permissions
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newSubstrate picks Redis when an address is configured, otherwise the
// in-process store.
func newSubstrate() persist.Substrate {
	if os.Getenv("REDIS_ADDR") == "" {
		log.Println("REDIS_ADDR not set; using in-memory persistence")
		return persist.NewMemSubstrate()
	}
	if err := rdx.Init(); err != nil {
		log.Printf("Redis unreachable (%v); using in-memory persistence", err)
		return persist.NewMemSubstrate()
	}
	return rdx.NewSubstrate(rdx.Conn)
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	// read port
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	store := newSubstrate()
	remote := recordapi.New(envOr("RECORD_API_URL", "http://localhost:3001"))

	snap, err := catalog.LoadSnapshot(envOr("CATALOG_PATH", "data/products.json"))
	if err != nil {
		log.Fatalf("❌ Loading catalog: %v", err)
	}

	cartEngine := cart.NewEngine(store)
	wishEngine := wishlist.NewEngine(store)
	materializer := orders.NewMaterializer(store, cartEngine, remote)

	// notification hub
	hub := toasts.NewHub()
	go hub.Run()
	broker := toasts.NewBroker(hub)

	// badge counts follow every committed cart/wishlist change
	publishCounts := func() {
		broker.PublishCounts(cartEngine.CartCount(), wishEngine.WishlistCount())
	}
	cartEngine.Subscribe(publishCounts)
	wishEngine.Subscribe(publishCounts)

	rateLimiter := ratelim.NewRateLimiter(5, 10)

	router := httprouter.New()
	router.GET("/health", Index)
	routes.AddStaticRoutes(router)
	routes.AddCatalogRoutes(router, catalog.NewHandlers(snap, remote), rateLimiter)
	routes.AddCartRoutes(router, cart.NewHandlers(cartEngine), rateLimiter)
	routes.AddWishlistRoutes(router, wishlist.NewHandlers(wishEngine), rateLimiter)
	routes.AddOrderRoutes(router, orders.NewHandlers(materializer, remote), rateLimiter)
	routes.AddAuthRoutes(router, auth.NewHandlers(store, remote), rateLimiter)
	routes.AddToastRoutes(router, hub)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Shutting down notification hub...")
		hub.Stop()
	})

	// start server
	go func() {
		log.Printf("🚀 Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
