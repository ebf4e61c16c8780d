package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ViacheslavGIT/MegaMart/internal/auth"
	"github.com/ViacheslavGIT/MegaMart/internal/chat"
	"github.com/ViacheslavGIT/MegaMart/internal/config"
	"github.com/ViacheslavGIT/MegaMart/internal/events"
	"github.com/ViacheslavGIT/MegaMart/internal/handlers"
	"github.com/ViacheslavGIT/MegaMart/internal/shop"
	"github.com/ViacheslavGIT/MegaMart/internal/store/memory"
	"github.com/ViacheslavGIT/MegaMart/internal/store/mongostore"
)

type stores struct {
	products shop.ProductStore
	users    shop.UserStore
	orders   shop.OrderStore
	close    func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Store == "memory" {
		mem := memory.New()
		return &stores{products: mem.Products(), users: mem.Users(), orders: mem.Orders(), close: func() {}}, nil
	}

	client, err := mongostore.Connect(ctx, cfg.MongoURL)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDB)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		slog.Warn("Failed to ensure indexes", "error", err)
	}
	return &stores{
		products: mongostore.NewProducts(db),
		users:    mongostore.NewUsers(db),
		orders:   mongostore.NewOrders(db),
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				slog.Error("Error disconnecting MongoDB client", "error", err)
			}
		},
	}, nil
}

func openPublisher(cfg *config.Config) (shop.OrderPublisher, func()) {
	if cfg.RabbitMQURI == "" {
		return events.Discard{}, func() {}
	}
	pub, err := events.Dial(cfg.RabbitMQURI, cfg.OrderQueue)
	if err != nil {
		slog.Error("Order events disabled", "error", err)
		return events.Discard{}, func() {}
	}
	return pub, func() {
		if err := pub.Close(); err != nil {
			slog.Error("Error closing RabbitMQ connection", "error", err)
		}
	}
}

func newChat(cfg *config.Config) *chat.Relay {
	script := chat.DefaultScript()
	resolver := &chat.Resolver{Local: script, Apology: script.Apology}
	if cfg.OpenRouterKey != "" {
		resolver.Remote = chat.NewCompletion(cfg.OpenRouterKey, cfg.OpenRouterURL, cfg.OpenRouterModel, cfg.ChatTimeout)
	} else {
		slog.Info("OPENROUTER_KEY not set, chat answers from the script only")
	}
	return chat.NewRelay(resolver, script.Greeting)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	gin.SetMode(gin.ReleaseMode)

	st, err := openStores(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer st.close()

	publisher, closePublisher := openPublisher(cfg)
	defer closePublisher()

	tokens := auth.NewTokens(cfg.JWTSecret)
	router := handlers.NewRouter(handlers.Deps{
		Tokens:      tokens,
		Accounts:    shop.NewAccounts(st.users, tokens, cfg.AdminEmail),
		Catalog:     shop.NewCatalog(st.products),
		Favorites:   shop.NewFavorites(st.users, st.products),
		Orders:      shop.NewOrders(st.orders, st.products, publisher),
		Chat:        newChat(cfg),
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "store", cfg.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	slog.Info("Server exited gracefully.")
}
