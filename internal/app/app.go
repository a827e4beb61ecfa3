package app

import (
	"fmt"
	"net/http"

	"github.com/tonghaoch/storefront-relay-go/internal/anthropic"
	"github.com/tonghaoch/storefront-relay-go/internal/config"
	"github.com/tonghaoch/storefront-relay-go/internal/handler"
	"github.com/tonghaoch/storefront-relay-go/internal/origin"
	"github.com/tonghaoch/storefront-relay-go/internal/shopify"
)

// Function names accepted by Handler.
const (
	FunctionClaude     = "claude"
	FunctionTrackOrder = "track-order"
)

// App holds the relay handlers built from one Config.
type App struct {
	Chat       *handler.Chat
	TrackOrder *handler.TrackOrder
}

// New wires both handlers from cfg.
func New(cfg *config.Config) *App {
	chatClient := anthropic.NewClient(cfg.Chat.BaseURL, cfg.Chat.APIKey, cfg.Chat.APIVersion)
	store := shopify.NewClient(cfg.Orders.StoreDomain, cfg.Orders.AdminToken, cfg.Orders.APIVersion, cfg.Orders.BaseURL)

	return &App{
		Chat:       handler.NewChat(origin.NewAllowList(cfg.Chat.AllowedOrigins...), chatClient),
		TrackOrder: handler.NewTrackOrder(origin.NewAllowList(cfg.Orders.AllowedOrigins...), store),
	}
}

// Handler returns the handler for a single deployed function.
func (a *App) Handler(function string) (http.Handler, error) {
	switch function {
	case FunctionClaude:
		return a.Chat, nil
	case FunctionTrackOrder:
		return a.TrackOrder, nil
	default:
		return nil, fmt.Errorf("unknown function %q (want %q or %q)", function, FunctionClaude, FunctionTrackOrder)
	}
}
