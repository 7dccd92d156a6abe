package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/relay/internal/config"
	"github.com/nfrund/relay/internal/logging"
	"github.com/nfrund/relay/internal/pubsub"
	"github.com/nfrund/relay/internal/relay"
	"github.com/nfrund/relay/internal/websocket"
)

// Server holds the dependencies for the relay server.
type Server struct {
	E        *echo.Echo
	Cfg      *config.Config
	PubSub   *pubsub.WatermillBridge
	Bridge   *websocket.Bridge
	Registry *relay.Registry
	Rooms    *relay.Rooms
	Router   *relay.Router
}

// New creates a new Server instance with all relay components wired together
// and the inbound event subscription already running.
func New() *Server {
	logging.New() // Initialize the structured logger
	cfg := config.New()

	ps := pubsub.NewWatermillBridge()

	bridge := websocket.NewBridge(ps, cfg.SendBuffer)

	registry := relay.NewRegistry()
	rooms := relay.NewRooms()
	router := relay.NewRouter(registry, rooms, bridge)

	// The single inbound subscription serializes all state mutation. It must be
	// active before the first client connects.
	sub := relay.NewSubscriber(ps, router)
	if err := sub.Start(context.Background()); err != nil {
		slog.Error("Failed to start relay subscriber", "error", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	return &Server{
		E:        e,
		Cfg:      cfg,
		PubSub:   ps,
		Bridge:   bridge,
		Registry: registry,
		Rooms:    rooms,
		Router:   router,
	}
}
