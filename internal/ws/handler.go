package ws

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dbwlsddd/Safety/internal/provider"
	"github.com/dbwlsddd/Safety/internal/repository"
	"github.com/dbwlsddd/Safety/internal/service"
)

// Dependencies wires one streaming endpoint.
type Dependencies struct {
	Pool            *pgxpool.Pool
	Embedder        provider.FaceEmbedder
	Compliance      *service.ComplianceService
	Threshold       float64
	Policy          MissPolicy
	DefaultRequired []string
	Logger          *slog.Logger
}

// Handler upgrades the request and runs a session over it. The session
// caches one pooled database connection for its whole lifetime: frames
// arrive at video rate, and acquiring per frame would dominate latency.
// The connection is released on every exit path.
func Handler(deps Dependencies) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		defer func() {
			_ = c.Close()
		}()

		ctx := context.Background()

		conn, err := deps.Pool.Acquire(ctx)
		if err != nil {
			deps.Logger.Error("acquire session db connection", slog.Any("error", err))
			return
		}
		defer conn.Release()

		recognizer := service.NewRecognitionService(
			deps.Embedder,
			repository.NewWorkerRepository(conn),
			deps.Threshold,
			deps.Logger,
		)

		session := NewSession(
			c,
			recognizer,
			deps.Compliance,
			deps.DefaultRequired,
			deps.Policy,
			c.RemoteAddr().String(),
			deps.Logger,
		)

		session.Run(ctx)
	})
}

// UpgradeMiddleware gates the route to websocket upgrade requests.
func UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}
