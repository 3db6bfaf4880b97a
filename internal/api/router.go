package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dbwlsddd/Safety/internal/api/docs"
	"github.com/dbwlsddd/Safety/internal/api/handler"
	"github.com/dbwlsddd/Safety/internal/api/middleware"
	"github.com/dbwlsddd/Safety/internal/provider"
	"github.com/dbwlsddd/Safety/internal/repository"
	"github.com/dbwlsddd/Safety/internal/service"
	"github.com/dbwlsddd/Safety/internal/ws"
)

type Dependencies struct {
	DB              *pgxpool.Pool
	Embedder        provider.FaceEmbedder
	Compliance      *service.ComplianceService
	Threshold       float64
	MissPolicy      ws.MissPolicy
	DefaultRequired []string
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Safety AI Server",
		BodyLimit:    16 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints
	healthHandler := handler.NewHealthHandler()
	r.app.Get("/", healthHandler.Health)
	r.app.Get("/health", healthHandler.Health)

	// Only configure pipeline routes if dependencies were provided
	if r.deps == nil {
		return
	}

	// One-shot pipeline over the shared pool. Streaming sessions acquire
	// their own connection in the websocket handler instead.
	workerRepo := repository.NewWorkerRepository(r.deps.DB)
	recognitionService := service.NewRecognitionService(
		r.deps.Embedder,
		workerRepo,
		r.deps.Threshold,
		r.logger,
	)

	recognitionHandler := handler.NewRecognitionHandler(recognitionService, r.deps.Compliance, r.logger)
	r.app.Post("/vectorize", recognitionHandler.Vectorize)
	r.app.Post("/recognize_worker", recognitionHandler.RecognizeWorker)
	r.app.Post("/detect_ppe", recognitionHandler.DetectPPE)

	// Worker management
	workerService := service.NewWorkerService(workerRepo, r.deps.Embedder, r.logger)
	workerHandler := handler.NewWorkerHandler(workerService, r.logger)
	r.app.Post("/workers", workerHandler.Register)
	r.app.Get("/workers", workerHandler.List)
	r.app.Get("/workers/:id", workerHandler.Get)
	r.app.Put("/workers/:id", workerHandler.Update)
	r.app.Delete("/workers/:id", workerHandler.Delete)

	// Streaming identification and compliance checks
	r.app.Get("/ws/face", ws.UpgradeMiddleware(), ws.Handler(ws.Dependencies{
		Pool:            r.deps.DB,
		Embedder:        r.deps.Embedder,
		Compliance:      r.deps.Compliance,
		Threshold:       r.deps.Threshold,
		Policy:          r.deps.MissPolicy,
		DefaultRequired: r.deps.DefaultRequired,
		Logger:          r.logger,
	}))
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
