package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clubhouse/club-cms/internal/api/http/handlers"
	"github.com/clubhouse/club-cms/internal/auth"
	"github.com/clubhouse/club-cms/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	News           *handlers.NewsHandler
	Matches        *handlers.MatchesHandler
	Players        *handlers.PlayersHandler
	Table          *handlers.TableHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
	Gatherer       prometheus.Gatherer
}

// RegisterRoutes wires HTTP routes. Reads are public; every write requires an
// admin session.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	admin := []fiber.Handler{cfg.AuthMiddleware.Authenticate, auth.Authorize(domain.RoleAdmin)}

	news := api.Group("/news")
	news.Get("/", cfg.News.List)
	news.Get("/:id", cfg.News.Get)
	news.Post("/", withAdmin(admin, cfg.News.Create)...)
	news.Patch("/:id", withAdmin(admin, cfg.News.Update)...)
	news.Delete("/:id", withAdmin(admin, cfg.News.Delete)...)

	matches := api.Group("/matches")
	matches.Get("/", cfg.Matches.List)
	matches.Get("/:id", cfg.Matches.Get)
	matches.Post("/", withAdmin(admin, cfg.Matches.Create)...)
	matches.Patch("/:id", withAdmin(admin, cfg.Matches.Update)...)
	matches.Delete("/:id", withAdmin(admin, cfg.Matches.Delete)...)

	players := api.Group("/players")
	players.Get("/", cfg.Players.List)
	players.Get("/:id", cfg.Players.Get)
	players.Post("/", withAdmin(admin, cfg.Players.Create)...)
	players.Put("/:id", withAdmin(admin, cfg.Players.Update)...)
	players.Delete("/:id", withAdmin(admin, cfg.Players.Delete)...)

	table := api.Group("/table")
	table.Get("/", cfg.Table.List)
	table.Get("/mini", cfg.Table.Mini)
	table.Get("/:id", cfg.Table.Get)
	table.Post("/", withAdmin(admin, cfg.Table.Create)...)
	table.Put("/:id", withAdmin(admin, cfg.Table.Update)...)
	table.Delete("/:id", withAdmin(admin, cfg.Table.Delete)...)

	users := api.Group("/users")
	users.Post("/register", cfg.AuthMiddleware.Optional, cfg.Users.Register)
	users.Post("/login", cfg.Users.Login)
	users.Post("/logout", cfg.Users.Logout)
	users.Get("/", withAdmin(admin, cfg.Users.List)...)
	users.Post("/password", withAdmin(admin, cfg.Users.ChangePassword)...)
}

func withAdmin(chain []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(chain)+1)
	out = append(out, chain...)
	return append(out, handler)
}
