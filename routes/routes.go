package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Dosada05/scouting-system/handlers"
	"github.com/Dosada05/scouting-system/middleware"
	"github.com/Dosada05/scouting-system/models"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Invites       *handlers.InviteHandler
	Users         *handlers.AdminUserHandler
	Duplicates    *handlers.DuplicateHandler
	GlobalPlayers *handlers.GlobalPlayerHandler
	Settings      *handlers.SettingsHandler
	WebSocket     *handlers.WebSocketHandler
}

func SetupRoutes(router chi.Router, h Handlers, jwtSecret string, allowedOrigins []string) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	adminOnly := func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Use(middleware.Authorize(models.RoleAdmin))
	}

	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		// Публичные маршруты страницы регистрации по приглашению
		r.Get("/invites/{token}", h.Invites.Get)
		r.Post("/invites/accept", h.Invites.Accept)

		r.Route("/admin", func(r chi.Router) {
			adminOnly(r)

			r.Route("/duplicates", func(r chi.Router) {
				r.Get("/", h.Duplicates.List)
				r.Get("/drift", h.Duplicates.Drift)
				r.Route("/groups/{groupKey}", func(r chi.Router) {
					r.Put("/keeper", h.Duplicates.SelectKeeper)
					r.Delete("/keeper", h.Duplicates.ClearKeeper)
					r.Post("/selected/{playerID}", h.Duplicates.ToggleDuplicate)
					r.Patch("/draft", h.Duplicates.UpdateDraft)
					r.Post("/merge", h.Duplicates.Merge)
					r.Post("/link", h.Duplicates.Link)
					r.Post("/mark", h.Duplicates.Mark)
					r.Post("/repair", h.Duplicates.Repair)
				})
			})

			r.Route("/global-players", func(r chi.Router) {
				r.Get("/", h.GlobalPlayers.List)
				r.Get("/export", h.GlobalPlayers.Export)
				r.Post("/delete", h.GlobalPlayers.DeleteMany)
				r.Get("/{globalID}", h.GlobalPlayers.Get)
				r.Delete("/{globalID}", h.GlobalPlayers.Delete)
				r.Patch("/{globalID}/note", h.GlobalPlayers.UpdateNote)
				r.Post("/{globalID}/photo", h.GlobalPlayers.UploadPhoto)
			})

			r.Route("/invites", func(r chi.Router) {
				r.Get("/", h.Invites.List)
				r.Post("/", h.Invites.Create)
				r.Post("/{inviteID}/revoke", h.Invites.Revoke)
				r.Delete("/{inviteID}", h.Invites.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.Users.ListUsers)
				r.Patch("/{userID}", h.Users.UpdateUser)
				r.Delete("/{userID}", h.Users.DeleteUser)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/required-fields", h.Settings.RequiredFields)
				r.Put("/required-fields", h.Settings.SaveRequiredFields)
				r.Get("/rating-aspects", h.Settings.ListAspects)
				r.Post("/rating-aspects", h.Settings.CreateAspect)
				r.Put("/rating-aspects/{aspectID}", h.Settings.UpdateAspect)
				r.Delete("/rating-aspects/{aspectID}", h.Settings.DeleteAspect)

				r.Get("/metrics", h.Settings.ListMetrics)
				r.Post("/metrics", h.Settings.CreateMetric)
				r.Post("/metrics/seed", h.Settings.SeedMetrics)
				r.Put("/metrics/{metricID}", h.Settings.UpdateMetric)
				r.Post("/metrics/{metricID}/move", h.Settings.MoveMetric)
				r.Delete("/metrics/{metricID}", h.Settings.DeleteMetric)

				r.Get("/rank-thresholds", h.Settings.RankThresholds)
				r.Put("/rank-thresholds", h.Settings.SaveRankThresholds)
				r.Post("/rank-thresholds/presets/{preset}", h.Settings.ApplyRankPreset)
				r.Get("/rank-thresholds/preview", h.Settings.PreviewRank)
			})
		})
	})

	router.Group(func(r chi.Router) {
		adminOnly(r)
		r.Get("/ws/admin/duplicates", h.WebSocket.ServeDuplicates)
	})
}
