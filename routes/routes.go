package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/scrimhub/scrimhub/handlers"
	"github.com/scrimhub/scrimhub/middleware"
	"github.com/scrimhub/scrimhub/models"
	httpSwagger "github.com/swaggo/http-swagger"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	teamHandler *handlers.TeamHandler,
	scrimHandler *handlers.ScrimHandler,
	resultHandler *handlers.ResultHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	recruitmentHandler *handlers.RecruitmentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/users", func(r chi.Router) {
		r.Get("/{userID}", userHandler.GetUser)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/me", userHandler.GetCurrentUser)
			r.Put("/me", userHandler.UpdateProfile)
			r.Post("/me/avatar", userHandler.UploadAvatar)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.ListTeams)
		r.Get("/{teamID}", teamHandler.GetTeamByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", teamHandler.CreateTeam)
			r.Put("/{teamID}", teamHandler.UpdateTeam)
			r.Post("/{teamID}/members", teamHandler.AddMember)
			r.Delete("/{teamID}/members/{userID}", teamHandler.RemoveMember)
			r.Post("/{teamID}/logo", teamHandler.UploadLogo)
		})
	})

	router.Route("/scrims", func(r chi.Router) {
		r.Get("/", scrimHandler.ListScrims)
		r.Get("/{scrimID}", scrimHandler.GetScrimByID)
		r.Get("/{scrimID}/roster", scrimHandler.GetRoster)

		// Scrim management is an admin workflow.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)
			r.Post("/", scrimHandler.CreateScrim)
			r.Delete("/{scrimID}", scrimHandler.CancelScrim)
			r.Post("/{scrimID}/teams", scrimHandler.RegisterTeam)
			r.Delete("/{scrimID}/teams/{teamID}", scrimHandler.UnregisterTeam)
			r.Post("/{scrimID}/roster", scrimHandler.AddRosterPlayer)
			r.Delete("/{scrimID}/roster/{playerID}", scrimHandler.RemoveRosterPlayer)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}/result", resultHandler.GetMatchResult)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)
			r.Post("/{matchID}/result", resultHandler.SubmitMatchResult)
		})
	})

	router.Route("/leaderboards", func(r chi.Router) {
		r.Get("/", leaderboardHandler.GetLeaderboards)
		r.Get("/teams", leaderboardHandler.GetTeamLeaderboard)
		r.Get("/players", leaderboardHandler.GetPlayerLeaderboard)
	})

	router.Route("/recruitment", func(r chi.Router) {
		r.Get("/", recruitmentHandler.ListPosts)
		r.Get("/{postID}", recruitmentHandler.GetPost)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", recruitmentHandler.CreatePost)
			r.Post("/{postID}/close", recruitmentHandler.ClosePost)
			r.Delete("/{postID}", recruitmentHandler.DeletePost)
			r.Post("/{postID}/apply", recruitmentHandler.Apply)
			r.Get("/{postID}/applications", recruitmentHandler.ListApplications)
			r.Post("/applications/{requestID}/resolve", recruitmentHandler.ResolveApplication)
		})
	})

	router.Get("/ws/scrims/{scrimID}", webSocketHandler.ServeScrim)
}
