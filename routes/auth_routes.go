package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sumira/appointment-manager/handlers"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", handlers.SignupUser)
	auth.Post("/login", handlers.LoginUser)
}
