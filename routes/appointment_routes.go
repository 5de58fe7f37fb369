package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sumira/appointment-manager/handlers"
	"github.com/sumira/appointment-manager/middleware"
	ws "github.com/sumira/appointment-manager/websocket"
)

func AppointmentRoutes(app *fiber.App) {
	api := app.Group("/api")

	appointments := api.Group("/appointments", middleware.Protected())
	appointments.Get("/user-appointments", handlers.GetUserAppointments)
	appointments.Get("/booked-slots", handlers.GetBookedSlots)
	appointments.Post("/create-appointment", handlers.CreateAppointment)
	appointments.Delete("/delete-appointment/:id", handlers.DeleteAppointment)

	app.Use("/ws/slots", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/slots", websocket.New(ws.Handler))
}
