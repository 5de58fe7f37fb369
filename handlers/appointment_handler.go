package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/sumira/appointment-manager/database"
	"github.com/sumira/appointment-manager/models"
	"github.com/sumira/appointment-manager/notifications"
	"github.com/sumira/appointment-manager/schedule"
	"github.com/sumira/appointment-manager/utils"
	ws "github.com/sumira/appointment-manager/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateAppointmentRequest struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

func currentUserID(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	id, _ := uuid.Parse(claims["user_id"].(string))
	return id
}

func GetUserAppointments(c *fiber.Ctx) error {
	userID := currentUserID(c)

	appointments := []models.Appointment{}
	err := database.DB.
		Where("user_id = ?", userID).
		Order("date, start_time").
		Find(&appointments).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch appointments"})
	}

	return c.JSON(appointments)
}

func GetBookedSlots(c *fiber.Ctx) error {
	slots := []models.BookedSlotRow{}
	err := database.DB.
		Model(&models.Appointment{}).
		Select("date, start_time").
		Order("date, start_time").
		Find(&slots).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch booked slots"})
	}

	return c.JSON(slots)
}

func CreateAppointment(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req CreateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := schedule.ValidateDate(req.Date, time.Now()); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if _, ok := schedule.GridSlot(req.StartTime, req.EndTime); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Requested time is not a bookable slot"})
	}

	var appointment models.Appointment
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Appointment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("date = ? AND start_time = ?", req.Date, req.StartTime).
			First(&existing).Error
		if err == nil {
			return errSlotTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		code, err := utils.GenerateUniqueConfirmationCode(tx)
		if err != nil {
			return errors.New("failed to generate confirmation code")
		}

		appointment = models.Appointment{
			UserID:    userID,
			Date:      req.Date,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Code:      code,
		}
		if err := tx.Create(&appointment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errSlotTaken
			}
			return err
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, errSlotTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This slot has already been booked"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create appointment"})
	}

	ws.Broadcast <- ws.SlotEvent{Date: appointment.Date, StartTime: appointment.StartTime, Booked: true}

	go func(a models.Appointment) {
		var user models.User
		if err := database.DB.First(&user, "id = ?", a.UserID).Error; err == nil {
			notifications.SendEmail(
				user.Name, user.Email,
				"Your Appointment is Confirmed!",
				fmt.Sprintf("<h1>Appointment Confirmed</h1><p>Your slot on %s from %s to %s is booked. Confirmation code: <b>%s</b>.</p>",
					a.Date, a.StartTime, a.EndTime, a.Code),
			)
		}
	}(appointment)

	return c.Status(fiber.StatusCreated).JSON(appointment)
}

var errSlotTaken = errors.New("slot already booked")

func DeleteAppointment(c *fiber.Ctx) error {
	userID := currentUserID(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment id"})
	}

	var appointment models.Appointment
	if err := database.DB.First(&appointment, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
	}
	if appointment.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your appointment"})
	}

	if err := database.DB.Delete(&appointment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete appointment"})
	}

	ws.Broadcast <- ws.SlotEvent{Date: appointment.Date, StartTime: appointment.StartTime, Booked: false}

	return c.SendStatus(fiber.StatusNoContent)
}
