package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/sumira/appointment-manager/database"
	"github.com/sumira/appointment-manager/models"
	"github.com/sumira/appointment-manager/notifications"
	"github.com/sumira/appointment-manager/schedule"
)

// SendAppointmentReminders emails users whose slot starts within the next
// hour. Runs from cron every few minutes; ReminderSent keeps each
// appointment to one email.
func SendAppointmentReminders() {
	log.Println("Running job: SendAppointmentReminders...")

	now := time.Now()
	today := now.Format(schedule.DateLayout)
	lowerBound := now.Format("15:04")
	upperBound := now.Add(60 * time.Minute).Format("15:04")

	var upcoming []models.Appointment
	err := database.DB.
		Preload("User").
		Where("date = ? AND start_time > ? AND start_time <= ? AND reminder_sent = ?",
			today, lowerBound, upperBound, false).
		Find(&upcoming).Error
	if err != nil {
		log.Printf("🔥 Reminder job failed to query appointments: %v", err)
		return
	}

	for _, appointment := range upcoming {
		notifications.SendEmail(
			appointment.User.Name,
			appointment.User.Email,
			"Your Appointment is Coming Up",
			fmt.Sprintf("<h1>Reminder</h1><p>Your appointment today from %s to %s starts soon. Confirmation code: <b>%s</b>.</p>",
				appointment.StartTime, appointment.EndTime, appointment.Code),
		)

		if err := database.DB.Model(&appointment).Update("reminder_sent", true).Error; err != nil {
			log.Printf("🔥 Failed to mark reminder as sent for appointment %s: %v", appointment.ID, err)
		}
	}

	if len(upcoming) > 0 {
		log.Printf("✅ Sent %d appointment reminder(s)", len(upcoming))
	}
}
