package utils

import (
	"math/rand"
	"time"

	"github.com/sumira/appointment-manager/models"
	"gorm.io/gorm"
)

const confirmationCodeLength = 8
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateUniqueConfirmationCode produces a short booking reference not yet
// held by any appointment.
func GenerateUniqueConfirmationCode(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		code := RandomCode(seededRand, confirmationCodeLength)

		var appointment models.Appointment
		err := tx.Where("code = ?", code).First(&appointment).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return code, nil
			}
			return "", err
		}
	}
}

func RandomCode(r *rand.Rand, length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = letterBytes[r.Intn(len(letterBytes))]
	}
	return string(b)
}
