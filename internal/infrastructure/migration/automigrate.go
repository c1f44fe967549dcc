package migration

import (
	"payrelay/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.PaymentIntentModel{},
		&models.OrderModel{},
		&models.OrderNoteModel{},
	}
}
