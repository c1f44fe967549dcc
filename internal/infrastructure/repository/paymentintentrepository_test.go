package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"payrelay/internal/domain/payment"
	vo "payrelay/internal/domain/payment/valueobjects"
	"payrelay/internal/infrastructure/persistence/models"
	apperrors "payrelay/internal/shared/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.PaymentIntentModel{},
		&models.OrderModel{},
		&models.OrderNoteModel{},
	))

	return db
}

func createIntent(t *testing.T, repo *PaymentIntentRepository) *payment.PaymentIntent {
	t.Helper()

	intent, err := payment.NewPaymentIntent(101, vo.NewAmount(2550, "MYR"), "MB2U", "FPX")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), intent))
	return intent
}

func TestPaymentIntentRepository_CreateAndGet(t *testing.T) {
	repo := NewPaymentIntentRepository(setupTestDB(t))
	intent := createIntent(t, repo)

	assert.NotZero(t, intent.ID(), "auto-generated ID written back")

	loaded, err := repo.GetByPaymentCode(context.Background(), intent.PaymentCode())
	require.NoError(t, err)
	assert.Equal(t, intent.PaymentCode(), loaded.PaymentCode())
	assert.Equal(t, uint(101), loaded.OrderID())
	assert.Equal(t, int64(2550), loaded.Amount().Cents())
	assert.Equal(t, vo.IntentStatusCreated, loaded.Status())
}

func TestPaymentIntentRepository_GetUnknownCode(t *testing.T) {
	repo := NewPaymentIntentRepository(setupTestDB(t))

	_, err := repo.GetByPaymentCode(context.Background(), "HP-PAY-NOPE")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestPaymentIntentRepository_MarkPendingFromCreated(t *testing.T) {
	repo := NewPaymentIntentRepository(setupTestDB(t))
	intent := createIntent(t, repo)
	ctx := context.Background()

	applied, err := repo.MarkPendingFromCreated(ctx, intent.PaymentCode())
	require.NoError(t, err)
	assert.True(t, applied)

	// Second call finds no created row.
	applied, err = repo.MarkPendingFromCreated(ctx, intent.PaymentCode())
	require.NoError(t, err)
	assert.False(t, applied)

	loaded, err := repo.GetByPaymentCode(ctx, intent.PaymentCode())
	require.NoError(t, err)
	assert.Equal(t, vo.IntentStatusPending, loaded.Status())
}

func TestPaymentIntentRepository_CompleteIfNotTerminal(t *testing.T) {
	repo := NewPaymentIntentRepository(setupTestDB(t))
	intent := createIntent(t, repo)
	ctx := context.Background()

	applied, err := repo.CompleteIfNotTerminal(ctx, intent.PaymentCode(), "TX1")
	require.NoError(t, err)
	assert.True(t, applied)

	// A retried event must lose the conditional update.
	applied, err = repo.CompleteIfNotTerminal(ctx, intent.PaymentCode(), "TX2")
	require.NoError(t, err)
	assert.False(t, applied)

	loaded, err := repo.GetByPaymentCode(ctx, intent.PaymentCode())
	require.NoError(t, err)
	assert.Equal(t, vo.IntentStatusCompleted, loaded.Status())
	require.NotNil(t, loaded.TransactionID())
	assert.Equal(t, "TX1", *loaded.TransactionID(), "loser's transaction id is discarded")
}

func TestPaymentIntentRepository_CompleteFromPending(t *testing.T) {
	repo := NewPaymentIntentRepository(setupTestDB(t))
	intent := createIntent(t, repo)
	ctx := context.Background()

	_, err := repo.MarkPendingFromCreated(ctx, intent.PaymentCode())
	require.NoError(t, err)

	applied, err := repo.CompleteIfNotTerminal(ctx, intent.PaymentCode(), "TX1")
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestPaymentIntentRepository_FailIfNotTerminal(t *testing.T) {
	repo := NewPaymentIntentRepository(setupTestDB(t))
	intent := createIntent(t, repo)
	ctx := context.Background()

	applied, err := repo.FailIfNotTerminal(ctx, intent.PaymentCode(), vo.IntentStatusUnauthorized, "payment unauthorized")
	require.NoError(t, err)
	assert.True(t, applied)

	loaded, err := repo.GetByPaymentCode(ctx, intent.PaymentCode())
	require.NoError(t, err)
	assert.Equal(t, vo.IntentStatusUnauthorized, loaded.Status())
	require.NotNil(t, loaded.Note())
	assert.Equal(t, "payment unauthorized", *loaded.Note())

	// Failure cannot overwrite a terminal state.
	applied, err = repo.FailIfNotTerminal(ctx, intent.PaymentCode(), vo.IntentStatusFailed, "late event")
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestPaymentIntentRepository_FailRejectsNonFailureStatus(t *testing.T) {
	repo := NewPaymentIntentRepository(setupTestDB(t))
	intent := createIntent(t, repo)

	_, err := repo.FailIfNotTerminal(context.Background(), intent.PaymentCode(), vo.IntentStatusCompleted, "x")
	assert.Error(t, err)
}

func TestPaymentIntentRepository_TerminalStatesNeverRegress(t *testing.T) {
	repo := NewPaymentIntentRepository(setupTestDB(t))
	intent := createIntent(t, repo)
	ctx := context.Background()

	_, err := repo.CompleteIfNotTerminal(ctx, intent.PaymentCode(), "TX1")
	require.NoError(t, err)

	applied, err := repo.MarkPendingFromCreated(ctx, intent.PaymentCode())
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = repo.FailIfNotTerminal(ctx, intent.PaymentCode(), vo.IntentStatusFailed, "late")
	require.NoError(t, err)
	assert.False(t, applied)

	loaded, err := repo.GetByPaymentCode(ctx, intent.PaymentCode())
	require.NoError(t, err)
	assert.Equal(t, vo.IntentStatusCompleted, loaded.Status())
}

func TestPaymentIntentRepository_ListRecent(t *testing.T) {
	repo := NewPaymentIntentRepository(setupTestDB(t))

	for i := 0; i < 5; i++ {
		createIntent(t, repo)
	}

	intents, err := repo.ListRecent(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, intents, 3)
}
