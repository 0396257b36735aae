package repository

import (
	"bank-cards-api/logger"
	"bank-cards-api/model"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

var cardRows = []string{"id", "owner_id", "encrypted_number", "masked_number", "holder_name",
	"expiry_date", "status", "balance", "created_at", "updated_at"}

func sampleCardRow(id, ownerID uuid.UUID, balance string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(cardRows).
		AddRow(id.String(), ownerID.String(), "blob", "**** **** **** 3456", "JOHN DOE",
			now, string(model.CardStatusActive), balance, now, now)
}

func TestCardRepository_GetCardForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCardRepository(db)
	cardID := uuid.New()
	ownerID := uuid.New()

	t.Run("locks the row with FOR UPDATE", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM cards WHERE id = \$1 FOR UPDATE`).
			WithArgs(cardID).
			WillReturnRows(sampleCardRow(cardID, ownerID, "5000.00"))
		mock.ExpectRollback()

		tx, err := db.Begin()
		assert.NoError(t, err)
		defer tx.Rollback()

		card, err := repo.GetCardForUpdate(tx, cardID)

		assert.NoError(t, err)
		assert.Equal(t, cardID, card.ID)
		assert.Equal(t, ownerID, card.OwnerID)
		assert.True(t, card.Balance.Equal(decimal.NewFromInt(5000)))
		tx.Rollback()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing card surfaces ErrNoRows", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM cards WHERE id = \$1 FOR UPDATE`).
			WithArgs(cardID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		tx, err := db.Begin()
		assert.NoError(t, err)
		defer tx.Rollback()

		_, err = repo.GetCardForUpdate(tx, cardID)

		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestCardRepository_UpdateCardBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCardRepository(db)
	cardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE cards SET balance = \$1, updated_at = now\(\) WHERE id = \$2`).
		WithArgs(decimal.NewFromInt(4000), cardID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)

	err = repo.UpdateCardBalance(tx, cardID, decimal.NewFromInt(4000))
	assert.NoError(t, err)
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_CreateCard(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCardRepository(db)
	now := time.Now()
	cardID := uuid.New()

	card := &model.Card{
		OwnerID:         uuid.New(),
		EncryptedNumber: "blob",
		MaskedNumber:    "**** **** **** 3456",
		HolderName:      "JOHN DOE",
		ExpiryDate:      now,
		Status:          model.CardStatusActive,
		Balance:         decimal.NewFromInt(100),
	}

	mock.ExpectQuery(`INSERT INTO cards (.+) RETURNING id, created_at, updated_at`).
		WithArgs(card.OwnerID, card.EncryptedNumber, card.MaskedNumber, card.HolderName,
			card.ExpiryDate, card.Status, card.Balance).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(cardID.String(), now, now))

	err = repo.CreateCard(card)

	assert.NoError(t, err)
	assert.Equal(t, cardID, card.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
