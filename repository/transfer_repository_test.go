package repository

import (
	"bank-cards-api/model"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransferRepository_CreateTransfer(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTransferRepository(db)
	transferID := uuid.New()
	now := time.Now()

	transfer := &model.Transfer{
		FromCardID:     uuid.New(),
		ToCardID:       uuid.New(),
		FromCardMasked: "**** **** **** 1111",
		ToCardMasked:   "**** **** **** 2222",
		Amount:         decimal.NewFromInt(1000),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO transfers (.+) RETURNING id, created_at`).
		WithArgs(transfer.FromCardID, transfer.ToCardID, transfer.FromCardMasked,
			transfer.ToCardMasked, transfer.Amount).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(transferID.String(), now))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)

	err = repo.CreateTransfer(tx, transfer)

	assert.NoError(t, err)
	assert.Equal(t, transferID, transfer.ID)
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferRepository_GetTransfersByCardID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTransferRepository(db)
	cardID := uuid.New()
	otherID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "from_card_id", "to_card_id", "from_card_masked",
		"to_card_masked", "amount", "created_at"}).
		AddRow(uuid.New().String(), cardID.String(), otherID.String(),
			"**** **** **** 1111", "**** **** **** 2222", "250.00", now).
		AddRow(uuid.New().String(), otherID.String(), cardID.String(),
			"**** **** **** 2222", "**** **** **** 1111", "99.99", now)

	mock.ExpectQuery(`SELECT (.+) FROM transfers WHERE from_card_id = \$1 OR to_card_id = \$1`).
		WithArgs(cardID).
		WillReturnRows(rows)

	transfers, err := repo.GetTransfersByCardID(cardID)

	assert.NoError(t, err)
	assert.Len(t, transfers, 2)
	assert.True(t, transfers[0].Amount.Equal(decimal.RequireFromString("250.00")))
	assert.Equal(t, cardID, transfers[1].ToCardID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
