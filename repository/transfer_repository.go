package repository

import (
	"bank-cards-api/logger"
	"bank-cards-api/model"
	"database/sql"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ITransferRepository defines the contract for the transfer ledger.
// The ledger is append-only: no update or delete exists.
type ITransferRepository interface {
	CreateTransfer(tx *sql.Tx, transfer *model.Transfer) error
	GetTransfersByCardID(cardID uuid.UUID) ([]*model.Transfer, error)
}

type TransferRepository struct {
	DB *sql.DB
}

func NewTransferRepository(db *sql.DB) *TransferRepository {
	return &TransferRepository{DB: db}
}

// CreateTransfer appends a transfer fact inside the engine's transaction.
func (r *TransferRepository) CreateTransfer(tx *sql.Tx, transfer *model.Transfer) error {
	log := logger.Log.WithFields(logrus.Fields{
		"from_card_id": transfer.FromCardID,
		"to_card_id":   transfer.ToCardID,
		"amount":       transfer.Amount,
	})
	log.Info("Executing query to create a new transfer record")

	query := `INSERT INTO transfers (from_card_id, to_card_id, from_card_masked, to_card_masked, amount)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := tx.QueryRow(query, transfer.FromCardID, transfer.ToCardID,
		transfer.FromCardMasked, transfer.ToCardMasked, transfer.Amount).
		Scan(&transfer.ID, &transfer.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create transfer query")
		return err
	}
	return nil
}

// GetTransfersByCardID retrieves the transfer history touching a card.
func (r *TransferRepository) GetTransfersByCardID(cardID uuid.UUID) ([]*model.Transfer, error) {
	log := logger.Log.WithField("card_id", cardID)
	log.Info("Executing query to get transfers by card ID")

	query := `
		SELECT id, from_card_id, to_card_id, from_card_masked, to_card_masked, amount, created_at
		FROM transfers
		WHERE from_card_id = $1 OR to_card_id = $1
		ORDER BY created_at DESC`

	rows, err := r.DB.Query(query, cardID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for transfers by card ID")
		return nil, err
	}
	defer rows.Close()

	var transfers []*model.Transfer
	for rows.Next() {
		var t model.Transfer
		if err := rows.Scan(&t.ID, &t.FromCardID, &t.ToCardID, &t.FromCardMasked,
			&t.ToCardMasked, &t.Amount, &t.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan transfer row")
			return nil, err
		}
		transfers = append(transfers, &t)
	}

	return transfers, rows.Err()
}
