package repository

import (
	"bank-cards-api/logger"
	"bank-cards-api/model"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ICardRepository defines the contract for card database operations.
// Transfer and lifecycle code must use GetCardForUpdate so every balance or
// status mutation happens under the row's exclusive lock.
type ICardRepository interface {
	CreateCard(card *model.Card) error
	GetCardByID(id uuid.UUID) (*model.Card, error)
	GetCardsByOwner(ownerID uuid.UUID) ([]*model.Card, error)
	GetAllCards() ([]*model.Card, error)
	GetCardForUpdate(tx *sql.Tx, id uuid.UUID) (*model.Card, error)
	UpdateCardBalance(tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal) error
	UpdateCardStatus(tx *sql.Tx, id uuid.UUID, status model.CardStatus) error
	DeleteCard(tx *sql.Tx, id uuid.UUID) error
}

type CardRepository struct {
	DB *sql.DB
}

func NewCardRepository(db *sql.DB) *CardRepository {
	return &CardRepository{DB: db}
}

const cardColumns = `id, owner_id, encrypted_number, masked_number, holder_name, expiry_date, status, balance, created_at, updated_at`

func scanCard(row interface{ Scan(...interface{}) error }) (*model.Card, error) {
	card := &model.Card{}
	err := row.Scan(&card.ID, &card.OwnerID, &card.EncryptedNumber, &card.MaskedNumber,
		&card.HolderName, &card.ExpiryDate, &card.Status, &card.Balance,
		&card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return card, nil
}

// CreateCard inserts a new card and fills in the generated id and timestamps.
func (r *CardRepository) CreateCard(card *model.Card) error {
	log := logger.Log.WithFields(logrus.Fields{
		"owner_id":      card.OwnerID,
		"masked_number": card.MaskedNumber,
	})
	log.Info("Executing query to create a new card")

	query := `INSERT INTO cards (owner_id, encrypted_number, masked_number, holder_name, expiry_date, status, balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	err := r.DB.QueryRow(query, card.OwnerID, card.EncryptedNumber, card.MaskedNumber,
		card.HolderName, card.ExpiryDate, card.Status, card.Balance).
		Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create card query")
		return err
	}
	return nil
}

// GetCardByID is the plain, lock-free read used by display paths.
func (r *CardRepository) GetCardByID(id uuid.UUID) (*model.Card, error) {
	log := logger.Log.WithField("card_id", id)

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`
	card, err := scanCard(r.DB.QueryRow(query, id))
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get card by id query")
		}
		return nil, err
	}
	return card, nil
}

// GetCardsByOwner retrieves all cards belonging to a specific user.
func (r *CardRepository) GetCardsByOwner(ownerID uuid.UUID) ([]*model.Card, error) {
	log := logger.Log.WithField("owner_id", ownerID)
	log.Info("Executing query to get cards by owner")

	query := `SELECT ` + cardColumns + ` FROM cards WHERE owner_id = $1 ORDER BY created_at`
	rows, err := r.DB.Query(query, ownerID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for cards by owner")
		return nil, err
	}
	defer rows.Close()

	var cards []*model.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan card row")
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// GetAllCards retrieves all cards from the database. For admin use only.
func (r *CardRepository) GetAllCards() ([]*model.Card, error) {
	log := logger.Log
	log.Info("Executing query to get all cards")

	query := `SELECT ` + cardColumns + ` FROM cards ORDER BY created_at`
	rows, err := r.DB.Query(query)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for all cards")
		return nil, err
	}
	defer rows.Close()

	var cards []*model.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan card row")
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// GetCardForUpdate reads a card under FOR UPDATE, holding its row lock
// until the enclosing transaction ends.
func (r *CardRepository) GetCardForUpdate(tx *sql.Tx, id uuid.UUID) (*model.Card, error) {
	log := logger.Log.WithField("card_id", id)
	log.Info("Executing query to get card for update")

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1 FOR UPDATE`
	card, err := scanCard(tx.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Card not found for update")
		} else {
			log.WithError(err).Error("Failed to execute get card for update query")
		}
		return nil, err
	}
	return card, nil
}

func (r *CardRepository) UpdateCardBalance(tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal) error {
	log := logger.Log.WithFields(logrus.Fields{
		"card_id":     id,
		"new_balance": newBalance,
	})
	log.Info("Executing query to update card balance")

	query := `UPDATE cards SET balance = $1, updated_at = now() WHERE id = $2`
	_, err := tx.Exec(query, newBalance, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute update card balance query")
		return err
	}
	return nil
}

func (r *CardRepository) UpdateCardStatus(tx *sql.Tx, id uuid.UUID, status model.CardStatus) error {
	log := logger.Log.WithFields(logrus.Fields{
		"card_id": id,
		"status":  status,
	})
	log.Info("Executing query to update card status")

	query := `UPDATE cards SET status = $1, updated_at = now() WHERE id = $2`
	_, err := tx.Exec(query, status, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute update card status query")
		return err
	}
	return nil
}

// DeleteCard removes a card row. Callers must hold the row lock in the same
// transaction so a card cannot vanish under an in-flight transfer.
func (r *CardRepository) DeleteCard(tx *sql.Tx, id uuid.UUID) error {
	log := logger.Log.WithField("card_id", id)
	log.Info("Executing query to delete card")

	query := `DELETE FROM cards WHERE id = $1`
	_, err := tx.Exec(query, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete card query")
		return err
	}
	return nil
}
