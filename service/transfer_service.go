package service

import (
	"bank-cards-api/logger"
	"bank-cards-api/model"
	"bank-cards-api/repository"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrSenderCardNotFound   = errors.New("sender card not found")
	ErrReceiverCardNotFound = errors.New("receiver card not found")
	ErrSameCardTransfer     = errors.New("cannot transfer money to the same card")
	ErrPermissionDenied     = errors.New("you can only operate on your own cards")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidAmount        = errors.New("transfer amount must be greater than zero")
	ErrAmountPrecision      = errors.New("transfer amount cannot have more than two decimal places")
	ErrTransferBusy         = errors.New("card is locked by another operation, try again")
)

// CardInactiveError reports which side of a transfer is not ACTIVE and the
// status it was found in.
type CardInactiveError struct {
	Label  string
	Status model.CardStatus
}

func (e *CardInactiveError) Error() string {
	return fmt.Sprintf("%s is not active (status: %s)", e.Label, e.Status)
}

type TransferService struct {
	db           *sql.DB
	cardRepo     repository.ICardRepository
	transferRepo repository.ITransferRepository
	cache        ICacheClient
}

func NewTransferService(db *sql.DB, cardRepo repository.ICardRepository, transferRepo repository.ITransferRepository, cache ICacheClient) *TransferService {
	return &TransferService{
		db:           db,
		cardRepo:     cardRepo,
		transferRepo: transferRepo,
		cache:        cache,
	}
}

// uuidBefore is the total order used for lock acquisition.
func uuidBefore(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// Transfer moves amount between two cards of the same owner as one atomic
// unit: both rows are locked in canonical id order, the business invariants
// are checked, both balances are written and the ledger fact is appended,
// all inside a single transaction.
//
// Locking the lower id first regardless of transfer direction makes a
// circular wait between two opposite transfers over the same pair
// impossible.
func (s *TransferService) Transfer(ctx context.Context, callerID, fromID, toID uuid.UUID, amount decimal.Decimal) (*model.Transfer, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"from_card_id": fromID,
		"to_card_id":   toID,
		"amount":       amount,
		"caller_id":    callerID,
	})
	log.Info("Starting card transfer")

	if fromID == toID {
		return nil, ErrSameCardTransfer
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	// Balances are stored with two fractional digits. A finer amount would
	// be silently rounded on write, so the pair's total could drift.
	if amount.Exponent() < -2 {
		return nil, ErrAmountPrecision
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	first, second := fromID, toID
	if uuidBefore(toID, fromID) {
		first, second = toID, fromID
	}

	locked := make(map[uuid.UUID]*model.Card, 2)
	for _, id := range []uuid.UUID{first, second} {
		card, err := s.cardRepo.GetCardForUpdate(tx, id)
		if err != nil {
			if err == sql.ErrNoRows {
				if id == fromID {
					return nil, ErrSenderCardNotFound
				}
				return nil, ErrReceiverCardNotFound
			}
			return nil, classifyLockError(err)
		}
		locked[id] = card
	}
	fromCard, toCard := locked[fromID], locked[toID]

	if fromCard.OwnerID != callerID || toCard.OwnerID != callerID {
		return nil, ErrPermissionDenied
	}

	if fromCard.Status != model.CardStatusActive {
		return nil, &CardInactiveError{Label: "sender card", Status: fromCard.Status}
	}
	if toCard.Status != model.CardStatusActive {
		return nil, &CardInactiveError{Label: "receiver card", Status: toCard.Status}
	}

	if fromCard.Balance.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}

	if err := s.cardRepo.UpdateCardBalance(tx, fromCard.ID, fromCard.Balance.Sub(amount)); err != nil {
		return nil, fmt.Errorf("could not update sender balance: %w", err)
	}
	if err := s.cardRepo.UpdateCardBalance(tx, toCard.ID, toCard.Balance.Add(amount)); err != nil {
		return nil, fmt.Errorf("could not update receiver balance: %w", err)
	}

	transfer := &model.Transfer{
		FromCardID:     fromCard.ID,
		ToCardID:       toCard.ID,
		FromCardMasked: fromCard.MaskedNumber,
		ToCardMasked:   toCard.MaskedNumber,
		Amount:         amount,
	}

	if err := s.transferRepo.CreateTransfer(tx, transfer); err != nil {
		return nil, fmt.Errorf("could not create transfer record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	invalidateCards(ctx, s.cache, callerID)

	log.Info("Transfer completed successfully")
	return transfer, nil
}

// ListTransfersForCard retrieves the transfer history for a card owned by
// the requesting user.
func (s *TransferService) ListTransfersForCard(ctx context.Context, callerID, cardID uuid.UUID) ([]*model.Transfer, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"caller_id": callerID,
		"card_id":   cardID,
	})

	card, err := s.cardRepo.GetCardByID(cardID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	if card.OwnerID != callerID {
		log.Warn("Permission denied for accessing card's transfer history")
		return nil, ErrPermissionDenied
	}

	return s.transferRepo.GetTransfersByCardID(cardID)
}

// classifyLockError turns a lock_timeout failure (SQLSTATE 55P03) into
// ErrTransferBusy so callers can retry; everything else passes through.
func classifyLockError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "55P03" {
		return ErrTransferBusy
	}
	return err
}
