package service

import (
	"bank-cards-api/crypto"
	"bank-cards-api/logger"
	"bank-cards-api/model"
	"bank-cards-api/repository"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrCardNotFound           = errors.New("card not found")
	ErrUserNotFound           = errors.New("card owner not found")
	ErrCardExpired            = errors.New("cannot change status of an expired card")
	ErrCardAlreadyBlocked     = errors.New("card is already blocked")
	ErrNegativeInitialBalance = errors.New("initial balance cannot be negative")
	ErrBalancePrecision       = errors.New("initial balance cannot have more than two decimal places")
)

// CardService owns card issuing and the ACTIVE/BLOCKED/EXPIRED lifecycle.
// Status transitions take the same exclusive row lock as the transfer
// engine, so a lifecycle change can never race a transfer that is mid-flight
// on the card.
type CardService struct {
	db       *sql.DB
	cardRepo repository.ICardRepository
	userRepo repository.IUserRepository
	cipher   *crypto.CardCipher
	cache    ICacheClient
}

func NewCardService(db *sql.DB, cardRepo repository.ICardRepository, userRepo repository.IUserRepository, cipher *crypto.CardCipher, cache ICacheClient) *CardService {
	return &CardService{
		db:       db,
		cardRepo: cardRepo,
		userRepo: userRepo,
		cipher:   cipher,
		cache:    cache,
	}
}

// CreateCard issues a new card for an existing user. The plaintext number
// is encrypted and masked here and discarded; only the ciphertext and mask
// are persisted.
func (s *CardService) CreateCard(ctx context.Context, req model.CreateCardRequest) (*model.Card, error) {
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id: %w", err)
	}

	log := logger.Log.WithField("owner_id", ownerID)
	log.Info("Creating a new card")

	if req.InitialBalance.IsNegative() {
		return nil, ErrNegativeInitialBalance
	}
	if req.InitialBalance.Exponent() < -2 {
		return nil, ErrBalancePrecision
	}

	if _, err := s.userRepo.GetUserByID(ownerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	expiryDate, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry date: %w", err)
	}

	encryptedNumber, err := s.cipher.Encrypt(req.CardNumber)
	if err != nil {
		return nil, err
	}
	maskedNumber, err := crypto.Mask(req.CardNumber)
	if err != nil {
		return nil, err
	}

	card := &model.Card{
		OwnerID:         ownerID,
		EncryptedNumber: encryptedNumber,
		MaskedNumber:    maskedNumber,
		HolderName:      req.HolderName,
		ExpiryDate:      expiryDate,
		Status:          model.CardStatusActive,
		Balance:         req.InitialBalance,
	}

	if err := s.cardRepo.CreateCard(card); err != nil {
		return nil, err
	}

	invalidateCards(ctx, s.cache, ownerID)
	return card, nil
}

// GetCard returns a single card to its owner. The stored ciphertext is
// decrypted and discarded on the way out: a blob that no longer
// authenticates is an integrity failure and is reported as such, never as
// a missing card.
func (s *CardService) GetCard(cardID, callerID uuid.UUID) (*model.Card, error) {
	card, err := s.cardRepo.GetCardByID(cardID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	if card.OwnerID != callerID {
		return nil, ErrPermissionDenied
	}

	if _, err := s.cipher.Decrypt(card.EncryptedNumber); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"card_id": cardID,
		}).WithError(err).Error("Stored card number failed decryption")
		return nil, err
	}

	return card, nil
}

// ListCardsForOwner lists a user's cards with a cache-aside strategy.
func (s *CardService) ListCardsForOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Card, error) {
	cacheKey := cardsCacheKey(ownerID)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var cards []*model.Card
			if err := json.Unmarshal([]byte(cached), &cards); err == nil {
				return cards, nil
			}
		}
	}

	cards, err := s.cardRepo.GetCardsByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(cards); err == nil {
			s.cache.Set(ctx, cacheKey, data, 10*time.Minute)
		}
	}

	return cards, nil
}

// GetAllCards retrieves every card. Admin paths skip the cache so the data
// is always fresh.
func (s *CardService) GetAllCards() ([]*model.Card, error) {
	return s.cardRepo.GetAllCards()
}

// Activate sets a card back to ACTIVE. Expired cards are terminal.
func (s *CardService) Activate(ctx context.Context, cardID uuid.UUID) (*model.Card, error) {
	return s.mutateLocked(ctx, cardID, func(tx *sql.Tx, card *model.Card) error {
		if card.Status == model.CardStatusExpired {
			return ErrCardExpired
		}
		if err := s.cardRepo.UpdateCardStatus(tx, cardID, model.CardStatusActive); err != nil {
			return err
		}
		card.Status = model.CardStatusActive
		return nil
	})
}

// Block is the admin transition to BLOCKED. Expired cards are terminal.
func (s *CardService) Block(ctx context.Context, cardID uuid.UUID) (*model.Card, error) {
	return s.mutateLocked(ctx, cardID, func(tx *sql.Tx, card *model.Card) error {
		if card.Status == model.CardStatusExpired {
			return ErrCardExpired
		}
		if err := s.cardRepo.UpdateCardStatus(tx, cardID, model.CardStatusBlocked); err != nil {
			return err
		}
		card.Status = model.CardStatusBlocked
		return nil
	})
}

// RequestBlock lets a card's owner block their own card.
func (s *CardService) RequestBlock(ctx context.Context, cardID, callerID uuid.UUID) (*model.Card, error) {
	return s.mutateLocked(ctx, cardID, func(tx *sql.Tx, card *model.Card) error {
		if card.OwnerID != callerID {
			return ErrPermissionDenied
		}
		if card.Status == model.CardStatusExpired {
			return ErrCardExpired
		}
		if card.Status == model.CardStatusBlocked {
			return ErrCardAlreadyBlocked
		}
		if err := s.cardRepo.UpdateCardStatus(tx, cardID, model.CardStatusBlocked); err != nil {
			return err
		}
		card.Status = model.CardStatusBlocked
		return nil
	})
}

// DeleteCard removes a card. The row lock is taken first so the card cannot
// be deleted out from under an in-flight transfer.
func (s *CardService) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	_, err := s.mutateLocked(ctx, cardID, func(tx *sql.Tx, card *model.Card) error {
		return s.cardRepo.DeleteCard(tx, cardID)
	})
	return err
}

// mutateLocked runs fn against a card held under its exclusive row lock and
// commits, then invalidates the owner's cached listing.
func (s *CardService) mutateLocked(ctx context.Context, cardID uuid.UUID, fn func(tx *sql.Tx, card *model.Card) error) (*model.Card, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	card, err := s.cardRepo.GetCardForUpdate(tx, cardID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCardNotFound
		}
		return nil, classifyLockError(err)
	}

	if err := fn(tx, card); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	invalidateCards(ctx, s.cache, card.OwnerID)
	return card, nil
}
