package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transfer is an immutable ledger fact written once per successful
// transfer. Masked numbers are captured at transfer time so the record
// stays meaningful even if the cards are later removed.
type Transfer struct {
	ID             uuid.UUID       `json:"id"`
	FromCardID     uuid.UUID       `json:"from_card_id"`
	ToCardID       uuid.UUID       `json:"to_card_id"`
	FromCardMasked string          `json:"from_card_masked"`
	ToCardMasked   string          `json:"to_card_masked"`
	Amount         decimal.Decimal `json:"amount"`
	CreatedAt      time.Time       `json:"created_at"`
}
