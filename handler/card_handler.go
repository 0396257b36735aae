package handler

import (
	"bank-cards-api/common"
	"bank-cards-api/crypto"
	"bank-cards-api/model"
	"bank-cards-api/service"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

type CardHandler struct {
	service *service.CardService
}

func NewCardHandler(s *service.CardService) *CardHandler {
	return &CardHandler{service: s}
}

// CreateCard godoc
// @Summary      Issue a new card
// @Description  Creates a card for an existing user. The plaintext number is encrypted at rest and only ever returned masked.
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        card body model.CreateCardRequest true "New card details"
// @Success      201  {object}  model.Card
// @Failure      400  {object}  common.AppError
// @Failure      404  {object}  common.AppError "Owner not found"
// @Router       /api/admin/cards [post]
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateCardRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	card, err := h.service.CreateCard(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case errors.Is(err, service.ErrNegativeInitialBalance),
			errors.Is(err, service.ErrBalancePrecision),
			errors.Is(err, crypto.ErrInvalidCardNumber):
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not create card", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(card)
	return nil
}

// GetCard godoc
// @Summary      Get a single card
// @Tags         cards
// @Produce      json
// @Security     BearerAuth
// @Param        cardId path string true "Card ID"
// @Success      200  {object}  model.Card
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/cards/{cardId} [get]
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) *common.AppError {
	cardID, appErr := cardIDFromPath(r)
	if appErr != nil {
		return appErr
	}
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	card, err := h.service.GetCard(cardID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCardNotFound):
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case errors.Is(err, service.ErrPermissionDenied):
			return common.NewAppError(http.StatusForbidden, err.Error(), err)
		default:
			// Includes crypto failures on the stored number, which are an
			// integrity problem and never reported as a missing card.
			return common.NewAppError(http.StatusInternalServerError, "Could not retrieve card", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(card)
	return nil
}

// ListMyCards godoc
// @Summary      List the caller's cards
// @Tags         cards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Card
// @Router       /api/cards [get]
func (h *CardHandler) ListMyCards(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	cards, err := h.service.ListCardsForOwner(r.Context(), userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve cards", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(cards)
	return nil
}

// ListAllCards godoc
// @Summary      List every card
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Card
// @Router       /api/admin/cards [get]
func (h *CardHandler) ListAllCards(w http.ResponseWriter, r *http.Request) *common.AppError {
	cards, err := h.service.GetAllCards()
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve cards", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(cards)
	return nil
}

// ActivateCard godoc
// @Summary      Activate a card
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        cardId path string true "Card ID"
// @Success      200  {object}  model.Card
// @Failure      400  {object}  common.AppError "Card is expired"
// @Router       /api/admin/cards/{cardId}/activate [post]
func (h *CardHandler) ActivateCard(w http.ResponseWriter, r *http.Request) *common.AppError {
	cardID, appErr := cardIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	card, err := h.service.Activate(r.Context(), cardID)
	if err != nil {
		return cardLifecycleError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(card)
	return nil
}

// BlockCard godoc
// @Summary      Block a card (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        cardId path string true "Card ID"
// @Success      200  {object}  model.Card
// @Failure      400  {object}  common.AppError "Card is expired"
// @Router       /api/admin/cards/{cardId}/block [post]
func (h *CardHandler) BlockCard(w http.ResponseWriter, r *http.Request) *common.AppError {
	cardID, appErr := cardIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	card, err := h.service.Block(r.Context(), cardID)
	if err != nil {
		return cardLifecycleError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(card)
	return nil
}

// RequestBlockCard godoc
// @Summary      Block one of the caller's own cards
// @Tags         cards
// @Produce      json
// @Security     BearerAuth
// @Param        cardId path string true "Card ID"
// @Success      200  {object}  model.Card
// @Failure      400  {object}  common.AppError "Card is expired or already blocked"
// @Failure      403  {object}  common.AppError
// @Router       /api/cards/{cardId}/block [post]
func (h *CardHandler) RequestBlockCard(w http.ResponseWriter, r *http.Request) *common.AppError {
	cardID, appErr := cardIDFromPath(r)
	if appErr != nil {
		return appErr
	}
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	card, err := h.service.RequestBlock(r.Context(), cardID, userID)
	if err != nil {
		return cardLifecycleError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(card)
	return nil
}

// DeleteCard godoc
// @Summary      Delete a card
// @Tags         admin
// @Security     BearerAuth
// @Param        cardId path string true "Card ID"
// @Success      204
// @Failure      404  {object}  common.AppError
// @Router       /api/admin/cards/{cardId} [delete]
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) *common.AppError {
	cardID, appErr := cardIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	if err := h.service.DeleteCard(r.Context(), cardID); err != nil {
		return cardLifecycleError(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func cardIDFromPath(r *http.Request) (uuid.UUID, *common.AppError) {
	cardID, err := uuid.Parse(r.PathValue("cardId"))
	if err != nil {
		return uuid.Nil, common.NewAppError(http.StatusBadRequest, "Invalid card ID in URL path", err)
	}
	return cardID, nil
}

func cardLifecycleError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrCardNotFound):
		return common.NewAppError(http.StatusNotFound, err.Error(), err)
	case errors.Is(err, service.ErrPermissionDenied):
		return common.NewAppError(http.StatusForbidden, err.Error(), err)
	case errors.Is(err, service.ErrCardExpired), errors.Is(err, service.ErrCardAlreadyBlocked):
		return common.NewAppError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, service.ErrTransferBusy):
		return common.NewAppError(http.StatusConflict, err.Error(), err)
	default:
		return common.NewAppError(http.StatusInternalServerError, "Could not update card", err)
	}
}
