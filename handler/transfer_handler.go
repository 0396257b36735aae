package handler

import (
	"bank-cards-api/common"
	"bank-cards-api/model"
	"bank-cards-api/service"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// TransferHandler holds dependencies for transfer-related handlers.
type TransferHandler struct {
	service *service.TransferService
}

// NewTransferHandler creates a new TransferHandler with its dependencies.
func NewTransferHandler(s *service.TransferService) *TransferHandler {
	return &TransferHandler{service: s}
}

// CreateTransfer godoc
// @Summary      Transfer money between two of the caller's cards
// @Description  Moves a specified amount from one card to another. Both cards must belong to the authenticated user and be ACTIVE.
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transfer body model.TransferRequest true "Details of the transfer"
// @Success      201  {object}  model.Transfer
// @Failure      400  {object}  common.AppError "Bad Request (e.g., insufficient funds, inactive card, invalid amount)"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      403  {object}  common.AppError "Forbidden: A card does not belong to the caller"
// @Failure      404  {object}  common.AppError "Sender or receiver card not found"
// @Failure      409  {object}  common.AppError "Card row is locked by another operation"
// @Failure      500  {object}  common.AppError "Internal server error while processing transfer"
// @Router       /api/transfers [post]
func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.TransferRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	fromID, err := uuid.Parse(req.FromCardID)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid sender card ID", err)
	}
	toID, err := uuid.Parse(req.ToCardID)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid receiver card ID", err)
	}

	transfer, err := h.service.Transfer(r.Context(), userID, fromID, toID, req.Amount)
	if err != nil {
		// Map business errors to appropriate HTTP status codes.
		var inactive *service.CardInactiveError
		switch {
		case errors.Is(err, service.ErrSenderCardNotFound), errors.Is(err, service.ErrReceiverCardNotFound):
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case errors.Is(err, service.ErrPermissionDenied):
			return common.NewAppError(http.StatusForbidden, err.Error(), err)
		case errors.Is(err, service.ErrInsufficientFunds),
			errors.Is(err, service.ErrSameCardTransfer),
			errors.Is(err, service.ErrInvalidAmount),
			errors.Is(err, service.ErrAmountPrecision),
			errors.As(err, &inactive):
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		case errors.Is(err, service.ErrTransferBusy):
			return common.NewAppError(http.StatusConflict, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not process transfer", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(transfer)
	return nil
}

// ListTransfersForCard godoc
// @Summary      List a card's transfer history
// @Description  Retrieves the transfer history for a specific card owned by the authenticated user.
// @Tags         transfers
// @Produce      json
// @Security     BearerAuth
// @Param        cardId path string true "The ID of the card to retrieve transfers for"
// @Success      200  {array}   model.Transfer
// @Failure      400  {object}  common.AppError "Invalid card ID in URL path"
// @Failure      403  {object}  common.AppError "Forbidden: User does not own the specified card"
// @Failure      404  {object}  common.AppError "Card not found"
// @Router       /api/cards/{cardId}/transfers [get]
func (h *TransferHandler) ListTransfersForCard(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	cardID, err := uuid.Parse(r.PathValue("cardId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid card ID in URL path", err)
	}

	transfers, err := h.service.ListTransfersForCard(r.Context(), userID, cardID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCardNotFound):
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case errors.Is(err, service.ErrPermissionDenied):
			return common.NewAppError(http.StatusForbidden, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not retrieve transfers", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transfers)
	return nil
}
