package router

import (
	"bank-cards-api/handler"
	"net/http"
)

func NewRouter(userHandler *handler.UserHandler, cardHandler *handler.CardHandler, transferHandler *handler.TransferHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Public auth routes.
	if userHandler != nil {
		mux.Handle("POST /register", handler.ErrorHandlingMiddleware(userHandler.Register))
		mux.Handle("POST /login", handler.ErrorHandlingMiddleware(userHandler.Login))
		mux.Handle("POST /api/token/refresh", handler.ErrorHandlingMiddleware(userHandler.Refresh))
		mux.Handle("POST /api/logout", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(userHandler.Logout)))
	}

	// Card routes for authenticated owners.
	if cardHandler != nil {
		mux.Handle("GET /api/cards", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(cardHandler.ListMyCards)))
		mux.Handle("GET /api/cards/{cardId}", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(cardHandler.GetCard)))
		mux.Handle("POST /api/cards/{cardId}/block", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(cardHandler.RequestBlockCard)))
	}

	// Transfers.
	if transferHandler != nil {
		mux.Handle("POST /api/transfers", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(transferHandler.CreateTransfer)))
		mux.Handle("GET /api/cards/{cardId}/transfers", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(transferHandler.ListTransfersForCard)))
	}

	// Admin routes.
	if userHandler != nil {
		mux.Handle("GET /api/admin/users", handler.AuthMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.ListUsers))))
		mux.Handle("PUT /api/admin/users/{userId}/role", handler.AuthMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.UpdateUserRole))))
	}
	if cardHandler != nil {
		mux.Handle("POST /api/admin/cards", handler.AuthMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(cardHandler.CreateCard))))
		mux.Handle("GET /api/admin/cards", handler.AuthMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(cardHandler.ListAllCards))))
		mux.Handle("POST /api/admin/cards/{cardId}/activate", handler.AuthMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(cardHandler.ActivateCard))))
		mux.Handle("POST /api/admin/cards/{cardId}/block", handler.AuthMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(cardHandler.BlockCard))))
		mux.Handle("DELETE /api/admin/cards/{cardId}", handler.AuthMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(cardHandler.DeleteCard))))
	}

	return mux
}
