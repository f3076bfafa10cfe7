// Copyright (c) 2026 YaMDb. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/Groozzy/api-yamdb/internal/platform/request"
	"github.com/Groozzy/api-yamdb/internal/platform/respond"
)

// Handler implements the authentication HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] with the authentication routes.
//
// # Endpoints
//   - POST /signup : Registers (or re-confirms) an account and emails a code.
//   - POST /token  : Exchanges username + code for a JWT access token.
//
// Both endpoints are public by definition.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signup)
	router.Post("/token", handler.token)

	return router
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var payload signupRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Signup(request.Context(), payload.Username, payload.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The submitted identity is echoed back; the code only travels by email.
	respond.OK(writer, signupRequest{Username: payload.Username, Email: payload.Email})
}

func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	var payload tokenRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.IssueToken(request.Context(), payload.Username, payload.ConfirmationCode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tokenResponse{Token: token})
}
