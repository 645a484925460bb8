package handler

import (
	"errors"
	"net/http"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/model"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/response"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/service"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log.With().Str("component", "auth_handler").Logger(),
	}
}

// Login godoc
// POST /api/auth/login
// Verifies email + password and returns an access/refresh token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		internalError(c, h.log, err, "login failed")
		return
	}

	response.Success(c, http.StatusOK, "Login successful", authResponse(res))
}

// Register godoc
// POST /api/auth/register
// Creates an account and logs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		var storeErr *service.StoreError
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			response.Fail(c, http.StatusBadRequest, response.ErrEmailTaken)
		case errors.Is(err, service.ErrPasswordTooLong):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"password": "password must be at most 72 bytes"})
		case errors.As(err, &storeErr):
			h.log.Warn().Err(storeErr.Err).Str("request_id", response.RequestID(c)).Msg("register insert failed")
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrRegistration, storeErr.Message)
		default:
			internalError(c, h.log, err, "register failed")
		}
		return
	}

	response.Success(c, http.StatusCreated, "User registered successfully", authResponse(res))
}

// Refresh godoc
// POST /api/auth/refresh
// Exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	// An unreadable body is treated the same as a missing token.
	_ = c.ShouldBindJSON(&req)

	access, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshTokenRequired):
			response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		case errors.Is(err, service.ErrTokenInvalid), errors.Is(err, service.ErrTokenExpired):
			response.Fail(c, http.StatusForbidden, response.ErrTokenInvalid)
		case errors.Is(err, service.ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
		default:
			internalError(c, h.log, err, "refresh failed")
		}
		return
	}

	response.Success(c, http.StatusOK, "Token refreshed", model.RefreshResponse{AccessToken: access})
}

// Me godoc
// GET /api/auth/me
// Returns the profile of the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
			return
		}
		internalError(c, h.log, err, "profile lookup failed")
		return
	}

	response.Success(c, http.StatusOK, "OK", user.Public())
}

func authResponse(res *service.AuthResult) model.AuthResponse {
	return model.AuthResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		User:         res.User.Public(),
	}
}
