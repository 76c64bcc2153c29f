package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nvoronin/passport/internal/auth"
	"github.com/nvoronin/passport/pkg/api"
)

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger  *slog.Logger
	service *auth.Service
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, service *auth.Service) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		service: service,
	}
}

// Register обрабатывает POST /api/v1/register
// Регистрация нового пользователя, в ответе пара токенов
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode register request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pair, err := h.service.Register(ctx, req.Email, req.Password, req.ConfirmPassword, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrConflict):
			h.logger.WarnContext(ctx, "register conflict", slog.Any("error", err))
			h.sendError(w, "email or display name already taken", http.StatusConflict)
		case errors.Is(err, auth.ErrValidation):
			// По контракту регистрации ошибки валидации тоже отдаются как 409
			h.logger.WarnContext(ctx, "register validation failed", slog.Any("error", err))
			h.sendError(w, "invalid registration data", http.StatusConflict)
		default:
			h.logger.ErrorContext(ctx, "failed to register user", slog.Any("error", err))
			h.sendError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully", slog.String("email", req.Email))

	h.sendJSON(w, api.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, http.StatusOK)
}

// Login обрабатывает POST /api/v1/login
// Аутентификация по email и паролю, в ответе свежая пара токенов
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pair, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			h.logger.WarnContext(ctx, "login failed: unregistered email")
			h.sendError(w, "unregistered email", http.StatusNotFound)
		case errors.Is(err, auth.ErrUnauthorized):
			h.logger.WarnContext(ctx, "login failed: wrong password")
			h.sendError(w, "invalid credentials", http.StatusConflict)
		default:
			h.logger.ErrorContext(ctx, "failed to login user", slog.Any("error", err))
			h.sendError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "user logged in successfully", slog.String("email", req.Email))

	h.sendJSON(w, api.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, http.StatusOK)
}

// Refresh обрабатывает POST /api/v1/refresh
// Выдача нового refresh token по действующему access token
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	refreshToken, err := h.service.Refresh(ctx, r.Header.Get("Authorization"))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrValidation):
			h.logger.WarnContext(ctx, "refresh failed: bad authorization header", slog.Any("error", err))
			h.sendError(w, "invalid Authorization header", http.StatusBadRequest)
		case errors.Is(err, auth.ErrExpired):
			h.logger.WarnContext(ctx, "refresh failed: access token expired")
			h.sendError(w, "access token expired", http.StatusUnauthorized)
		case errors.Is(err, auth.ErrUnauthorized):
			h.logger.WarnContext(ctx, "refresh failed: invalid access token", slog.Any("error", err))
			h.sendError(w, "invalid access token", http.StatusUnauthorized)
		default:
			h.logger.ErrorContext(ctx, "failed to refresh token", slog.Any("error", err))
			h.sendError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.sendJSON(w, api.RefreshResponse{RefreshToken: refreshToken}, http.StatusOK)
}

// Access обрабатывает POST /api/v1/access
// Ротация access token: в теле текущий refresh token, в Authorization
// подписанный access token того же пользователя
func (h *AuthHandler) Access(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.AccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode access request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	accessToken, err := h.service.RotateAccess(ctx, req.RefreshToken, r.Header.Get("Authorization"))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUnauthorized):
			h.logger.WarnContext(ctx, "access rotation unauthorized", slog.Any("error", err))
			h.sendError(w, "invalid refresh token", http.StatusUnauthorized)
		case errors.Is(err, auth.ErrNotFound):
			h.logger.WarnContext(ctx, "access rotation failed: user not found")
			h.sendError(w, "user not found", http.StatusNotFound)
		case errors.Is(err, auth.ErrValidation):
			h.logger.WarnContext(ctx, "access rotation validation failed", slog.Any("error", err))
			h.sendError(w, "invalid access token", http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "failed to rotate access token", slog.Any("error", err))
			h.sendError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.sendJSON(w, api.AccessResponse{AccessToken: accessToken}, http.StatusOK)
}

// Me обрабатывает GET /api/v1/me
// Возвращает отображаемое имя владельца access token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	displayName, err := h.service.Me(ctx, r.Header.Get("Authorization"))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrValidation):
			h.logger.WarnContext(ctx, "me failed: bad authorization header", slog.Any("error", err))
			h.sendError(w, "invalid Authorization header", http.StatusBadRequest)
		case errors.Is(err, auth.ErrExpired):
			h.logger.WarnContext(ctx, "me failed: access token expired")
			h.sendError(w, "access token expired", http.StatusUnauthorized)
		case errors.Is(err, auth.ErrUnauthorized):
			h.logger.WarnContext(ctx, "me failed: invalid access token", slog.Any("error", err))
			h.sendError(w, "invalid access token", http.StatusUnauthorized)
		case errors.Is(err, auth.ErrNotFound):
			h.logger.WarnContext(ctx, "me failed: user not found")
			h.sendError(w, "user not found", http.StatusNotFound)
		default:
			h.logger.ErrorContext(ctx, "failed to get current user", slog.Any("error", err))
			h.sendError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.sendJSON(w, api.MeResponse{DisplayName: displayName}, http.StatusOK)
}

// sendJSON отправляет JSON ответ
func (h *AuthHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
// Во внешний ответ попадает только классификация, детали остаются в логах
func (h *AuthHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	h.sendJSON(w, resp, statusCode)
}
