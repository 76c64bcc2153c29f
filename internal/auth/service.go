package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nvoronin/passport/internal/crypto"
	"github.com/nvoronin/passport/internal/models"
	"github.com/nvoronin/passport/internal/server/storage"
	"github.com/nvoronin/passport/internal/token"
	"github.com/nvoronin/passport/internal/validation"
)

// TokenPair содержит пару токенов, выдаваемую при регистрации и логине
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service реализует флоу аутентификации: register, login, refresh,
// ротация access token и получение текущего пользователя.
// Каждая операция выполняет упорядоченную цепочку проверок и
// прерывается на первой неудачной, без частичных побочных эффектов.
type Service struct {
	users  storage.UserStorage
	tokens *token.Service
}

// NewService создает новый auth service
func NewService(users storage.UserStorage, tokens *token.Service) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
	}
}

// Register регистрирует нового пользователя и возвращает пару токенов.
// Ошибки: ErrConflict (email или displayName заняты),
// ErrValidation (некорректные поля, пароли не совпадают).
func (s *Service) Register(ctx context.Context, email, password, confirmPassword, displayName string) (*TokenPair, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validation.ValidateDisplayName(displayName); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// Проверка уникальности email
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already exists", ErrConflict)
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	// Проверка уникальности отображаемого имени
	if _, err := s.users.GetUserByDisplayName(ctx, displayName); err == nil {
		return nil, fmt.Errorf("%w: display name already exists", ErrConflict)
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check display name: %w", err)
	}

	// Пароль и подтверждение должны совпадать
	if password != confirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", ErrValidation)
	}

	userID := uuid.New().String()

	passwordHash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	// Пользователь создается сразу с refresh token: не существует
	// состояния, в котором зарегистрированный пользователь не имеет
	// активного refresh token
	now := time.Now()
	user := &models.User{
		ID:           userID,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		RefreshToken: refreshToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// Хранилище повторно проверяет уникальность атомарно:
		// гонка двух одновременных регистраций закрывается здесь
		if errors.Is(err, storage.ErrEmailExists) {
			return nil, fmt.Errorf("%w: email already exists", ErrConflict)
		}
		if errors.Is(err, storage.ErrDisplayNameExists) {
			return nil, fmt.Errorf("%w: display name already exists", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	accessToken, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Login аутентифицирует пользователя по email и паролю.
// Новый refresh token перезаписывает сохраненный, делая недействительными
// все ранее выданные.
// Ошибки: ErrNotFound (email не зарегистрирован), ErrUnauthorized (пароль не подходит).
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: unregistered email", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := crypto.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, fmt.Errorf("%w: wrong password", ErrUnauthorized)
	}

	accessToken, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh выдает новый refresh token по действующему access token
// из заголовка Authorization. Новый токен перезаписывает сохраненный,
// как и при логине.
// Ошибки: ErrValidation (заголовок), ErrExpired (access token истек),
// ErrUnauthorized (любая другая ошибка верификации).
func (s *Service) Refresh(ctx context.Context, authorization string) (string, error) {
	credentials, err := parseBearer(authorization)
	if err != nil {
		return "", err
	}

	claims, err := s.tokens.Verify(credentials)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return "", fmt.Errorf("%w: access token expired", ErrExpired)
		}
		return "", fmt.Errorf("%w: invalid access token", ErrUnauthorized)
	}

	refreshToken, err := s.tokens.IssueRefresh(claims.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to issue refresh token: %w", err)
	}

	if err := s.users.UpdateRefreshToken(ctx, claims.UserID, refreshToken); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", fmt.Errorf("%w: unknown user", ErrUnauthorized)
		}
		return "", fmt.Errorf("failed to save refresh token: %w", err)
	}

	return refreshToken, nil
}

// RotateAccess выдает новый access token в обмен на действующий refresh
// token, подтвержденный подписанным access token того же пользователя.
// Самая строгая последовательность проверок в системе:
//  1. refresh token проходит полную верификацию;
//  2. пользователь с id из refresh token существует;
//  3. предъявленный refresh token в точности равен сохраненному
//     (валидная подпись сама по себе недостаточна);
//  4. access token из Authorization подписан нашим ключом и алгоритмом;
//  5. id в обоих токенах совпадают.
//
// Ошибки: ErrUnauthorized, ErrNotFound, ErrValidation.
func (s *Service) RotateAccess(ctx context.Context, refreshToken, authorization string) (string, error) {
	// Полная верификация refresh token: подпись, алгоритм, срок
	refreshClaims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return "", fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	user, err := s.users.GetUserByID(ctx, refreshClaims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", fmt.Errorf("%w: unknown user", ErrNotFound)
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	// Действителен только последний выданный refresh token:
	// проверяем точное совпадение с сохраненным
	if refreshToken != user.RefreshToken {
		return "", fmt.Errorf("%w: refresh tokens do not match", ErrUnauthorized)
	}

	credentials, err := parseBearer(authorization)
	if err != nil {
		return "", err
	}

	// Для access token проверяется только подпись и алгоритм:
	// истекший, но корректно подписанный токен принимается
	if err := s.tokens.VerifySignature(credentials); err != nil {
		return "", fmt.Errorf("%w: invalid access token", ErrValidation)
	}

	accessClaims, err := s.tokens.Decode(credentials)
	if err != nil {
		return "", fmt.Errorf("%w: invalid access token", ErrValidation)
	}

	// Оба токена должны принадлежать одному пользователю
	if accessClaims.UserID != refreshClaims.UserID {
		return "", fmt.Errorf("%w: token identity mismatch", ErrValidation)
	}

	accessToken, err := s.tokens.IssueAccess(refreshClaims.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}

	return accessToken, nil
}

// Me возвращает отображаемое имя пользователя по access token
// из заголовка Authorization. Никакие другие поля не раскрываются.
// Ошибки: ErrValidation, ErrExpired, ErrUnauthorized, ErrNotFound.
func (s *Service) Me(ctx context.Context, authorization string) (string, error) {
	credentials, err := parseBearer(authorization)
	if err != nil {
		return "", err
	}

	claims, err := s.tokens.Verify(credentials)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return "", fmt.Errorf("%w: access token expired", ErrExpired)
		}
		return "", fmt.Errorf("%w: invalid access token", ErrUnauthorized)
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", fmt.Errorf("%w: unknown user", ErrNotFound)
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	return user.DisplayName, nil
}

// parseBearer извлекает credentials из заголовка Authorization
// формата "Bearer <token>"
func parseBearer(authorization string) (string, error) {
	if authorization == "" {
		return "", fmt.Errorf("%w: Authorization header is required", ErrValidation)
	}

	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("%w: only Bearer scheme is supported", ErrValidation)
	}

	if parts[1] == "" {
		return "", fmt.Errorf("%w: token is empty", ErrValidation)
	}

	return parts[1], nil
}
