package models

import "time"

// User представляет пользователя в системе
type User struct {
	ID           string    `json:"id"`            // UUID пользователя
	Email        string    `json:"email"`         // уникальный email
	DisplayName  string    `json:"display_name"`  // уникальное отображаемое имя
	PasswordHash string    `json:"password_hash"` // bcrypt хеш пароля, наружу не отдается
	RefreshToken string    `json:"refresh_token"` // последний выданный refresh token
	CreatedAt    time.Time `json:"created_at"`    // время создания
	UpdatedAt    time.Time `json:"updated_at"`    // время последнего обновления
}
