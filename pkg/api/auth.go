package api

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email           string `json:"email"`           // email пользователя
	Password        string `json:"password"`        // пароль
	ConfirmPassword string `json:"confirmPassword"` // подтверждение пароля
	DisplayName     string `json:"displayName"`     // отображаемое имя
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // пароль
}

// TokenPairResponse представляет ответ с парой токенов
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`  // короткоживущий access token
	RefreshToken string `json:"refreshToken"` // долгоживущий refresh token
}

// RefreshResponse представляет ответ с новым refresh token
type RefreshResponse struct {
	RefreshToken string `json:"refreshToken"` // новый refresh token
}

// AccessRequest представляет запрос на ротацию access token
type AccessRequest struct {
	RefreshToken string `json:"refreshToken"` // текущий refresh token пользователя
}

// AccessResponse представляет ответ с новым access token
type AccessResponse struct {
	AccessToken string `json:"accessToken"` // новый access token
}

// MeResponse представляет ответ с данными текущего пользователя
type MeResponse struct {
	DisplayName string `json:"displayName"` // отображаемое имя, другие поля не раскрываются
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
