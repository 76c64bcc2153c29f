package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("test-secret-key-for-hs512-signing")

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(testKey, time.Minute, time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewService_Invariants(t *testing.T) {
	tests := []struct {
		name       string
		key        []byte
		accessTTL  time.Duration
		refreshTTL time.Duration
		wantErr    bool
	}{
		{"valid", testKey, time.Minute, time.Hour, false},
		{"empty key", nil, time.Minute, time.Hour, true},
		{"zero access TTL", testKey, 0, time.Hour, true},
		{"refresh equals access", testKey, time.Minute, time.Minute, true},
		{"refresh below access", testKey, time.Hour, time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(tt.key, tt.accessTTL, tt.refreshTTL)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_IssueAndVerify_RoundTrip(t *testing.T) {
	svc := newTestService(t)

	for _, issue := range []struct {
		name string
		fn   func(string) (string, error)
	}{
		{"access", svc.IssueAccess},
		{"refresh", svc.IssueRefresh},
	} {
		t.Run(issue.name, func(t *testing.T) {
			tokenString, err := issue.fn("user-123")
			require.NoError(t, err)

			// Компактный формат: три сегмента через точку
			assert.Equal(t, 3, len(strings.Split(tokenString, ".")))

			claims, err := svc.Verify(tokenString)
			require.NoError(t, err)
			assert.Equal(t, "user-123", claims.UserID)
		})
	}
}

func TestService_Verify_TamperedSignature(t *testing.T) {
	svc := newTestService(t)

	tokenString, err := svc.IssueAccess("user-123")
	require.NoError(t, err)

	// Портим один символ в середине сегмента подписи
	parts := strings.Split(tokenString, ".")
	sig := []byte(parts[2])
	mid := len(sig) / 2
	if sig[mid] == 'A' {
		sig[mid] = 'B'
	} else {
		sig[mid] = 'A'
	}
	parts[2] = string(sig)
	tampered := strings.Join(parts, ".")

	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestService_Verify_WrongKey(t *testing.T) {
	svc := newTestService(t)

	other, err := NewService([]byte("another-secret"), time.Minute, time.Hour)
	require.NoError(t, err)

	tokenString, err := other.IssueAccess("user-123")
	require.NoError(t, err)

	_, err = svc.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestService_Verify_Expired(t *testing.T) {
	svc := newTestService(t)

	// Выпускаем токен "в прошлом", проверяем настоящим временем
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tokenString, err := svc.IssueAccess("user-123")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(tokenString)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestService_Verify_UnsupportedAlgorithm(t *testing.T) {
	svc := newTestService(t)

	// Токен с тем же ключом, но HS256 в заголовке
	claims := Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
	require.NoError(t, err)

	_, err = svc.Verify(tokenString)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestService_Verify_Malformed(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"one segment", "abc"},
		{"two segments", "abc.def"},
		{"four segments", "a.b.c.d"},
		{"garbage base64", "!!!.@@@.###"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestService_Decode_NoVerification(t *testing.T) {
	svc := newTestService(t)

	// Decode возвращает payload даже для токена с чужой подписью
	other, err := NewService([]byte("another-secret"), time.Minute, time.Hour)
	require.NoError(t, err)

	tokenString, err := other.IssueAccess("user-456")
	require.NoError(t, err)

	claims, err := svc.Decode(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-456", claims.UserID)

	_, err = svc.Decode("not-a-token")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestService_VerifySignature(t *testing.T) {
	svc := newTestService(t)

	t.Run("valid token", func(t *testing.T) {
		tokenString, err := svc.IssueAccess("user-123")
		require.NoError(t, err)
		assert.NoError(t, svc.VerifySignature(tokenString))
	})

	t.Run("expired token still passes", func(t *testing.T) {
		// Проверяется только подпись, срок действия не учитывается
		svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		tokenString, err := svc.IssueAccess("user-123")
		require.NoError(t, err)
		svc.now = time.Now

		assert.NoError(t, svc.VerifySignature(tokenString))
	})

	t.Run("payload from another token", func(t *testing.T) {
		first, err := svc.IssueAccess("user-123")
		require.NoError(t, err)
		second, err := svc.IssueAccess("user-999")
		require.NoError(t, err)

		// Payload одного токена с подписью другого
		firstParts := strings.Split(first, ".")
		secondParts := strings.Split(second, ".")
		spliced := firstParts[0] + "." + secondParts[1] + "." + firstParts[2]

		assert.ErrorIs(t, svc.VerifySignature(spliced), ErrInvalidSignature)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		claims := Claims{
			UserID: "user-123",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
		require.NoError(t, err)

		assert.ErrorIs(t, svc.VerifySignature(tokenString), ErrUnsupportedAlgorithm)
	})

	t.Run("malformed", func(t *testing.T) {
		assert.ErrorIs(t, svc.VerifySignature("abc.def"), ErrMalformed)
	})
}

func TestNewRandomKey(t *testing.T) {
	k1, err := NewRandomKey()
	require.NoError(t, err)
	assert.Len(t, k1, KeySize)

	k2, err := NewRandomKey()
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}
