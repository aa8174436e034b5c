// credentials выпускает короткоживущие admin-токены Ghost: HS256 JWT,
// подписанный hex-секретом из ключа формата "id:secret".
package credentials

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenTTL - срок жизни admin-токена.
	TokenTTL = 5 * time.Minute
	// Audience - аудитория admin API.
	Audience = "/admin/"
)

var (
	// ErrMissingKey - admin-ключ не задан.
	ErrMissingKey = errors.New("admin api key is required")
	// ErrMalformedKey - ключ не в формате "id:secret" или secret не hex.
	ErrMalformedKey = errors.New(`admin api key must be in format "id:secret"`)
)

// Signer подписывает admin-токены одним ключом.
// Безопасен для конкурентного использования.
type Signer struct {
	keyID  string
	secret []byte
}

// New разбирает admin-ключ и готовит подписанта.
func New(adminKey string) (*Signer, error) {
	const op = "credentials.New"

	adminKey = strings.TrimSpace(adminKey)
	if adminKey == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingKey)
	}

	id, secretHex, ok := strings.Cut(adminKey, ":")
	if !ok || id == "" || secretHex == "" || strings.Contains(secretHex, ":") {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedKey)
	}

	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return nil, fmt.Errorf("%s: secret is not hex: %w", op, ErrMalformedKey)
	}

	return &Signer{keyID: id, secret: secret}, nil
}

// KeyID возвращает идентификатор ключа (заголовок kid).
func (s *Signer) KeyID() string { return s.keyID }

// Sign выпускает токен, действующий TokenTTL начиная с now.
func (s *Signer) Sign(now time.Time) (string, error) {
	const op = "credentials.Sign"

	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(TokenTTL).Unix(),
		"aud": Audience,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = s.keyID

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}
