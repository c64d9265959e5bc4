package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrBadCredentials = errors.New("usuario incorrecto")

// Service emite tokens de sesión contra un único par de credenciales
// configurado (por defecto admin/admin, solo para desarrollo).
type Service struct {
	username string
	password string
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewService(username, password, secret string) *Service {
	return &Service{
		username: username,
		password: password,
		secret:   []byte(secret),
		ttl:      12 * time.Hour,
		now:      time.Now,
	}
}

// Login verifica las credenciales y devuelve un JWT HS256 firmado con el
// secreto configurado. La comparación es en tiempo constante.
func (s *Service) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		return "", ErrBadCredentials
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	return token.SignedString(s.secret)
}
