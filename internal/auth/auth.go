package auth

import (
	"crypto/rand"
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"stockbook/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid or expired session")
	ErrEmptySecret  = errors.New("session secret must not be empty")
)

const defaultTTL = 8 * time.Hour

// Session is the signed-in state of one staff member.
type Session struct {
	Username  domain.Username
	Role      domain.Role
	Token     string
	ExpiresAt time.Time
}

// Manager issues and verifies session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type sessionClaims struct {
	jwtlib.RegisteredClaims
	Role string `json:"role"`
}

func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// NewEphemeralManager signs with a random secret that lives as long as the process.
func NewEphemeralManager(ttl time.Duration) *Manager {
	secret := make([]byte, 32)
	_, _ = rand.Read(secret)
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{secret: secret, ttl: ttl, now: time.Now}
}

func (m *Manager) Issue(staff domain.Staff) (Session, error) {
	issuedAt := m.now().UTC()
	expiresAt := issuedAt.Add(m.ttl)
	claims := sessionClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   staff.Username.String(),
			IssuedAt:  jwtlib.NewNumericDate(issuedAt),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			Issuer:    "stockbook",
		},
		Role: staff.Role.String(),
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Username:  staff.Username,
		Role:      staff.Role,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (m *Manager) Verify(token string) (domain.Actor, error) {
	claims := &sessionClaims{}
	parsed, err := jwtlib.ParseWithClaims(token, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}), jwtlib.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return domain.Actor{}, ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Actor{}, ErrInvalidToken
	}
	return domain.Actor{Username: domain.Username(sub), Role: domain.Role(claims.Role)}, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func VerifyPassword(stored string, input string) bool {
	if !IsPasswordHash(stored) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(input)) == nil
}

func IsPasswordHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}
