package services

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"kanban-lite/kanban/database"
	"kanban-lite/kanban/models"
	"kanban-lite/kanban/utils/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Use the JWTClaims from token package
type JWTClaims = token.JWTClaims

// CredentialStore verifies a login secret and resolves the identity behind
// it. The board ships with a single shared secret; swapping this for
// per-user accounts does not touch anything above it.
type CredentialStore interface {
	Verify(secret string) (models.UserIdentity, error)
}

// SharedSecretStore matches the secret against a configured password or
// bcrypt hash and always resolves to the same identity.
type SharedSecretStore struct {
	password     string
	passwordHash string
	identity     models.UserIdentity
}

func NewSharedSecretStore(password, passwordHash, username string) *SharedSecretStore {
	return &SharedSecretStore{
		password:     strings.TrimSpace(password),
		passwordHash: passwordHash,
		identity:     models.UserIdentity{ID: 1, Username: username},
	}
}

func (s *SharedSecretStore) Verify(secret string) (models.UserIdentity, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return models.UserIdentity{}, ErrInvalidCredentials
	}

	if s.passwordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(secret)); err != nil {
			return models.UserIdentity{}, ErrInvalidCredentials
		}
		return s.identity, nil
	}

	if s.password == "" {
		return models.UserIdentity{}, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(s.password), []byte(secret)) != 1 {
		return models.UserIdentity{}, ErrInvalidCredentials
	}
	return s.identity, nil
}

// DBCredentialStore resolves secrets of the form "username:password" against
// the users table. Kept for deployments that outgrow the shared secret.
type DBCredentialStore struct {
	db *database.Database
}

func NewDBCredentialStore(db *database.Database) *DBCredentialStore {
	return &DBCredentialStore{db: db}
}

func (s *DBCredentialStore) Verify(secret string) (models.UserIdentity, error) {
	username, password, found := strings.Cut(secret, ":")
	if !found || username == "" || password == "" {
		return models.UserIdentity{}, ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.UserIdentity{}, ErrInvalidCredentials
		}
		return models.UserIdentity{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.UserIdentity{}, ErrInvalidCredentials
	}

	return models.UserIdentity{ID: user.ID, Username: user.Username}, nil
}

type AuthServiceInterface interface {
	Login(secret string) (string, models.UserIdentity, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
}

type AuthService struct {
	credentials   CredentialStore
	jwtSecret     []byte
	jwtExpiration time.Duration
}

func NewAuthService(credentials CredentialStore, jwtSecret string, jwtExpirationHours int) *AuthService {
	return &AuthService{
		credentials:   credentials,
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: time.Duration(jwtExpirationHours) * time.Hour,
	}
}

func (s *AuthService) Login(secret string) (string, models.UserIdentity, error) {
	identity, err := s.credentials.Verify(secret)
	if err != nil {
		return "", models.UserIdentity{}, err
	}

	tokenString, err := token.GenerateToken(identity.ID, identity.Username, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return "", models.UserIdentity{}, err
	}

	return tokenString, identity, nil
}

// ValidateToken uses the token utility to validate tokens
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	return token.ValidateToken(tokenString, s.jwtSecret)
}

// HashPassword is used when seeding users for the DB credential store.
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

var AuthServiceInstance AuthServiceInterface
