package services

import (
	"context"
	"database/sql"
	"time"

	apperrors "enrollment-module/errors"
	"enrollment-module/logger"
	"enrollment-module/models"
	"enrollment-module/utils"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// AuthService manages back-office accounts and JWT issuing.
type AuthService struct {
	db     *sql.DB
	secret []byte
	log    *logger.Logger
}

// NewAuthService builds the auth service. The JWT secret must be non-empty.
func NewAuthService(database *sql.DB, jwtSecret string, log *logger.Logger) (*AuthService, error) {
	if jwtSecret == "" {
		return nil, apperrors.E(apperrors.Internal, "JWT_SECRET not configured")
	}
	return &AuthService{db: database, secret: []byte(jwtSecret), log: log}, nil
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.Account, error) {
	if err := utils.ValidateName(req.Name); err != nil {
		return nil, apperrors.E(apperrors.Invalid, err.Error())
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		return nil, apperrors.E(apperrors.Invalid, err.Error())
	}
	if len(req.Password) < 8 {
		return nil, apperrors.E(apperrors.Invalid, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.E(apperrors.Internal, "failed to hash password", err)
	}

	account := &models.Account{Name: req.Name, Email: req.Email}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO accounts (name, email, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at`,
		req.Name, req.Email, string(hash),
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, apperrors.E(apperrors.Conflict, "email already registered")
		}
		return nil, apperrors.E(apperrors.Internal, "failed to create account", err)
	}

	s.log.Info("Account registered: %s", req.Email)
	return account, nil
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and issues a signed JWT.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, *models.Account, error) {
	if req.Email == "" || req.Password == "" {
		return "", nil, apperrors.E(apperrors.Invalid, "email and password are required")
	}

	var account models.Account
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM accounts WHERE email = $1`,
		req.Email,
	).Scan(&account.ID, &account.Name, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if err == sql.ErrNoRows {
		return "", nil, apperrors.E(apperrors.Unauthorized, "invalid credentials")
	}
	if err != nil {
		return "", nil, apperrors.E(apperrors.Internal, "error reading account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, apperrors.E(apperrors.Unauthorized, "invalid credentials")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, apperrors.E(apperrors.Internal, "failed to sign token", err)
	}

	s.log.Info("Account logged in: %s", account.Email)
	return signed, &account, nil
}

// VerifyToken parses and validates a bearer token, returning its claims.
func (s *AuthService) VerifyToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.E(apperrors.Unauthorized, "unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.E(apperrors.Unauthorized, "invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.E(apperrors.Unauthorized, "invalid token claims")
	}
	return claims, nil
}
