package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecoloop/core/internal/domain/entities"
	"github.com/ecoloop/core/internal/infrastructure/config"
	"github.com/ecoloop/core/internal/infrastructure/logger"
	"github.com/ecoloop/core/internal/ports"
)

const adminSubject = "admin"

// Claims represents the JWT claims
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService authenticates the single operator account
type AuthService struct {
	adminConfig config.AdminConfig
	jwtConfig   config.JWTConfig
	logger      *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(adminConfig config.AdminConfig, jwtConfig config.JWTConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		adminConfig: adminConfig,
		jwtConfig:   jwtConfig,
		logger:      logger,
	}
}

// HashPassword returns the bcrypt hash to put in ADMIN_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Login checks the operator password and issues an access token
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest) (*ports.AuthResponse, error) {
	if s.adminConfig.PasswordHash == "" {
		return nil, fmt.Errorf("admin login disabled: %w", entities.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.adminConfig.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Login attempt with invalid password")
		return nil, entities.ErrInvalidCredentials
	}

	accessToken, err := s.generateAccessToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.Info("Operator logged in")

	return &ports.AuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtConfig.ExpiresIn.Seconds()),
	}, nil
}

// ValidateToken validates a JWT token and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*ports.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	}, jwt.WithIssuer(s.jwtConfig.Issuer))

	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, entities.ErrInvalidToken
	}

	return &ports.Claims{
		Subject: claims.Subject,
		Role:    claims.Role,
	}, nil
}

func (s *AuthService) generateAccessToken() (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: adminSubject,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.ExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.jwtConfig.Issuer,
			Subject:   adminSubject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}
