package services

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ngenohkevin/lms-circulation/internal/models"
	"github.com/redis/go-redis/v9"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidRSAKey = errors.New("invalid RSA key")
)

// AuthService verifies the RS256 access tokens issued by the login service.
// Revoked tokens are looked up in the shared Redis blacklist.
type AuthService struct {
	jwtPrivateKey *rsa.PrivateKey
	jwtPublicKey  *rsa.PublicKey
	tokenExpiry   time.Duration
	logger        *slog.Logger
	redisClient   *redis.Client
}

func NewAuthService(jwtPrivateKeyPEM string, tokenExpiry time.Duration, logger *slog.Logger, redisClient *redis.Client) (*AuthService, error) {
	jwtPrivateKey, err := parseRSAPrivateKey(jwtPrivateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT private key: %w", err)
	}

	return &AuthService{
		jwtPrivateKey: jwtPrivateKey,
		jwtPublicKey:  &jwtPrivateKey.PublicKey,
		tokenExpiry:   tokenExpiry,
		logger:        logger,
		redisClient:   redisClient,
	}, nil
}

func parseRSAPrivateKey(privateKeyPEM string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil {
		return nil, ErrInvalidRSAKey
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		// Try PKCS8 format
		parsedKey, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		if rsaKey, ok := parsedKey.(*rsa.PrivateKey); ok {
			return rsaKey, nil
		}
		return nil, ErrInvalidRSAKey
	}

	return privateKey, nil
}

// GenerateToken signs an access token with the shared key. The login flow
// lives elsewhere; this is for operator tooling and tests.
func (s *AuthService) GenerateToken(userID int, username string, role models.UserRole, userType string) (string, error) {
	now := time.Now()
	claims := &models.JWTClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%s_%d", userType, userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(s.jwtPrivateKey)
}

func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtPublicKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*models.JWTClaims); ok && token.Valid {
		if s.redisClient != nil {
			blacklisted, err := s.redisClient.Exists(ctx, fmt.Sprintf("blacklist:%s", tokenString)).Result()
			if err != nil {
				s.logger.Error("Failed to check token blacklist", "error", err)
				// Continue validation if Redis is down
			}
			if blacklisted > 0 {
				return nil, ErrInvalidToken
			}
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}
