package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abduss/docstore/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	clientSecretLength = 32
	maxClientNameLen   = 128
	tokenAudience      = "docstore-api"
)

// clientStore abstracts the persistence layer.
type clientStore interface {
	CreateClient(ctx context.Context, name, secretHash string) (Client, error)
	FindClientByID(ctx context.Context, id uuid.UUID) (Client, error)
	TouchClient(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Service encapsulates client provisioning and token issuance.
type Service struct {
	store    clientStore
	cfg      config.AuthConfig
	log      *zap.Logger
	nowFunc  func() time.Time
	idIssuer string
	parser   *jwt.Parser
}

// NewService creates a Service with dependencies.
func NewService(store clientStore, cfg config.AuthConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		store:    store,
		cfg:      cfg,
		log:      log.Named("auth"),
		nowFunc:  time.Now,
		idIssuer: "docstore",
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithAudience(tokenAudience),
		jwt.WithIssuer(s.idIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.nowFunc() }),
	)
	return s
}

// ClientClaims describes the validated identity extracted from an access token.
type ClientClaims struct {
	ClientID  uuid.UUID
	Name      string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// RegisterClient provisions a client with a freshly generated secret.
func (s *Service) RegisterClient(ctx context.Context, name string) (Credentials, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxClientNameLen {
		return Credentials{}, fmt.Errorf("client name must be 1-%d characters", maxClientNameLen)
	}

	secret, err := generateSecret()
	if err != nil {
		return Credentials{}, fmt.Errorf("generate secret: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), s.cfg.BcryptCost)
	if err != nil {
		return Credentials{}, fmt.Errorf("hash secret: %w", err)
	}

	client, err := s.store.CreateClient(ctx, name, string(hashed))
	if err != nil {
		if errors.Is(err, ErrClientExists) {
			return Credentials{}, ErrClientExists
		}
		return Credentials{}, fmt.Errorf("create client: %w", err)
	}

	s.log.Info("client registered", zap.Stringer("client_id", client.ID), zap.String("name", client.Name))
	return Credentials{Client: client.SafeClient(), Secret: secret}, nil
}

// IssueToken exchanges client credentials for a signed access token.
func (s *Service) IssueToken(ctx context.Context, clientID uuid.UUID, secret string) (AccessToken, error) {
	if strings.TrimSpace(secret) == "" {
		return AccessToken{}, ErrInvalidCredentials
	}

	client, err := s.store.FindClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			return AccessToken{}, ErrInvalidCredentials
		}
		return AccessToken{}, fmt.Errorf("find client: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(client.SecretHash), []byte(secret)); err != nil {
		s.log.Warn("client secret rejected", zap.Stringer("client_id", clientID))
		return AccessToken{}, ErrInvalidCredentials
	}

	now := s.nowFunc()
	token, err := s.generateAccessToken(client, now)
	if err != nil {
		return AccessToken{}, fmt.Errorf("generate access token: %w", err)
	}

	if err := s.store.TouchClient(ctx, client.ID, now); err != nil {
		s.log.Warn("touch client", zap.Stringer("client_id", client.ID), zap.Error(err))
	}
	return token, nil
}

// ValidateAccessToken verifies the token signature and extracts client claims.
func (s *Service) ValidateAccessToken(tokenString string) (ClientClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return ClientClaims{}, ErrUnauthorized
	}

	parsed, err := s.parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.AccessTokenSecret), nil
	})
	if err != nil || !parsed.Valid {
		return ClientClaims{}, ErrUnauthorized
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ClientClaims{}, ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return ClientClaims{}, ErrUnauthorized
	}
	clientID, err := uuid.Parse(sub)
	if err != nil {
		return ClientClaims{}, ErrUnauthorized
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return ClientClaims{}, ErrUnauthorized
	}

	result := ClientClaims{ClientID: clientID, ExpiresAt: exp.Time}
	result.Name, _ = claims["name"].(string)
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		result.IssuedAt = iat.Time
	}
	return result, nil
}

func (s *Service) generateAccessToken(client Client, now time.Time) (AccessToken, error) {
	expiresAt := now.Add(s.cfg.AccessTokenTTL)
	claims := jwt.MapClaims{
		"sub":  client.ID.String(),
		"iss":  s.idIssuer,
		"aud":  tokenAudience,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
		"name": client.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.AccessTokenSecret))
	if err != nil {
		return AccessToken{}, err
	}

	return AccessToken{Token: signed, ExpiresAt: time.Unix(expiresAt.Unix(), 0)}, nil
}

func generateSecret() (string, error) {
	raw := make([]byte, clientSecretLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
