package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "monotaskr/coordinator/internal/errors"
	"monotaskr/coordinator/internal/model"
	"monotaskr/coordinator/internal/store"
)

// AuthService pairs devices (popup UI, content-script hosts, other
// machines) against the configured pairing code and issues the bearer
// tokens the API requires.
type AuthService struct {
	store    *store.Store
	codeHash []byte
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(st *store.Store, pairingCode, jwtSecret string, tokenTTL time.Duration) (*AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pairingCode), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		store:    st,
		codeHash: hash,
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
	}, nil
}

type PairResult struct {
	Token  string       `json:"token"`
	Device model.Device `json:"device"`
}

// Pair verifies the pairing code, records the device in the synced device
// registry and returns a signed token for it.
func (s *AuthService) Pair(ctx context.Context, name, code string) (*PairResult, *apperrors.APIError) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.BadRequest("invalid_name", "device name is required")
	}
	if code == "" || bcrypt.CompareHashAndPassword(s.codeHash, []byte(code)) != nil {
		return nil, apperrors.Unauthorized("invalid pairing code")
	}

	device := model.Device{
		ID:       uuid.NewString(),
		Name:     name,
		PairedAt: time.Now().UTC(),
	}

	devices, err := s.store.Devices(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load device registry")
	}
	devices[device.ID] = device
	if err := s.store.SetDevices(ctx, devices); err != nil {
		return nil, apperrors.Internal("failed to persist device registry")
	}

	token, apiErr := s.issueToken(device.ID)
	if apiErr != nil {
		return nil, apiErr
	}
	return &PairResult{Token: token, Device: device}, nil
}

// ParseToken validates a bearer token and returns the device id it was
// issued for.
func (s *AuthService) ParseToken(tokenString string) (string, *apperrors.APIError) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apperrors.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apperrors.Unauthorized("invalid token")
	}
	return claims.Subject, nil
}

func (s *AuthService) issueToken(deviceID string) (string, *apperrors.APIError) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   deviceID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.Internal("failed to sign token")
	}
	return signed, nil
}
