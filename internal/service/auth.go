package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/agentry-dev/agentry/internal/config"
	"github.com/agentry-dev/agentry/internal/domain"
	"github.com/agentry-dev/agentry/internal/domain/user"
	"github.com/agentry-dev/agentry/internal/port/database"
)

// APIKeyPrefix identifies raw API keys issued by this service.
const APIKeyPrefix = "agk_"

// AuthService handles authentication, JWT tokens, and API keys.
type AuthService struct {
	store  database.Store
	cfg    *config.Auth
	secret []byte
}

// NewAuthService creates a new authentication service.
func NewAuthService(store database.Store, cfg *config.Auth) *AuthService {
	return &AuthService{
		store:  store,
		cfg:    cfg,
		secret: []byte(cfg.JWTSecret),
	}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req *user.CreateRequest) (*user.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Active:       true,
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login authenticates a user and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !u.Active {
		return nil, fmt.Errorf("account is disabled: %w", domain.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	token, err := s.signJWT(u)
	if err != nil {
		return nil, fmt.Errorf("sign jwt: %w", err)
	}

	return &user.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(s.cfg.AccessTokenTTL.Seconds()),
		User:        *u,
	}, nil
}

// ValidateAccessToken verifies a JWT and returns the claims.
func (s *AuthService) ValidateAccessToken(tokenStr string) (*user.TokenClaims, error) {
	return s.verifyJWT(tokenStr)
}

// ValidateAPIKey looks up an API key by its SHA-256 hash and records its use.
func (s *AuthService) ValidateAPIKey(ctx context.Context, rawKey string) (*user.User, *user.APIKey, error) {
	key, err := s.store.GetAPIKeyByHash(ctx, hashSHA256(rawKey))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid api key: %w", domain.ErrUnauthorized)
	}
	if !key.Active {
		return nil, nil, fmt.Errorf("api key disabled: %w", domain.ErrUnauthorized)
	}

	u, err := s.store.GetUser(ctx, key.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	if !u.Active {
		return nil, nil, fmt.Errorf("account is disabled: %w", domain.ErrUnauthorized)
	}

	if err := s.store.TouchAPIKey(ctx, key.ID); err == nil {
		key.LastUsed = time.Now().UTC()
	}
	return u, key, nil
}

// CreateAPIKey mints a new API key for a user. The raw key is returned
// exactly once; only its hash is stored.
func (s *AuthService) CreateAPIKey(ctx context.Context, userID string, req user.CreateAPIKeyRequest) (*user.CreateAPIKeyResponse, error) {
	raw, err := generateRandomToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	plainKey := APIKeyPrefix + raw

	key := &user.APIKey{
		ID:      uuid.NewString(),
		UserID:  userID,
		Name:    req.Name,
		KeyHash: hashSHA256(plainKey),
		Active:  true,
	}
	if err := s.store.CreateAPIKey(ctx, key); err != nil {
		return nil, fmt.Errorf("create api key: %w", err)
	}

	return &user.CreateAPIKeyResponse{
		Key:    plainKey,
		APIKey: *key,
	}, nil
}

// --- JWT implementation (HS256 with stdlib) ---

// jwtHeader is the fixed base64url-encoded header for HS256.
var jwtHeader = base64URLEncode([]byte(`{"alg":"HS256","typ":"JWT"}`))

func (s *AuthService) signJWT(u *user.User) (string, error) {
	now := time.Now()
	claims := user.TokenClaims{
		UserID:   u.ID,
		Username: u.Username,
		IssuedAt: now.Unix(),
		Expiry:   now.Add(s.cfg.AccessTokenTTL).Unix(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	signingInput := jwtHeader + "." + base64URLEncode(payload)

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signingInput))
	sig := base64URLEncode(mac.Sum(nil))

	return signingInput + "." + sig, nil
}

func (s *AuthService) verifyJWT(tokenStr string) (*user.TokenClaims, error) {
	parts := strings.SplitN(tokenStr, ".", 3)
	if len(parts) != 3 {
		return nil, errors.New("malformed token")
	}

	signingInput := parts[0] + "." + parts[1]
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signingInput))
	expectedSig := base64URLEncode(mac.Sum(nil))

	if !hmac.Equal([]byte(parts[2]), []byte(expectedSig)) {
		return nil, errors.New("invalid signature")
	}

	payload, err := base64URLDecode(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	var claims user.TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("unmarshal claims: %w", err)
	}

	if time.Now().Unix() > claims.Expiry {
		return nil, errors.New("token expired")
	}

	return &claims, nil
}

// --- Helpers ---

func base64URLEncode(data []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(data), "=")
}

func base64URLDecode(s string) ([]byte, error) {
	// Add padding back
	switch len(s) % 4 {
	case 2:
		s += "=="
	case 3:
		s += "="
	}
	return base64.URLEncoding.DecodeString(s)
}

func hashSHA256(data string) string {
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])
}

func generateRandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
