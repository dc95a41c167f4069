package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/pkg/apperror"
	"github.com/sangkips/posgo-api/pkg/utils"
)

// Cashier roles carried in register tokens
const (
	RoleCashier = "cashier"
	RoleManager = "manager"
)

// AuthService issues and checks register tokens. Cashier accounts are
// managed outside this service; a token only names who is at the register.
type AuthService struct {
	jwtManager *utils.JWTManager
	expiry     time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(jwtManager *utils.JWTManager, expiry time.Duration) *AuthService {
	return &AuthService{
		jwtManager: jwtManager,
		expiry:     expiry,
	}
}

// IssueTokenInput represents the cashier a token is minted for
type IssueTokenInput struct {
	CashierID *uuid.UUID
	Name      string
	Role      string
}

// TokenOutput represents a minted token
type TokenOutput struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	CashierID   uuid.UUID `json:"cashier_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IssueToken mints an access token for a cashier, generating an ID when none is given
func (s *AuthService) IssueToken(input *IssueTokenInput) (*TokenOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "is required")
	}
	role := strings.ToLower(strings.TrimSpace(input.Role))
	if role == "" {
		role = RoleCashier
	}
	if role != RoleCashier && role != RoleManager {
		return nil, apperror.NewFieldError("role", "must be one of: cashier manager")
	}

	cashierID := uuid.New()
	if input.CashierID != nil {
		cashierID = *input.CashierID
	}

	token, err := s.jwtManager.GenerateAccessToken(cashierID, name, role)
	if err != nil {
		return nil, err
	}

	return &TokenOutput{
		AccessToken: token,
		TokenType:   "Bearer",
		CashierID:   cashierID,
		ExpiresAt:   time.Now().Add(s.expiry),
	}, nil
}

// Authenticate validates a token and returns its claims
func (s *AuthService) Authenticate(token string) (*utils.JWTClaims, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.ErrTokenExpired
		}
		return nil, apperror.ErrInvalidToken
	}
	return claims, nil
}
