package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds carried in the "type" claim
const (
	TokenTypeSession = "session"
	TokenTypeVerify  = "verify"
)

// Verification outcomes of VerifyToken. A valid signature with a past expiry
// yields ErrTokenExpired; any signature or format failure yields ErrTokenInvalid.
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims is the verified payload of a token. Role flags are only present on
// session tokens and are snapshotted at issuance time.
type Claims struct {
	UserID       int
	IsAdmin      bool
	IsSuperAdmin bool
	TokenType    string
}

// TokenService handles JWT token issuance and validation
type TokenService struct {
	secret             string
	sessionTokenExpiry time.Duration
}

// NewTokenService creates a new token service
func NewTokenService(secret string, sessionExpiry time.Duration) *TokenService {
	return &TokenService{
		secret:             secret,
		sessionTokenExpiry: sessionExpiry,
	}
}

// IssueSessionToken creates a session token embedding the user's role flags
func (ts *TokenService) IssueSessionToken(userID int, isAdmin, isSuperAdmin bool) (string, error) {
	claims := jwt.MapClaims{
		"user_id":        userID,
		"is_admin":       isAdmin,
		"is_super_admin": isSuperAdmin,
		"exp":            time.Now().Add(ts.sessionTokenExpiry).Unix(),
		"iat":            time.Now().Unix(),
		"type":           TokenTypeSession,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(ts.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// IssueVerificationToken creates an email verification token whose only
// subject is the user ID. The caller chooses the ttl so that reissued links
// can be shorter-lived than the original one.
func (ts *TokenService) IssueVerificationToken(userID int, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
		"type":    TokenTypeVerify,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(ts.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign verification token: %w", err)
	}

	return tokenString, nil
}

// VerifyToken validates signature and expiry together and returns the claims.
// Returns ErrTokenExpired when the signature is valid but the token is past
// its expiry, ErrTokenInvalid for every other failure.
func (ts *TokenService) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	return claimsFromMap(mapClaims)
}

// DecodeUnverified extracts the claims WITHOUT validating signature or
// expiry. It exists solely to recover the lookup key for reissuing a
// verification link after VerifyToken reported ErrTokenExpired; its result
// must never be treated as proof of authentication. Callers still have to
// check TokenType, an expired session token is not a verification link.
func (ts *TokenService) DecodeUnverified(tokenString string) (*Claims, error) {
	parser := jwt.NewParser()

	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	return claimsFromMap(mapClaims)
}

// claimsFromMap converts raw JWT claims into typed Claims
func claimsFromMap(mapClaims jwt.MapClaims) (*Claims, error) {
	// JWT claims decode numbers as float64
	userID, ok := mapClaims["user_id"].(float64)
	if !ok {
		return nil, ErrTokenInvalid
	}

	tokenType, ok := mapClaims["type"].(string)
	if !ok {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{
		UserID:    int(userID),
		TokenType: tokenType,
	}

	// Role flags are optional and only carried by session tokens
	if isAdmin, ok := mapClaims["is_admin"].(bool); ok {
		claims.IsAdmin = isAdmin
	}
	if isSuperAdmin, ok := mapClaims["is_super_admin"].(bool); ok {
		claims.IsSuperAdmin = isSuperAdmin
	}

	return claims, nil
}
