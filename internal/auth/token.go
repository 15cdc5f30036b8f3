package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/projectfair/backend/internal/domain"
)

var (
	// ErrInvalidSubject is returned when a token is requested for an id below 1.
	ErrInvalidSubject = errors.New("invalid subject")
	// ErrInvalidToken covers bad signatures, malformed payloads, foreign algorithms and expiry.
	ErrInvalidToken = errors.New("invalid token")
)

var signingMethod = jwt.SigningMethodHS256

// TokenRole is the admin/student discriminant carried in a token.
type TokenRole struct {
	Admin bool
	Tier  int
}

// AdminTokenRole builds the role for an admin of the given tier.
func AdminTokenRole(role domain.AdminRole) TokenRole {
	return TokenRole{Admin: true, Tier: int(role)}
}

// StudentTokenRole builds the role for a student.
func StudentTokenRole() TokenRole {
	return TokenRole{}
}

// Claims describes the JWT payload: {sub, adm, rl, iat, exp}.
type Claims struct {
	SubjectID int64            `json:"sub"`
	Admin     bool             `json:"adm"`
	RoleTier  int              `json:"rl"`
	IssuedAt  *jwt.NumericDate `json:"iat"`
	ExpiresAt *jwt.NumericDate `json:"exp"`
}

// Role returns the discriminant encoded in the claims.
func (c Claims) Role() TokenRole {
	return TokenRole{Admin: c.Admin, Tier: c.RoleTier}
}

// jwt.Claims implementation; only exp and iat are carried.
func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }
func (c Claims) GetIssuedAt() (*jwt.NumericDate, error) { return c.IssuedAt, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c Claims) GetIssuer() (string, error) { return "", nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }
func (c Claims) GetSubject() (string, error) {
	return strconv.FormatInt(c.SubjectID, 10), nil
}

// CreateToken signs a token for subjectID valid for ttl from now.
func CreateToken(subjectID int64, role TokenRole, secret []byte, ttl time.Duration) (string, error) {
	if subjectID < 1 {
		return "", ErrInvalidSubject
	}

	now := time.Now()
	claims := &Claims{
		SubjectID: subjectID,
		Admin:     role.Admin,
		RoleTier:  role.Tier,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(signingMethod, claims).SignedString(secret)
}

// DecodeToken verifies the signature and standard claims and returns the payload.
func DecodeToken(tokenStr string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != signingMethod {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenManager handles issuing and validating tokens with the application secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// IssueAdminToken signs a token for an admin of the given tier.
func (tm *TokenManager) IssueAdminToken(adminID int64, role domain.AdminRole) (string, time.Time, error) {
	return tm.issue(adminID, AdminTokenRole(role))
}

// IssueStudentToken signs a token for a student.
func (tm *TokenManager) IssueStudentToken(studentID int64) (string, time.Time, error) {
	return tm.issue(studentID, StudentTokenRole())
}

func (tm *TokenManager) issue(subjectID int64, role TokenRole) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.ttl)
	token, err := CreateToken(subjectID, role, tm.secret, tm.ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Decode validates and returns claims.
func (tm *TokenManager) Decode(tokenStr string) (*Claims, error) {
	return DecodeToken(tokenStr, tm.secret)
}
