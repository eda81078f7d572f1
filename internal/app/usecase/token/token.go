package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"delivery-market/internal/app/entity"
)

const (
	bearerHeader = "Bearer"

	AuthHeader = "Authorization"
)

var (
	// ErrMalformedHeader marks a syntactically broken Authorization header,
	// which maps to 400 instead of the 401 used for undecodable tokens.
	ErrMalformedHeader = errors.New("malformed authorization header")

	ErrTokenNotValid = errors.New("token is not valid")
	ErrUnknownRole   = errors.New("token carries unknown user role")
)

type AppMetadata struct {
	UserRole string `json:"user_role"`
}

// Claims is the Auth0-shaped token payload: the subject is
// "issuer|external_id" and the role lives under app_metadata.
type Claims struct {
	jwt.RegisteredClaims
	AppMetadata AppMetadata `json:"app_metadata"`
}

type Decoder struct {
	secret   []byte
	audience string
}

// NewDecoder prepares a decoder for HS256 tokens. The secret arrives in the
// Auth0 dashboard form: base64 with URL-safe characters swapped in.
func NewDecoder(secret, audience string) (*Decoder, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("empty auth secret")
	}

	normalized := strings.NewReplacer("_", "/", "-", "+").Replace(secret)
	raw, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil {
		return nil, fmt.Errorf("error while decoding auth secret: %w", err)
	}

	return &Decoder{
		secret:   raw,
		audience: audience,
	}, nil
}

// DecodeCaller verifies the token and extracts the caller identity and role.
func (d *Decoder) DecodeCaller(tokenString string) (entity.Caller, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return d.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return entity.Caller{}, fmt.Errorf("error while parsing token: %w", err)
	}
	if !parsed.Valid {
		return entity.Caller{}, ErrTokenNotValid
	}
	if len(d.audience) > 0 && !claims.VerifyAudience(d.audience, true) {
		return entity.Caller{}, fmt.Errorf("%w: audience mismatch", ErrTokenNotValid)
	}

	userID := externalID(claims.Subject)
	if !userID.Valid() {
		return entity.Caller{}, fmt.Errorf("token subject %q carries no external id", claims.Subject)
	}

	role, ok := entity.ParseRole(claims.AppMetadata.UserRole)
	if !ok {
		return entity.Caller{}, fmt.Errorf("%w: %q", ErrUnknownRole, claims.AppMetadata.UserRole)
	}

	return entity.Caller{
		ID:   userID,
		Role: role,
	}, nil
}

// CallerFromHeader splits the Authorization header and decodes the bearer
// token. Scheme and shape problems come back as ErrMalformedHeader.
func (d *Decoder) CallerFromHeader(header string) (entity.Caller, error) {
	headerParts := strings.Fields(header)
	if len(headerParts) != 2 {
		return entity.Caller{}, fmt.Errorf("%w: header doesn't contain two parts", ErrMalformedHeader)
	}

	if !strings.EqualFold(headerParts[0], bearerHeader) {
		return entity.Caller{}, fmt.Errorf("%w: first header part is not bearer", ErrMalformedHeader)
	}

	caller, err := d.DecodeCaller(headerParts[1])
	if err != nil {
		return entity.Caller{}, fmt.Errorf("error while decoding caller from token: %w", err)
	}

	return caller, nil
}

// BuildAuthHeader signs a token for the given caller. The server never issues
// tokens; this exists for the manual client and the test suite.
func (d *Decoder) BuildAuthHeader(caller entity.Caller) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: fmt.Sprintf("auth0|%s", caller.ID),
		},
		AppMetadata: AppMetadata{
			UserRole: string(caller.Role),
		},
	}
	if len(d.audience) > 0 {
		claims.Audience = jwt.ClaimStrings{d.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.secret)
	if err != nil {
		return "", fmt.Errorf("error while signing token: %w", err)
	}

	return fmt.Sprintf("%s %s", bearerHeader, signed), nil
}

func externalID(subject string) entity.UserID {
	parts := strings.Split(subject, "|")

	return entity.UserID(parts[len(parts)-1])
}
