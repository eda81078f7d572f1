package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivery-market/internal/app/entity"
)

const testSecret = "c2VjcmV0LXNpZ25pbmcta2V5LWZvci10ZXN0cw=="

func newTestDecoder(t *testing.T) *Decoder {
	t.Helper()

	decoder, err := NewDecoder(testSecret, "")
	require.NoError(t, err)

	return decoder
}

func signTestToken(t *testing.T, subject, role string) string {
	t.Helper()

	secret, err := base64.StdEncoding.DecodeString(testSecret)
	require.NoError(t, err)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
		AppMetadata:      AppMetadata{UserRole: role},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	return signed
}

func TestDecodeCaller(t *testing.T) {
	decoder := newTestDecoder(t)

	tests := []struct {
		name    string
		subject string
		role    string

		want    entity.Caller
		wantErr bool
	}{
		{
			name:    "customer token",
			subject: "auth0|external-42",
			role:    "customer",

			want: entity.Caller{ID: "external-42", Role: entity.RoleCustomer},
		},
		{
			name:    "store operator token",
			subject: "google-oauth2|op-7",
			role:    "store_operator",

			want: entity.Caller{ID: "op-7", Role: entity.RoleStoreOperator},
		},
		{
			name:    "subject without issuer prefix",
			subject: "bare-id",
			role:    "customer",

			want: entity.Caller{ID: "bare-id", Role: entity.RoleCustomer},
		},
		{
			name:    "unknown role",
			subject: "auth0|external-42",
			role:    "admin",

			wantErr: true,
		},
		{
			name:    "empty external id",
			subject: "auth0|",
			role:    "customer",

			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			caller, err := decoder.DecodeCaller(signTestToken(t, test.subject, test.role))
			if test.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.want, caller)
		})
	}
}

func TestDecodeCallerRejectsForeignSignature(t *testing.T) {
	decoder := newTestDecoder(t)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "auth0|external-42"},
		AppMetadata:      AppMetadata{UserRole: "customer"},
	}).SignedString([]byte("another-key"))
	require.NoError(t, err)

	_, err = decoder.DecodeCaller(foreign)
	assert.Error(t, err)
}

func TestCallerFromHeader(t *testing.T) {
	decoder := newTestDecoder(t)
	validToken := signTestToken(t, "auth0|external-42", "customer")

	tests := []struct {
		name   string
		header string

		wantMalformed bool
		wantErr       bool
	}{
		{
			name:   "valid bearer header",
			header: fmt.Sprintf("Bearer %s", validToken),
		},
		{
			name:   "lower case scheme",
			header: fmt.Sprintf("bearer %s", validToken),
		},
		{
			name:   "missing token part",
			header: "Bearer",

			wantMalformed: true,
			wantErr:       true,
		},
		{
			name:   "wrong scheme",
			header: fmt.Sprintf("Basic %s", validToken),

			wantMalformed: true,
			wantErr:       true,
		},
		{
			name:   "garbage token",
			header: "Bearer not-a-token",

			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			caller, err := decoder.CallerFromHeader(test.header)
			if test.wantErr {
				require.Error(t, err)
				assert.Equal(t, test.wantMalformed, errors.Is(err, ErrMalformedHeader))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, entity.UserID("external-42"), caller.ID)
			assert.Equal(t, entity.RoleCustomer, caller.Role)
		})
	}
}

func TestDecodeCallerAudienceCheck(t *testing.T) {
	checking, err := NewDecoder(testSecret, "client-1")
	require.NoError(t, err)

	t.Run("matching audience accepted", func(t *testing.T) {
		header, err := checking.BuildAuthHeader(entity.Caller{ID: "external-42", Role: entity.RoleCustomer})
		require.NoError(t, err)

		caller, err := checking.CallerFromHeader(header)
		require.NoError(t, err)
		assert.Equal(t, entity.UserID("external-42"), caller.ID)
	})

	t.Run("missing audience rejected", func(t *testing.T) {
		_, err := checking.DecodeCaller(signTestToken(t, "auth0|external-42", "customer"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTokenNotValid)
	})

	t.Run("foreign audience rejected", func(t *testing.T) {
		other, err := NewDecoder(testSecret, "client-2")
		require.NoError(t, err)
		header, err := other.BuildAuthHeader(entity.Caller{ID: "external-42", Role: entity.RoleCustomer})
		require.NoError(t, err)

		_, err = checking.CallerFromHeader(header)
		assert.Error(t, err)
	})

	t.Run("empty audience disables the check", func(t *testing.T) {
		caller, err := newTestDecoder(t).DecodeCaller(signTestToken(t, "auth0|external-42", "customer"))
		require.NoError(t, err)
		assert.Equal(t, entity.UserID("external-42"), caller.ID)
	})
}

func TestBuildAuthHeaderRoundTrip(t *testing.T) {
	decoder := newTestDecoder(t)

	caller := entity.Caller{ID: "external-42", Role: entity.RoleStoreOperator}
	header, err := decoder.BuildAuthHeader(caller)
	require.NoError(t, err)

	decoded, err := decoder.CallerFromHeader(header)
	require.NoError(t, err)
	assert.Equal(t, caller, decoded)
}

func TestNewDecoderSecretNormalization(t *testing.T) {
	// URL-safe alphabet must be mapped back before base64 decoding.
	_, err := NewDecoder("-_-_", "client-id")
	assert.NoError(t, err)

	_, err = NewDecoder("", "")
	assert.Error(t, err)

	_, err = NewDecoder("%%%", "")
	assert.Error(t, err)
}
