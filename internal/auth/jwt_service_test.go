package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tasktracker/internal/errors"
)

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute)
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 2*time.Second)
}

func TestJWTService_TokensHaveDistinctIDs(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute)
	userID := uuid.New()

	t1, err := svc.GenerateAccessToken(userID)
	require.NoError(t, err)
	t2, err := svc.GenerateAccessToken(userID)
	require.NoError(t, err)

	c1, err := svc.ValidateToken(t1)
	require.NoError(t, err)
	c2, err := svc.ValidateToken(t2)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute)

	tests := []struct {
		name string
		ttl  time.Duration
	}{
		{name: "zero ttl", ttl: 0},
		{name: "already past expiry", ttl: -time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.Issue(uuid.New(), tt.ttl)
			require.NoError(t, err)

			_, err = svc.ValidateToken(token)
			assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
		})
	}
}

func TestJWTService_TamperedSignature(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute)
	token, err := svc.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	// Flip a byte away from the tail so no padding bits are involved.
	i := len(sig) / 2
	if sig[i] == 'A' {
		sig[i] = 'B'
	} else {
		sig[i] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = svc.ValidateToken(tampered)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-1", time.Minute)
	verifier := NewJWTService("secret-2", time.Minute)

	token, err := issuer.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_MalformedTokens(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "random string", token: "not.a.valid.token"},
		{name: "malformed jwt", token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
		})
	}
}

func TestJWTService_RequiresExpAndSubject(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute)

	sign := func(claims jwt.RegisteredClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: claims}).
			SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return token
	}

	noExp := sign(jwt.RegisteredClaims{Subject: uuid.NewString()})
	_, err := svc.ValidateToken(noExp)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	badSub := sign(jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	_, err = svc.ValidateToken(badSub)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute)
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
