package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/orderops/models"
	"github.com/upb/orderops/services"
)

func TestCodec_RoundTrip(t *testing.T) {
	codec := testCodec(testSecret)

	for _, shape := range []Shape{ShapeFramework, ShapeCustom} {
		t.Run(string(shape), func(t *testing.T) {
			want := testPrincipal(models.RoleProductionStaff)
			want.Image = "https://cdn.example.com/ana.png"

			claims, err := codec.Decode(mustEncode(t, codec, want, shape), shape)
			require.NoError(t, err)
			assert.Equal(t, shape, claims.Shape())

			got, err := claims.Principal()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestCodec_ClaimLayouts(t *testing.T) {
	codec := testCodec(testSecret)
	p := testPrincipal(models.RoleAdmin)

	t.Run("framework carries sub and id", func(t *testing.T) {
		claims, err := codec.Decode(mustEncode(t, codec, p, ShapeFramework), ShapeFramework)
		require.NoError(t, err)

		fc := claims.(*FrameworkClaims)
		assert.Equal(t, p.ID, fc.Subject)
		assert.Equal(t, p.ID, fc.UserID)
		require.NotNil(t, fc.ExpiresAt)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), fc.ExpiresAt.Time, time.Minute)
	})

	t.Run("framework id falls back to sub", func(t *testing.T) {
		fc := &FrameworkClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-7"},
			Email:            "x@example.com",
			Role:             "READ_ONLY",
		}
		got, err := fc.Principal()
		require.NoError(t, err)
		assert.Equal(t, "user-7", got.ID)
	})

	t.Run("custom carries id only", func(t *testing.T) {
		claims, err := codec.Decode(mustEncode(t, codec, p, ShapeCustom), ShapeCustom)
		require.NoError(t, err)

		cc := claims.(*CustomClaims)
		assert.Equal(t, p.ID, cc.UserID)
		sub, _ := cc.GetSubject()
		assert.Empty(t, sub)
	})
}

// Tokens from either path for the same principal normalize to the same identity
func TestCodec_PathsAgree(t *testing.T) {
	codec := testCodec(testSecret)
	p := testPrincipal(models.RoleShippingStaff)

	fc, err := codec.Decode(mustEncode(t, codec, p, ShapeFramework), ShapeFramework)
	require.NoError(t, err)
	cc, err := codec.Decode(mustEncode(t, codec, p, ShapeCustom), ShapeCustom)
	require.NoError(t, err)

	fp, _ := fc.Principal()
	cp, _ := cc.Principal()
	assert.Equal(t, fp.ID, cp.ID)
	assert.Equal(t, fp.Email, cp.Email)
	assert.Equal(t, fp.Role, cp.Role)

	fexp, _ := fc.GetExpirationTime()
	cexp, _ := cc.GetExpirationTime()
	assert.WithinDuration(t, fexp.Time, cexp.Time, 2*time.Second)
}

func TestCodec_DecodeFailsClosed(t *testing.T) {
	codec := testCodec(testSecret)
	p := testPrincipal(models.RoleAdmin)
	valid := mustEncode(t, codec, p, ShapeFramework)

	expiredCodec := testCodec(testSecret)
	expiredCodec.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	signRaw := func(method jwt.SigningMethod, claims jwt.Claims, key interface{}) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name  string
		token string
		shape Shape
	}{
		{"empty", "", ShapeFramework},
		{"garbage", "not-a-token", ShapeFramework},
		{"truncated", valid[:len(valid)-5], ShapeFramework},
		{"tampered payload", tamper(valid), ShapeFramework},
		{"other secret", mustEncode(t, testCodec("another-secret"), p, ShapeFramework), ShapeFramework},
		{"expired", mustEncode(t, expiredCodec, p, ShapeCustom), ShapeCustom},
		{"alg none", signRaw(jwt.SigningMethodNone, &CustomClaims{UserID: "1", Email: "a@b.co", Role: "ADMIN", ExpiresAt: exp}, jwt.UnsafeAllowNoneSignatureType), ShapeCustom},
		{"HS512", signRaw(jwt.SigningMethodHS512, &CustomClaims{UserID: "1", Email: "a@b.co", Role: "ADMIN", ExpiresAt: exp}, []byte(testSecret)), ShapeCustom},
		{"missing exp", signRaw(jwt.SigningMethodHS256, &CustomClaims{UserID: "1", Email: "a@b.co", Role: "ADMIN"}, []byte(testSecret)), ShapeCustom},
		{"guest role", signRaw(jwt.SigningMethodHS256, &CustomClaims{UserID: "1", Email: "a@b.co", Role: "guest", ExpiresAt: exp}, []byte(testSecret)), ShapeCustom},
		{"unknown role", signRaw(jwt.SigningMethodHS256, &CustomClaims{UserID: "1", Email: "a@b.co", Role: "root", ExpiresAt: exp}, []byte(testSecret)), ShapeCustom},
		{"missing id", signRaw(jwt.SigningMethodHS256, &CustomClaims{Email: "a@b.co", Role: "ADMIN", ExpiresAt: exp}, []byte(testSecret)), ShapeCustom},
		{"missing email", signRaw(jwt.SigningMethodHS256, &CustomClaims{UserID: "1", Role: "ADMIN", ExpiresAt: exp}, []byte(testSecret)), ShapeCustom},
		{"unknown shape", valid, Shape("legacy")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var claims SessionClaims
			var err error
			assert.NotPanics(t, func() {
				claims, err = codec.Decode(tt.token, tt.shape)
			})
			assert.Nil(t, claims)
			assert.Same(t, services.ErrVerificationFailure, err)
		})
	}
}

func TestCodec_EncodeRejects(t *testing.T) {
	codec := testCodec(testSecret)

	_, err := codec.Encode(testPrincipal(models.RoleGuest), ShapeCustom, time.Hour)
	assert.Error(t, err)

	_, err = codec.Encode(models.Principal{Email: "a@b.co", Role: models.RoleAdmin}, ShapeCustom, time.Hour)
	assert.Error(t, err)

	_, err = codec.Encode(testPrincipal(models.RoleAdmin), ShapeCustom, 0)
	assert.Error(t, err)

	_, err = codec.Encode(testPrincipal(models.RoleAdmin), Shape("legacy"), time.Hour)
	assert.Error(t, err)
}

func TestCodec_FallbackSecretStillVerifies(t *testing.T) {
	codec := testCodec("")
	p := testPrincipal(models.RoleReadOnly)

	_, err := codec.Decode(mustEncode(t, codec, p, ShapeCustom), ShapeCustom)
	assert.NoError(t, err)

	_, err = testCodec(testSecret).Decode(mustEncode(t, codec, p, ShapeCustom), ShapeCustom)
	assert.Error(t, err)
}

// tamper flips one character of the payload segment
func tamper(token string) string {
	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)
	return strings.Join(parts, ".")
}
