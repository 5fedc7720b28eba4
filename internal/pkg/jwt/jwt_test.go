package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	token, exp, err := svc.GenerateAccessToken(AccessClaims{
		UserID:               "user-1",
		EmployeeID:           "emp-1",
		ManagedDepartmentIDs: []string{"dept-1"},
	})
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), exp, 5)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	typ, _ := decoded.Get("type")
	assert.Equal(t, TokenTypeAccess, typ)
	emp, _ := decoded.Get("employee_id")
	assert.Equal(t, "emp-1", emp)
	admin, _ := decoded.Get("is_admin")
	assert.Equal(t, false, admin)
}

func TestGenerateAccessToken_AdminWithoutEmployee(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")

	token, _, err := svc.GenerateAccessToken(AccessClaims{UserID: "admin", IsAdmin: true})
	require.NoError(t, err)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Nil(t, claims["employee_id"])
	assert.Equal(t, true, claims["is_admin"])
}

func TestGenerateAccessToken_BadExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "forever")
	_, _, err := svc.GenerateAccessToken(AccessClaims{UserID: "u"})
	assert.Error(t, err)
}
