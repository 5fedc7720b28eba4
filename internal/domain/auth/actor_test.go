package auth

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWithClaims(t *testing.T, claims map[string]interface{}) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	_, tokenString, err := ja.Encode(claims)
	require.NoError(t, err)

	token, err := ja.Decode(tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestActorFromContext(t *testing.T) {
	ctx := contextWithClaims(t, map[string]interface{}{
		"user_id":                "u-1",
		"employee_id":            "e-1",
		"is_admin":               false,
		"managed_department_ids": []string{"d-1", "d-2"},
	})

	actor, err := ActorFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-1", actor.UserID)
	assert.Equal(t, "e-1", actor.EmployeeID)
	assert.False(t, actor.IsAdmin)
	assert.Equal(t, []string{"d-1", "d-2"}, actor.ManagedDepartmentIDs)
	assert.True(t, actor.IsReviewer())
	assert.True(t, actor.Manages("d-2"))
	assert.False(t, actor.Manages("d-3"))
}

func TestActorFromContext_MissingToken(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestActorFromContext_MissingUser(t *testing.T) {
	ctx := contextWithClaims(t, map[string]interface{}{"employee_id": "e-1"})
	_, err := ActorFromContext(ctx)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestActor_DepartmentScope(t *testing.T) {
	assert.Nil(t, Actor{IsAdmin: true, ManagedDepartmentIDs: []string{"d"}}.DepartmentScope())
	assert.Equal(t, []string{"d"}, Actor{ManagedDepartmentIDs: []string{"d"}}.DepartmentScope())
	assert.Empty(t, Actor{}.DepartmentScope())
}

func TestActor_ResolveEmployee(t *testing.T) {
	employee := Actor{UserID: "u", EmployeeID: "e-1"}
	id, err := employee.ResolveEmployee("")
	require.NoError(t, err)
	assert.Equal(t, "e-1", id)

	_, err = employee.ResolveEmployee("e-2")
	assert.ErrorIs(t, err, ErrForbidden)

	admin := Actor{UserID: "a", IsAdmin: true}
	id, err = admin.ResolveEmployee("e-2")
	require.NoError(t, err)
	assert.Equal(t, "e-2", id)

	_, err = admin.ResolveEmployee("")
	assert.ErrorIs(t, err, ErrNoEmployeeLink)
}
