package auth

import (
	"context"

	"github.com/go-chi/jwtauth/v5"
)

// Actor is the authenticated caller, read from access token claims.
type Actor struct {
	UserID               string
	EmployeeID           string
	IsAdmin              bool
	ManagedDepartmentIDs []string
}

// ActorFromContext reads the actor placed in ctx by jwtauth.Verifier.
func ActorFromContext(ctx context.Context) (Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Actor{}, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Actor{}, ErrInvalidToken
	}

	actor := Actor{UserID: userID}
	actor.EmployeeID, _ = claims["employee_id"].(string)
	actor.IsAdmin, _ = claims["is_admin"].(bool)

	switch ids := claims["managed_department_ids"].(type) {
	case []interface{}:
		for _, id := range ids {
			if s, ok := id.(string); ok && s != "" {
				actor.ManagedDepartmentIDs = append(actor.ManagedDepartmentIDs, s)
			}
		}
	case []string:
		actor.ManagedDepartmentIDs = append(actor.ManagedDepartmentIDs, ids...)
	}

	return actor, nil
}

// IsReviewer reports whether the actor may review other employees' requests.
func (a Actor) IsReviewer() bool {
	return a.IsAdmin || len(a.ManagedDepartmentIDs) > 0
}

// DepartmentScope returns the departments whose records the actor may read.
// A nil slice means no department restriction.
func (a Actor) DepartmentScope() []string {
	if a.IsAdmin {
		return nil
	}
	return a.ManagedDepartmentIDs
}

// Manages reports whether the actor may act on records of departmentID.
func (a Actor) Manages(departmentID string) bool {
	if a.IsAdmin {
		return true
	}
	for _, id := range a.ManagedDepartmentIDs {
		if id == departmentID {
			return true
		}
	}
	return false
}

// ResolveEmployee picks the employee a punch or read targets. Only admins may
// act for someone else.
func (a Actor) ResolveEmployee(requested string) (string, error) {
	if requested == "" || requested == a.EmployeeID {
		if a.EmployeeID == "" {
			return "", ErrNoEmployeeLink
		}
		return a.EmployeeID, nil
	}
	if !a.IsAdmin {
		return "", ErrForbidden
	}
	return requested, nil
}
