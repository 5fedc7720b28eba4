package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// TokenTypeAccess is the only token type the API accepts.
const TokenTypeAccess = "access"

// AccessClaims identify the caller of an attendance request. Tokens are issued
// by the identity service; GenerateAccessToken exists for tooling and tests.
type AccessClaims struct {
	UserID               string
	EmployeeID           string
	IsAdmin              bool
	ManagedDepartmentIDs []string
}

type Service interface {
	GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(c AccessClaims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	departments := c.ManagedDepartmentIDs
	if departments == nil {
		departments = []string{}
	}

	claims := map[string]interface{}{
		"user_id":                c.UserID,
		"employee_id":            valueOrNil(c.EmployeeID),
		"is_admin":               c.IsAdmin,
		"managed_department_ids": departments,
		"type":                   TokenTypeAccess,
		"exp":                    expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func valueOrNil(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
