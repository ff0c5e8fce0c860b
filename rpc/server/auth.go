package server

import (
	"fmt"

	"github.com/ValentinKolb/dCount/rpc/common"
	"github.com/golang-jwt/jwt/v5"
)

// --------------------------------------------------------------------------
// Permissions
// --------------------------------------------------------------------------

// Permission names one capability a token can carry in its "perms" claim.
type Permission string

const (
	PermissionRead    Permission = "counter:read"
	PermissionWrite   Permission = "counter:write"
	PermissionDestroy Permission = "counter:destroy"
)

// permissionFor maps a message type to the permission its operation requires.
// Get is authorized as a read even though it commits through the log.
func permissionFor(msgType common.MessageType) (Permission, error) {
	switch msgType {
	case common.MsgTCtrGet:
		return PermissionRead, nil
	case common.MsgTCtrAddAndGet, common.MsgTCtrGetAndAdd, common.MsgTCtrSet, common.MsgTCtrCAS:
		return PermissionWrite, nil
	case common.MsgTCtrDestroy:
		return PermissionDestroy, nil
	default:
		return "", fmt.Errorf("no permission mapping for message type: %s", msgType)
	}
}

// --------------------------------------------------------------------------
// Authorizer
// --------------------------------------------------------------------------

// IAuthorizer decides whether a request token grants a required permission.
// The returned error message must not reveal anything about the counter the
// request targets, a denied caller learns only that access was denied.
type IAuthorizer interface {
	// Authorize returns nil if token grants required
	Authorize(token string, required Permission) error
}

// NewJWTAuthorizer creates an authorizer that verifies HMAC signed bearer
// tokens and checks the required permission against the "perms" claim.
func NewJWTAuthorizer(secret string) IAuthorizer {
	return &jwtAuthorizerImpl{secret: []byte(secret)}
}

// NewNoopAuthorizer creates an authorizer that grants every request.
// It is used when authorization is disabled in the server config.
func NewNoopAuthorizer() IAuthorizer {
	return &noopAuthorizerImpl{}
}

// --------------------------------------------------------------------------
// JWT Implementation
// --------------------------------------------------------------------------

type jwtAuthorizerImpl struct {
	secret []byte
}

// errDenied is the only error a caller ever sees, regardless of why the
// request was denied
var errDenied = fmt.Errorf("access denied")

func (a *jwtAuthorizerImpl) Authorize(token string, required Permission) error {
	if token == "" {
		return errDenied
	}

	// Parse and verify the token signature, exp and nbf
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return errDenied
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return errDenied
	}

	// Check the perms claim for the required permission
	perms, ok := claims["perms"].([]interface{})
	if !ok {
		return errDenied
	}
	for _, p := range perms {
		if s, ok := p.(string); ok && Permission(s) == required {
			return nil
		}
	}

	return errDenied
}

// --------------------------------------------------------------------------
// Noop Implementation
// --------------------------------------------------------------------------

type noopAuthorizerImpl struct{}

func (a *noopAuthorizerImpl) Authorize(_ string, _ Permission) error {
	return nil
}
