package provider

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"asset-sync/core/models"
)

// Auth decorates an outbound request with credentials.
type Auth func(req *http.Request) error

// Bearer sets "Authorization: Bearer <token>".
func Bearer(token string) Auth {
	return func(req *http.Request) error {
		if token == "" {
			return fmt.Errorf("bearer token: %w", ErrMissingCredential)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	}
}

// Basic sets HTTP basic credentials.
func Basic(username, password string) Auth {
	return func(req *http.Request) error {
		if username == "" {
			return fmt.Errorf("basic auth username: %w", ErrMissingCredential)
		}
		req.SetBasicAuth(username, password)
		return nil
	}
}

// Header sets a single API-key header.
func Header(name, value string) Auth {
	return func(req *http.Request) error {
		if value == "" {
			return fmt.Errorf("%s header: %w", name, ErrMissingCredential)
		}
		req.Header.Set(name, value)
		return nil
	}
}

// BasicToken sets "Authorization: Basic <base64(token)>" for vendors that build
// the user:password pair themselves.
func BasicToken(raw string) Auth {
	return func(req *http.Request) error {
		req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(raw)))
		return nil
	}
}

// Chain applies every auth in order.
func Chain(auths ...Auth) Auth {
	return func(req *http.Request) error {
		for _, a := range auths {
			if err := a(req); err != nil {
				return err
			}
		}
		return nil
	}
}

// NoAuth leaves the request unchanged.
func NoAuth(*http.Request) error { return nil }

// ConnectionAuth selects the scheme from the connection's stored auth type.
//
//   - bearer: credential "token"
//   - basic: credentials "username" and "password"
//   - header: credential "api_key" in the header named by "header_name" (default X-API-Key)
//   - none: no credentials
func ConnectionAuth(conn *models.Connection) Auth {
	switch conn.AuthType {
	case models.AuthBasic:
		return Basic(conn.Credential("username"), conn.Credential("password"))
	case models.AuthHeader:
		name := conn.Credential("header_name")
		if name == "" {
			name = "X-API-Key"
		}
		return Header(name, conn.Credential("api_key"))
	case models.AuthNone:
		return NoAuth
	default:
		return Bearer(conn.Credential("token"))
	}
}
