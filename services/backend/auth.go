package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"glsalliance/models"
)

// LoginResult is the outcome of a successful credential check.
type LoginResult struct {
	Token string
	User  models.AuthUser
	Raw   json.RawMessage
}

type tokenEnvelope struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
	Data        *struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

func (t tokenEnvelope) token() string {
	switch {
	case t.Token != "":
		return t.Token
	case t.AccessToken != "":
		return t.AccessToken
	case t.Data != nil && t.Data.Token != "":
		return t.Data.Token
	case t.Data != nil:
		return t.Data.AccessToken
	}
	return ""
}

// extractUser reads the user from "user", "data.user" or "data".
func extractUser(body []byte) models.AuthUser {
	var env struct {
		User *models.AuthUser `json:"user"`
		Data json.RawMessage  `json:"data"`
	}
	if json.Unmarshal(body, &env) != nil {
		return models.AuthUser{}
	}
	if env.User != nil {
		return *env.User
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return models.AuthUser{}
	}
	var nested struct {
		User *models.AuthUser `json:"user"`
	}
	if json.Unmarshal(env.Data, &nested) == nil && nested.User != nil {
		return *nested.User
	}
	var u models.AuthUser
	_ = json.Unmarshal(env.Data, &u)
	return u
}

// Login posts the credentials form-encoded to /auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	const endpoint = "auth.login"
	body, contentType := formBody(url.Values{"email": {email}, "password": {password}})
	raw, err := c.do(ctx, call{
		endpoint:    endpoint,
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	var tokens tokenEnvelope
	if err := decode(endpoint, loginV1, raw, &tokens); err != nil {
		return nil, err
	}
	return &LoginResult{Token: tokens.token(), User: extractUser(raw), Raw: raw}, nil
}

// Logout revokes token on the backend.
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, call{
		endpoint: "auth.logout",
		method:   http.MethodPost,
		path:     "/auth/logout",
		token:    token,
	})
	return err
}

// Me fetches the account behind token.
func (c *Client) Me(ctx context.Context, token string) (*models.AuthUser, error) {
	const endpoint = "auth.me"
	raw, err := c.do(ctx, call{
		endpoint: endpoint,
		method:   http.MethodGet,
		path:     "/auth/me",
		token:    token,
	})
	if err != nil {
		return nil, err
	}
	if err := decode(endpoint, meV1, raw, nil); err != nil {
		return nil, err
	}
	u := extractUser(raw)
	return &u, nil
}

// RequestPasswordOTP asks the backend to email a one-time code.
func (c *Client) RequestPasswordOTP(ctx context.Context, email string) (json.RawMessage, error) {
	const endpoint = "auth.request_otp"
	body, contentType := formBody(url.Values{"email": {email}})
	raw, err := c.do(ctx, call{
		endpoint:    endpoint,
		method:      http.MethodPost,
		path:        "/auth/password/request-otp",
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return nil, err
	}
	if err := decode(endpoint, anyObjectV1, raw, nil); err != nil {
		return nil, err
	}
	return raw, nil
}

// VerifyPasswordOTP exchanges the code for a reset token.
func (c *Client) VerifyPasswordOTP(ctx context.Context, email, otp string) (string, json.RawMessage, error) {
	const endpoint = "auth.verify_otp"
	body, contentType := formBody(url.Values{"email": {email}, "otp": {otp}})
	raw, err := c.do(ctx, call{
		endpoint:    endpoint,
		method:      http.MethodPost,
		path:        "/auth/password/verify-otp",
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return "", nil, err
	}

	var out struct {
		Data struct {
			ResetToken string `json:"reset_token"`
		} `json:"data"`
	}
	if err := decode(endpoint, verifyOTPV1, raw, &out); err != nil {
		return "", nil, err
	}
	return out.Data.ResetToken, raw, nil
}

// ChangePassword sets a new password authorised by the reset token.
func (c *Client) ChangePassword(ctx context.Context, resetToken, password, confirmation string) (json.RawMessage, error) {
	const endpoint = "auth.change_password"
	body, contentType := formBody(url.Values{
		"password":              {password},
		"password_confirmation": {confirmation},
	})
	raw, err := c.do(ctx, call{
		endpoint:    endpoint,
		method:      http.MethodPost,
		path:        "/auth/password/change",
		body:        body,
		contentType: contentType,
		token:       resetToken,
	})
	if err != nil {
		return nil, err
	}
	if err := decode(endpoint, anyObjectV1, raw, nil); err != nil {
		return nil, err
	}
	return raw, nil
}
