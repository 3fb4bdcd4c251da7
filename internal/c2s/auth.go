// SPDX-License-Identifier: AGPL-3.0-only
package c2s

import (
	"context"
	"fmt"
	"net/http"
)

// Login exchanges credentials for a session. The backend takes the
// credentials as query parameters on the login POST.
func (c *Client) Login(ctx context.Context, handle, password string) (*Session, error) {
	if handle == "" || password == "" {
		return nil, fmt.Errorf("handle and password are required")
	}
	rawQuery := "handle=" + encodeQueryComponent(handle) + "&password=" + encodeQueryComponent(password)
	var sess Session
	if err := c.do(ctx, http.MethodPost, "/c2s/login", rawQuery, nil, false, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	if reg.Handle == "" || reg.Password == "" {
		return fmt.Errorf("handle and password are required")
	}
	return c.do(ctx, http.MethodPost, "/c2s/register", "", reg, false, nil)
}

// Logout invalidates the current session token.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/c2s/logout", "", struct{}{}, false, nil)
}
