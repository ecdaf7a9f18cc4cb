package api

import "context"

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/login/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var out User
	if err := c.post(ctx, "/register/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword starts the OTP reset flow for the given address.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.post(ctx, "/forgot-password/", map[string]string{"email": email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	body := map[string]string{
		"email":        email,
		"otp":          otp,
		"new_password": newPassword,
	}
	return c.post(ctx, "/reset-password/", body, nil)
}
