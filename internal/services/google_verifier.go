package services

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"
)

// NewGoogleVerifier validates Google ID tokens against the configured
// OAuth client id.
func NewGoogleVerifier(clientID string) GoogleVerifier {
	return func(ctx context.Context, token string) (string, bool, error) {
		payload, err := idtoken.Validate(ctx, token, clientID)
		if err != nil {
			return "", false, err
		}
		email, ok := payload.Claims["email"].(string)
		if !ok || email == "" {
			return "", false, errors.New("google token has no email claim")
		}
		verified, _ := payload.Claims["email_verified"].(bool)
		return email, verified, nil
	}
}
