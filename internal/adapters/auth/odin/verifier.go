package odin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contact-notes/internal/ports/auth"
)

var (
	ErrTokenEmpty     = errors.New("token is empty")
	ErrMissingSubject = errors.New("odin claims missing user id")
)

// Verifier implementa auth.AuthVerifier. El user_id de los claims es el
// author_ref de las notas que crea ese usuario.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrOdinNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	claims, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("odin verify failed: %w", err)
	}

	// author_ref se persiste tal cual: sin espacios, o "  u1" y "u1" serían dos autores.
	claims.UserID = strings.TrimSpace(claims.UserID)
	if claims.UserID == "" {
		return auth.Claims{}, ErrMissingSubject
	}
	return claims, nil
}
