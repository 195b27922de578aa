package auth

import "context"

// AuthVerifier valida un token de sesión contra el identity provider y
// devuelve claims o error. Es un colaborador externo: este core no emite
// ni refresca tokens.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
