package auth

// Claims representa la información extraída del token de sesión.
// UserID es además la owner key bajo la que se particionan las colecciones
// del store: es lo único que este core le pide al identity provider.
type Claims struct {
	UserID string
	Email  string
}
