package page

import (
	"context"

	"livestock-records/internal/client/api"
	"livestock-records/internal/client/session"
	"livestock-records/internal/domain/users"
)

// MsgRegistered es el aviso tras un alta de usuario exitosa.
const MsgRegistered = "Registration successful! Please sign in."

// SignUp valida localmente y registra. Devuelve el texto a mostrar bajo el formulario.
func SignUp(ctx context.Context, c *api.Client, in users.RegisterInput) (string, error) {
	if err := ValidateSignUp(in); err != nil {
		return "", err
	}
	if _, err := c.Register(ctx, in); err != nil {
		return api.MessageFor(err, "An error occurred"), err
	}
	return MsgRegistered, nil
}

// SignIn autentica y, si sale bien, despacha LOGIN con el usuario y el token (vacío si el servidor no emite uno).
func SignIn(ctx context.Context, c *api.Client, store *session.Store, in users.SignInInput) (string, error) {
	if err := ValidateSignIn(in); err != nil {
		return "", err
	}
	res, err := c.SignIn(ctx, in)
	if err != nil {
		return api.MessageFor(err, "An error occurred"), err
	}

	u := res.User
	store.Dispatch(session.Action{Type: session.Login, User: &u, Token: res.Token})
	c.SetToken(res.Token)
	return res.Message, nil
}

// SignOut despacha LOGOUT y quita el token del cliente.
func SignOut(c *api.Client, store *session.Store) {
	store.Dispatch(session.Action{Type: session.Logout})
	c.SetToken("")
}
