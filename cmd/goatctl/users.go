package main

import (
	"errors"
	"fmt"

	"livestock-records/internal/client/page"
	"livestock-records/internal/domain/users"

	"github.com/spf13/cobra"
)

func usersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Register and sign in",
	}
	cmd.AddCommand(registerCmd(a), signInCmd(a))
	return cmd
}

func registerCmd(a *app) *cobra.Command {
	var in users.RegisterInput
	var role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Role = users.Role(role)
			if err := a.ensurePassword(&in.Password); err != nil {
				return err
			}
			msg, err := page.SignUp(cmd.Context(), a.client, in)
			if err != nil {
				return withMessage(msg, err)
			}
			return a.printer().Message(msg)
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password (prompted when omitted)")
	cmd.Flags().StringVar(&role, "role", string(users.RoleUser), "Role: Admin, Manager, User")
	return cmd
}

func signInCmd(a *app) *cobra.Command {
	var in users.SignInInput

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Check credentials against the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.signIn(cmd, &in)
			if err != nil {
				return err
			}
			st := a.session.State()
			if a.output == outputJSON {
				return a.printer().JSON(map[string]any{"message": msg, "user": st.User})
			}
			a.printer().Success(fmt.Sprintf("Signed in as %s (%s)", st.User.Email, st.User.Role))
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password (prompted when omitted)")
	return cmd
}

// signIn pide la contraseña si hace falta y despacha LOGIN en la sesión del proceso.
func (a *app) signIn(cmd *cobra.Command, in *users.SignInInput) (string, error) {
	if err := a.ensurePassword(&in.Password); err != nil {
		return "", err
	}
	msg, err := page.SignIn(cmd.Context(), a.client, a.session, *in)
	if err != nil {
		return "", withMessage(msg, err)
	}
	return msg, nil
}

func (a *app) ensurePassword(pw *string) error {
	if *pw != "" {
		return nil
	}
	v, err := a.readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	*pw = v
	return nil
}

// withMessage usa el texto ya resuelto por page; los errores de validación local no traen texto.
func withMessage(msg string, err error) error {
	var fe page.FieldErrors
	if msg == "" || errors.As(err, &fe) {
		return err
	}
	return &failure{msg: msg, err: err}
}
