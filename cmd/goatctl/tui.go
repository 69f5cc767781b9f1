package main

import (
	"livestock-records/internal/domain/users"
	"livestock-records/internal/tui"

	"github.com/spf13/cobra"
)

func tuiCmd(a *app) *cobra.Command {
	var in users.SignInInput

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive record browser",
		Long: `Opens a full-screen browser with one tab per record kind.

With --email the session is signed in first (password prompted when omitted)
and the header shows the signed-in user; press o to sign out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Email != "" {
				if _, err := a.signIn(cmd, &in); err != nil {
					return err
				}
			}
			return tui.Run(tui.Options{
				Client:  a.client,
				Session: a.session,
				Context: cmd.Context(),
			})
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "Sign in before opening")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password (prompted when omitted)")
	return cmd
}
