package main

import (
	"github.com/spf13/cobra"

	"github.com/ViacheslavGIT/MegaMart/internal/client"
)

func registerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register EMAIL PASSWORD",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.api.Register(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.signIn(s)
		},
	}
}

func loginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login EMAIL PASSWORD",
		Short: "Sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.api.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.signIn(s)
		},
	}
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			a.state.SignOut()
			if err := a.state.Save(); err != nil {
				return err
			}
			a.printf("signed out\n")
			return nil
		},
	}
}

func (a *app) signIn(s *client.Session) error {
	if err := a.state.SignIn(s.Token); err != nil {
		return err
	}
	if err := a.state.Save(); err != nil {
		return err
	}
	role := "user"
	if s.IsAdmin {
		role = "admin"
	}
	a.printf("signed in as %s (%s)\n", s.Email, role)
	return nil
}
