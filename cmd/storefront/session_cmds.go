package main

import (
	"fmt"
	"strings"

	"github.com/dwikikusuma/honey-storefront/internal/apperr"
	"github.com/dwikikusuma/honey-storefront/internal/session/domain"
	"github.com/spf13/cobra"
)

func (c *cli) loginCmd() *cobra.Command {
	var creds domain.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a username, email or phone number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Session.Login(cmd.Context(), creds); err != nil {
				return err
			}
			s := c.app.Session.Snapshot()
			if s.User == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Signed in, but the profile could not be loaded yet.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", displayName(*s.User))
			return nil
		},
	}
	cmd.Flags().StringVarP(&creds.Login, "login", "u", "", "username, email or phone")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "password")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var (
		reg    domain.Registration
		fields map[string]string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(fields) > 0 {
				reg.Extra = make(map[string]any, len(fields))
				for k, v := range fields {
					reg.Extra[k] = v
				}
			}
			if err := c.app.Session.Register(cmd.Context(), reg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s.\n", reg.Username)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&reg.Username, "username", "", "username")
	f.StringVar(&reg.Email, "email", "", "email address")
	f.StringVar(&reg.Phone, "phone", "", "phone number, used to sign in when given")
	f.StringVar(&reg.Nickname, "nickname", "", "display name")
	f.StringVarP(&reg.Password, "password", "p", "", "password")
	f.StringToStringVar(&fields, "field", nil, "extra profile field as key=value (repeatable)")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.app.Session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if refresh {
				c.app.Session.FetchUser(cmd.Context())
			}
			s := c.app.Session.Snapshot()
			if !s.IsAuthenticated() {
				return errNotSignedIn
			}

			u := s.User
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (#%d)\n", displayName(*u), u.ID)
			for _, row := range [][2]string{
				{"username", u.Username},
				{"email", u.Email},
				{"phone", u.Phone},
				{"role", u.Role},
				{"member level", u.MemberLevel},
			} {
				if row[1] != "" {
					fmt.Fprintf(out, "  %-13s %s\n", row[0]+":", row[1])
				}
			}
			fmt.Fprintf(out, "  %-13s %d\n", "points:", u.Points)
			if s.IsAdmin() {
				fmt.Fprintln(out, "  administrator")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the profile from the server first")
	return cmd
}

func (c *cli) profileCmd() *cobra.Command {
	profile := &cobra.Command{
		Use:   "profile",
		Short: "Manage the signed-in user's profile",
	}

	var set map[string]string
	update := &cobra.Command{
		Use:     "update",
		Short:   "Change profile fields",
		Example: "  storefront profile update --set nickname=Ally --set email=ally@example.com",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(set) == 0 {
				return apperr.Validation("profile update", "nothing to update, pass --set key=value")
			}
			partial := make(map[string]any, len(set))
			for k, v := range set {
				partial[strings.TrimSpace(k)] = v
			}
			ok, err := c.app.Session.UpdateProfile(cmd.Context(), partial)
			if err != nil {
				return err
			}
			if !ok {
				return errNotSignedIn
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated.")
			return nil
		},
	}
	update.Flags().StringToStringVar(&set, "set", nil, "field=value to change (repeatable)")

	profile.AddCommand(update)
	return profile
}

func (c *cli) passwordCmd() *cobra.Command {
	var current, next string
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the account password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if current == "" || next == "" {
				return apperr.Validation("password", "both --current and --new are required")
			}
			ok, err := c.app.Session.ChangePassword(cmd.Context(), current, next)
			if err != nil {
				return err
			}
			if !ok {
				return errNotSignedIn
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed.")
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	return cmd
}

func displayName(u domain.User) string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}
