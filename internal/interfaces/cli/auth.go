package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salonathome.in/cli/internal/apiclient"
	"salonathome.in/cli/internal/core/domain"
)

// newAuthCommand creates the auth subcommand
func newAuthCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign out and check your session",
	}

	cmd.AddCommand(newAuthLoginCommand(a))
	cmd.AddCommand(newAuthRegisterCommand(a))
	cmd.AddCommand(newAuthStatusCommand(a))
	cmd.AddCommand(newAuthLogoutCommand(a))

	return cmd
}

func readPassword(cmd *cobra.Command, password string, fromStdin bool) (string, error) {
	if !fromStdin {
		return password, nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newAuthLoginCommand(a *app) *cobra.Command {
	var (
		email         string
		password      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Example: `  sah auth login --email asha@example.com --password-stdin < pw.txt
  sah auth login --email asha@example.com --password hunter22`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password, passwordStdin)
			if err != nil {
				return err
			}
			c := a.container
			user, err := c.Auth.Login(cmd.Context(), domain.Credentials{Email: email, Password: pw})
			if err != nil {
				return err
			}
			c.Session.Set(user)

			p := a.printer(cmd)
			return p.Result(user, func() {
				p.Success("Signed in as %s <%s>", user.Name, user.Email)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
	cmd.MarkFlagsOneRequired("password", "password-stdin")

	return cmd
}

func newAuthRegisterCommand(a *app) *cobra.Command {
	var (
		reg           domain.Registration
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, reg.Password, passwordStdin)
			if err != nil {
				return err
			}
			reg.Password = pw
			c := a.container
			user, err := c.Auth.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			c.Session.Set(user)

			p := a.printer(cmd)
			return p.Result(user, func() {
				p.Success("Welcome, %s! Your account is ready.", user.Name)
			})
		},
	}

	cmd.Flags().StringVar(&reg.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "Mobile number")
	cmd.Flags().StringVar(&reg.Password, "password", "", "Password (at least 8 characters)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")

	return cmd
}

type authStatus struct {
	SignedIn bool         `json:"signedIn"`
	User     *domain.User `json:"user,omitempty"`
}

func newAuthStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who is signed in",
		// A signed-out state is this command's answer, not an error to announce.
		Annotations: map[string]string{"reports-session": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.container
			p := a.printer(cmd)

			user, err := c.Auth.Me(cmd.Context())
			if err != nil {
				if apiclient.IsSessionExpired(err) || apiclient.StatusOf(err) == 401 {
					return p.Result(authStatus{}, func() {
						p.Warn("Not signed in")
						fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Run 'sah auth login' to sign in."))
					})
				}
				return err
			}
			c.Session.Set(user)

			return p.Result(authStatus{SignedIn: true, User: &user}, func() {
				p.Success("Signed in")
				p.Field("Name", user.Name)
				p.Field("Email", user.Email)
				if user.Phone != "" {
					p.Field("Phone", user.Phone)
				}
				p.Field("Loyalty points", user.LoyaltyPoints)
				p.Field("API", c.Config.APIEndpoint)
			})
		},
	}
}

func newAuthLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.container
			if err := c.Auth.Logout(cmd.Context()); err != nil {
				c.Logger.Warn("server-side logout failed, clearing local session anyway", zap.Error(err))
			}
			c.Session.Clear()
			if err := c.Cookies.Clear(); err != nil {
				return err
			}

			p := a.printer(cmd)
			return p.Result(map[string]bool{"success": true}, func() {
				p.Success("Signed out")
			})
		},
	}
}
