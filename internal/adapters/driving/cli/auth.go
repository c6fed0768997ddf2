package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the storefront session",
	Long: `Log in, log out and inspect the stored session.

Examples:
  # Log in interactively
  storefront auth login --email you@example.com

  # Log in from a script
  printf '%s\n' "$PASSWORD" | storefront auth login --email you@example.com --password-stdin

  # Show who is signed in
  storefront auth status`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored session",
	RunE:  runAuthStatus,
}

// Flags for auth login.
var (
	loginEmail         string
	loginPasswordStdin bool
)

func init() {
	authLoginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	authLoginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	in := bufio.NewReader(cmd.InOrStdin())
	email := strings.TrimSpace(loginEmail)
	if email == "" {
		cmd.Print("Email: ")
		email = readLine(in)
	}

	var password string
	if loginPasswordStdin {
		password = readLine(in)
	} else {
		cmd.Print("Password: ")
		password = readPassword(in)
		cmd.Println()
	}

	if err := sessionService.Login(cmd.Context(), email, password); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			printFields(cmd.ErrOrStderr(), verr.Fields)
		}
		return fmt.Errorf("login failed: %w", err)
	}

	cmd.Println(successStyle.Render("Logged in as " + email))
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if err := sessionService.Logout(cmd.Context()); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	cmd.Println("Logged out")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	status, err := sessionService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	out := cmd.OutOrStdout()
	printTitle(out, "Session")
	if !status.Authenticated {
		printRow(out, "Signed in", "no")
		if !status.HasRefreshToken {
			fmt.Fprintln(out, mutedStyle.Render("  Run 'storefront auth login' to sign in."))
		}
		return nil
	}

	printRow(out, "Signed in", "yes")
	printRow(out, "Refresh token", yesNo(status.HasRefreshToken))
	if status.Profile != nil {
		printRow(out, "Email", status.Profile.Email)
		printRow(out, "Account", status.Profile.ID)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func readLine(r *bufio.Reader) string {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return strings.TrimSpace(line)
}

// readPassword reads without echo when stdin is a terminal.
func readPassword(fallback *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(fallback)
}
