package main

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"woofinder/internal/store"
)

var (
	loginName  string
	loginEmail string
)

// loginCmd starts a session and persists the identity.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the catalog service",
	Long: `Signs in with your name and email and remembers the identity locally.

Example:
  woof login --name "Ada Lovelace" --email ada@example.com`,
	RunE: runLogin,
}

// logoutCmd ends the session and clears the local record, favorites
// included.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear local state",
	RunE:  runLogout,
}

// whoamiCmd prints the stored identity.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in identity",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&loginName, "name", "", "your full name (required)")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "your email address (required)")
	_ = loginCmd.MarkFlagRequired("name")
	_ = loginCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(loginName)
	email := strings.TrimSpace(loginEmail)
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email %q: %w", email, err)
	}

	s, err := newSession()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := s.catalog.Login(ctx, name, email); err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	user := &store.User{Name: name, Email: email}
	if svg, err := s.avatar.Fetch(ctx, name); err == nil {
		user.Avatar = svg
	}
	s.store.SetUser(user)

	fmt.Printf("Signed in as %s <%s>\n", name, email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	if s.store.User() != nil {
		if err := s.catalog.Logout(cmd.Context()); err != nil {
			logger.Warn("remote sign-out failed", zap.Error(err))
		}
	}
	s.store.SetUser(nil)
	s.store.ClearFavorites()

	fmt.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	user := s.store.User()
	if user == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	return nil
}
