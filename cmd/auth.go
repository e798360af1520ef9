package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// terminalFd returns the descriptor behind in when it is an interactive terminal.
func terminalFd(in io.Reader) (int, bool) {
	f, ok := in.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

// readPassword returns --password or prompts for one.
// A terminal gets a no-echo prompt; piped input is read a line at a time.
func (r *Runner) readPassword(cmd *cli.Command) (string, error) {
	if password := cmd.String("password"); password != "" {
		return password, nil
	}

	r.writePlain("Password: ")

	var password string
	if fd, ok := terminalFd(r.input); ok {
		raw, err := term.ReadPassword(fd)
		r.writePlain("\n")
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	} else {
		scanner := bufio.NewScanner(r.input)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("failed to read password: %w", err)
			}
			return "", fmt.Errorf("%w: password", shared.ErrMissingArgument)
		}
		password = scanner.Text()
	}

	password = strings.TrimSpace(password)
	if password == "" {
		return "", fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}
	return password, nil
}

// AuthLogin signs in and stores the tokens.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := strings.TrimSpace(cmd.String("email"))
	password, err := r.readPassword(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("signing in", "email", email)
	user, err := r.session.Login(ctx, email, password)
	if err != nil {
		return err
	}

	r.logger.Info("authentication successful", "user", user.ID())
	return r.writePlain("✓ Signed in as %s\n", user.DisplayName())
}

// AuthRegister creates an account and signs in with it.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email := strings.TrimSpace(cmd.String("email"))
	password, err := r.readPassword(cmd)
	if err != nil {
		return err
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", shared.ErrInvalidInput)
	}

	username := cmd.String("username")
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}

	reg := models.Registration{
		LastName:  cmd.String("last-name"),
		FirstName: cmd.String("first-name"),
		Email:     email,
		Password:  password,
		Username:  username,
		Level:     cmd.String("level"),
	}

	user, err := r.session.Register(ctx, reg)
	if err != nil {
		return err
	}

	r.logger.Info("account created", "user", user.ID(), "username", username)
	return r.writePlain("✓ Account created, signed in as %s\n", user.DisplayName())
}

// AuthLogout forgets the stored tokens.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if !r.session.Authenticated() {
		return r.writePlain("Not signed in\n")
	}

	if err := r.session.Logout(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus shows who is signed in, optionally reloading the profile.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if !r.session.Authenticated() {
		return r.writePlain("✗ Not signed in\n")
	}

	user := r.session.User()
	if cmd.Bool("refresh") {
		fresh, err := r.session.RefreshProfile(ctx)
		if err != nil {
			return err
		}
		user = fresh
	}

	token := r.session.Token()
	r.writePlain("✓ Signed in\n")
	if user != nil {
		r.writePlain("Name:     %s\n", user.DisplayName())
		r.writePlain("Email:    %s\n", user.Email)
		if user.Role != "" {
			r.writePlain("Role:     %s\n", user.Role)
		}
		if user.Level != "" {
			r.writePlain("Level:    %s\n", user.Level)
		}
		if user.SessionsDone > 0 {
			r.writePlain("Sessions: %d (%d min)\n", user.SessionsDone, user.TotalMinutes)
		}
	}
	if !token.Expiry.IsZero() {
		state := "valid"
		if !token.Valid() {
			state = "expired, will refresh"
		}
		r.writePlain("Token:    %s until %s\n", state, token.Expiry.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
