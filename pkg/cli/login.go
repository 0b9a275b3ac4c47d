package cli

import (
	"context"
	"flag"
	"fmt"
)

func newLoginCommand() *Command {
	cmd := &Command{
		Name:        "login",
		Description: "Sign in and persist the session",
		Flags:       flag.NewFlagSet("login", flag.ExitOnError),
	}
	identifier := cmd.Flags.String("identifier", "", "Username or email")
	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if *identifier == "" {
			return fmt.Errorf("-identifier is required")
		}
		return runLogin(*identifier)
	}
	return cmd
}

func runLogin(identifier string) error {
	secret, err := readSecret()
	if err != nil {
		return err
	}

	s, err := newSDK()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	s.controller.Restore(ctx)

	state, err := s.controller.Login(ctx, identifier, secret)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Logged in as %s\n", state.User.Username)
	return nil
}
