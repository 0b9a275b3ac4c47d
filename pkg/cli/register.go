package cli

import (
	"context"
	"flag"
	"fmt"
)

func newRegisterCommand() *Command {
	cmd := &Command{
		Name:        "register",
		Description: "Create a new account",
		Flags:       flag.NewFlagSet("register", flag.ExitOnError),
	}
	email := cmd.Flags.String("email", "", "Email address")
	username := cmd.Flags.String("username", "", "Username")
	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if *email == "" || *username == "" {
			return fmt.Errorf("-email and -username are required")
		}
		return runRegister(*email, *username)
	}
	return cmd
}

func runRegister(email, username string) error {
	secret, err := readSecret()
	if err != nil {
		return err
	}

	s, err := newSDK()
	if err != nil {
		return err
	}
	defer s.Close()

	acct, err := s.controller.Register(context.Background(), email, username, secret)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Printf("Account %s created. Run 'trailquest login -identifier %s' to sign in.\n",
		acct.ID, acct.Username)
	return nil
}
