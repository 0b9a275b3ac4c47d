package cli

import (
	"context"
	"flag"
	"fmt"
)

func newLogoutCommand() *Command {
	cmd := &Command{
		Name:        "logout",
		Description: "Sign out and clear the persisted session",
		Flags:       flag.NewFlagSet("logout", flag.ExitOnError),
	}
	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		return runLogout()
	}
	return cmd
}

func runLogout() error {
	s, err := newSDK()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	s.controller.Restore(ctx)
	s.controller.Logout(ctx)

	fmt.Println("Logged out")
	return nil
}
