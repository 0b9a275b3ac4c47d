package cli

import (
	"context"
	"flag"
	"fmt"
)

func newWhoamiCommand() *Command {
	cmd := &Command{
		Name:        "whoami",
		Description: "Show the current session",
		Flags:       flag.NewFlagSet("whoami", flag.ExitOnError),
	}
	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		return runWhoami()
	}
	return cmd
}

func runWhoami() error {
	s, err := newSDK()
	if err != nil {
		return err
	}
	defer s.Close()

	state := s.controller.Restore(context.Background())
	if !state.IsAuthenticated() {
		fmt.Println("Not logged in")
		return nil
	}

	fmt.Printf("Logged in as %s (id %s)\n", state.User.Username, state.User.ID)
	if exp, ok := s.controller.Expiry(); ok {
		fmt.Printf("Access credential expires at %s\n", exp.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}
