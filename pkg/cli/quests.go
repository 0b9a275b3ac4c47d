package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/trailquest/trailquest-go/pkg/quests"
)

func newQuestsCommand() *Command {
	cmd := &Command{
		Name:        "quests",
		Description: "List open quests",
		Flags:       flag.NewFlagSet("quests", flag.ExitOnError),
	}
	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		return runQuests()
	}
	return cmd
}

func runQuests() error {
	s, err := newSDK()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	s.controller.Restore(ctx)

	client := quests.NewClient(s.cfg.API.BaseURL, s.httpClient)
	list, err := client.ListQuests(ctx)
	if err != nil {
		return fmt.Errorf("failed to list quests: %w", err)
	}

	if len(list) == 0 {
		fmt.Println("No open quests")
		return nil
	}
	for _, q := range list {
		fmt.Printf("%-36s  %s", q.ID, q.Title)
		if q.Region != "" {
			fmt.Printf("  (%s)", q.Region)
		}
		fmt.Println()
	}
	return nil
}

func newLeaderboardCommand() *Command {
	cmd := &Command{
		Name:        "leaderboard",
		Description: "Show a quest leaderboard",
		Flags:       flag.NewFlagSet("leaderboard", flag.ExitOnError),
	}
	questID := cmd.Flags.String("quest", "", "Quest ID")
	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if *questID == "" {
			return fmt.Errorf("-quest is required")
		}
		return runLeaderboard(*questID)
	}
	return cmd
}

func runLeaderboard(questID string) error {
	s, err := newSDK()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	s.controller.Restore(ctx)

	client := quests.NewClient(s.cfg.API.BaseURL, s.httpClient)
	entries, err := client.Leaderboard(ctx, questID)
	if err != nil {
		return fmt.Errorf("failed to fetch leaderboard: %w", err)
	}

	for _, e := range entries {
		fmt.Printf("%3d. %-20s %6d\n", e.Rank, e.Username, e.Score)
	}
	return nil
}
