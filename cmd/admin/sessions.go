package main

import (
	"fmt"
	"os"
	"time"

	"datingroulette/backend/internal/api/handler"
	"datingroulette/backend/internal/config"
	"datingroulette/backend/internal/models"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	sessionsLimit int
	tokenAdmin    bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions <user_id>",
	Short: "Show the latest roulette sessions of a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessions,
}

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "List sessions that have no end recorded",
	Args:  cobra.NoArgs,
	RunE:  runActive,
}

var tokenCmd = &cobra.Command{
	Use:   "token <user_id>",
	Short: "Mint a WebSocket token for a user, or an /admin token with --admin",
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

func init() {
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "number of sessions to show")
	tokenCmd.Flags().BoolVar(&tokenAdmin, "admin", false, "grant the admin role")
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, closeFn, err := openStorage(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	sessions, err := store.GetSessionsForUser(cmd.Context(), args[0], sessionsLimit)
	if err != nil {
		return err
	}
	printSessions(sessions)
	return nil
}

func runActive(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, closeFn, err := openStorage(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	sessions, err := store.GetActiveSessions(cmd.Context())
	if err != nil {
		return err
	}
	printSessions(sessions)
	return nil
}

func runToken(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	tokens := handler.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	generate := tokens.GenerateToken
	if tokenAdmin {
		generate = tokens.GenerateAdminToken
	}
	token, err := generate(args[0])
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func printSessions(sessions []models.RouletteSession) {
	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Session", "User 1", "User 2", "Started", "Duration", "Ended"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, s := range sessions {
		duration, ended := "-", "active"
		if s.EndedAt != nil {
			duration = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
			ended = s.EndedReason
		}
		table.Append([]string{
			s.SessionID, s.User1ID, s.User2ID, s.StartedAt.Format(time.RFC3339), duration, ended,
		})
	}
	table.Render()
}
