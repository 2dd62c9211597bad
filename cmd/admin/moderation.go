package main

import (
	"fmt"
	"strconv"
	"time"

	"datingroulette/backend/internal/complaint"
	"datingroulette/backend/internal/config"

	"github.com/spf13/cobra"
)

var banCmd = &cobra.Command{
	Use:   "ban <user_id> [duration_in_hours]",
	Short: "Block a user (no duration = until unbanned)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runBan,
}

var unbanCmd = &cobra.Command{
	Use:   "unban <user_id>",
	Short: "Lift a block",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnban,
}

var confirmComplaintCmd = &cobra.Command{
	Use:   "confirm-complaint <complaint_id>",
	Short: "Confirm a complaint and reward the reporter",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfirmComplaint,
}

func moderation(cmd *cobra.Command) (*complaint.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	store, closeFn, err := openStorage(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return complaint.NewService(store, nil), closeFn, nil
}

func runBan(cmd *cobra.Command, args []string) error {
	var duration time.Duration
	if len(args) > 1 {
		hours, err := strconv.Atoi(args[1])
		if err != nil || hours < 0 {
			return fmt.Errorf("invalid duration %q, please provide a whole number of hours", args[1])
		}
		duration = time.Duration(hours) * time.Hour
	}

	svc, closeFn, err := moderation(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := svc.Ban(cmd.Context(), args[0], duration); err != nil {
		return fmt.Errorf("error banning user: %w", err)
	}
	fmt.Printf("User %s has been banned.\n", args[0])
	return nil
}

func runUnban(cmd *cobra.Command, args []string) error {
	svc, closeFn, err := moderation(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := svc.Unban(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("error unbanning user: %w", err)
	}
	fmt.Printf("User %s has been unbanned.\n", args[0])
	return nil
}

func runConfirmComplaint(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid complaint ID %q", args[0])
	}

	svc, closeFn, err := moderation(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := svc.ConfirmComplaint(cmd.Context(), uint(id)); err != nil {
		return fmt.Errorf("error confirming complaint: %w", err)
	}
	fmt.Printf("Complaint %d has been confirmed.\n", id)
	return nil
}
