package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/comigor/lovechest/internal/chest"
	"github.com/comigor/lovechest/internal/fault"
)

var (
	lockedColor   = color.New(color.FgYellow)
	unlockedColor = color.New(color.FgMagenta, color.Bold)
	noticeColor   = color.New(color.FgRed)
)

func newStatusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether today's chest is open",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChest(cmd, *configPath, (*chest.Chest).Load)
		},
	}
}

func newOpenCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open today's chest",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChest(cmd, *configPath, (*chest.Chest).Open)
		},
	}
}

func newResetCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget every stored unlock",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChest(cmd, *configPath, (*chest.Chest).Reset)
		},
	}
}

func runChest(cmd *cobra.Command, configPath string, op func(*chest.Chest, context.Context) (chest.Outcome, error)) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	out, err := op(a.chest, cmd.Context())
	if err != nil {
		return err
	}
	printOutcome(cmd.OutOrStdout(), out)
	return nil
}

func printOutcome(w io.Writer, out chest.Outcome) {
	switch out.Event.State {
	case chest.StateUnlocked:
		unlockedColor.Fprintf(w, "%s: %s\n", out.Event.Day, out.Event.Message)
		fmt.Fprintln(w, "Komm morgen wieder 😘")
	default:
		lockedColor.Fprintf(w, "%s: locked\n", out.Event.Day)
	}
	if !out.Persisted {
		fmt.Fprintln(w, "(not saved; this will be gone after a restart)")
	}
	for _, n := range out.Notices {
		noticeColor.Fprintln(w, fault.Notice(n))
	}
}
