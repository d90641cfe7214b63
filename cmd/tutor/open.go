package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"onyx-tutor/internal/console"
	"onyx-tutor/internal/frontend"

	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open [path]",
	Short: "Open a page, for example /learn or /review/<id>",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	path := frontend.PathLanding
	if len(args) == 1 {
		path = args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	screen := console.NewScreen(cmd.OutOrStdout())
	app := console.NewApp(cmd.InOrStdin(), screen, current.auth, current.store, current.tutor)
	if err := app.Run(ctx, path); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tutor: %w", err)
	}
	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored sign-in",
	RunE: func(cmd *cobra.Command, args []string) error {
		if current.auth.CurrentUser() == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			return nil
		}
		if err := current.auth.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and API",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "API:  %s\n", current.api.BaseURL())
		user := current.auth.CurrentUser()
		if user == nil {
			fmt.Fprintln(out, "User: not signed in")
			return nil
		}
		fmt.Fprintf(out, "User: %s (%s)\n", user.Email, user.ID)
		return nil
	},
}
