package main

import (
	"fmt"

	"onyx-tutor/internal/client"
	"onyx-tutor/internal/config"
	"onyx-tutor/internal/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Onyx AI tutor in your terminal",
	Long:  "Chat with Onyx about any topic, take a quiz generated from the lesson and review your results.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOpen,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Tutor API base URL (overrides ONYX_API_URL)")
	rootCmd.PersistentFlags().String("credentials", "", "Path of the stored sign-in (overrides ONYX_CREDENTIALS)")

	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

// session is the client wiring shared by every command.
type session struct {
	cfg   *config.ClientConfig
	api   *client.Client
	auth  *client.Auth
	store *client.Store
	tutor *client.Tutor
}

var current *session

func setup(cmd *cobra.Command) error {
	cfg, err := config.LoadClientConfig()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		cfg.APIBaseURL = v
	}
	if v, _ := cmd.Flags().GetString("credentials"); v != "" {
		cfg.CredentialsPath = v
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	api := client.New(cfg.APIBaseURL)
	auth := client.NewAuth(api, client.NewFileCredentialStore(cfg.CredentialsPath))
	current = &session{
		cfg:   cfg,
		api:   api,
		auth:  auth,
		store: client.NewStore(api, auth),
		tutor: client.NewTutor(api),
	}
	return nil
}
