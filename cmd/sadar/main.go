// Package main provides the SADAR CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sabrisig-create/sadar/internal/config"
	"github.com/sabrisig-create/sadar/internal/dictation"
	"github.com/sabrisig-create/sadar/internal/fallback"
	"github.com/sabrisig-create/sadar/internal/logging"
	"github.com/sabrisig-create/sadar/internal/submit"
	"github.com/sabrisig-create/sadar/internal/tui"
)

var (
	version = "0.1.0"
	pretty  = true
	log     = logging.New("cli")
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sadar",
		Short: "SADAR - Supporto Alla Decentrazione e Auto-Riflessione",
		Long: `SADAR: guided post-session self-reflection for psychotherapists.

Usage modes:
  sadar            Start the interactive reflection session
  sadar <command>  Run a specific command (see below)

Sign in first with 'sadar login' (or 'sadar signup' for a new account).
The API server address comes from SADAR_API_URL.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runInteractive()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "Pretty print output")
	rootCmd.Version = version

	rootCmd.AddGroup(
		&cobra.Group{ID: "account", Title: "Account:"},
		&cobra.Group{ID: "reflections", Title: "Reflections:"},
	)

	for _, c := range []*cobra.Command{
		signupCmd(), loginCmd(), logoutCmd(), resetPasswordCmd(), updatePasswordCmd(),
	} {
		c.GroupID = "account"
		rootCmd.AddCommand(c)
	}

	for _, c := range []*cobra.Command{
		listCmd(), showCmd(), exportCmd(), draftCmd(),
	} {
		c.GroupID = "reflections"
		rootCmd.AddCommand(c)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runInteractive wires the full client stack and starts the TUI.
func runInteractive() {
	sess, client := requireSession()
	paths := config.GetPaths()

	fb := fallback.NewStore(paths.DraftFile)
	controller := submit.New(client, fb, submit.WithLogger(logging.New("submit")))

	env := config.Env()
	capability := dictation.Detect(env.RecorderCmd)
	var adapter *dictation.Adapter
	if capability.Supported {
		adapter = dictation.New(capability,
			dictation.NewCommandRecorder(capability),
			client,
			env.DictationLang)
	} else {
		adapter = dictation.New(capability, nil, client, env.DictationLang)
	}

	if err := tui.Run(tui.Options{
		Client:     client,
		Controller: controller,
		Dictation:  adapter,
		Fallback:   fb,
		Email:      sess.Email,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
