package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sabrisig-create/sadar/internal/config"
	"github.com/sabrisig-create/sadar/internal/export"
	"github.com/sabrisig-create/sadar/internal/fallback"
	"github.com/sabrisig-create/sadar/internal/render"
)

func listCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved reflections, newest first",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, client := requireSession()

			refs, err := client.ListReflections(cmd.Context(), limit)
			if err != nil {
				exitOnError(err)
			}
			fmt.Print(render.New(pretty).Reflections(refs))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of reflections (0 = all)")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one reflection report",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			_, client := requireSession()

			ref, err := client.GetReflection(cmd.Context(), args[0])
			if err != nil {
				exitOnError(err)
			}
			fmt.Print(render.New(pretty).Reflection(ref))
		},
	}
}

func exportCmd() *cobra.Command {
	var format string
	var outDir string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a reflection report to a file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			_, client := requireSession()

			f, err := export.ParseFormat(format)
			if err != nil {
				exitOnError(err)
			}

			ref, err := client.GetReflection(cmd.Context(), args[0])
			if err != nil {
				exitOnError(err)
			}

			dir := outDir
			if dir == "" {
				dir = config.GetPaths().Exports
			}
			path, err := export.Write(dir, ref, f)
			if err != nil {
				exitOnError(err)
			}
			fmt.Printf("Esportato in %s\n", path)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Output format: markdown or html")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default ~/.sadar/exports)")
	return cmd
}

func draftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect or clear the local recovery draft",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			store := fallback.NewStore(config.GetPaths().DraftFile)
			d, err := store.Load()
			if err != nil {
				fmt.Println("Nessuna bozza locale")
				return
			}
			fmt.Printf("Bozza salvata il %s\n\n", d.Timestamp.Local().Format("2006-01-02 15:04"))
			fmt.Printf("Scena:\n%s\n\n", d.Scene)
			fmt.Printf("Affetto:\n%s\n\n", d.TherapistAffect)
			fmt.Printf("Ipotesi:\n%s\n", d.InitialHypothesis)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the local recovery draft",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			store := fallback.NewStore(config.GetPaths().DraftFile)
			if err := store.Clear(); err != nil {
				exitOnError(err)
			}
			fmt.Println("Bozza locale eliminata")
		},
	})
	return cmd
}
