// Command bvr is a terminal viewer for large and streaming log files:
// regex filters, bookmarks, and multi-buffer tabs over append-only data.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kimaguri/simplx-toolkit/internal/config"
	"github.com/kimaguri/simplx-toolkit/internal/engine/buffer"
	"github.com/kimaguri/simplx-toolkit/internal/engine/instance"
	"github.com/kimaguri/simplx-toolkit/internal/logging"
	"github.com/kimaguri/simplx-toolkit/internal/tui"
)

var (
	version = "dev"
	debug   bool
)

func main() {
	root := &cobra.Command{
		Use:     "bvr",
		Short:   "Terminal viewer for large and streaming log files",
		Version: version,
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to stderr")

	root.AddCommand(newViewCmd())
	root.AddCommand(newExportCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [file...]",
		Short: "Open one or more files (or \"-\" for stdin) in the interactive viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(debug)
			cfg := config.Load()
			app := tui.NewApp(cfg, args)
			p := tea.NewProgram(app, tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

func newExportCmd() *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Stream a file's matching lines to stdout, optionally filtered by a regex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(debug)
			cfg := config.Load()
			in, err := openForExport(args[0], cfg.LRUCapacity)
			if err != nil {
				return err
			}
			if pattern != "" {
				if _, err := in.AddSearch(pattern, pattern, ""); err != nil {
					return err
				}
			}
			waitForComplete(in)
			return in.Export(os.Stdout)
		},
	}
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "regex filter applied before export")
	return cmd
}

func openForExport(path string, lruCapacity int) (*instance.Instance, error) {
	if path == "-" {
		return instance.New("stdin", buffer.OpenStream(os.Stdin)), nil
	}
	buf, err := buffer.OpenFile(path, lruCapacity)
	if err != nil {
		return nil, fmt.Errorf("export: open %s: %w", path, err)
	}
	return instance.New(path, buf), nil
}

// waitForComplete blocks until the buffer's background indexer has
// finished, polling the way the original CLI's batch mode waited for a
// file to finish scanning before producing output.
func waitForComplete(in *instance.Instance) {
	for !in.Buffer().IsComplete() {
		log.Debug().Str("buffer", in.Name()).Msg("export: waiting for index to complete")
		time.Sleep(10 * time.Millisecond)
	}
}
