package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sdejongh/difflex/pkg/config"
	"github.com/sdejongh/difflex/pkg/history"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent comparison runs",
		Long:  `List the most recent comparison runs, newest first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openHistoryStore(cfg)
			if err != nil {
				return err
			}

			entries := store.List(limit)
			if len(entries) == 0 {
				fmt.Println("No comparison history.")
				return nil
			}

			for _, entry := range entries {
				fmt.Printf("%s  %-11s  %s\n",
					entry.ComparedAt.Format("2006-01-02 15:04:05"),
					entry.Status,
					strings.Join(entry.Roots, " | "))
				fmt.Printf("    %d entries, %d identical, %d similar, %d different (%s)\n",
					entry.Stats.EntriesAligned,
					entry.Stats.Identical,
					entry.Stats.Similar+entry.Stats.SimilarMeta,
					entry.Stats.Different,
					entry.Duration.Round(time.Millisecond))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "show at most N runs (default: all stored)")
	cmd.AddCommand(newHistoryClearCommand())

	return cmd
}

func newHistoryClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openHistoryStore(cfg)
			if err != nil {
				return err
			}

			store.Clear()
			if err := store.Save(); err != nil {
				return err
			}

			fmt.Println("History cleared.")
			return nil
		},
	}
}

// openHistoryStore loads the history store from the configured path
func openHistoryStore(cfg *config.Config) (*history.Store, error) {
	path := cfg.History.Path
	if path == "" {
		var err error
		path, err = history.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return history.Load(path, cfg.History.Limit)
}
