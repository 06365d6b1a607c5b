package main

import (
	"github.com/spf13/cobra"

	"github.com/spektr-org/reportes/engine"
	"github.com/spektr-org/reportes/store"
)

func newVocabCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vocab",
		Short: "Print the effective vocabulary (built-in, file and discovered values)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// Discovery is optional: without a data source only the
			// configured vocabulary is printed.
			var ds *engine.Dataset
			if a.filePath != "" || a.cfg.Database.DSN != "" {
				src, err := a.openSource(ctx)
				if err != nil {
					return err
				}
				defer src.Close()

				if ds, err = store.Load(ctx, src.reader); err != nil {
					return err
				}
			}

			vocab, err := a.vocabulary(ds)
			if err != nil {
				return err
			}
			return writeJSON(a.out, vocab, true)
		},
	}
}
