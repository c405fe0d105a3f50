package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/importer"
	"github.com/tally-dev/tally/internal/ledger"
)

func newImportCommand(defaults config.Env) *cobra.Command {
	var repoDir string
	var format string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bank exports (CSV, OFX) waiting in import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			n, importErr := runImport(ws.root, format)
			// Files imported before a failure are already in the ledger.
			if n > 0 {
				if err := ws.commit(fmt.Sprintf("import: %d transactions", n)); err != nil {
					return errors.Join(importErr, err)
				}
			}
			if importErr != nil {
				return importErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions\n", n)
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	cmd.Flags().StringVar(&format, "format", "", "bank export format (chase, ofx); default by file extension")

	return cmd
}

// runImport adds every file under import/ to the ledger and moves it to
// import/processed/. A file that fails to parse or validate stops the run
// and stays in place.
func runImport(repoRoot, format string) (int, error) {
	registry := importer.DefaultRegistry()
	if format != "" && registry.Get(format) == nil {
		return 0, fmt.Errorf("unknown import format %q", format)
	}

	files, err := importer.Scan(repoRoot)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		slog.Warn("no bank exports found in import/")
		return 0, nil
	}

	cats, err := ledger.LoadCategories(repoRoot)
	if err != nil {
		return 0, err
	}
	svc := ledger.NewService(repoRoot)

	total := 0
	for _, f := range files {
		parser := registry.ForFile(f.Name, format)
		if parser == nil {
			return total, fmt.Errorf("no parser for %s", f.Name)
		}
		rows, err := importer.ParseFile(parser, f.Path)
		if err != nil {
			return total, err
		}
		params := importer.Convert(rows, cats)
		if len(params) > 0 {
			if _, err := svc.AddBatch(params); err != nil {
				return total, fmt.Errorf("importing %s: %w", f.Name, err)
			}
		}
		if err := importer.MarkProcessed(repoRoot, f.Name); err != nil {
			return total, err
		}
		slog.Info("imported file", "file", f.Name, "transactions", len(params))
		total += len(params)
	}
	return total, nil
}
