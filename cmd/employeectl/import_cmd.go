package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/EmployeeStore/internal/core"
	"github.com/JonMunkholm/EmployeeStore/internal/store/memstore"
)

type importOptions struct {
	DryRun bool
	Format string
}

func newImportCmd(global *globalOptions) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import employees from a Personnel_Records CSV export",
		Long: "Runs the same decode, validate and import pipeline as the upload endpoint.\n" +
			"Exits with status 2 when the report contains any error.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "text" && opts.Format != "json" {
				return withCode(exitUsage, fmt.Errorf("--format must be text or json, got %q", opts.Format))
			}

			f, err := os.Open(args[0])
			if err != nil {
				return withCode(exitUsage, err)
			}
			defer f.Close()

			var svc *core.Service
			if opts.DryRun {
				// Nothing on file: only decode, validation and in-file duplicates are checked.
				setupLogger(cmd, global, "warn", "text")
				svc = core.NewService(memstore.New())
			} else {
				var closeStore func()
				svc, closeStore, err = openService(cmd.Context(), cmd, global)
				if err != nil {
					return err
				}
				defer closeStore()
			}

			result, err := svc.ImportFile(cmd.Context(), f)
			if err != nil {
				return withCode(exitDB, err)
			}

			if err := writeReport(cmd.OutOrStdout(), opts, result); err != nil {
				return err
			}
			if result.HasErrors() {
				return withCode(exitValidation, fmt.Errorf("import finished with %d error(s)", len(result.Errors)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "check the file against an empty in-memory store without touching the database")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "report format: text or json")
	return cmd
}

func writeReport(w io.Writer, opts importOptions, result core.ImportResult) error {
	verb := "processed"
	if opts.DryRun {
		verb = "validated"
	}

	if opts.Format == "json" {
		errs := result.Errors
		if errs == nil {
			errs = []string{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			DryRun       bool     `json:"dryRun"`
			SuccessCount int      `json:"successCount"`
			Errors       []string `json:"errors"`
		}{opts.DryRun, result.SuccessCount(), errs})
	}

	if _, err := fmt.Fprintf(w, "Successfully %s %d employees\n", verb, result.SuccessCount()); err != nil {
		return err
	}
	for _, msg := range result.Errors {
		if _, err := fmt.Fprintf(w, "  - %s\n", msg); err != nil {
			return err
		}
	}
	return nil
}
