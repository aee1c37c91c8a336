package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/EmployeeStore/internal/core"
)

func newListCmd(global *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every employee ordered by surname",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "csv" && format != "json" {
				return withCode(exitUsage, fmt.Errorf("--format must be csv or json, got %q", format))
			}

			svc, closeStore, err := openService(cmd.Context(), cmd, global)
			if err != nil {
				return err
			}
			defer closeStore()

			employees, err := svc.GetAll(cmd.Context())
			if err != nil {
				return withCode(exitDB, err)
			}

			if format == "json" {
				if employees == nil {
					employees = []core.Employee{}
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(employees)
			}

			// The CSV uses the import layout so it can be edited and imported again.
			w := csv.NewWriter(cmd.OutOrStdout())
			if err := w.Write(core.HeaderRow()); err != nil {
				return err
			}
			for _, e := range employees {
				if err := w.Write(core.RecordFromEmployee(e)); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or json")
	return cmd
}
