package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type serviceStatus struct {
	Model         string `json:"model"`
	ModelName     string `json:"model_name"`
	Device        string `json:"device"`
	SlotsInUse    int    `json:"slots_in_use"`
	SlotsCapacity int    `json:"slots_capacity"`
	LogEnabled    bool   `json:"log_enabled"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DepsHealthy   bool   `json:"deps_healthy"`
	Dependencies  []struct {
		Name      string `json:"name"`
		Command   string `json:"command"`
		Available bool   `json:"available"`
		Detail    string `json:"detail"`
	} `json:"dependencies"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of a running whisperd instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status serviceStatus
			if err := ctx.fetchJSON("/api/status", &status); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Model:       %s (%s, %s)\n", status.Model, status.ModelName, status.Device)
			fmt.Fprintf(out, "Slots:       %d/%d in use\n", status.SlotsInUse, status.SlotsCapacity)
			fmt.Fprintf(out, "Request log: %s\n", yesNo(status.LogEnabled))
			fmt.Fprintf(out, "Uptime:      %ds\n", status.UptimeSeconds)

			rows := make([][]string, 0, len(status.Dependencies))
			for _, dep := range status.Dependencies {
				rows = append(rows, []string{dep.Name, dep.Command, yesNo(dep.Available), dep.Detail})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Dependency", "Command", "Available", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
			}
			return nil
		},
	}
}
