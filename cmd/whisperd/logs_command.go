package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type serviceLogs struct {
	Enabled bool `json:"enabled"`
	Count   int  `json:"count"`
	Logs    []struct {
		ID          int64  `json:"id"`
		CreatedAt   string `json:"created_at"`
		ClientHost  string `json:"client_host"`
		Filename    string `json:"filename"`
		SizeBytes   int64  `json:"size_bytes"`
		Status      int    `json:"status"`
		OK          bool   `json:"ok"`
		DurationMS  int64  `json:"duration_ms"`
		Response    any    `json:"response"`
		ErrorDetail string `json:"error_detail"`
	} `json:"logs"`
}

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent transcription outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			var logs serviceLogs
			if err := ctx.fetchJSON(fmt.Sprintf("/transcribe/logs?limit=%d", limit), &logs); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !logs.Enabled {
				fmt.Fprintln(out, "Request logging is disabled")
				return nil
			}
			if len(logs.Logs) == 0 {
				fmt.Fprintln(out, "No transcription requests recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(logs.Logs))
			for _, entry := range logs.Logs {
				outcome := entry.ErrorDetail
				if entry.OK {
					outcome = languageName(responseLanguage(entry.Response))
				}
				rows = append(rows, []string{
					strconv.FormatInt(entry.ID, 10),
					entry.CreatedAt,
					entry.ClientHost,
					entry.Filename,
					strconv.Itoa(entry.Status),
					strconv.FormatInt(entry.SizeBytes, 10),
					strconv.FormatInt(entry.DurationMS, 10),
					outcome,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Time", "Client", "File", "Status", "Bytes", "ms", "Result"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of entries to show (1-100)")
	return cmd
}

// responseLanguage digs the detected language out of a recorded response
// payload, which may have been truncated into a plain string.
func responseLanguage(response any) string {
	payload, ok := response.(map[string]any)
	if !ok {
		return ""
	}
	code, _ := payload["language"].(string)
	return code
}

// languageName renders a detected language code as a human-readable name.
// Unknown or unparsable codes pass through untouched.
func languageName(code string) string {
	if code == "" || code == "unknown" {
		return "unknown"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
