package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"idlint/internal/diag"
)

func newCodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List diagnostic codes",
		RunE:  runCodes,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runCodes(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty":
		return listCodes(cmd.OutOrStdout())
	case "json":
		return listCodesJSON(cmd.OutOrStdout())
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
}

func listCodes(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, c := range diag.Codes() {
		fmt.Fprintf(tw, "%s\t%s\n", c.ID(), c.Title())
	}
	return tw.Flush()
}

type codePayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func listCodesJSON(out io.Writer) error {
	codes := diag.Codes()
	payload := make([]codePayload, 0, len(codes))
	for _, c := range codes {
		payload = append(payload, codePayload{ID: c.ID(), Title: c.Title()})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
