package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-to-claims/internal/convert"
)

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <txt|->",
		Short: "Run the local claim parser on already-extracted text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string][]convert.ClaimRecord{
				"claims": convert.ParseClaims(string(data)),
			})
		},
	}
}
