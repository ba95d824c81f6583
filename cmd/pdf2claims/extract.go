package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-to-claims/internal/ai"
	"github.com/thywilljoshua/pdf-to-claims/internal/convert"
	"github.com/thywilljoshua/pdf-to-claims/internal/export"
)

func extractCmd(opts *rootOptions) *cobra.Command {
	var mode, strategy, xlsxOut string
	cmd := &cobra.Command{
		Use:   "extract <pdf>",
		Short: "Extract claims from a PDF and print {\"claims\": ...}",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			m, err := ai.ParseMode(mode, ai.Mode(cfg.Extract.DefaultMode))
			if err != nil {
				return err
			}
			s, err := convert.ParseStrategy(strategy)
			if err != nil {
				return err
			}

			conv, err := newConverter(cmd.Context(), cfg, s == convert.StrategyLLM)
			if err != nil {
				return err
			}

			pdfPath := args[0]
			data, err := os.ReadFile(pdfPath)
			if err != nil {
				return err
			}
			res, err := conv.Run(cmd.Context(), convert.Request{
				Filename: filepath.Base(pdfPath),
				Data:     data,
				Mode:     m,
				Strategy: s,
			})
			if err != nil {
				return err
			}

			if xlsxOut != "" {
				records, err := res.ClaimRecords()
				if err != nil {
					return err
				}
				b, err := export.ClaimsXLSX(records)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsxOut, b, 0o644); err != nil {
					return err
				}
			}

			var out bytes.Buffer
			if err := json.Indent(&out, []byte(`{"claims":`+string(res.Payload)+`}`), "", "  "); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "extraction mode: claims|application (default extract.default_mode)")
	cmd.Flags().StringVar(&strategy, "strategy", "llm", "extraction strategy: llm|pattern")
	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "also write the claims to this .xlsx file (claims mode only)")
	return cmd
}
