package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func textCmd(opts *rootOptions) *cobra.Command {
	var perPage bool
	cmd := &cobra.Command{
		Use:   "text <pdf>",
		Short: "Print the text extracted from a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			conv, err := newConverter(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := conv.ExtractText(filepath.Base(args[0]), data)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !perPage {
				fmt.Fprint(w, doc.Text())
				return nil
			}
			for i, p := range doc.Pages {
				fmt.Fprintf(w, "--- page %d ---\n%s", i+1, p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&perPage, "pages", false, "print a marker before each page")
	return cmd
}
