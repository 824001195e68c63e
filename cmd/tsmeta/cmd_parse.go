package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhamidi/tsmeta/format"
	"github.com/dhamidi/tsmeta/typescript"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file.d.ts>",
		Short: "Parse a declaration listing and dump the class model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			if !strings.HasSuffix(filename, ".d.ts") {
				return fmt.Errorf("unsupported file extension: %s (expected .d.ts)", filename)
			}

			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read declaration file: %w", err)
			}

			class, err := typescript.ParseDeclaration(data)
			if err != nil {
				return fmt.Errorf("parse %s: %w", filename, err)
			}

			component := &typescript.Component{Path: filename, Class: class}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout)
			case "dts":
				encoder = format.NewDeclarationEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(component); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, dts)")

	return cmd
}
