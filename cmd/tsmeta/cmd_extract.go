package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhamidi/tsmeta/format"
	"github.com/dhamidi/tsmeta/project"
	"github.com/dhamidi/tsmeta/typescript"
	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	var declFile string
	var annotations []string
	var outputFormat string
	var rewrite bool

	cmd := &cobra.Command{
		Use:   "extract <file.js>",
		Short: "Extract metadata from a compiled class and its declaration listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsFile := args[0]

			decl := declFile
			if decl == "" {
				decl = strings.TrimSuffix(jsFile, ".js") + ".d.ts"
			}

			declData, err := os.ReadFile(decl)
			if err != nil {
				return fmt.Errorf("read declaration file: %w", err)
			}
			class, err := typescript.ParseDeclaration(declData)
			if err != nil {
				return fmt.Errorf("parse %s: %w", decl, err)
			}

			jsData, err := os.ReadFile(jsFile)
			if err != nil {
				return fmt.Errorf("read compiled file: %w", err)
			}

			names := annotations
			if len(names) == 0 {
				if config, err := project.LoadConfig(project.DefaultConfigName); err == nil {
					names = config.Annotations
				}
			}

			compiled, err := typescript.ParseCompiled(jsData, class, typescript.WithAnnotations(names...))
			if err != nil {
				return fmt.Errorf("parse %s: %w", jsFile, err)
			}

			if rewrite {
				fmt.Print(compiled.Rewritten)
				return nil
			}

			component := &typescript.Component{Path: decl, Class: class, Compiled: compiled}

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

	cmd.Flags().StringVarP(&declFile, "decl", "d", "", "declaration listing (defaults to the .d.ts sibling)")
	cmd.Flags().StringSliceVarP(&annotations, "annotations", "a", nil, "decorator names stripped as annotations (defaults to tsmeta.yaml)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, dts)")
	cmd.Flags().BoolVar(&rewrite, "rewrite", false, "print the rewritten compiled source instead of the model")

	return cmd
}
