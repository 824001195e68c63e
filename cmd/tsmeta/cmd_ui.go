package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dhamidi/tsmeta/project"
	"github.com/dhamidi/tsmeta/typescript/scanner"
	"github.com/dhamidi/tsmeta/ui"
	"github.com/spf13/cobra"
)

func newUICmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := ui.NewServer()

			// Seed the scanner with the project sources when run
			// inside a component project.
			if proj, err := project.Load(); err == nil {
				server.Scanner().Submit(scanner.Request{
					Path:        proj.SrcDir,
					Annotations: proj.Config.Annotations,
				})
			}

			displayAddr := addr
			if strings.HasPrefix(addr, ":") {
				displayAddr = "localhost" + addr
			}
			fmt.Printf("Starting server at http://%s\n", displayAddr)
			return http.ListenAndServe(addr, server)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "address to listen on")

	return cmd
}
