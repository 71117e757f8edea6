package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sagarc03/tasker/auth"
	"github.com/sagarc03/tasker/config"
)

var authorizeCmd = &cobra.Command{
	Use:   "authorize <authorization-header>",
	Short: "Print the authorization decision for a header",
	Long: `Run the authorizer against an Authorization header value and print the
resulting policy decision. The header is usually "Bearer <jwt>".

Examples:
  tasker authorize "Bearer eyJhbGciOiJSUzI1NiIs..."
  tasker authorize --output yaml "$(cat header.txt)"`,
	Args: cobra.ExactArgs(1),
	RunE: runAuthorize,
}

func init() {
	authorizeCmd.Flags().StringP("output", "o", "json", "output format: json, yaml")
	rootCmd.AddCommand(authorizeCmd)
}

func runAuthorize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	authorizer, err := cfg.Auth.NewAuthorizer(slog.Default())
	if err != nil {
		return fmt.Errorf("configure auth: %w", err)
	}

	output, _ := cmd.Flags().GetString("output")
	return writeDecision(cmd.OutOrStdout(), output, authorizer.Authorize(ctx, args[0]))
}

func writeDecision(w io.Writer, format string, decision auth.Decision) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(decision)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(decision)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
