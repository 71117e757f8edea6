package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/tasker/auth"
	"github.com/sagarc03/tasker/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an RS256 token for local development",
	Long: `Sign a bearer token with a local RSA private key. Pair it with the
matching certificate in auth.certificate to exercise the API without an
identity provider.

Prompts for the subject when --sub is not given.`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().String("key", "", "path to a PEM encoded RSA private key (required)")
	tokenCmd.Flags().String("sub", "", "subject (user id) of the token")
	tokenCmd.Flags().Duration("ttl", time.Hour, "token lifetime")
	tokenCmd.Flags().String("issuer", "", "issuer claim (default: auth.issuer)")
	_ = tokenCmd.MarkFlagRequired("key")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	keyPath, _ := cmd.Flags().GetString("key")
	subject, _ := cmd.Flags().GetString("sub")
	ttl, _ := cmd.Flags().GetDuration("ttl")
	issuer, _ := cmd.Flags().GetString("issuer")
	if issuer == "" {
		issuer = cfg.Auth.Issuer
	}

	if subject == "" {
		subject, err = promptSubject()
		if err != nil {
			return err
		}
	}

	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return fmt.Errorf("read private key: %w", err)
	}

	signer, err := auth.NewSigner(keyPEM, issuer)
	if err != nil {
		return fmt.Errorf("create signer: %w", err)
	}

	token, err := signer.Sign(subject, ttl)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func promptSubject() (string, error) {
	prompt := promptui.Prompt{
		Label: "Subject (user id)",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("subject is required")
			}
			return nil
		},
	}

	subject, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
			return "", errors.New("cancelled")
		}
		return "", fmt.Errorf("prompt subject: %w", err)
	}
	return strings.TrimSpace(subject), nil
}
