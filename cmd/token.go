package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/codemap-billing/internal/config"
	"github.com/dtroode/codemap-billing/internal/model"
	"github.com/dtroode/codemap-billing/internal/token"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		email   string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}

			tok, err := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer).
				GenerateAccessToken(model.Principal{ExternalID: subject, Email: email}, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "sub", "", "external identity id of the principal")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("sub")

	return cmd
}
