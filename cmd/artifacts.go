package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dtroode/codemap-billing/internal/service"
)

func newArtifactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Manage downloadable artifacts in object storage",
	}
	cmd.AddCommand(newArtifactsUploadCmd(), newArtifactsDeleteCmd())
	return cmd
}

func newArtifactsUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <extension|agent> <file>",
		Short: "Publish an artifact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileType, path := args[0], args[1]
			if _, ok := service.LookupArtifact(fileType); !ok {
				return fmt.Errorf("unknown artifact type %q", fileType)
			}

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("failed to stat %s: %w", path, err)
			}

			client, err := dialStorage(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			downloads := service.NewDownload(nil, client, cfg.Storage.Prefix, nil, log)
			return downloads.Publish(cmd.Context(), fileType, f, info.Size())
		},
	}
}

func newArtifactsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <extension|agent>",
		Short: "Remove a published artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, ok := service.LookupArtifact(args[0])
			if !ok {
				return fmt.Errorf("unknown artifact type %q", args[0])
			}

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			client, err := dialStorage(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			key := cfg.Storage.Prefix + spec.FileName
			if err := client.Delete(cmd.Context(), key); err != nil {
				return err
			}
			log.Info("artifact removed", "key", key)
			return nil
		},
	}
}
