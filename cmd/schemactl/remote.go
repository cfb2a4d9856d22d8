package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/regpulse/dataschema/internal/rpc"
)

var (
	addrFlag    string
	apiKeyFlag  string
	timeoutFlag time.Duration
)

// remote runs fn against the registry with the API key and app attached
func remote(cmd *cobra.Command, fn func(ctx context.Context, c *rpc.Client) (*structpb.Struct, error)) error {
	conn, err := grpc.NewClient(addrFlag, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addrFlag, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeoutFlag)
	defer cancel()
	ctx = metadata.AppendToOutgoingContext(ctx, rpc.APIKeyHeader, apiKeyFlag, rpc.AppIDHeader, appFlag)

	resp, err := fn(ctx, rpc.NewClient(conn))
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(resp.AsMap(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Store the declaration as a new schema version in the registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Fail locally before sending an invalid declaration
		if _, err := loadSchema(); err != nil {
			return err
		}
		src, err := readSource()
		if err != nil {
			return err
		}
		return remote(cmd, func(ctx context.Context, c *rpc.Client) (*structpb.Struct, error) {
			return c.Schema(ctx, "Write", map[string]any{"dsl": src})
		})
	},
}

var (
	limitFlag  int
	cursorFlag string
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List the schema versions of the app, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return remote(cmd, func(ctx context.Context, c *rpc.Client) (*structpb.Struct, error) {
			return c.Schema(ctx, "ListVersions", map[string]any{"limit": limitFlag, "cursor": cursorFlag})
		})
	},
}

var apiKeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage the API keys of the app",
	Long: `Manage the API keys of the app named by --app.

A key of the default app may manage the keys of any app, so the first key
of a new app is created with:

  schemactl apikey create --app staging --api-key <default-app key>`,
}

var (
	descriptionFlag string
	daysFlag        int
)

var apiKeyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a key; the plaintext key is shown only once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return remote(cmd, func(ctx context.Context, c *rpc.Client) (*structpb.Struct, error) {
			return c.APIKeys(ctx, "Create", map[string]any{"description": descriptionFlag, "expiresInDays": daysFlag})
		})
	},
}

var apiKeyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return remote(cmd, func(ctx context.Context, c *rpc.Client) (*structpb.Struct, error) {
			return c.APIKeys(ctx, "List", nil)
		})
	},
}

var apiKeyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Revoke a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return remote(cmd, func(ctx context.Context, c *rpc.Client) (*structpb.Struct, error) {
			return c.APIKeys(ctx, "Delete", map[string]any{"id": args[0]})
		})
	},
}

var apiKeyExtendCmd = &cobra.Command{
	Use:   "extend <id>",
	Short: "Move the expiry of a key to --days from now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return remote(cmd, func(ctx context.Context, c *rpc.Client) (*structpb.Struct, error) {
			return c.APIKeys(ctx, "Extend", map[string]any{"id": args[0], "expiresInDays": daysFlag})
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{pushCmd, versionsCmd, apiKeyCmd} {
		cmd.PersistentFlags().StringVar(&addrFlag, "addr", envOr("SCHEMACTL_ADDR", "localhost:50051"), "Registry address (env SCHEMACTL_ADDR)")
		cmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", os.Getenv("SCHEMACTL_API_KEY"), "API key of the app (env SCHEMACTL_API_KEY)")
		cmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 10*time.Second, "Request timeout")
	}

	versionsCmd.Flags().IntVar(&limitFlag, "limit", 20, "Page size")
	versionsCmd.Flags().StringVar(&cursorFlag, "cursor", "", "Continue after this version")

	apiKeyCreateCmd.Flags().StringVar(&descriptionFlag, "description", "", "Key description")
	for _, cmd := range []*cobra.Command{apiKeyCreateCmd, apiKeyExtendCmd} {
		cmd.Flags().IntVar(&daysFlag, "days", 0, "Lifetime in days (1-365; 0 uses the lifetime declared by the app schema)")
	}
	apiKeyCmd.AddCommand(apiKeyCreateCmd, apiKeyListCmd, apiKeyDeleteCmd, apiKeyExtendCmd)
}
