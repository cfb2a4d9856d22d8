// Command schemactl validates, formats and compiles the data schema and talks
// to the schema registry.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/services/parser"
	"github.com/regpulse/dataschema/schema"
)

var (
	schemaFlag string
	appFlag    string
	verbose    bool
	log        zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "schemactl",
	Short: "Data schema tooling",
	Long: `schemactl validates, formats and compiles the data schema declaration,
and pushes it to the schema registry.

Without --schema the declaration embedded in the binary (schema/data.schema) is used.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: "15:04:05"}).
			Level(level).With().Timestamp().Logger()
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the schema declaration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSchema()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d models, %d enums, %d custom types\n",
			len(s.Models), len(s.Enums), len(s.CustomTypes))
		return nil
	},
}

var writeFlag bool

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Print the declaration in canonical form",
	Long:  `Print the declaration in canonical form. Comments are not preserved. With -w the --schema file is rewritten in place.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource()
		if err != nil {
			return err
		}
		formatted, err := parser.Format(src)
		if err != nil {
			return err
		}
		if !writeFlag {
			_, err = io.WriteString(cmd.OutOrStdout(), formatted)
			return err
		}
		if schemaFlag == "" || schemaFlag == "-" {
			return fmt.Errorf("-w needs a --schema file")
		}
		if formatted == src {
			return nil
		}
		return os.WriteFile(schemaFlag, []byte(formatted), 0o644)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&schemaFlag, "schema", "s", "", "Schema declaration file (\"-\" for stdin; default: embedded)")
	rootCmd.PersistentFlags().StringVar(&appFlag, "app", entities.DefaultAppID, "App the schema belongs to")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	fmtCmd.Flags().BoolVarP(&writeFlag, "write", "w", false, "Write the result to the --schema file")

	rootCmd.AddCommand(validateCmd, fmtCmd, generateCmd, watchCmd)
	rootCmd.AddCommand(pushCmd, versionsCmd, apiKeyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readSource returns the declaration text selected by --schema
func readSource() (string, error) {
	switch schemaFlag {
	case "":
		return schema.Source(), nil
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(schemaFlag)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func loadSchema() (*entities.Schema, error) {
	src, err := readSource()
	if err != nil {
		return nil, err
	}
	s, err := parser.Load(appFlag, src)
	if err != nil {
		name := schemaFlag
		if name == "" {
			name = "schema/data.schema"
		}
		return nil, fmt.Errorf("%s: %w", strings.TrimPrefix(name, "./"), err)
	}
	return s, nil
}
