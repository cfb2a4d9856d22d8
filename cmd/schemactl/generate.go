package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/regpulse/dataschema/internal/entities"
	"github.com/regpulse/dataschema/internal/services/codegen"
)

// Generate targets
const (
	targetGraphQL       = "graphql"
	targetIntrospection = "introspection"
	targetOperations    = "operations"
	targetModels        = "models"
)

var (
	formatFlag  string
	outputFlag  string
	packageFlag string
)

var generateCmd = &cobra.Command{
	Use:       "generate <graphql|introspection|operations|models>",
	Short:     "Compile the schema",
	Long:      `Compile the schema into the GraphQL SDL, the model introspection document, the client operation documents or the Go model types.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{targetGraphQL, targetIntrospection, targetOperations, targetModels},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSchema()
		if err != nil {
			return err
		}
		out, err := render(s, args[0], formatFlag, packageFlag)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), outputFlag, out)
	},
}

func init() {
	generateCmd.Flags().StringVarP(&formatFlag, "format", "f", "json", "Document format for introspection and operations (json or yaml)")
	generateCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file (default: stdout)")
	generateCmd.Flags().StringVar(&packageFlag, "package", "models", "Package name of generated Go models")
}

// render compiles s into target
func render(s *entities.Schema, target, format, pkg string) ([]byte, error) {
	switch target {
	case targetGraphQL:
		sdl, err := codegen.GenerateGraphQL(s)
		if err != nil {
			return nil, err
		}
		return []byte(sdl), nil
	case targetIntrospection:
		switch format {
		case "json":
			return codegen.IntrospectionJSON(s)
		case "yaml":
			return codegen.IntrospectionYAML(s)
		}
		return nil, fmt.Errorf("unknown format %q (expected json or yaml)", format)
	case targetOperations:
		ops, err := codegen.BuildOperations(s)
		if err != nil {
			return nil, err
		}
		return encodeDocument(ops, format)
	case targetModels:
		return codegen.GenerateGoModels(s, pkg)
	}
	return nil, fmt.Errorf("unknown target %q", target)
}

func encodeDocument(v any, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml":
		return yaml.Marshal(v)
	}
	return nil, fmt.Errorf("unknown format %q (expected json or yaml)", format)
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
