package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// debounce coalesces the bursts of events editors produce on save
const debounce = 200 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch <graphql|introspection|operations|models>",
	Short: "Regenerate an artifact whenever the --schema file changes",
	Long: `Watch the --schema file and regenerate the target on every change.
Invalid declarations are reported and the previous output is kept.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{targetGraphQL, targetIntrospection, targetOperations, targetModels},
	RunE: func(cmd *cobra.Command, args []string) error {
		if schemaFlag == "" || schemaFlag == "-" {
			return fmt.Errorf("watch needs a --schema file")
		}
		if outputFlag == "" || outputFlag == "-" {
			return fmt.Errorf("watch needs an --output file")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watch(ctx, args[0])
	},
}

func init() {
	watchCmd.Flags().StringVarP(&formatFlag, "format", "f", "json", "Document format for introspection and operations (json or yaml)")
	watchCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file")
	watchCmd.Flags().StringVar(&packageFlag, "package", "models", "Package name of generated Go models")
}

// regenerate compiles the watched file once; errors are logged, not returned
func regenerate(target string) {
	start := time.Now()
	s, err := loadSchema()
	if err != nil {
		log.Error().Err(err).Msg("schema is invalid, output not updated")
		return
	}
	out, err := render(s, target, formatFlag, packageFlag)
	if err != nil {
		log.Error().Err(err).Str("target", target).Msg("generation failed")
		return
	}
	if err := writeOutput(nil, outputFlag, out); err != nil {
		log.Error().Err(err).Str("output", outputFlag).Msg("failed to write output")
		return
	}
	log.Info().
		Str("target", target).
		Str("output", outputFlag).
		Int("models", len(s.Models)).
		Dur("elapsed", time.Since(start)).
		Msg("regenerated")
}

func watch(ctx context.Context, target string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of writing it
	path, err := filepath.Abs(schemaFlag)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	regenerate(target)
	log.Info().Str("schema", schemaFlag).Msg("watching for changes")

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				log.Debug().Str("event", event.Op.String()).Msg("schema changed")
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		case <-timer.C:
			regenerate(target)
		}
	}
}
