// Package cli implements the feedguard command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mx-space/feedguard/internal/app"
	"github.com/mx-space/feedguard/internal/config"
	"github.com/mx-space/feedguard/internal/modules/detection/detect"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "feedguard",
	Short: "Classify feed posts as AI generated or human written",
	Long:  "Runs the feedguard detector locally: heuristics first, the remote model only when they are undecided.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: "+config.DefaultConfigPath+" when present)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline decisions to stderr")
}

func loadConfig() (*config.AppConfig, error) {
	return config.Load(configPath)
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openEngine builds a process-local pipeline; the CLI never touches redis.
func openEngine(ctx context.Context) (*app.Engine, *config.AppConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	engine, err := app.NewEngine(ctx, cfg, nil, newLogger())
	if err != nil {
		return nil, nil, err
	}
	return engine, cfg, nil
}

func newDetectService(engine *app.Engine) *detect.Service {
	return detect.NewService(engine.Coordinator, engine.Bank, engine.Adapter, engine.Settings)
}

func printJSON(v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
