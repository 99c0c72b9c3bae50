// Command med-mcp analyzes one clinical document against the configured
// analysis server and prints the canonical result as JSON. It is a thin
// wrapper over the analysis client; all real behavior lives in internal/.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"med-mcp/internal/analysis"
	"med-mcp/internal/config"
	"med-mcp/internal/transport"
)

func main() {
	mode := flag.String("mode", string(analysis.ModeComplicated), "analysis mode: basic, comprehensive, or complicated")
	flag.Parse()

	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	container := dig.New()
	providers := []any{
		config.Load,
		func(cfg *config.Config) transport.Transport { return transport.New(cfg.RequestTimeout) },
		analysis.NewClient,
	}
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			logrus.Fatalf("Failed to build container: %v", err)
		}
	}

	err := container.Invoke(func(cfg *config.Config, client *analysis.Client) error {
		return run(cfg, client, analysis.Mode(*mode), flag.Arg(0))
	})
	if err != nil {
		logrus.Fatalf("Analysis failed: %v", err)
	}
}

func run(cfg *config.Config, client *analysis.Client, mode analysis.Mode, path string) error {
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	document, err := readDocument(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	// The result is well-formed even on total failure; print it either way.
	result, analyzeErr := client.Analyze(context.Background(), document, mode)
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(out))
	return analyzeErr
}

// readDocument reads the document from path, or from stdin when no path
// was given.
func readDocument(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
