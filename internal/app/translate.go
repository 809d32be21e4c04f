package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/lingo/internal/cli"
	"horse.fit/lingo/internal/logging"
	"horse.fit/lingo/internal/translation"
)

func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
	lang := fs.String("lang", "", "Target language name (for example: Spanish)")
	tone := fs.String("tone", "", "Optional tone hint (for example: formal, mild)")
	provider := fs.String("provider", "", "Provider name (for example: gpt-4, deepl)")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "translate requires one message argument")
		printTranslateUsage()
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	message := strings.TrimSpace(fs.Arg(0))
	if message == "" {
		fmt.Fprintln(os.Stderr, "translate message must not be empty")
		return 2
	}
	targetLang := strings.TrimSpace(*lang)
	if targetLang == "" {
		fmt.Fprintln(os.Stderr, "--lang is required")
		return 2
	}

	ctx, cancel, cfg, pool, err := connectPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	catalog, err := translation.LoadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load provider catalog: %v\n", err)
		return 1
	}

	registry, err := translation.NewRegistryFromConfig(ctx, cfg, catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build provider registry: %v\n", err)
		return 1
	}

	manager := translation.NewManager(pool, registry, logger)

	resp, err := manager.Translate(ctx, message, targetLang, strings.TrimSpace(*tone), strings.TrimSpace(*provider))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Translate failed: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(map[string]any{
			"original":   message,
			"translated": resp.Text,
			"language":   resp.TargetLanguage,
			"provider":   resp.ProviderName,
			"latency_ms": resp.LatencyMs,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to print result: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Printf("provider=%s lang=%s latency_ms=%d\n", resp.ProviderName, resp.TargetLanguage, resp.LatencyMs)
	fmt.Println(resp.Text)
	return 0
}

func printTranslateUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lingo translate \"<message>\" --lang <language> [--tone formal] [--provider gpt-4] [--format table|json] [--env .env] [--timeout 2m]")
}
