package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"horse.fit/lingo/internal/cli"
	"horse.fit/lingo/internal/logging"
	"horse.fit/lingo/internal/translation"
)

func runCompare(args []string) int {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
	lang := fs.String("lang", "", "Target language name (for example: Spanish)")
	tone := fs.String("tone", "", "Optional tone hint (for example: formal, mild)")
	providers := fs.String("providers", "", "Comma-separated provider names (default: all registered)")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "compare requires one message argument")
		printCompareUsage()
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	message := strings.TrimSpace(fs.Arg(0))
	if message == "" {
		fmt.Fprintln(os.Stderr, "compare message must not be empty")
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

	providerNames := splitProviderList(*providers)
	if len(providerNames) == 0 {
		providerNames = registry.ProviderNames()
	}
	if len(providerNames) == 0 {
		fmt.Fprintln(os.Stderr, "No providers are configured; set at least one API key")
		return 1
	}

	manager := translation.NewManager(pool, registry, logger)

	results, err := manager.Compare(ctx, message, targetLang, strings.TrimSpace(*tone), providerNames)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compare failed: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to print results: %v\n", err)
			return 1
		}
		return 0
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		result := results[name]
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%d", result.Score),
			truncateForTable(result.Translation, 80),
		})
	}
	if err := writeTable([]string{"PROVIDER", "SCORE", "TRANSLATION"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to print results: %v\n", err)
		return 1
	}
	if dropped := len(providerNames) - len(results); dropped > 0 {
		fmt.Fprintf(os.Stderr, "%d provider(s) failed and were omitted\n", dropped)
	}
	return 0
}

func splitProviderList(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

func printCompareUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lingo compare \"<message>\" --lang <language> [--providers gpt-4,deepl] [--tone formal] [--format table|json] [--env .env] [--timeout 2m]")
}
