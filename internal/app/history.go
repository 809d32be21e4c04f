package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/lingo/internal/cli"
	"horse.fit/lingo/internal/db"
)

func runHistory(args []string) int {
	if len(args) == 0 {
		printHistoryUsage()
		return 2
	}

	kind := strings.ToLower(strings.TrimSpace(args[0]))
	switch kind {
	case "translations", "comparisons":
	default:
		fmt.Fprintf(os.Stderr, "Unknown history kind: %s\n\n", args[0])
		printHistoryUsage()
		return 2
	}

	fs := flag.NewFlagSet("history "+kind, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	limit := fs.Int("limit", db.DefaultHistoryLimit, "Number of rows to show")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if *limit <= 0 {
		fmt.Fprintln(os.Stderr, "--limit must be > 0")
		return 2
	}

	ctx, cancel, _, pool, err := connectPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	switch kind {
	case "translations":
		rows, err := pool.RecentTranslations(ctx, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load translations: %v\n", err)
			return 1
		}
		if outputFormat == outputFormatJSON {
			if err := printJSON(rows); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to print rows: %v\n", err)
				return 1
			}
			return 0
		}
		tableRows := make([][]string, 0, len(rows))
		for _, row := range rows {
			tableRows = append(tableRows, []string{
				fmt.Sprintf("%d", row.ID),
				formatUTCTimestamp(row.CreatedAt),
				row.Model,
				row.Language,
				truncateForTable(row.OriginalMessage, 40),
				truncateForTable(row.TranslatedMessage, 40),
			})
		}
		if err := writeTable([]string{"ID", "CREATED_AT", "MODEL", "LANGUAGE", "ORIGINAL", "TRANSLATED"}, tableRows); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to print rows: %v\n", err)
			return 1
		}
	case "comparisons":
		rows, err := pool.RecentComparisons(ctx, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load comparisons: %v\n", err)
			return 1
		}
		if outputFormat == outputFormatJSON {
			if err := printJSON(rows); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to print rows: %v\n", err)
				return 1
			}
			return 0
		}
		tableRows := make([][]string, 0, len(rows))
		for _, row := range rows {
			tableRows = append(tableRows, []string{
				fmt.Sprintf("%d", row.ID),
				formatUTCTimestamp(row.CreatedAt),
				row.Model,
				row.Language,
				fmt.Sprintf("%d", row.Score),
				truncateForTable(row.OriginalMessage, 40),
				truncateForTable(row.TranslatedMessage, 40),
			})
		}
		if err := writeTable([]string{"ID", "CREATED_AT", "MODEL", "LANGUAGE", "SCORE", "ORIGINAL", "TRANSLATED"}, tableRows); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to print rows: %v\n", err)
			return 1
		}
	}

	return 0
}

func printHistoryUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lingo history translations [--limit 5] [--format table|json] [--env .env] [--timeout 30s]")
	fmt.Fprintln(os.Stderr, "  lingo history comparisons [--limit 5] [--format table|json] [--env .env] [--timeout 30s]")
}
