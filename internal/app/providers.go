package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"horse.fit/lingo/internal/translation"
)

func runProviders(args []string) int {
	fs := flag.NewFlagSet("providers", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
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

	catalog, err := translation.LoadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load provider catalog: %v\n", err)
		return 1
	}

	descriptors := catalog.Descriptors()
	if outputFormat == outputFormatJSON {
		if err := printJSON(descriptors); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to print catalog: %v\n", err)
			return 1
		}
		return 0
	}

	rows := make([][]string, 0, len(descriptors))
	for _, descriptor := range descriptors {
		rows = append(rows, []string{
			descriptor.ID,
			string(descriptor.Kind),
			fmt.Sprintf("%d", len(descriptor.Languages)),
			truncateForTable(strings.Join(descriptor.Languages, ", "), 80),
		})
	}
	if err := writeTable([]string{"PROVIDER", "KIND", "LANGUAGES", "SUPPORTED"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to print catalog: %v\n", err)
		return 1
	}
	return 0
}
