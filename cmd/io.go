package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rafaelnovaes22/cvsemfrescura-sub003/internal/analysis"
)

// readInput reads a whole file, or stdin when path is "-".
func readInput(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}

	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", path, err)
	}
	return string(data), nil
}

// checkStdin fails when more than one input would be read from stdin; the
// second read would silently get empty text.
func checkStdin(inputs map[string][]string) error {
	var names []string
	for name, paths := range inputs {
		for _, path := range paths {
			if strings.TrimSpace(path) == "-" {
				names = append(names, name)
			}
		}
	}
	if len(names) > 1 {
		sort.Strings(names)
		return fmt.Errorf("only one input can be read from stdin, got %s", strings.Join(names, ", "))
	}
	return nil
}

// writeResult prints v as JSON to stdout, or to path when set.
func writeResult(v any, path string, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	data = append(data, '\n')

	if path = strings.TrimSpace(path); path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing result to %q: %w", path, err)
	}
	return nil
}

func parsePrecedence(value string) (analysis.ScalarPrecedence, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "partial", analysis.PartialWins.String():
		return analysis.PartialWins, nil
	case "template", analysis.TemplateWins.String():
		return analysis.TemplateWins, nil
	default:
		return analysis.PartialWins, fmt.Errorf("unknown merge precedence %q (want partial or template)", value)
	}
}
