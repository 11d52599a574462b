package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xmazu/envload/internal/dotenv"
	"github.com/xmazu/envload/internal/envfile"
	"github.com/xmazu/envload/internal/tui"
)

var parseCmd = &cobra.Command{
	Use:   "parse [FILE]",
	Short: "Show how an env file is parsed",
	Long: `Parse FILE (or standard input when FILE is - or omitted) and print every entry.
The default text output shows each decoded value and the offsets of its
variable markers. --format json prints the values after resolving references
among the entries themselves; the environment is not consulted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

var parseFormat string

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "text", "Output format: text or json")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	name := "-"
	if len(args) == 1 {
		name = args[0]
	}
	content, err := readInput(cmd.InOrStdin(), name)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch parseFormat {
	case "json":
		loaded, err := dotenv.Parse(content)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(loaded)
	case "text":
		entries, err := envfile.Parse(content)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if !e.HasValue() {
				fmt.Fprintf(out, "%s %s\n", tui.Key(e.Name), tui.Muted("(unset)"))
				continue
			}
			line := tui.Key(e.Name) + " = " + strconv.Quote(e.Value.Chars())
			if vars := e.Value.Vars(); len(vars) > 0 {
				line += " " + tui.Muted(fmt.Sprintf("vars=%v", vars))
			}
			fmt.Fprintln(out, line)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q: expected text or json", parseFormat)
	}
}

func readInput(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}
