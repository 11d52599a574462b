package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xmazu/envload/internal/dotenv"
	"github.com/xmazu/envload/internal/runenv"
)

var getCmd = &cobra.Command{
	Use:   "get [KEY]",
	Short: "Print loaded environment variable(s)",
	Long: `Load the env files and print what they set.
Without KEY, outputs all variables as JSON (cleared variables are null).
With KEY, outputs the single value (for scripts: $(envload get KEY)).
Use --format shell or --format eval for shell-friendly output.
References are resolved against the current environment, and variables it
already defines are left out unless --overload is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGet,
}

var (
	getFormat   string
	getOverload bool
)

func init() {
	getCmd.Flags().StringVar(&getFormat, "format", "json", "Output format: json, shell, or eval (raw value when KEY given)")
	getCmd.Flags().BoolVar(&getOverload, "overload", false, "Report values even for variables already set in the environment")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	p, err := openProject(getOverload)
	if err != nil {
		return err
	}
	res, err := p.Load(runenv.EnvMap(os.Environ()))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		key := args[0]
		value, ok := res.Loaded[key]
		if !ok {
			return fmt.Errorf("key %q not found", key)
		}
		v := ""
		if value != nil {
			v = *value
		}
		switch getFormat {
		case "shell":
			fmt.Fprint(out, shellEscape(key)+"="+shellEscape(v))
		case "eval":
			fmt.Fprint(out, shellEscape(key)+"="+evalQuoted(v))
		default:
			fmt.Fprint(out, v)
		}
		return nil
	}

	return writeLoaded(out, res.Loaded, getFormat)
}

func writeLoaded(out io.Writer, loaded dotenv.Loaded, format string) error {
	keys := make([]string, 0, len(loaded))
	for k := range loaded {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	switch format {
	case "shell":
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if loaded[k] != nil {
				parts = append(parts, shellEscape(k)+"="+shellEscape(*loaded[k]))
			}
		}
		fmt.Fprint(out, strings.Join(parts, " "))
		return nil
	case "eval":
		for _, k := range keys {
			if loaded[k] == nil {
				fmt.Fprintln(out, "unset "+shellEscape(k))
				continue
			}
			fmt.Fprintln(out, "export "+shellEscape(k)+"="+evalQuoted(*loaded[k]))
		}
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		return enc.Encode(loaded)
	default:
		return fmt.Errorf("unknown format %q: expected json, shell or eval", format)
	}
}

func shellEscape(s string) string {
	if strings.ContainsAny(s, " \t\n\"'$`\\") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}

func evalQuoted(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
	return `"` + r.Replace(s) + `"`
}
