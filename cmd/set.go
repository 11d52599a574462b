package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xmazu/envload/internal/envfile"
	"github.com/xmazu/envload/internal/tui"
)

var setCmd = &cobra.Command{
	Use:   "set KEY [VALUE]",
	Short: "Set a variable in an env file",
	Long: `Store KEY in an env file, quoting the value so that it reads back verbatim.
KEY=VALUE is accepted as a single argument. Without a value you are prompted
for one (hidden with --secret). Comments and the layout of other entries are
kept. The file defaults to the first candidate of the current project.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSet,
}

var unsetCmd = &cobra.Command{
	Use:   "unset KEY...",
	Short: "Remove variables from an env file",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUnset,
}

var (
	setFile   string
	setSecret bool
)

// promptValue is replaced in tests.
var promptValue = func(title string, secret bool) (string, error) {
	if secret {
		return tui.HiddenInput(title)
	}
	return tui.PlaintextInput(title, nil)
}

func init() {
	setCmd.Flags().StringVarP(&setFile, "file", "f", "", "Env file to edit (default: first candidate file)")
	setCmd.Flags().BoolVarP(&setSecret, "secret", "s", false, "Do not echo the value when prompting for it")
	unsetCmd.Flags().StringVarP(&setFile, "file", "f", "", "Env file to edit (default: first candidate file)")
	rootCmd.AddCommand(setCmd, unsetCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	key, value, hasValue := strings.Cut(args[0], "=")
	if len(args) == 2 {
		if hasValue {
			return fmt.Errorf("invalid key %q: use envload set KEY VALUE or envload set KEY=VALUE", args[0])
		}
		value, hasValue = args[1], true
	}
	if !envfile.IsValidName(key) {
		return fmt.Errorf("invalid key %q: use letters, digits, '_' and '.'", key)
	}

	if !hasValue {
		v, err := promptValue(fmt.Sprintf("Value for %s", key), setSecret)
		if err != nil {
			return err
		}
		value = v
	}

	f, err := loadTargetFile()
	if err != nil {
		return err
	}
	f.Set(key, value)
	if err := f.Save(); err != nil {
		return fmt.Errorf("save %s: %w", f.Path(), err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s set in %s\n", tui.Success("✓"), tui.Label(key), f.Path())
	return nil
}

func runUnset(cmd *cobra.Command, args []string) error {
	f, err := loadTargetFile()
	if err != nil {
		return err
	}

	var missing []string
	for _, key := range args {
		if f.Delete(key) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s removed\n", tui.Success("✓"), tui.Label(key))
		} else {
			missing = append(missing, key)
		}
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save %s: %w", f.Path(), err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("not found in %s: %s", f.Path(), strings.Join(missing, ", "))
	}
	return nil
}

func loadTargetFile() (*envfile.File, error) {
	path := setFile
	if path == "" {
		p, err := openProject(false)
		if err != nil {
			return nil, err
		}
		candidates := p.Candidates()
		if files := p.Files(); len(files) > 0 {
			candidates = files
		}
		if len(candidates) == 0 {
			return nil, errors.New("no env file to edit")
		}
		path = candidates[0]
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	f, err := envfile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return f, nil
}
