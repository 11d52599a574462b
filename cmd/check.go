package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xmazu/envload/internal/config"
	"github.com/xmazu/envload/internal/project"
	"github.com/xmazu/envload/internal/runenv"
	"github.com/xmazu/envload/internal/tui"
	"github.com/xmazu/envload/internal/validator"
)

var checkCmd = &cobra.Command{
	Use:   "check [NAME...]",
	Short: "Check loaded variables against rules",
	Long: `Load the env files and assert properties of the result.
Names given as arguments must be defined. Rules from the rules section of
.envload.yaml are added to the ones given as flags. Every failure is reported
and the command exits non-zero if there is any.

  envload check DATABASE_URL --integer PORT --allowed APP_ENV=dev,prod`,
	RunE: runCheck,
}

var (
	checkNotEmpty []string
	checkInteger  []string
	checkBoolean  []string
	checkAllowed  []string
	checkRegex    []string
)

func init() {
	checkCmd.Flags().StringSliceVar(&checkNotEmpty, "not-empty", nil, "Names that must be defined and not blank")
	checkCmd.Flags().StringSliceVar(&checkInteger, "integer", nil, "Names that must be integers when defined")
	checkCmd.Flags().StringSliceVar(&checkBoolean, "boolean", nil, "Names that must be booleans when defined")
	checkCmd.Flags().StringArrayVar(&checkAllowed, "allowed", nil, "NAME=a,b,c: allowed values for NAME (can be repeated)")
	checkCmd.Flags().StringArrayVar(&checkRegex, "regex", nil, "NAME=PATTERN: values of NAME must match PATTERN (can be repeated)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	p, err := openProject(false)
	if err != nil {
		return err
	}
	rules, err := checkRules(p.Config.Rules, args)
	if err != nil {
		return err
	}
	if rules.IsEmpty() {
		return fmt.Errorf("nothing to check: pass names or rules, or add rules to %s", config.FileName)
	}

	res, err := p.Load(runenv.EnvMap(os.Environ()))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	err = project.Check(res.Repo, rules)
	var verr *validator.Error
	if errors.As(err, &verr) {
		for _, f := range verr.Failures {
			fmt.Fprintf(out, "%s %s %s\n", tui.Error("✗"), tui.Key(f.Name), f.Message)
		}
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s all checks passed (%s)\n", tui.Success("✓"), strings.Join(p.Files(), ", "))
	return nil
}

// checkRules layers the flags over the configured rules.
func checkRules(base config.Rules, required []string) (config.Rules, error) {
	layer := config.Rules{
		Required: required,
		NotEmpty: checkNotEmpty,
		Integer:  checkInteger,
		Boolean:  checkBoolean,
	}
	for _, s := range checkAllowed {
		name, values, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return config.Rules{}, fmt.Errorf("invalid --allowed %q: expected NAME=a,b", s)
		}
		if layer.Allowed == nil {
			layer.Allowed = make(map[string][]string)
		}
		layer.Allowed[name] = strings.Split(values, ",")
	}
	for _, s := range checkRegex {
		name, pattern, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return config.Rules{}, fmt.Errorf("invalid --regex %q: expected NAME=PATTERN", s)
		}
		if layer.Regex == nil {
			layer.Regex = make(map[string]string)
		}
		layer.Regex[name] = pattern
	}

	merged := config.Config{Rules: base}
	merged.Merge(config.Config{Rules: layer})
	return merged.Rules, nil
}
