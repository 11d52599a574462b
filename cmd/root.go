package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xmazu/envload/internal/log"
	"github.com/xmazu/envload/internal/project"
)

var rootCmd = &cobra.Command{
	Use:           "envload",
	Short:         "Load dotenv files into commands and scripts",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `envload reads KEY=VALUE dotenv files and hands the result to a command, a script or an MCP client.

Values follow the usual dotenv rules: single quotes are literal, double quotes
understand \n \t \" \\ and \$, and ${NAME} expands to a variable set earlier in
the same load or already present in the environment. Variables that are already
set are never overwritten unless --overload is given.

FILES:

  By default the nearest .env in the current or a parent directory is loaded.
  Use -p/--path and -n/--name to pick other files; every name is tried in
  every path, and only the first file found is loaded unless --all is set.
  Defaults can be kept in .envload.yaml at the workspace root.

EXAMPLES:

  envload run -- node server.js
  envload run --watch -n .env -n .env.local --all -- go run .
  envload get DATABASE_URL
  eval "$(envload get --format eval)"
  envload check --required DATABASE_URL --integer PORT
  envload set API_URL https://api.example.com

Get started: envload ls`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Init(logLevel)
	},
}

var (
	logLevel     string
	rootDir      string
	rootPaths    []string
	rootNames    []string
	rootAll      bool
	rootEncoding string
)

func init() {
	rootCmd.SetVersionTemplate("envload version {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn or error (default $"+log.LevelEnv+" or warn)")
	flags.StringVarP(&rootDir, "dir", "C", "", "Resolve env files from this directory instead of the current one")
	flags.StringSliceVarP(&rootPaths, "path", "p", nil, "Directory to look for env files in (can be repeated)")
	flags.StringSliceVarP(&rootNames, "name", "n", nil, "Env file name to look for in each path (can be repeated, default .env)")
	flags.BoolVar(&rootAll, "all", false, "Load every file found instead of stopping at the first")
	flags.StringVar(&rootEncoding, "encoding", "", "Character encoding of the env files (default UTF-8)")
}

// SetVersion sets the version string shown by --version (e.g. from ldflags).
func SetVersion(v string) { rootCmd.Version = v }

// exitError carries a child's exit status up to Execute.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openProject resolves the env files selected by the persistent flags.
// overload is applied only when set, so config can still enable it.
func openProject(overload bool) (*project.Project, error) {
	opts := project.Options{
		Dir:      rootDir,
		Paths:    rootPaths,
		Names:    rootNames,
		Encoding: rootEncoding,
	}
	if rootAll {
		all := false
		opts.ShortCircuit = &all
	}
	if overload {
		opts.Overload = &overload
	}
	return project.Open(opts)
}
