package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xmazu/envload/internal/log"
	"github.com/xmazu/envload/internal/project"
	"github.com/xmazu/envload/internal/runenv"
	"github.com/xmazu/envload/internal/store"
	"github.com/xmazu/envload/internal/tui"
	"github.com/xmazu/envload/internal/watch"
)

var runCmd = &cobra.Command{
	Use:   "run -- [command]",
	Short: "Run a command with the env files loaded",
	Long: `Load the env files and run the command with the result added to its environment.
Variables already set in the environment win unless --overload is given.
Use --env KEY=value to add or override single values.
Rules from .envload.yaml are checked before the command starts.
With --watch the command is restarted whenever a loaded file changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

var (
	runOverload bool
	runEnv      []string
	runSafe     bool
	runWatch    bool
	runQuiet    bool
)

func init() {
	runCmd.Flags().BoolVar(&runOverload, "overload", false, "Let env files and --env override variables that are already set")
	runCmd.Flags().StringSliceVarP(&runEnv, "env", "e", nil, "Environment override KEY=value (can be repeated)")
	runCmd.Flags().BoolVar(&runSafe, "safe", false, "Run even when no env file exists")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "Restart the command when a loaded env file changes")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command specified. Use: envload run -- your-command")
	}

	p, err := openProject(runOverload)
	if err != nil {
		return err
	}
	env, err := loadRunEnv(p)
	if err != nil {
		return err
	}

	if !runWatch {
		code, err := runenv.Run(env, "", args[0], args[1:])
		if err != nil {
			if code >= 0 {
				return &exitError{code: code, err: err}
			}
			return err
		}
		return nil
	}
	return runWithWatch(cmd.ErrOrStderr(), p, env, args[0], args[1:])
}

// loadRunEnv builds the child environment: the process environment, the
// env files on top of it, then --env overrides.
func loadRunEnv(p *project.Project) (map[string]string, error) {
	res, err := p.Load(runenv.EnvMap(os.Environ()))
	if err != nil {
		if !runSafe || !errors.Is(err, store.ErrNoFiles) {
			return nil, err
		}
		log.Debugf("run: %v", err)
	}
	if err := project.Check(res.Repo, p.Config.Rules); err != nil {
		return nil, err
	}

	env := res.Env.Snapshot()
	if err := runenv.MergeOverlayEnv(env, runEnv, p.Overload); err != nil {
		return nil, err
	}
	return env, nil
}

func runWithWatch(stderr io.Writer, p *project.Project, env map[string]string, command string, args []string) error {
	w, err := watch.New(0)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, f := range p.Candidates() {
		if err := w.Add(f); err != nil {
			fmt.Fprintf(stderr, "%s could not watch %s: %v\n", tui.Warning("!"), f, err)
		}
	}
	changes := w.Start()

	runner := &runenv.ProcessRunner{Command: command, Args: args, Env: env}
	if err := runner.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		select {
		case sig := <-sigCh:
			_ = runner.Stop()
			if sig == syscall.SIGTERM {
				return &exitError{code: 143, err: fmt.Errorf("terminated")}
			}
			return &exitError{code: 130, err: fmt.Errorf("interrupted")}

		case <-changes:
			newEnv, err := loadRunEnv(p)
			if err != nil {
				fmt.Fprintf(stderr, "%s reload: %v\n", tui.Error("✗"), err)
				continue
			}
			if !runQuiet {
				fmt.Fprintf(stderr, "%s env changed (%d files watched), restarting...\n", tui.Label("⚡"), len(w.Files()))
			}
			if err := runner.Stop(); err != nil {
				log.Warnf("run: stop: %v", err)
			}
			runner.Env = newEnv
			if err := runner.Start(); err != nil {
				return fmt.Errorf("restart command: %w", err)
			}

		case <-runner.Done():
			if err := runner.Wait(); err != nil {
				if code := runner.ExitCode(); code >= 0 {
					return &exitError{code: code, err: err}
				}
				return err
			}
			return nil
		}
	}
}
