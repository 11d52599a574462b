package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/spf13/cobra"

	"github.com/xmazu/envload/internal/config"
	"github.com/xmazu/envload/internal/envfile"
	"github.com/xmazu/envload/internal/tui"
	"github.com/xmazu/envload/internal/workspace"
)

var lsCmd = &cobra.Command{
	Use:   "ls [directory]",
	Short: "List env files in a directory tree",
	Long: `Discover and list .env and .env.* files under the given directory, or under
the workspace root when none is given. Paths matched by .envloadignore or by
exclude in .envload.yaml are skipped. Files the current project would load
are marked with *.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	root, err := workspace.FindRoot(".")
	if err != nil {
		return fmt.Errorf("detect workspace: %w", err)
	}
	explicitDir := len(args) == 1
	if explicitDir {
		root, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve directory: %w", err)
		}
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", root)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ignore, err := workspace.LoadIgnore(root, cfg.Exclude)
	if err != nil {
		return err
	}
	files, err := workspace.ListEnvFiles(root, ignore)
	if err != nil {
		return fmt.Errorf("list env files: %w", err)
	}
	if len(files) == 0 {
		return nil
	}

	var active []string
	if p, err := openProject(false); err == nil {
		active = p.Files()
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		rel, _ := filepath.Rel(root, f)
		paths = append(paths, rel)
	}
	sort.Strings(paths)

	out := cmd.OutOrStdout()
	if marker := workspace.FindMarker(root); marker != "" || !explicitDir {
		fmt.Fprintf(out, "%s%s (%s)\n\n", tui.Label("Workspace: "), root, workspace.FormatMarkerForDisplay(marker))
	}

	tree := workspace.BuildEnvTree(paths)
	workspace.PrintEnvTree(out, tree, func(n *workspace.EnvTreeNode) string {
		path := filepath.Join(root, n.File)
		label := n.Name
		if keys, err := envfile.ReadKeys(path); err == nil {
			label += " " + tui.Muted(fmt.Sprintf("(%d keys)", len(keys)))
		} else {
			label += " " + tui.Error("(invalid)")
		}
		if slices.Contains(active, path) {
			label += " " + tui.Success("*")
		}
		return label
	})
	return nil
}
