// Package mcpserver exposes the loader to MCP clients over stdio.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/xmazu/envload/internal/config"
	"github.com/xmazu/envload/internal/envfile"
	"github.com/xmazu/envload/internal/project"
	"github.com/xmazu/envload/internal/runenv"
	"github.com/xmazu/envload/internal/validator"
)

type workdirArgs struct {
	Workdir string `json:"workdir" jsonschema:"directory to resolve env files from (default: current)"`
}

type keyArgs struct {
	Workdir string `json:"workdir" jsonschema:"directory to resolve env files from (default: current)"`
	Key     string `json:"key" jsonschema:"environment variable name (e.g. DATABASE_URL)"`
}

type parseArgs struct {
	Entry string `json:"entry" jsonschema:"a single NAME=VALUE entry, possibly spanning lines"`
}

type checkArgs struct {
	Workdir  string   `json:"workdir" jsonschema:"directory to resolve env files from (default: current)"`
	Required []string `json:"required" jsonschema:"names that must be defined, in addition to the configured rules"`
}

// NewServer registers the tools on a new server.
func NewServer(version string) *mcpsdk.Server {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "envload",
		Version: version,
	}, nil)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_keys",
		Description: "List the env files that would be loaded for a directory and the variable names each defines, in load order. Never returns values.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, args workdirArgs) (*mcpsdk.CallToolResult, any, error) {
		out, err := listKeys(args.Workdir)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return successResult(out), nil, nil
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "get_value",
		Description: "Load the env files for a directory and return the resolved value of one variable they define. ${NAME} references are expanded against earlier entries and the server's environment.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, args keyArgs) (*mcpsdk.CallToolResult, any, error) {
		if args.Key == "" {
			return errorResult("key is required"), nil, nil
		}
		out, err := getValue(args.Workdir, args.Key)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return successResult(out), nil, nil
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "parse_entry",
		Description: "Parse one NAME=VALUE entry with dotenv quoting rules and report the name, the decoded value and the byte offsets of variable markers, or the parse error.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, args parseArgs) (*mcpsdk.CallToolResult, any, error) {
		return successResult(parseEntry(args.Entry)), nil, nil
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "check",
		Description: "Load the env files for a directory and run the configured rules plus any extra required names. Returns ok and the list of failures.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, args checkArgs) (*mcpsdk.CallToolResult, any, error) {
		out, err := check(args.Workdir, args.Required)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return successResult(out), nil, nil
	})

	return server
}

// Run serves on stdio until ctx is done or the client disconnects.
func Run(ctx context.Context, version string) error {
	return NewServer(version).Run(ctx, &mcpsdk.StdioTransport{})
}

func listKeys(workdir string) (map[string]any, error) {
	p, err := project.Open(project.Options{Dir: workdir})
	if err != nil {
		return nil, err
	}
	files := []map[string]any{}
	for _, path := range p.Files() {
		keys, err := envfile.ReadKeys(path)
		if err != nil {
			return nil, err
		}
		files = append(files, map[string]any{"path": path, "keys": keys})
	}
	return map[string]any{"root": p.Root, "files": files}, nil
}

func getValue(workdir, key string) (map[string]any, error) {
	p, err := project.Open(project.Options{Dir: workdir})
	if err != nil {
		return nil, err
	}
	res, err := p.Load(runenv.EnvMap(os.Environ()))
	if err != nil {
		return nil, err
	}
	value, ok := res.Loaded[key]
	if !ok {
		return nil, fmt.Errorf("key %q is not set by %v", key, p.Files())
	}
	if value == nil {
		return map[string]any{"key": key, "cleared": true}, nil
	}
	return map[string]any{"key": key, "value": *value}, nil
}

func parseEntry(raw string) map[string]any {
	entries, err := envfile.Parse(raw)
	if err == nil && len(entries) != 1 {
		err = fmt.Errorf("expected exactly one entry, got %d", len(entries))
	}
	if err != nil {
		return map[string]any{"ok": false, "error": err.Error()}
	}
	e := entries[0]
	out := map[string]any{"ok": true, "name": e.Name, "has_value": e.HasValue()}
	if e.HasValue() {
		out["value"] = e.Value.Chars()
		out["vars"] = e.Value.Vars()
	}
	return out
}

func check(workdir string, required []string) (map[string]any, error) {
	p, err := project.Open(project.Options{Dir: workdir})
	if err != nil {
		return nil, err
	}
	res, err := p.Load(runenv.EnvMap(os.Environ()))
	if err != nil {
		return nil, err
	}

	rules := p.Config.Rules
	rules.Required = append(append([]string{}, rules.Required...), required...)

	failures := []string{}
	if err := project.Check(res.Repo, rules); err != nil {
		var verr *validator.Error
		if !errors.As(err, &verr) {
			return nil, err
		}
		for _, f := range verr.Failures {
			failures = append(failures, f.String())
		}
	}
	sort.Strings(failures)
	return map[string]any{"ok": len(failures) == 0, "failures": failures, "rules": ruleCount(rules)}, nil
}

func ruleCount(r config.Rules) int {
	return len(r.Required) + len(r.NotEmpty) + len(r.Integer) + len(r.Boolean) + len(r.Allowed) + len(r.Regex)
}
