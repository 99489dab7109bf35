// Command toolfleet inspects and drives a fleet of MCP tool servers.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/jonwraymond/toolfleet/agent"
	"github.com/jonwraymond/toolfleet/backend"
	"github.com/jonwraymond/toolfleet/catalog"
	"github.com/jonwraymond/toolfleet/config"
	"github.com/jonwraymond/toolfleet/exec"
	"github.com/jonwraymond/toolfleet/router"
	"github.com/spf13/cobra"
)

var logger = xlog.NewPackageLogger("github.com/jonwraymond/toolfleet", "cmd")

type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
	stdout     io.Writer
	stderr     io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:          "toolfleet",
		Short:        "toolfleet - one tool catalog over many MCP servers",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default: built-in backend table)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "DEBUG, INFO, WARNING or ERROR")

	var limit int
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank discovered tools against a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.search(cmd.Context(), strings.Join(args, " "), limit)
		},
	}
	searchCmd.Flags().IntVarP(&limit, "limit", "n", catalog.DefaultSearchLimit, "maximum results")

	var rawArgs string
	callCmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Validate arguments and invoke a tool by its global name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), args[0], rawArgs)
		},
	}
	callCmd.Flags().StringVar(&rawArgs, "args", "{}", "tool arguments as a JSON object")

	var withSchema bool
	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Connect to every backend and list the discovered tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.tools(cmd.Context(), withSchema)
		},
	}
	toolsCmd.Flags().BoolVar(&withSchema, "schema", false, "print the resolved input schema of each tool")

	var kind string
	backendsCmd := &cobra.Command{
		Use:   "backends",
		Short: "Probe every configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.backends(cmd.Context(), kind)
		},
	}
	backendsCmd.Flags().StringVar(&kind, "kind", "", "only report backends of this kind")

	root.AddCommand(
		backendsCmd,
		toolsCmd,
		searchCmd,
		&cobra.Command{
			Use:   "watch",
			Short: "Rediscover tools on the configured catalog.refresh schedule",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.watch(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "route <query>",
			Short: "Show the routing hint and guidance for a query",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return a.route(strings.Join(args, " "))
			},
		},
		&cobra.Command{
			Use:   "prompt",
			Short: "Print the system prompt",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return a.prompt()
			},
		},
		callCmd,
	)
	return root
}

func (a *app) setup() error {
	xlog.SetFormatter(xlog.NewStringFormatter(a.stderr))

	if a.configPath == "" {
		a.cfg = config.Default()
	} else {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	a.cfg.ApplyLogLevel()
	return nil
}

// discover builds the registry and catalog and runs one discovery cycle.
func (a *app) discover(ctx context.Context) (*catalog.Catalog, *exec.Executor, error) {
	reg, err := a.cfg.BuildRegistry()
	if err != nil {
		return nil, nil, err
	}
	for name, err := range reg.Connect(ctx) {
		fmt.Fprintf(a.stderr, "[FAIL] %s: %v\n", name, err)
	}

	opts := a.cfg.CatalogOptions()
	opts.Guide = router.DefaultGuide()
	cat := catalog.New(reg, opts)
	if _, err := cat.Discover(ctx); err != nil {
		return nil, nil, err
	}

	executor, err := exec.New(reg, a.cfg.ExecutorOptions())
	if err != nil {
		return nil, nil, err
	}
	return cat, executor, nil
}

// backends reports in name order.
func (a *app) backends(ctx context.Context, kind string) error {
	reg, err := a.cfg.BuildRegistry()
	if err != nil {
		return err
	}
	selected := reg.List()
	if kind != "" {
		selected = reg.ListByKind(kind)
	}
	keep := make(map[string]bool, len(selected))
	for _, b := range selected {
		keep[b.Name()] = true
	}

	failed := reg.Connect(ctx)
	for _, name := range reg.Names() {
		b, ok := reg.Get(name)
		if !ok || !keep[name] {
			continue
		}
		info := backend.Describe(b)
		status := "OK"
		switch {
		case !info.Enabled:
			status = "DISABLED"
		case failed[info.Name] != nil:
			status = "FAIL " + failed[info.Name].Error()
		}
		fmt.Fprintf(a.stdout, "%-24s %-8s verify_tls=%t timeout=%s  %s\n",
			info.Name, info.Kind, info.VerifyTLS, info.Timeout, status)
	}
	return nil
}

func (a *app) tools(ctx context.Context, withSchema bool) error {
	cat, _, err := a.discover(ctx)
	if err != nil {
		return err
	}
	if cat.Len() == 0 {
		return agent.ErrNoTools
	}
	for _, t := range cat.Tools() {
		fmt.Fprintf(a.stdout, "%-48s %s/%s  %s\n", t.Name, t.Backend, t.RemoteName, t.Input)
		if withSchema {
			b, err := json.MarshalIndent(t.Input.JSONSchema(), "    ", "  ")
			if err != nil {
				return errors.Wrapf(err, "encode schema of %s", t.Name)
			}
			fmt.Fprintf(a.stdout, "    %s\n", b)
		}
	}
	logger.KV(xlog.DEBUG, "tools", cat.Len())
	return nil
}

func (a *app) watch(ctx context.Context) error {
	if a.cfg.Catalog.Refresh == "" {
		return errors.New("catalog.refresh is not set")
	}
	cat, _, err := a.discover(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%d tools\n", cat.Len())

	r, err := catalog.NewRefresher(cat, a.cfg.Catalog.Refresh)
	if err != nil {
		return err
	}
	r.OnRefresh = func(tools []catalog.Tool) {
		fmt.Fprintf(a.stdout, "%d tools\n", len(tools))
	}
	// Start returns once ctx is done, which is the normal way out
	_ = r.Start(ctx)
	return nil
}

func (a *app) search(ctx context.Context, query string, limit int) error {
	cat, _, err := a.discover(ctx)
	if err != nil {
		return err
	}
	hits, err := cat.Search(query, limit)
	if err != nil {
		return err
	}
	for _, t := range hits {
		fmt.Fprintf(a.stdout, "%-48s %s\n", t.Name, t.Description)
	}
	return nil
}

func (a *app) route(query string) error {
	d := router.Default().Route(query)
	hint := d.Hint
	if !d.Matched() {
		hint = "(none)"
	}
	fmt.Fprintf(a.stdout, "hint: %s\ndocumentation: %t\n", hint, d.Documentation)
	if d.Guidance != "" {
		fmt.Fprintf(a.stdout, "guidance:%s\n", d.Guidance)
	}
	return nil
}

func (a *app) prompt() error {
	p, err := router.Default().SystemPrompt()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, p)
	return nil
}

func (a *app) call(ctx context.Context, name, rawArgs string) error {
	var args map[string]any
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return errors.Wrap(err, "--args must be a JSON object")
	}

	cat, executor, err := a.discover(ctx)
	if err != nil {
		return err
	}
	out := agent.NewToolset(cat, executor).Call(ctx, name, args)
	fmt.Fprintln(a.stdout, out)
	if strings.HasPrefix(out, exec.ErrorPrefix) {
		return errors.Newf("call %s failed", name)
	}
	return nil
}
