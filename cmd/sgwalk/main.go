// Command sgwalk is a small CLI demo driving the kernel over a built-in
// scene graph, grounded on cmd/graft/main.go's goptions flag parsing and
// isatty/ansi color handling.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/starkandwayne/goutils/ansi"
	"github.com/voxelbrain/goptions"

	"github.com/wayneeseguin/sgcore/internal/cache"
	"github.com/wayneeseguin/sgcore/internal/config"
	"github.com/wayneeseguin/sgcore/internal/log"
	"github.com/wayneeseguin/sgcore/pkg/sg"
	"github.com/wayneeseguin/sgcore/pkg/sgactions"
	"github.com/wayneeseguin/sgcore/pkg/sgnodes"
)

// Version holds the current version of sgwalk.
var Version = "(development)"

var printfStdOut = func(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format, args...)
}

var getopts = func(o interface{}) {
	if err := goptions.Parse(o); err != nil {
		usage()
	}
}

var exit = func(code int) { os.Exit(code) }

var usage = func() {
	goptions.PrintHelp()
	exit(1)
}

// applyRuntimeConfig pushes a loaded Config into the package-level switches
// the kernel and demo actions read from. Registered as a config.Manager
// OnChange hook so a FileWatcher-driven reload takes effect without a
// restart.
func applyRuntimeConfig(cfg *config.Config) {
	log.SetLevel(logLevel(cfg.Logging.Level))
	sg.SetStrictMode(cfg.Kernel.StrictMode)
	sg.WarnUnknownNodeType = cfg.Kernel.WarnOnUnknownNodeType
	sg.MaxPathDepth = cfg.Kernel.MaxPathDepth
	sgactions.ConfigureLeafCountCache(cache.HierarchicalCacheConfig{
		L1Size: cfg.Cache.DispatchTableSize,
		L2Size: cfg.Cache.ElementCacheSize,
		TTL:    cfg.Cache.TTL,
	})
}

type dumpOpts struct {
	Help bool `goptions:"--help, -h"`
}

type searchOpts struct {
	Name string `goptions:"--name, description='Find nodes whose name equals the given value'"`
	Help bool   `goptions:"--help, -h"`
}

// buildDemoScene returns a small fixed scene graph:
//
//	Root (Transform x2) -> G0 -> [A -> [A0, A1], B, C]
func buildDemoScene() sg.Node {
	root := sgnodes.NewTransform("Root", 2.0)
	g0 := sgnodes.NewGroup("G0")
	a := sgnodes.NewGroup("A")
	a.AddChild(sgnodes.NewLeaf("A0", 0))
	a.AddChild(sgnodes.NewLeaf("A1", 1))
	g0.AddChild(a)
	g0.AddChild(sgnodes.NewLeaf("B", 2))
	g0.AddChild(sgnodes.NewLeaf("C", 3))
	root.SetChild(g0)
	return root
}

func main() {
	var options struct {
		Debug   bool   `goptions:"-D, --debug, description='Enable debugging'"`
		Trace   bool   `goptions:"-T, --trace, description='Enable trace mode debugging (very verbose)'"`
		Version bool   `goptions:"-v, --version, description='Display version information'"`
		Color   string `goptions:"--color, description='Control color output (on/off/auto, default: auto)'"`
		Config  string `goptions:"--config, description='Path to a YAML config file to load and hot-watch for changes'"`
		Action  goptions.Verbs
		Dump    dumpOpts   `goptions:"dump"`
		Search  searchOpts `goptions:"search"`
	}
	getopts(&options)

	manager := config.NewManager()
	if options.Config != "" {
		if err := manager.Load(options.Config); err != nil {
			log.PrintfStdErr("loading config: %s\n", err.Error())
			exit(1)
			return
		}
	}
	manager.OnChange(applyRuntimeConfig)

	cfg := manager.Get()
	if options.Debug {
		cfg.Logging.Level = "debug"
	}
	if options.Trace {
		cfg.Logging.Level = "trace"
	}
	applyRuntimeConfig(cfg)

	if options.Config != "" {
		watcher := config.NewFileWatcher(manager, config.DefaultLogger{})
		if err := watcher.Watch(options.Config); err != nil {
			log.PrintfStdErr("watching config: %s\n", err.Error())
			exit(1)
			return
		}
		defer watcher.Stop()
	}

	if options.Version {
		printfStdOut("%s - Version %s\n", os.Args[0], Version)
		exit(0)
		return
	}

	shouldEnableColor := false
	switch options.Color {
	case "on":
		shouldEnableColor = true
	case "off":
		shouldEnableColor = false
	case "auto", "":
		shouldEnableColor = isatty.IsTerminal(os.Stderr.Fd())
	default:
		log.PrintfStdErr("Invalid --color option: %s. Must be 'on', 'off', or 'auto'.\n", options.Color)
		exit(1)
		return
	}
	ansi.Color(shouldEnableColor)

	scene := buildDemoScene()

	switch options.Action {
	case "dump":
		d := sgactions.NewDumpAction()
		d.Apply(scene)
		d.WriteTo(os.Stdout)

	case "search":
		name := options.Search.Name
		s := sgactions.NewSearchAction(func(n sg.Node) bool {
			switch t := n.(type) {
			case *sgnodes.Leaf:
				return t.Name == name
			case *sgnodes.Group:
				return t.Name == name
			case *sgnodes.Transform:
				return t.Name == name
			default:
				return false
			}
		})
		s.Apply(scene)

		for i := 0; i < s.Results.Len(); i++ {
			printfStdOut(ansi.Sprintf("@G{found} path of length %d\n", s.Results.At(i).Length()))
		}

		roots := make([]sg.Node, 0, s.Results.Len())
		for i := 0; i < s.Results.Len(); i++ {
			roots = append(roots, s.Results.At(i).GetNode(s.Results.At(i).Length()))
		}
		counts, err := sgactions.SummarizeLeafCounts(context.Background(), roots)
		if err != nil {
			log.PrintfStdErr("%s\n", err.Error())
			exit(2)
			return
		}
		for i, c := range counts {
			printfStdOut("match %d: %d leaves below\n", i, c)
		}

	default:
		usage()
	}
}

func logLevel(level string) log.Level {
	switch level {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	case "silent":
		return log.LevelSilent
	default:
		return log.LevelInfo
	}
}
