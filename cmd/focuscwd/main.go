package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/focuscwd/internal/config"
	"github.com/1broseidon/focuscwd/internal/resolve"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "config":
			os.Exit(runConfig(args[1:]))
		case "mcp":
			os.Exit(runMCP(args[1:]))
		case "help", "-h", "--help":
			printMainUsage(os.Stdout)
			os.Exit(0)
		}
	}
	os.Exit(runResolve(args))
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: focuscwd [options] [priority-command...]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Print the working directory of the application behind the focused window.")
	fmt.Fprintln(w, "Positional arguments name commands whose directory wins tie-breaks against")
	fmt.Fprintln(w, "their ancestors; they override priority_commands from the config file.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print effective configuration")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -config PATH        Config file path (default: ~/.config/focuscwd/config.yaml)")
	fmt.Fprintln(w, "  -strict             Exit non-zero when falling back to the default directory")
	fmt.Fprintln(w, "  -verbose            Enable debug diagnostics on stderr")
}

func runResolve(args []string) int {
	fs := flag.NewFlagSet("focuscwd", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { printMainUsage(os.Stderr) }
	configPath := fs.String("config", "", "Config file path")
	strict := fs.Bool("strict", false, "Exit non-zero when falling back to the default directory")
	verbose := fs.Bool("verbose", false, "Enable debug diagnostics")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		// A broken config is an unrecoverable error for the launcher contract:
		// report it and emit the degraded default.
		fmt.Fprintln(os.Stderr, err)
		return emitFallback(nil, *strict)
	}

	priority := cfg.PriorityCommands
	if fs.NArg() > 0 {
		priority = fs.Args()
	}

	cwd, err := resolve.Focused(cfg, priority, newLogger(cfg, *verbose))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return emitFallback(cfg, *strict)
	}

	// Only the path is observable; the priority tag stays internal.
	fmt.Println(cwd.Path)
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

// newLogger builds the diagnostics logger. Informational chatter is held back
// when stderr is not a terminal, so launchers capturing stderr only see real
// problems.
func newLogger(cfg *config.Config, verbose bool) *slog.Logger {
	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	} else if level < slog.LevelWarn && !term.IsTerminal(int(os.Stderr.Fd())) {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// emitFallback prints the degraded default directory. The exit status stays
// zero unless strict mode asks to make the fallback observable.
func emitFallback(cfg *config.Config, strict bool) int {
	dir := ""
	if cfg != nil {
		dir = cfg.FallbackDir
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "unable to determine home directory: %v\n", err)
			return 1
		}
		dir = home
	}
	fmt.Println(dir)
	if strict {
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  focuscwd config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  focuscwd config print [--path PATH]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/focuscwd/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/focuscwd/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}
