package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/airtui/airtui/internal/log"
	"github.com/airtui/airtui/internal/tui"
	"github.com/airtui/airtui/wifi"
)

var (
	// Version is the version of the application. It is set at build time.
	Version string = "dev"
)

// main is the entry point of the application
func main() {
	var (
		rootFlagSet = flag.NewFlagSet("airtui", flag.ExitOnError)
		theme       = rootFlagSet.String("theme", "", "path to theme toml file (env: AIRTUI_THEME)")
		backendName = rootFlagSet.String("backend", "auto", "backend to use: auto, networkmanager, nmcli, mock (env: AIRTUI_BACKEND)")
		verbose     = rootFlagSet.Bool("verbose", false, "log debug output")
		version     = rootFlagSet.Bool("version", false, "display version")
	)

	var b wifi.Backend
	var err error

	listFlagSet := flag.NewFlagSet("list", flag.ExitOnError)
	listJSON := listFlagSet.Bool("json", false, "output in JSON format")
	listRescan := listFlagSet.Bool("rescan", false, "trigger a fresh scan first")
	listCmd := &ffcli.Command{
		Name:      "list",
		ShortHelp: "List wifi networks",
		FlagSet:   listFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			return runList(os.Stdout, *listJSON, *listRescan, b)
		},
	}

	showFlagSet := flag.NewFlagSet("show", flag.ExitOnError)
	showJSON := showFlagSet.Bool("json", false, "output in JSON format")
	showCmd := &ffcli.Command{
		Name:      "show",
		ShortHelp: "Show a wifi network",
		FlagSet:   showFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("show requires an ssid")
			}
			return runShow(os.Stdout, *showJSON, args[0], b)
		},
	}

	connectFlagSet := flag.NewFlagSet("connect", flag.ExitOnError)
	connectPassphrase := connectFlagSet.String("passphrase", "", "passphrase for the network")
	connectCmd := &ffcli.Command{
		Name:      "connect",
		ShortHelp: "Connect to a wifi network",
		FlagSet:   connectFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("connect requires an ssid")
			}
			return runConnect(os.Stdout, args[0], *connectPassphrase, b)
		},
	}

	disconnectCmd := &ffcli.Command{
		Name:      "disconnect",
		ShortHelp: "Disconnect from a wifi network",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("disconnect requires an ssid")
			}
			return runDisconnect(os.Stdout, args[0], b)
		},
	}

	forgetCmd := &ffcli.Command{
		Name:      "forget",
		ShortHelp: "Forget a saved wifi network",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("forget requires an ssid")
			}
			return runForget(os.Stdout, args[0], b)
		},
	}

	autoconnectCmd := &ffcli.Command{
		Name:      "autoconnect",
		ShortHelp: "Enable or disable autoconnect for a saved network",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("autoconnect requires an ssid and on/off")
			}
			var enabled bool
			switch strings.ToLower(args[1]) {
			case "on", "yes", "true":
				enabled = true
			case "off", "no", "false":
				enabled = false
			default:
				return fmt.Errorf("autoconnect wants on or off, got %q", args[1])
			}
			return runAutoConnect(os.Stdout, args[0], enabled, b)
		},
	}

	root := &ffcli.Command{
		ShortUsage:  "airtui [flags] <subcommand> [args...]",
		FlagSet:     rootFlagSet,
		Subcommands: []*ffcli.Command{listCmd, showCmd, connectCmd, disconnectCmd, forgetCmd, autoconnectCmd},
		Exec: func(ctx context.Context, args []string) error {
			return tui.Run(b)
		},
	}

	// Parse flags using ff to get theme and version.
	// We need to do this before root.Run so we can load the theme.
	// root.Run will parse them again, but that's fine.
	err = ff.Parse(rootFlagSet, os.Args[1:],
		ff.WithEnvVarPrefix("AIRTUI"),
		ff.WithIgnoreUndefined(true), // Ignore subcommand flags for now
	)
	if err != nil {
		if err == flag.ErrHelp {
			// ff.Parse doesn't print usage on ErrHelp, so we do it manually.
			root.FlagSet.Usage()
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error parsing flags: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log.Init(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := tui.LoadTheme(*theme); err != nil {
		fmt.Fprintf(os.Stderr, "error loading theme: %v\n", err)
		os.Exit(1)
	}

	if *version {
		fmt.Println(Version)
		os.Exit(0)
	}

	b, err = GetBackend(*backendName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := root.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
