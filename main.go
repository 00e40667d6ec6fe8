package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atomicstack/listy-city/internal/app"
	"github.com/atomicstack/listy-city/internal/config"
	"github.com/atomicstack/listy-city/internal/logging"
	"github.com/atomicstack/listy-city/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 2
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	defer logging.Close()

	events.App.Start(startupTracePayload(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()
	if err := app.Run(ctx, cfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// startupTracePayload records how the process was started: arguments, the
// resolved settings and which descriptors are terminals. Credentials are
// masked before anything reaches the log.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	cfg = cfg.Redacted()
	flags := make(map[string]interface{}, len(cfg.Flags)+3)
	for name, value := range cfg.Flags {
		flags[name] = value
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	flags["configFile"] = cfg.File

	probes := probeTerminals()
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
		"tty":    probes,
	}
	for _, p := range probes {
		if p.Width > 0 {
			payload["terminal"] = p.Name
			break
		}
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	}
	return payload
}

// terminalProbe is what one standard descriptor reports about its terminal.
type terminalProbe struct {
	Name   string `json:"name"`
	TTY    bool   `json:"tty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Error  string `json:"error,omitempty"`
}

// probeTerminals asks stdin, stdout and stderr for a terminal size.
func probeTerminals() []terminalProbe {
	descriptors := []struct {
		name string
		file *os.File
	}{
		{"stdin", os.Stdin},
		{"stdout", os.Stdout},
		{"stderr", os.Stderr},
	}
	probes := make([]terminalProbe, 0, len(descriptors))
	for _, d := range descriptors {
		p := terminalProbe{Name: d.name}
		fd := int(d.file.Fd())
		if p.TTY = term.IsTerminal(fd); p.TTY {
			var err error
			if p.Width, p.Height, err = term.GetSize(fd); err != nil {
				p.Error = err.Error()
			}
		}
		probes = append(probes, p)
	}
	return probes
}
