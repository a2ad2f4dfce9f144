package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"snapex/internal/config"
	"snapex/internal/infra/logx"
	"snapex/internal/listing"
	"snapex/internal/ui"
)

// options holds the global flags. Flags override the rc file and the
// environment.
type options struct {
	configPath string
	url        string
	snapshots  []string
	timeout    time.Duration
	verbose    bool
	logFile    string
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "snapex",
		Short: "Browse backup snapshots in the terminal",
		Long: `snapex lists the directories of backup snapshots served by a snapshot
backend and hands out download links for the files in them.

Without a subcommand it starts the interactive explorer.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, o)
		},
	}

	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "Configuration file path (default ~/.snapexrc)")
	root.PersistentFlags().StringVar(&o.url, "url", "", "Snapshot backend base URL (overrides config)")
	root.PersistentFlags().StringSliceVarP(&o.snapshots, "snapshot", "s", nil, "Snapshot id to offer; a single id is opened directly")
	root.PersistentFlags().DurationVar(&o.timeout, "timeout", 0, "Per-request timeout (default 10s)")
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "Verbose output (debug messages, no truncation)")
	root.PersistentFlags().StringVar(&o.logFile, "log-file", "", "Write explorer logs to this file")

	root.AddCommand(newLsCmd(o), newDownloadCmd(o), newURLCmd(o), newConfigCmd(o))
	return root
}

// load resolves the effective configuration.
func (o *options) load() (config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if o.url != "" {
		cfg.URL = o.url
	}
	if len(o.snapshots) > 0 {
		cfg.Snapshots = o.snapshots
	}
	if o.timeout > 0 {
		cfg.Timeout = o.timeout
	}
	if cfg.URL == "" {
		return cfg, fmt.Errorf("no backend url: set %s in %s or pass --url", config.KeyURL, path)
	}
	return cfg, nil
}

// setupLogging points logx at w with the configured level.
func (o *options) setupLogging(cfg config.Config, w io.Writer) error {
	lvl, err := logx.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logx.SetOutput(w)
	logx.SetMinLevel(lvl)
	if o.verbose {
		logx.SetVerbose(true)
		logx.SetMinLevel(logx.LevelDebug)
	}
	return nil
}

func newClient(cfg config.Config) (*listing.Client, error) {
	if u, err := url.Parse(cfg.URL); err == nil && u.User != nil {
		if pw, ok := u.User.Password(); ok {
			logx.RegisterSecret(pw)
		}
	}
	return listing.New(cfg.URL, listing.Options{Timeout: cfg.Timeout, Transport: transportOptions(cfg)})
}

// transportOptions applies the configured rate limit over the defaults.
func transportOptions(cfg config.Config) listing.TransportOptions {
	topts := listing.DefaultTransportOptions()
	if cfg.RPS > 0 {
		topts.Default.RPS = cfg.RPS
	}
	if cfg.Burst > 0 {
		topts.Default.Burst = cfg.Burst
	}
	return topts
}

// setupCLI prepares a non-interactive command: logs go to stderr.
func (o *options) setupCLI(cmd *cobra.Command) (config.Config, *listing.Client, error) {
	cfg, err := o.load()
	if err != nil {
		return cfg, nil, err
	}
	if err := o.setupLogging(cfg, cmd.ErrOrStderr()); err != nil {
		return cfg, nil, err
	}
	client, err := newClient(cfg)
	return cfg, client, err
}

func runTUI(cmd *cobra.Command, o *options) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the explorer needs a terminal; use 'snapex ls' in scripts")
	}
	cfg, err := o.load()
	if err != nil {
		return err
	}

	// The explorer owns the screen, so logs only go to a file.
	logPath := o.logFile
	if logPath == "" && len(os.Getenv("DEBUG")) > 0 {
		logPath = "debug.log"
	}
	var logOut io.Writer
	if logPath != "" {
		f, err := tea.LogToFile(logPath, "snapex")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	if err := o.setupLogging(cfg, logOut); err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	m := ui.InitialModel(cfg, client)
	if len(cfg.Snapshots) == 1 && len(o.snapshots) == 1 {
		m = m.WithSnapshot(cfg.Snapshots[0])
	}
	logx.Infof("explorer started backend=%s snapshots=%d", cfg.URL, len(cfg.Snapshots))

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}
