package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Keys understood in the rc file and as environment variables.
const (
	KeyURL       = "SNAPEX_URL"
	KeySnapshots = "SNAPEX_SNAPSHOTS"
	KeyTimeoutMS = "SNAPEX_TIMEOUT_MS"
	KeyRPS       = "SNAPEX_RPS"
	KeyBurst     = "SNAPEX_BURST"
	KeyLogLevel  = "SNAPEX_LOG_LEVEL"
)

const DefaultTimeout = 10 * time.Second

type Config struct {
	URL       string
	Snapshots []string
	Timeout   time.Duration
	RPS       float64
	Burst     int
	LogLevel  string
	Path      string // file the config was loaded from
	FromFile  bool   // whether Path existed when loaded
}

// DefaultPath returns ~/.snapexrc, falling back to ./.snapexrc when the home
// directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".snapexrc"
	}
	return filepath.Join(home, ".snapexrc")
}

// Load reads KEY=VALUE lines from path and applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Config{Path: path, Timeout: DefaultTimeout}
	values := map[string]string{}

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		cfg.FromFile = true
		sc := bufio.NewScanner(f)
		line := 0
		for sc.Scan() {
			line++
			text := strings.TrimSpace(sc.Text())
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}
			k, v, ok := strings.Cut(text, "=")
			if !ok {
				return cfg, fmt.Errorf("%s:%d: expected KEY=VALUE", path, line)
			}
			values[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
		if err := sc.Err(); err != nil {
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("open %s: %w", path, err)
	}

	for _, k := range []string{KeyURL, KeySnapshots, KeyTimeoutMS, KeyRPS, KeyBurst, KeyLogLevel} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			values[k] = v
		}
	}
	if err := cfg.apply(values); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) apply(values map[string]string) error {
	c.URL = values[KeyURL]
	c.LogLevel = values[KeyLogLevel]
	c.Snapshots = SplitList(values[KeySnapshots])
	if v := values[KeyTimeoutMS]; v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return fmt.Errorf("%s: invalid value %q", KeyTimeoutMS, v)
		}
		c.Timeout = time.Duration(ms) * time.Millisecond
	}
	if v := values[KeyRPS]; v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%s: invalid value %q", KeyRPS, v)
		}
		c.RPS = f
	}
	if v := values[KeyBurst]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s: invalid value %q", KeyBurst, v)
		}
		c.Burst = n
	}
	return nil
}

// SplitList splits a comma-separated list, dropping blanks and duplicates.
func SplitList(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}

// Save writes cfg to path with mode 0600. The backend URL is required.
func Save(path string, cfg Config) error {
	if strings.TrimSpace(cfg.URL) == "" {
		return errors.New("backend url is empty")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s=%s\n", KeyURL, cfg.URL)
	if len(cfg.Snapshots) > 0 {
		fmt.Fprintf(&b, "%s=%s\n", KeySnapshots, strings.Join(cfg.Snapshots, ","))
	}
	if cfg.Timeout > 0 && cfg.Timeout != DefaultTimeout {
		fmt.Fprintf(&b, "%s=%d\n", KeyTimeoutMS, cfg.Timeout.Milliseconds())
	}
	if cfg.RPS > 0 {
		fmt.Fprintf(&b, "%s=%s\n", KeyRPS, strconv.FormatFloat(cfg.RPS, 'f', -1, 64))
	}
	if cfg.Burst > 0 {
		fmt.Fprintf(&b, "%s=%d\n", KeyBurst, cfg.Burst)
	}
	if cfg.LogLevel != "" {
		fmt.Fprintf(&b, "%s=%s\n", KeyLogLevel, cfg.LogLevel)
	}
	return os.WriteFile(path, []byte(b.String()), 0o600)
}
