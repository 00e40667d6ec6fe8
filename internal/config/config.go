package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/listy-city/internal/app"
	"github.com/atomicstack/listy-city/internal/docstore"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	// File is the config file that was read, empty when none was found.
	File  string
	Flags map[string]string
	Args  []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfigFile       = "LISTY_CITY_CONFIG"
	envBackend          = "LISTY_CITY_BACKEND"
	envCollection       = "LISTY_CITY_COLLECTION"
	envSQLitePath       = "LISTY_CITY_SQLITE_PATH"
	envSQLitePoll       = "LISTY_CITY_SQLITE_POLL"
	envPostgresDSN      = "LISTY_CITY_POSTGRES_DSN"
	envFirestoreProject = "LISTY_CITY_FIRESTORE_PROJECT"
	envWidth            = "LISTY_CITY_WIDTH"
	envHeight           = "LISTY_CITY_HEIGHT"
	envShowFooter       = "LISTY_CITY_FOOTER"
	envVerbose          = "LISTY_CITY_VERBOSE"
	envSeedDemo         = "LISTY_CITY_SEED_DEMO"
	envTrace            = "LISTY_CITY_TRACE"
	envLogFile          = "LISTY_CITY_LOG_FILE"
	envCellWidthPx      = "LISTY_CITY_CELL_WIDTH_PX"
	envCellHeightPx     = "LISTY_CITY_CELL_HEIGHT_PX"
)

const (
	defaultConfigPath   = "~/.config/listy-city/config.toml"
	defaultSQLitePath   = "~/.local/share/listy-city/cities.db"
	defaultCollection   = "cities"
	defaultCellWidthPx  = 10
	defaultCellHeightPx = 20
)

// fileConfig mirrors config.toml. Pointer fields distinguish unset keys.
type fileConfig struct {
	Backend      *string `toml:"backend"`
	Collection   *string `toml:"collection"`
	Width        *int    `toml:"width"`
	Height       *int    `toml:"height"`
	Footer       *bool   `toml:"footer"`
	Verbose      *bool   `toml:"verbose"`
	SeedDemo     *bool   `toml:"seed_demo"`
	Trace        *bool   `toml:"trace"`
	LogFile      *string `toml:"log_file"`
	CellWidthPx  *int    `toml:"cell_width_px"`
	CellHeightPx *int    `toml:"cell_height_px"`
	SQLite       struct {
		Path         *string `toml:"path"`
		PollInterval *string `toml:"poll_interval"`
	} `toml:"sqlite"`
	Postgres struct {
		DSN *string `toml:"dsn"`
	} `toml:"postgres"`
	Firestore struct {
		Project *string `toml:"project"`
	} `toml:"firestore"`
}

// settings is the merged view before flags are applied.
type settings struct {
	backend      string
	collection   string
	sqlitePath   string
	sqlitePoll   time.Duration
	postgresDSN  string
	firestore    string
	width        int
	height       int
	footer       bool
	verbose      bool
	seedDemo     bool
	trace        bool
	logFile      string
	cellWidthPx  int
	cellHeightPx int
}

func defaults() settings {
	return settings{
		backend:      app.BackendMemory,
		collection:   defaultCollection,
		sqlitePath:   defaultSQLitePath,
		sqlitePoll:   docstore.DefaultPollInterval,
		cellWidthPx:  defaultCellWidthPx,
		cellHeightPx: defaultCellHeightPx,
	}
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Values resolve
// as flag, then environment, then config file, then default.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	path, explicit := configPath(args, env)
	base := defaults()
	used, err := applyFile(&base, path, explicit)
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("listy-city", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", path, "path to the TOML config file")
	backend := fs.String("backend", envOrDefault(env, envBackend, base.backend), "document store: memory, sqlite, postgres or firestore")
	collection := fs.String("collection", envOrDefault(env, envCollection, base.collection), "collection holding the cities")
	sqlitePath := fs.String("sqlite-path", envOrDefault(env, envSQLitePath, base.sqlitePath), "database file for the sqlite backend")
	sqlitePoll := fs.Duration("sqlite-poll", envOrDuration(env, envSQLitePoll, base.sqlitePoll), "how often the sqlite backend checks for changes")
	postgresDSN := fs.String("postgres-dsn", envOrDefault(env, envPostgresDSN, base.postgresDSN), "connection string for the postgres backend")
	firestore := fs.String("firestore-project", envOrDefault(env, envFirestoreProject, base.firestore), "Google Cloud project for the firestore backend")
	width := fs.Int("width", envOrInt(env, envWidth, base.width), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, base.height), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, base.footer), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, base.trace), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, base.verbose), "print success messages for actions")
	seedDemo := fs.Bool("seed-demo", envOrBool(env, envSeedDemo, base.seedDemo), "write the demo cities that are missing from the collection")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, base.logFile), "path to the log file")
	cellWidth := fs.Int("cell-width-px", envOrInt(env, envCellWidthPx, base.cellWidthPx), "pixels per terminal column for swipe detection")
	cellHeight := fs.Int("cell-height-px", envOrInt(env, envCellHeightPx, base.cellHeightPx), "pixels per terminal row for swipe detection")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	resolvedSQLite := *sqlitePath
	if *sqlitePath != "" && *sqlitePath != ":memory:" {
		if expanded, err := expandPath(*sqlitePath); err == nil {
			resolvedSQLite = expanded
		}
	}

	cfg := Config{
		App: app.Config{
			Backend:          strings.ToLower(strings.TrimSpace(*backend)),
			Collection:       strings.TrimSpace(*collection),
			SQLitePath:       resolvedSQLite,
			SQLitePoll:       *sqlitePoll,
			PostgresDSN:      strings.TrimSpace(*postgresDSN),
			FirestoreProject: strings.TrimSpace(*firestore),
			Width:            *width,
			Height:           *height,
			ShowFooter:       *footer,
			Verbose:          *verbose,
			SeedDemo:         *seedDemo,
			CellWidthPx:      *cellWidth,
			CellHeightPx:     *cellHeight,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		File: used,
		Flags: map[string]string{
			"backend":          *backend,
			"collection":       *collection,
			"sqlitePath":       resolvedSQLite,
			"sqlitePoll":       sqlitePoll.String(),
			"postgresDSN":      redact(*postgresDSN),
			"firestoreProject": *firestore,
			"width":            strconv.Itoa(*width),
			"height":           strconv.Itoa(*height),
			"footer":           strconv.FormatBool(*footer),
			"trace":            strconv.FormatBool(*trace),
			"verbose":          strconv.FormatBool(*verbose),
			"seedDemo":         strconv.FormatBool(*seedDemo),
			"logFile":          *logFile,
			"cellWidthPx":      strconv.Itoa(*cellWidth),
			"cellHeightPx":     strconv.Itoa(*cellHeight),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// configPath finds the config file named by --config or the environment.
// explicit reports whether the user asked for it, which makes a missing file
// an error.
func configPath(args []string, env map[string]string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if value, ok := strings.CutPrefix(name, "config="); ok {
			return value, true
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1], true
		}
	}
	if v, ok := env[envConfigFile]; ok && strings.TrimSpace(v) != "" {
		return v, true
	}
	return defaultConfigPath, false
}

// applyFile layers the TOML file at path over s and returns the resolved path
// when a file was read.
func applyFile(s *settings, path string, explicit bool) (string, error) {
	resolved, err := expandPath(path)
	if err != nil {
		if explicit {
			return "", err
		}
		return "", nil
	}
	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return "", nil
		}
		return "", fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read config: %w", err)
	}
	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return "", fmt.Errorf("parse config: %w", err)
	}

	setString(&s.backend, raw.Backend)
	setString(&s.collection, raw.Collection)
	setString(&s.sqlitePath, raw.SQLite.Path)
	setString(&s.postgresDSN, raw.Postgres.DSN)
	setString(&s.firestore, raw.Firestore.Project)
	setString(&s.logFile, raw.LogFile)
	if raw.SQLite.PollInterval != nil {
		d, err := time.ParseDuration(strings.TrimSpace(*raw.SQLite.PollInterval))
		if err != nil {
			return "", fmt.Errorf("parse config: sqlite.poll_interval: %w", err)
		}
		s.sqlitePoll = d
	}
	if raw.Width != nil {
		s.width = *raw.Width
	}
	if raw.Height != nil {
		s.height = *raw.Height
	}
	if raw.Footer != nil {
		s.footer = *raw.Footer
	}
	if raw.Verbose != nil {
		s.verbose = *raw.Verbose
	}
	if raw.SeedDemo != nil {
		s.seedDemo = *raw.SeedDemo
	}
	if raw.Trace != nil {
		s.trace = *raw.Trace
	}
	if raw.CellWidthPx != nil {
		s.cellWidthPx = *raw.CellWidthPx
	}
	if raw.CellHeightPx != nil {
		s.cellHeightPx = *raw.CellHeightPx
	}
	return resolved, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

// Redacted returns a copy of c that is safe to log: the postgres connection
// string is masked in the settings and in the raw arguments.
func (c Config) Redacted() Config {
	out := c
	out.App.PostgresDSN = redact(c.App.PostgresDSN)
	out.Args = redactArgs(c.Args, "postgres-dsn")
	out.Flags = maps.Clone(c.Flags)
	if out.Flags != nil {
		out.Flags["postgresDSN"] = redact(c.Flags["postgresDSN"])
	}
	return out
}

// redactArgs masks the value of flag name in args, in both the "--name value"
// and "--name=value" forms.
func redactArgs(args []string, name string) []string {
	if args == nil {
		return nil
	}
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out); i++ {
		arg := out[i]
		if arg == "--" {
			break
		}
		flagName := strings.TrimLeft(arg, "-")
		if flagName == arg {
			continue
		}
		if value, ok := strings.CutPrefix(flagName, name+"="); ok {
			out[i] = strings.TrimSuffix(arg, value) + redact(value)
			continue
		}
		if flagName == name && i+1 < len(out) {
			out[i+1] = redact(out[i+1])
			i++
		}
	}
	return out
}

func redact(dsn string) string {
	if strings.TrimSpace(dsn) == "" {
		return ""
	}
	return "<redacted>"
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures the selected backend has what it needs to connect.
func Validate(cfg Config) error {
	a := cfg.App
	if !slices.Contains(app.Backends, a.Backend) {
		return fmt.Errorf("unknown backend %q (want one of %s)", a.Backend, strings.Join(app.Backends, ", "))
	}
	if a.Collection == "" {
		return fmt.Errorf("collection must not be empty")
	}
	if a.CellWidthPx <= 0 || a.CellHeightPx <= 0 {
		return fmt.Errorf("cell size must be positive (got %dx%d)", a.CellWidthPx, a.CellHeightPx)
	}
	switch a.Backend {
	case app.BackendSQLite:
		if a.SQLitePath == "" {
			return fmt.Errorf("sqlite backend requires --sqlite-path")
		}
		if a.SQLitePoll <= 0 {
			return fmt.Errorf("sqlite poll interval must be positive (got %s)", a.SQLitePoll)
		}
	case app.BackendPostgres:
		if a.PostgresDSN == "" {
			return fmt.Errorf("postgres backend requires --postgres-dsn")
		}
	case app.BackendFirestore:
		if a.FirestoreProject == "" {
			return fmt.Errorf("firestore backend requires --firestore-project")
		}
	}
	return nil
}
