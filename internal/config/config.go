// ==============================================================================================
// FILE: internal/config/config.go
// ==============================================================================================
// PACKAGE: config
// PURPOSE: Layered interpreter configuration: defaults, then an optional pith.yaml file, then
//          a .env overlay (github.com/joho/godotenv), then PITH_-prefixed environment
//          variables, then CLI flags (github.com/spf13/pflag) - each layer overriding the one
//          before it. main.go wires the flag layer; callers embedding the interpreter can stop
//          at Load.
// ==============================================================================================

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds every interpreter-wide knob exposed outside the core
// packages.
type Config struct {
	GCMinThreshold int64  `yaml:"gc_min_threshold"`
	GCMaxRootDepth int    `yaml:"gc_max_root_depth"`
	StdlibDir      string `yaml:"stdlib_dir"`
	Prompt         string `yaml:"prompt"`
	Banner         string `yaml:"banner"`
}

// Defaults returns the baseline configuration used when no file,
// environment variable, or flag overrides a field.
func Defaults() Config {
	return Config{
		GCMinThreshold: 1 << 20,
		GCMaxRootDepth: 1024,
		StdlibDir:      "stdlib",
		Prompt:         ">>> ",
		Banner:         "Pith interpreter",
	}
}

// LoadFile merges a pith.yaml document at path onto cfg, leaving cfg
// unchanged (and returning no error) if path does not exist.
func LoadFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnvFile overlays a .env file at path onto the process environment
// using godotenv, then applies PITH_-prefixed variables onto cfg. A
// missing .env file is not an error.
func LoadEnvFile(cfg Config, path string) (Config, error) {
	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Load(path); err != nil {
			return cfg, fmt.Errorf("config: loading env file %s: %w", path, err)
		}
	}
	return ApplyEnv(cfg), nil
}

// ApplyEnv overlays PITH_-prefixed environment variables already present
// in the process environment onto cfg.
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv("PITH_GC_MIN_THRESHOLD"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.GCMinThreshold = n
		}
	}
	if v := os.Getenv("PITH_GC_MAX_ROOT_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.GCMaxRootDepth = n
		}
	}
	if v := os.Getenv("PITH_STDLIB_DIR"); v != "" {
		cfg.StdlibDir = v
	}
	if v := os.Getenv("PITH_PROMPT"); v != "" {
		cfg.Prompt = v
	}
	if v := os.Getenv("PITH_BANNER"); v != "" {
		cfg.Banner = v
	}
	return cfg
}

// BindFlags registers cfg's fields on fs so the CLI layer can override
// every lower layer. Call ApplyFlags after fs.Parse to copy the parsed
// values back onto cfg.
func BindFlags(fs *pflag.FlagSet, cfg Config) *FlagBinding {
	fb := &FlagBinding{}
	fb.gcMinThreshold = fs.Int64("gc-min-threshold", cfg.GCMinThreshold, "minimum GC allocation threshold in bytes")
	fb.gcMaxRootDepth = fs.Int("gc-max-root-depth", cfg.GCMaxRootDepth, "maximum temporary GC root stack depth")
	fb.stdlibDir = fs.String("stdlib-dir", cfg.StdlibDir, "directory containing stdlib .pith sources")
	fb.prompt = fs.String("prompt", cfg.Prompt, "REPL prompt string")
	fb.banner = fs.String("banner", cfg.Banner, "REPL startup banner")
	return fb
}

// FlagBinding holds the pflag value pointers registered by BindFlags.
type FlagBinding struct {
	gcMinThreshold *int64
	gcMaxRootDepth *int
	stdlibDir      *string
	prompt         *string
	banner         *string
}

// ApplyFlags copies the parsed flag values from fb onto cfg.
func (fb *FlagBinding) ApplyFlags(cfg Config) Config {
	cfg.GCMinThreshold = *fb.gcMinThreshold
	cfg.GCMaxRootDepth = *fb.gcMaxRootDepth
	cfg.StdlibDir = *fb.stdlibDir
	cfg.Prompt = *fb.prompt
	cfg.Banner = *fb.banner
	return cfg
}

// Load runs the full layering: defaults, yamlPath, envPath, then the
// process environment. CLI flags are layered separately by the caller
// via BindFlags/ApplyFlags, since flag parsing needs access to os.Args.
func Load(yamlPath, envPath string) (Config, error) {
	cfg := Defaults()
	cfg, err := LoadFile(cfg, yamlPath)
	if err != nil {
		return cfg, err
	}
	cfg, err = LoadEnvFile(cfg, envPath)
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

// String renders the config for diagnostics/debug output.
func (c Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "gc_min_threshold=%d gc_max_root_depth=%d stdlib_dir=%s prompt=%q",
		c.GCMinThreshold, c.GCMaxRootDepth, c.StdlibDir, c.Prompt)
	return b.String()
}
