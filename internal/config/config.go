package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/shaniidev/targetforge/internal/core"
)

const (
	DefaultStagingDir = "temp_images"
	DefaultOutput     = "../public/targets.mind"
	DefaultNamePrefix = "stamp"
	DefaultExtension  = "jpg"
	DefaultTimeout    = 30 * time.Second
	DefaultRetries    = 2
)

// DefaultCompiler is the argv prefix of the target compiler.
var DefaultCompiler = []string{"npx", "mindar-cli"}

type Config struct {
	Sources      []string      `yaml:"sources"`
	StagingDir   string        `yaml:"staging_dir"`
	Output       string        `yaml:"output"`
	Compiler     []string      `yaml:"compiler"`
	Timeout      time.Duration `yaml:"timeout"`
	Retries      int           `yaml:"retries"`
	KeepStaging  bool          `yaml:"keep_staging"`  // leave staged files and directory in place
	VerifyImages bool          `yaml:"verify_images"` // reject payloads without an image signature
	NamePrefix   string        `yaml:"name_prefix"`
	Extension    string        `yaml:"extension"`

	SkipPreflight bool `yaml:"-"`
	Verbose       bool `yaml:"-"`
}

func NewConfig() *Config {
	return &Config{
		StagingDir: DefaultStagingDir,
		Output:     DefaultOutput,
		Compiler:   append([]string(nil), DefaultCompiler...),
		Timeout:    DefaultTimeout,
		Retries:    DefaultRetries,
		NamePrefix: DefaultNamePrefix,
		Extension:  DefaultExtension,
	}
}

// LoadFile overlays the YAML file at path onto c. Keys missing from the file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// BindFlags registers the run flags on fs, bound to the fields of c.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.StagingDir, "staging-dir", "s", c.StagingDir, "Directory for downloaded images")
	fs.StringVarP(&c.Output, "output", "o", c.Output, "Path of the compiled targets file")
	fs.StringArrayVar(&c.Compiler, "compiler", c.Compiler, "Compiler command, one argv element per flag")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Timeout for each download attempt")
	fs.IntVar(&c.Retries, "retries", c.Retries, "Retries per image on transient errors")
	fs.BoolVar(&c.KeepStaging, "keep-staging", c.KeepStaging, "Keep the staging directory and its files")
	fs.BoolVar(&c.VerifyImages, "verify-images", c.VerifyImages, "Skip downloads that are not images")
	fs.StringVar(&c.NamePrefix, "prefix", c.NamePrefix, "File name prefix for staged images")
	fs.StringVar(&c.Extension, "ext", c.Extension, "File extension for staged images")
	fs.BoolVar(&c.SkipPreflight, "skip-preflight", c.SkipPreflight, "Do not check that the compiler is in PATH")
	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "Print per-image details")
}

// Merge copies into c the fields of from whose flag was set on fs.
func (c *Config) Merge(from *Config, fs *pflag.FlagSet) {
	if fs.Changed("staging-dir") {
		c.StagingDir = from.StagingDir
	}
	if fs.Changed("output") {
		c.Output = from.Output
	}
	if fs.Changed("compiler") {
		c.Compiler = append([]string(nil), from.Compiler...)
	}
	if fs.Changed("timeout") {
		c.Timeout = from.Timeout
	}
	if fs.Changed("retries") {
		c.Retries = from.Retries
	}
	if fs.Changed("keep-staging") {
		c.KeepStaging = from.KeepStaging
	}
	if fs.Changed("verify-images") {
		c.VerifyImages = from.VerifyImages
	}
	if fs.Changed("prefix") {
		c.NamePrefix = from.NamePrefix
	}
	if fs.Changed("ext") {
		c.Extension = from.Extension
	}
	c.SkipPreflight = from.SkipPreflight
	c.Verbose = from.Verbose
}

func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.StagingDir) == "" {
		problems = append(problems, "staging_dir is empty")
	}
	if strings.TrimSpace(c.Output) == "" {
		problems = append(problems, "output is empty")
	}
	if len(c.Compiler) == 0 || strings.TrimSpace(c.Compiler[0]) == "" {
		problems = append(problems, "compiler command is empty")
	}
	if c.Timeout <= 0 {
		problems = append(problems, "timeout must be positive")
	}
	if c.Retries < 0 {
		problems = append(problems, "retries must not be negative")
	}
	if strings.Trim(c.Extension, ". ") == "" {
		problems = append(problems, "extension is empty")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", core.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
