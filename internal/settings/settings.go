// Package settings loads particlefield configuration from defaults, an
// optional YAML file and PARTICLEFIELD_* environment variables.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, with dots turned into
// underscores: PARTICLEFIELD_FIELD_DESKTOP_COUNT.
const EnvPrefix = "PARTICLEFIELD"

// DefaultConfigFile is read when no --config is given and it exists.
const DefaultConfigFile = "~/.particlefield.yaml"

// Config holds the whole application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Field     FieldConfig     `mapstructure:"field" yaml:"field"`
	Window    WindowConfig    `mapstructure:"window" yaml:"window"`
	Page      PageConfig      `mapstructure:"page" yaml:"page"`
	Terminal  TerminalConfig  `mapstructure:"terminal" yaml:"terminal"`
	EmailJS   EmailJSConfig   `mapstructure:"emailjs" yaml:"emailjs"`
	Profiling ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// LoggerConfig configures the zap logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the console color per level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// FieldConfig tunes the particle simulation.
type FieldConfig struct {
	MobileBreakpoint  float64       `mapstructure:"mobile_breakpoint" yaml:"mobile_breakpoint"`
	MobileCount       int           `mapstructure:"mobile_count" yaml:"mobile_count"`
	DesktopCount      int           `mapstructure:"desktop_count" yaml:"desktop_count"`
	InteractionRadius float64       `mapstructure:"interaction_radius" yaml:"interaction_radius"`
	LinkDistance      float64       `mapstructure:"link_distance" yaml:"link_distance"`
	RepelStrength     float64       `mapstructure:"repel_strength" yaml:"repel_strength"`
	MaxSpeed          float64       `mapstructure:"max_speed" yaml:"max_speed"`
	ResizeDebounce    time.Duration `mapstructure:"resize_debounce" yaml:"resize_debounce"`
	// OpenCL asks the window host for the GPU link solver; it is only
	// available in builds tagged opencl.
	OpenCL bool `mapstructure:"opencl" yaml:"opencl"`
}

// WindowConfig configures the desktop window.
type WindowConfig struct {
	Width     int    `mapstructure:"width" yaml:"width"`
	Height    int    `mapstructure:"height" yaml:"height"`
	Title     string `mapstructure:"title" yaml:"title"`
	TPS       int    `mapstructure:"tps" yaml:"tps"`
	Debug     bool   `mapstructure:"debug" yaml:"debug"`
	Autopilot bool   `mapstructure:"autopilot" yaml:"autopilot"`
}

// PageConfig describes the virtual page the field covers.
type PageConfig struct {
	Height        float64       `mapstructure:"height" yaml:"height"`
	SectionHeight float64       `mapstructure:"section_height" yaml:"section_height"`
	ScrollStep    float64       `mapstructure:"scroll_step" yaml:"scroll_step"`
	ToastTTL      time.Duration `mapstructure:"toast_ttl" yaml:"toast_ttl"`
}

// TerminalConfig configures the terminal renderer.
type TerminalConfig struct {
	CellWidth  float64 `mapstructure:"cell_width" yaml:"cell_width"`
	CellHeight float64 `mapstructure:"cell_height" yaml:"cell_height"`
	FPS        int     `mapstructure:"fps" yaml:"fps"`
}

// EmailJSConfig holds the email delivery credentials and client tuning.
type EmailJSConfig struct {
	Endpoint    string        `mapstructure:"endpoint" yaml:"endpoint"`
	ServiceID   string        `mapstructure:"service_id" yaml:"service_id"`
	TemplateID  string        `mapstructure:"template_id" yaml:"template_id"`
	PublicKey   string        `mapstructure:"public_key" yaml:"public_key"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RateLimit   float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
	Burst       int           `mapstructure:"burst" yaml:"burst"`
	Concurrency int           `mapstructure:"concurrency" yaml:"concurrency"`
}

// ProfilingConfig controls the scripted CPU profile capture.
type ProfilingConfig struct {
	RecordPGO bool          `mapstructure:"record_pgo" yaml:"record_pgo"`
	Output    string        `mapstructure:"output" yaml:"output"`
	Duration  time.Duration `mapstructure:"duration" yaml:"duration"`
}

// SetDefaults registers every key with its default value. Keys must be
// registered for environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "particlefield")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 20)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Field --
	v.SetDefault("field.mobile_breakpoint", 768.0)
	v.SetDefault("field.mobile_count", 30)
	v.SetDefault("field.desktop_count", 60)
	v.SetDefault("field.interaction_radius", 200.0)
	v.SetDefault("field.link_distance", 150.0)
	v.SetDefault("field.repel_strength", 2.0)
	v.SetDefault("field.max_speed", 0.25)
	v.SetDefault("field.resize_debounce", "250ms")
	v.SetDefault("field.opencl", false)

	// -- Window --
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.title", "Particle Field")
	v.SetDefault("window.tps", 60)
	v.SetDefault("window.debug", false)
	v.SetDefault("window.autopilot", false)

	// -- Page --
	v.SetDefault("page.height", 4200.0)
	v.SetDefault("page.section_height", 700.0)
	v.SetDefault("page.scroll_step", 60.0)
	v.SetDefault("page.toast_ttl", "5s")

	// -- Terminal --
	v.SetDefault("terminal.cell_width", 8.0)
	v.SetDefault("terminal.cell_height", 16.0)
	v.SetDefault("terminal.fps", 30)

	// -- EmailJS --
	v.SetDefault("emailjs.endpoint", "https://api.emailjs.com/api/v1.0/email/send")
	v.SetDefault("emailjs.service_id", "")
	v.SetDefault("emailjs.template_id", "")
	v.SetDefault("emailjs.public_key", "")
	v.SetDefault("emailjs.timeout", "15s")
	v.SetDefault("emailjs.rate_limit", 1.0)
	v.SetDefault("emailjs.burst", 2)
	v.SetDefault("emailjs.concurrency", 2)

	// -- Profiling --
	v.SetDefault("profiling.record_pgo", false)
	v.SetDefault("profiling.output", "default.pgo")
	v.SetDefault("profiling.duration", "15s")
}

// Load reads configuration into v and decodes it. An explicit file must
// exist; the default file is optional.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := file != ""
	if !explicit {
		file = DefaultConfigFile
	}
	path, err := homedir.Expand(file)
	if err != nil {
		return nil, fmt.Errorf("expanding config path %q: %w", file, err)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// SetConfigFile bypasses viper's search, so a missing default file
		// surfaces as a plain fs error.
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if explicit || !missing {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// NewDefaultConfig returns a Config holding only default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}
