package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagBinding ties a command-line flag to its configuration key.
type flagBinding struct {
	key  string
	flag string
}

// Persistent flags shared by every command.
func addPersistentFlags(cmd *cobra.Command, cfgFile *string) []flagBinding {
	fs := cmd.PersistentFlags()
	fs.StringVarP(cfgFile, "config", "c", "", "config file (default is ~/.particlefield.yaml)")

	// debug enables the FPS and simulation overlay and debug logging.
	fs.Bool("debug", false, "show the FPS and simulation overlay")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-file", "", "also write JSON logs to this rotating file")
	return []flagBinding{
		{key: "window.debug", flag: "debug"},
		{key: "logger.level", flag: "log-level"},
		{key: "logger.log_file", flag: "log-file"},
	}
}

// Flags of the window command.
func addWindowFlags(cmd *cobra.Command) []flagBinding {
	fs := cmd.Flags()
	fs.Int("width", 0, "window width in logical pixels")
	fs.Int("height", 0, "window height in logical pixels")
	fs.Int("tps", 0, "simulation ticks per second")

	// autopilot wanders the pointer across the page instead of following the mouse.
	fs.Bool("autopilot", false, "wander the pointer automatically")

	// record-pgo runs the autopilot while capturing a CPU profile, then exits.
	fs.Bool("record-pgo", false, "wander for the profiling duration while capturing a CPU profile")
	fs.String("pgo-output", "", "CPU profile output path")

	// opencl selects the GPU link solver in builds tagged opencl.
	fs.Bool("opencl", false, "find particle links with OpenCL")
	return []flagBinding{
		{key: "window.width", flag: "width"},
		{key: "window.height", flag: "height"},
		{key: "window.tps", flag: "tps"},
		{key: "window.autopilot", flag: "autopilot"},
		{key: "profiling.record_pgo", flag: "record-pgo"},
		{key: "profiling.output", flag: "pgo-output"},
		{key: "field.opencl", flag: "opencl"},
	}
}

// Flags of the terminal command.
func addTerminalFlags(cmd *cobra.Command) []flagBinding {
	fs := cmd.Flags()
	fs.Int("fps", 0, "frames per second")
	fs.Float64("cell-width", 0, "page pixels per terminal column")
	fs.Float64("cell-height", 0, "page pixels per terminal row")
	return []flagBinding{
		{key: "terminal.fps", flag: "fps"},
		{key: "terminal.cell_width", flag: "cell-width"},
		{key: "terminal.cell_height", flag: "cell-height"},
	}
}

// signupFlags carries a single registration from the command line.
type signupFlags struct {
	studentName string
	parentName  string
	email       string
	age         string
	message     string
	file        string
}

func addSignupFlags(cmd *cobra.Command, f *signupFlags) []flagBinding {
	fs := cmd.Flags()
	fs.StringVar(&f.studentName, "student-name", "", "student's name")
	fs.StringVar(&f.parentName, "parent-name", "", "parent's name")
	fs.StringVar(&f.email, "email", "", "contact email")
	fs.StringVar(&f.age, "age", "", "student's age")
	fs.StringVar(&f.message, "message", "", "optional message")
	fs.StringVarP(&f.file, "file", "f", "", "YAML file of registrations to send as a batch")
	fs.Int("concurrency", 0, "parallel sends for a batch")
	return []flagBinding{
		{key: "emailjs.concurrency", flag: "concurrency"},
	}
}

// bindFlags binds only the flags the user actually set, so unset flags do not
// shadow config file and environment values with their zero defaults.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, bindings []flagBinding) error {
	for _, b := range bindings {
		f := flags.Lookup(b.flag)
		if f == nil {
			return fmt.Errorf("unknown flag %q", b.flag)
		}
		if !f.Changed {
			continue
		}
		if err := v.BindPFlag(b.key, f); err != nil {
			return fmt.Errorf("binding flag %q: %w", b.flag, err)
		}
	}
	return nil
}
