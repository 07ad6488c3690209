package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"particlefield/internal/observability"
	"particlefield/internal/page"
	"particlefield/internal/particles"
	"particlefield/internal/settings"
	"particlefield/internal/signup"
	"particlefield/internal/termview"
)

// errSignupFailed is returned when at least one registration was not sent.
var errSignupFailed = errors.New("registration not sent")

// app holds state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfg     *settings.Config
	cfgFile string
	start   time.Time

	// newScreen opens the terminal for the terminal command.
	newScreen func() (tcell.Screen, error)
	// runWindow hands a game to the window loop.
	runWindow func(*Game) error
}

func newApp() *app {
	return &app{
		v:         viper.New(),
		start:     time.Now(),
		newScreen: tcell.NewScreen,
		runWindow: runGame,
	}
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "particlefield",
		Short:         "Interactive particle field landing page",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.window()
		},
	}
	persistent := addPersistentFlags(root, &a.cfgFile)
	windowFlags := addWindowFlags(root)

	terminal := &cobra.Command{
		Use:   "terminal",
		Short: "Render the particle field in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.terminal(cmd.Context())
		},
	}
	terminalFlags := addTerminalFlags(terminal)

	var sf signupFlags
	signupCmd := &cobra.Command{
		Use:   "signup",
		Short: "Validate and send registrations through EmailJS",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.signup(cmd.Context(), cmd.OutOrStdout(), sf)
		},
	}
	signupBindings := addSignupFlags(signupCmd, &sf)

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		bindings := append([]flagBinding{}, persistent...)
		switch cmd {
		case root:
			bindings = append(bindings, windowFlags...)
		case terminal:
			bindings = append(bindings, terminalFlags...)
		case signupCmd:
			bindings = append(bindings, signupBindings...)
		}
		if err := bindFlags(a.v, cmd.Flags(), bindings); err != nil {
			return err
		}
		cfg, err := settings.Load(a.v, a.cfgFile)
		if err != nil {
			observability.InitializeLogger(settings.NewDefaultConfig().Logger)
			return err
		}
		if cfg.Window.Debug && cfg.Logger.Level == "info" {
			cfg.Logger.Level = "debug"
		}
		a.cfg = cfg
		observability.InitializeLogger(cfg.Logger)
		observability.GetLogger().Debug("configuration loaded", zap.String("command", cmd.Name()))
		return nil
	}
	root.AddCommand(terminal, signupCmd)
	return root
}

// simulation builds the page model and simulator shared by both renderers.
func (a *app) simulation(viewW, viewH float64, opts ...particles.Option) (*page.Document, *particles.Simulator, error) {
	doc := page.NewDocument(viewW, viewH, a.cfg.Page.Height, a.cfg.Page.SectionHeight)
	opts = append(opts, particles.WithLogger(observability.GetLogger().Named("particles")))
	sim, err := particles.NewSimulator(fieldConfig(a.cfg.Field), doc, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating simulator: %w", err)
	}
	return doc, sim, nil
}

func (a *app) window() error {
	logger := observability.GetLogger()
	var opts []particles.Option
	solverName := "cpu"
	if a.cfg.Field.OpenCL {
		fc := fieldConfig(a.cfg.Field)
		solver, err := newOpenCLLinkSolver(max(fc.MobileCount, fc.DesktopCount))
		if err != nil {
			logger.Warn("OpenCL link solver unavailable; using CPU scan", zap.Error(err))
		} else {
			defer solver.Close()
			solverName = solver.DeviceName()
			logger.Info("OpenCL link solver enabled", zap.String("device", solverName))
			opts = append(opts, particles.WithLinkFinder(solver))
		}
	}

	w, h := a.cfg.Window.Width, a.cfg.Window.Height
	doc, sim, err := a.simulation(float64(w), float64(h), opts...)
	if err != nil {
		return err
	}
	g, err := newGame(a.cfg, doc, sim, a.start)
	if err != nil {
		return err
	}
	defer g.Close()
	g.solver = solverName
	return a.runWindow(g)
}

func (a *app) terminal(ctx context.Context) error {
	logger := observability.GetLogger()
	screen, err := a.newScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()

	tc := a.cfg.Terminal
	cols, rows := screen.Size()
	doc, sim, err := a.simulation(float64(cols)*tc.CellWidth, float64(rows)*tc.CellHeight)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	observability.NewLoadTimer(a.start, logger).Mark(time.Now())
	return termview.Run(ctx, screen, sim, doc, termview.Options{
		FPS:        tc.FPS,
		CellW:      tc.CellWidth,
		CellH:      tc.CellHeight,
		ScrollStep: a.cfg.Page.ScrollStep,
		GrowStep:   growStep,
		Logger:     logger,
	})
}

func (a *app) signup(ctx context.Context, out io.Writer, sf signupFlags) error {
	logger := observability.GetLogger()
	ec := a.cfg.EmailJS
	sender, err := signup.NewEmailJS(signup.EmailJSConfig{
		ServiceID:  ec.ServiceID,
		TemplateID: ec.TemplateID,
		PublicKey:  ec.PublicKey,
		Endpoint:   ec.Endpoint,
		Timeout:    ec.Timeout,
		RateLimit:  ec.RateLimit,
		Burst:      ec.Burst,
	}, nil, logger)
	if err != nil {
		return fmt.Errorf("configuring email relay: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var regs []signup.Registration
	if sf.file != "" {
		f, err := os.Open(sf.file)
		if err != nil {
			return fmt.Errorf("opening batch file: %w", err)
		}
		defer f.Close()
		if regs, err = signup.LoadBatch(f); err != nil {
			return err
		}
	} else {
		regs = []signup.Registration{{
			StudentName: sf.studentName,
			ParentName:  sf.parentName,
			Email:       sf.email,
			Age:         sf.age,
			Message:     sf.message,
		}}
	}

	results := signup.SubmitAll(ctx, sender, regs, ec.Concurrency, logger)
	failed := 0
	for i, res := range results {
		reg := regs[i].Normalize()
		fmt.Fprintf(out, "%s <%s>: %s\n", reg.StudentName, reg.Email, res.Message)
		for _, field := range res.Fields.Names() {
			fmt.Fprintf(out, "  %s: %s\n", field, res.Fields[field])
		}
		if !res.OK {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errSignupFailed, failed, len(results))
	}
	return nil
}
