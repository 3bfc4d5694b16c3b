// HSV Threshold & Centroid Tracker
// Interactive colour calibration and centre-of-mass tracking for a camera
// feed or a still image.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"hsv-tracker/internal/config"
	"hsv-tracker/internal/core"
	"hsv-tracker/internal/gui"
	trackerio "hsv-tracker/internal/io"
	"hsv-tracker/internal/metrics"
)

const (
	AppName    = "HSV Tracker"
	AppID      = "com.hsvtracker.calibration"
	AppVersion = "1.0.0"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// pathList collects a repeatable -image flag.
type pathList []string

func (p *pathList) String() string { return strings.Join(*p, ",") }

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

type options struct {
	debug      bool
	configPath string
	source     string
	device     int
	pipeline   string
	images     pathList
	ui         string
	noCleanup  bool
	kernel     int
	maxFrames  int
	waitMS     int
	target     string
	tolerance  int
}

func parseFlags(args []string, stderr io.Writer) (*flag.FlagSet, *options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("hsv-tracker", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.BoolVar(&opts.debug, "debug", false, "Enable debug mode with verbose logging")
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.source, "source", "", "Frame source: camera or image")
	fs.IntVar(&opts.device, "device", 0, "Capture device index")
	fs.StringVar(&opts.pipeline, "pipeline", "", "GStreamer capture pipeline (overrides -device)")
	fs.Var(&opts.images, "image", "Still image to calibrate on (repeatable, first readable wins)")
	fs.StringVar(&opts.ui, "ui", "", "Display backend: highgui, fyne or none")
	fs.BoolVar(&opts.noCleanup, "no-cleanup", false, "Disable morphological cleanup")
	fs.IntVar(&opts.kernel, "kernel", 0, "Initial morphology kernel size (0-10)")
	fs.IntVar(&opts.maxFrames, "max-frames", 0, "Stop after this many frames (0 = no limit)")
	fs.IntVar(&opts.waitMS, "wait", 0, "UI wait per frame in milliseconds")
	fs.StringVar(&opts.target, "target", "", "Seed the threshold around a #rrggbb colour")
	fs.IntVar(&opts.tolerance, "tolerance", 0, "Tolerance for -target")

	err := fs.Parse(args)
	return fs, opts, err
}

// applyFlags overrides cfg with the flags given on the command line.
func applyFlags(fs *flag.FlagSet, opts *options, cfg *config.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.Source.Kind = opts.source
		case "device":
			cfg.Source.Device = opts.device
		case "pipeline":
			cfg.Source.Pipeline = opts.pipeline
		case "image":
			cfg.Source.ImagePaths = opts.images
		case "ui":
			cfg.Display.UI = opts.ui
		case "no-cleanup":
			cfg.Morphology.Enabled = !opts.noCleanup
		case "kernel":
			cfg.Morphology.KernelSize = opts.kernel
		case "max-frames":
			cfg.MaxFrames = opts.maxFrames
		case "wait":
			cfg.Display.WaitMS = opts.waitMS
		case "target":
			cfg.Target.Color = opts.target
		case "tolerance":
			cfg.Target.Tolerance = opts.tolerance
		}
	})
}

func run(args []string, stdout, stderr io.Writer) int {
	fs, opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	logger := initLogger(opts.debug, stderr).WithField("session_id", uuid.NewString())
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": opts.debug,
	}).Info("Starting " + AppName)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		logger.WithError(err).Error("Failed to load configuration")
		return 1
	}
	applyFlags(fs, opts, cfg)
	if err := config.Validate(cfg); err != nil {
		logger.WithError(err).Error("Invalid configuration")
		return 1
	}

	initial, err := cfg.InitialRange()
	if err != nil {
		logger.WithError(err).Error("Invalid target colour")
		return 1
	}
	store := core.NewCalibrationStore(initial, cfg.Morphology.KernelSize, cfg.Morphology.Enabled)
	logger.WithFields(logrus.Fields{
		"range":   initial.String(),
		"kernel":  cfg.Morphology.KernelSize,
		"cleanup": cfg.Morphology.Enabled,
	}).Debug("Calibration seeded")

	source, titles, err := openSource(cfg, logger)
	if err != nil {
		return exitCode(err, stderr, logger)
	}

	pipeline := core.NewPipeline(store, cfg.Centroid.Enabled, logger)
	defer pipeline.Close()
	reporter := metrics.NewFrameRateReporter(stdout, logger, cfg.FPS.Window, nil)
	newRunner := func(display core.Display) *core.Runner {
		return core.NewRunner(source, display, pipeline, reporter, stdout, logger, core.RunnerConfig{
			Wait:      cfg.Wait(),
			MaxFrames: cfg.MaxFrames,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Display.UI {
	case config.UIFyne:
		err = runFyne(ctx, titles, store, logger, newRunner)
	case config.UIHighGUI:
		display := gui.NewHighGUI(titles, store, logger)
		err = newRunner(display).Run(ctx)
		if cerr := display.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close windows")
		}
	default:
		err = newRunner(gui.NewHeadless(logger)).Run(ctx)
	}

	summary := reporter.Summary()
	logger.WithFields(logrus.Fields{
		"windows":    summary.Windows,
		"mean_fps":   summary.MeanFPS,
		"stddev_fps": summary.StdDev,
	}).Info("Frame rate summary")

	code := exitCode(err, stderr, logger)
	logger.Info("Application shutting down gracefully")
	return code
}

func openSource(cfg *config.Config, logger logrus.FieldLogger) (core.FrameSource, gui.Titles, error) {
	if cfg.Source.Kind == config.SourceImage {
		src, err := trackerio.OpenStaticImage(cfg.Source.ImagePaths, logger)
		if err != nil {
			return nil, gui.Titles{}, err
		}
		logger.WithField("filepath", src.Path()).Info("Calibrating on static image")
		return src, gui.ImageTitles, nil
	}

	src, err := trackerio.OpenCamera(trackerio.CameraConfig{
		Device:   cfg.Source.Device,
		Pipeline: cfg.Source.Pipeline,
	}, logger)
	if err != nil {
		return nil, gui.Titles{}, err
	}
	return src, gui.CameraTitles, nil
}

// runFyne runs the loop on a background goroutine while fyne owns the main
// one. Closing the window cancels the loop; the loop ending quits the app.
func runFyne(ctx context.Context, titles gui.Titles, store *core.CalibrationStore, logger logrus.FieldLogger,
	newRunner func(core.Display) *core.Runner) error {
	a := app.NewWithID(AppID)
	a.SetIcon(theme.DocumentIcon())
	a.Settings().SetTheme(theme.DefaultTheme())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	display := gui.NewFyneDisplay(a, titles, store, logger, cancel)
	runner := newRunner(display)

	done := make(chan error, 1)
	go func() {
		err := runner.Run(ctx)
		fyne.Do(a.Quit)
		done <- err
	}()

	display.Window().ShowAndRun()
	cancel()
	return <-done
}

// exitCode maps a run error onto its diagnostic and status. The bare
// message goes to stderr alongside the structured entry.
func exitCode(err error, stderr io.Writer, logger logrus.FieldLogger) int {
	var msg string
	switch {
	case err == nil:
		return 0
	case errors.Is(err, trackerio.ErrLoad):
		msg = "Failed to load image"
	case errors.Is(err, trackerio.ErrDeviceOpen):
		msg = "Could not open camera."
	case errors.Is(err, trackerio.ErrAcquisition):
		msg = "Could not read a frame."
	default:
		msg = "Processing failed"
	}
	logger.WithError(err).Error(msg)
	fmt.Fprintln(stderr, msg)
	return 1
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
