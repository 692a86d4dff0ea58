package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"snap-mosaic/src/capture"
	"snap-mosaic/src/clipboard"
	"snap-mosaic/src/config"
	"snap-mosaic/src/eventloop"
	"snap-mosaic/src/gui"
	"snap-mosaic/src/hotkey"
	"snap-mosaic/src/notification"
	"snap-mosaic/src/runtimeinit"
	"snap-mosaic/src/screenshot"
	"snap-mosaic/src/singleinstance"
	"snap-mosaic/src/sound"
	"snap-mosaic/src/tray"
	"snap-mosaic/src/worker"
)

const appID = "io.github.midevel.snapmosaic"

var version = "1.2.0"

type mainOptions struct {
	configPath     string
	logFile        string
	verbose        bool
	snap           bool
	toggleAutoSnap bool
}

func main() {
	if err := runWithArgs(normalizeLegacyArgs(os.Args)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"snap-mosaic"}
	}
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "snap-mosaic",
		Short:         "Capture a screen region repeatedly and collect the shots in a grid",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.snap && opts.toggleAutoSnap {
				return errors.New("--snap and --auto-snap are mutually exclusive")
			}
			return run(*opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to the settings file (overrides "+config.ConfigPathEnvVar+")")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Write a rotating debug log to this path")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Mirror the log to stderr")
	cmd.Flags().BoolVar(&opts.snap, "snap", false, "Ask the running instance to capture its region")
	cmd.Flags().BoolVar(&opts.toggleAutoSnap, "auto-snap", false, "Ask the running instance to start or stop Auto-Snap")

	return cmd
}

// normalizeLegacyArgs maps single-dash long flags to the GNU form cobra expects.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	long := []string{"config", "log-file", "verbose", "snap", "auto-snap"}

	normalized := make([]string, len(args))
	copy(normalized, args)
	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range long {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				normalized[i] = "-" + arg
				break
			}
		}
	}
	return normalized
}

func commandFor(opts mainOptions) singleinstance.Command {
	switch {
	case opts.snap:
		return singleinstance.CommandSnap
	case opts.toggleAutoSnap:
		return singleinstance.CommandToggleAutoSnap
	}
	return singleinstance.CommandShow
}

type delegateClient interface {
	Send(ctx context.Context, cmd singleinstance.Command) (bool, error)
}

// delegate hands cmd to a resident instance. It reports whether one answered.
func delegate(ctx context.Context, client delegateClient, cmd singleinstance.Command) (bool, error) {
	delegated, err := client.Send(ctx, cmd)
	if err != nil {
		if delegated {
			return true, fmt.Errorf("running instance rejected %s: %w", cmd, err)
		}
		return false, err
	}
	if delegated {
		log.Printf("Delegated %s to the running instance", cmd)
	}
	return delegated, nil
}

// preflight hands cmd to an already running instance. handled reports that this
// process has nothing left to do.
func preflight(ctx context.Context, detect func(context.Context) (int, bool), client delegateClient, cmd singleinstance.Command) (handled bool, err error) {
	port, ok := detect(ctx)
	if !ok {
		return false, nil
	}
	log.Printf("Pre-flight: %s already running on port %d", config.AppName, port)
	delegated, err := delegate(ctx, client, cmd)
	if delegated {
		return true, err
	}
	log.Printf("Pre-flight: delegation failed (%v), starting anyway", err)
	return false, nil
}

func run(opts mainOptions) error {
	enableDPIAwareness()

	rt, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions: config.LoadOptions{
			ConfigPathOverride: opts.configPath,
			LogFileOverride:    opts.logFile,
		},
		Verbose: opts.verbose,
	})
	if err != nil {
		return err
	}
	defer rt.Log.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if handled, err := preflight(ctx, singleinstance.DetectResidentPort, singleinstance.NewClient(), commandFor(opts)); handled {
		return err
	}
	if commandFor(opts) != singleinstance.CommandShow {
		notification.ShowBlockingError(config.AppName, "No running instance to send the command to.")
		return errors.New("no running instance")
	}

	srv := singleinstance.NewServer()
	if err := srv.Start(ctx); err != nil {
		start, end := singleinstance.PortRange()
		log.Printf("single-instance port busy (range %d-%d) but no instance answered; continuing unguarded", start, end)
		srv = nil
	} else {
		defer srv.Close()
	}

	logDisplays()
	runApp(ctx, cancel, rt, srv)
	return nil
}

func runApp(ctx context.Context, cancel context.CancelFunc, rt *runtimeinit.Runtime, srv singleinstance.Server) {
	a := app.NewWithID(appID)
	a.SetIcon(tray.Icon())

	ui := gui.New(gui.Options{App: a, Store: rt.Store, Version: version})

	// One scale source for both the overlay mapping and the capture, so a
	// selected region lands on the pixels it was drawn over.
	scale := func() float64 { return float64(ui.Window().Canvas().Scale()) }

	pool := worker.New("sound", 1, 4)
	defer pool.Close()

	pipeline := capture.New(capture.Options{
		Clipboard: clipboard.System{},
		Sound:     sound.NewSpeaker(pool),
		Store:     rt.Store,
		Scale:     scale,
		Warn:      ui.Warn,
	})

	s := rt.Store.Get()
	loop := eventloop.New(eventloop.Options{
		Store:          rt.Store,
		Pipeline:       pipeline,
		Selector:       gui.NewSelector(a, scale),
		View:           ui,
		CaptureBridge:  hotkey.NewBridge("capture", backendFor(s.HotkeyBackend)),
		AutoSnapBridge: hotkey.NewBridge("auto-snap", backendFor(s.HotkeyBackend)),
		BackendFor:     backendFor,
		Dispatch:       fyne.Do,
	})
	ui.Bind(ctx, loop)

	ui.AttachTray(tray.Setup(a, config.AppName, tray.Actions{
		Show:           ui.ShowMain,
		Snap:           func() { _ = loop.Snap() },
		ToggleAutoSnap: loop.ToggleAutoSnap,
		Quit:           ui.Quit,
	}))

	a.Lifecycle().SetOnStarted(func() {
		loop.Start()
		log.Printf("%s %s started", config.AppName, version)
	})

	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("event loop stopped: %v", err)
		}
	}()

	watcher := config.NewWatcher(rt.Store, func(s config.Settings) {
		fyne.Do(func() { loop.SettingsChanged(s) })
	})
	_ = os.MkdirAll(filepath.Dir(rt.Store.Path()), 0o755)
	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("config watcher stopped: %v", err)
		}
	}()

	if srv != nil {
		go serveDelegates(ctx, srv, func(cmd singleinstance.Command) error {
			return onUIThread(ctx, func() error { return handleDelegated(ui, loop, cmd) })
		})
	}

	go func() {
		<-ctx.Done()
		fyne.Do(ui.Quit)
	}()

	ui.ShowAndRun()
	cancel()
	log.Printf("%s exiting", config.AppName)
}

func backendFor(kind string) hotkey.Backend {
	if kind == config.BackendHook {
		return hotkey.HookBackend{}
	}
	return hotkey.RegisterBackend{}
}

type delegateTarget interface {
	ShowMain()
}

type delegateLoop interface {
	Snap() error
	ToggleAutoSnap()
}

func handleDelegated(view delegateTarget, loop delegateLoop, cmd singleinstance.Command) error {
	switch cmd {
	case singleinstance.CommandShow:
		view.ShowMain()
	case singleinstance.CommandSnap:
		return loop.Snap()
	case singleinstance.CommandToggleAutoSnap:
		loop.ToggleAutoSnap()
	default:
		return singleinstance.ErrUnknownCommand
	}
	return nil
}

// onUIThread runs fn through fyne.Do and waits for its result.
func onUIThread(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	fyne.Do(func() { result <- fn() })
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// serveDelegates answers commands from later launches until ctx ends.
func serveDelegates(ctx context.Context, srv singleinstance.Server, handle func(singleinstance.Command) error) {
	for {
		conn, err := srv.Next(ctx)
		if err != nil {
			return
		}
		if err := handle(conn.Request().Command); err != nil {
			_ = conn.RespondError(err.Error())
		} else {
			_ = conn.RespondOK()
		}
		_ = conn.Close()
	}
}

func logDisplays() {
	displays := screenshot.DisplayBounds()
	log.Printf("MONITOR: Detected %d displays", len(displays))
	for i, d := range displays {
		log.Printf("MONITOR: #%d x:%d y:%d w:%d h:%d", i, d.Min.X, d.Min.Y, d.Dx(), d.Dy())
	}
	if v, err := screenshot.VirtualBounds(); err == nil {
		log.Printf("MONITOR: Virtual screen - x:%d y:%d w:%d h:%d", v.Min.X, v.Min.Y, v.Dx(), v.Dy())
	}
}
