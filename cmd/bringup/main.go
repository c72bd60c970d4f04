package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"

	"github.com/vkngwrapper/bringup/bringup"
	"github.com/vkngwrapper/bringup/config"
	"github.com/vkngwrapper/bringup/logging"
	"github.com/vkngwrapper/bringup/sdlwindow"
	"github.com/vkngwrapper/bringup/vulkan"
)

const frameInterval = 16 * time.Millisecond

type flags struct {
	configPath  string
	envPath     string
	listDevices bool
	diagnostics bool
	// diagnosticsSet is true when -diagnostics was given explicitly.
	diagnosticsSet bool
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("bringup", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&f.envPath, "env", "", "path to a dotenv file with BRINGUP_* overrides")
	fs.BoolVar(&f.listDevices, "list-devices", false, "evaluate every physical device, print a report and exit")
	fs.BoolVar(&f.diagnostics, "diagnostics", false, "require validation layers and a debug messenger")

	if err := fs.Parse(args); err != nil {
		return f, err
	}
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "diagnostics" {
			f.diagnosticsSet = true
		}
	})
	return f, nil
}

func run(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}

	if f.envPath != "" {
		if err := config.LoadEnvFile(f.envPath); err != nil {
			return err
		}
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if f.diagnosticsSet {
		cfg.Diagnostics.Enabled = f.diagnostics
	}

	logger := logging.New(cfg.Logging)

	opts, err := cfg.BringupOptions()
	if err != nil {
		return err
	}
	opts.Logger = logger
	if opts.Diagnostics != nil {
		opts.Diagnostics.Sink = logging.DiagnosticSink(logger)
	}
	if f.listDevices {
		opts.Policy = bringup.BestFit
	}

	window, err := sdlwindow.New(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}

	loader, err := vulkan.NewLoader(window.ProcAddr())
	if err != nil {
		window.Destroy()
		return err
	}

	// Run owns the window from here on
	session, err := bringup.Run(loader, window, opts)
	if err != nil {
		return err
	}
	defer session.Close()

	for _, timing := range session.Timings() {
		logger.WithFields(log.Fields{
			"session": session.ID.String(),
			"stage":   timing.Stage,
			"elapsed": timing.Elapsed,
		}).Info("stage timing")
	}

	if f.listDevices {
		return printCandidates(os.Stdout, session.Candidates(), session.PhysicalDevice())
	}

	logger.Info("bring-up complete, close the window to exit")
	for window.PollEvents(); !window.ShouldClose(); window.PollEvents() {
		time.Sleep(frameInterval)
	}
	return nil
}

func printCandidates(out io.Writer, candidates []*bringup.Candidate, chosen *bringup.Candidate) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tINDEX\tNAME\tTYPE\tVENDOR\tDEVICE\tGRAPHICS\tPRESENT\tMISSING\tSCORE\tPIPELINE CACHE")

	for _, c := range candidates {
		marker := ""
		if c == chosen {
			marker = "*"
		}

		missing := strings.Join(c.MissingExtensions, ",")
		if c.Err != nil {
			missing = "error: " + c.Err.Error()
		}
		if missing == "" {
			missing = "-"
		}

		score := "-"
		if c.Suitable() {
			score = fmt.Sprint(c.Score)
		}

		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%#04x\t%#04x\t%s\t%s\t%s\t%s\t%s\n",
			marker, c.Index, c.Properties.Name, c.Properties.Type,
			c.Properties.VendorID, c.Properties.DeviceID,
			family(c.Queues.GraphicsFamily), family(c.Queues.PresentFamily),
			missing, score, c.Properties.PipelineCacheUUID)
	}

	return errors.Wrap(w.Flush(), "write device report")
}

func family(idx *int) string {
	if idx == nil {
		return "-"
	}
	return fmt.Sprint(*idx)
}

func main() {
	runtime.LockOSThread()

	err := run(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		for _, hint := range errors.GetAllHints(err) {
			log.Info(hint)
		}
		log.Fatalf("%+v\n", err)
	}
}
