package bringup

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/bringup/driver"
)

// Stage names, in the order Run executes them.
const (
	StageContext       = "context"
	StageDiagnostics   = "diagnostics"
	StageSurface       = "surface"
	StageSelectDevice  = "select device"
	StageLogicalDevice = "logical device"
)

// Options configures a bring-up run.
type Options struct {
	Application ApplicationInfo
	// Diagnostics, when set, makes validation layers and a debug messenger
	// mandatory.
	Diagnostics *Diagnostics
	// DeviceExtensions are required on the chosen device and enabled on the
	// logical device. Leave empty for the swapchain extension alone.
	DeviceExtensions []string
	Policy           SelectionPolicy
	Logger           logrus.FieldLogger
}

// StageTiming is how long one bring-up stage took.
type StageTiming struct {
	Stage   string
	Elapsed time.Duration
}

// Session owns every object created during bring-up, along with the window it
// was handed. Close releases them in reverse order of creation.
type Session struct {
	ID uuid.UUID

	log     logrus.FieldLogger
	timings []StageTiming

	window    Window
	context   *Context
	channel   *DiagnosticChannel
	surface   *Surface
	selection *Selection
	device    *LogicalDevice
}

// Run brings up a context, optional diagnostics, a surface, a physical device
// and a logical device, in that order. Stages run sequentially on the calling
// goroutine. On failure everything created so far is released, the window
// included, and the stage's error is returned.
func Run(loader driver.Loader, window Window, opts Options) (*Session, error) {
	s := &Session{
		ID:     uuid.New(),
		window: window,
	}
	s.log = orDiscard(opts.Logger).WithField("session", s.ID.String())

	extensions := opts.DeviceExtensions
	if len(extensions) == 0 {
		extensions = []string{driver.SwapchainExtension}
	}

	err := s.stage(StageContext, func() (err error) {
		s.context, err = CreateContext(loader, ContextOptions{
			Application:        opts.Application,
			PlatformExtensions: window.RequiredInstanceExtensions(),
			Diagnostics:        opts.Diagnostics,
		})
		return err
	})
	if err == nil && opts.Diagnostics != nil {
		err = s.stage(StageDiagnostics, func() (err error) {
			s.channel, err = InstallDiagnostics(s.context)
			return err
		})
	}
	if err == nil {
		err = s.stage(StageSurface, func() (err error) {
			s.surface, err = BindSurface(s.context, window)
			return err
		})
	}
	if err == nil {
		err = s.stage(StageSelectDevice, func() (err error) {
			s.selection, err = SelectDevice(s.context, s.surface, SelectOptions{
				RequiredExtensions: extensions,
				Policy:             opts.Policy,
				Logger:             s.log,
			})
			return err
		})
	}
	if err == nil {
		err = s.stage(StageLogicalDevice, func() (err error) {
			s.device, err = CreateLogicalDevice(s.context, s.selection.Chosen, extensions)
			return err
		})
	}

	if err != nil {
		s.Close()
		return nil, err
	}

	chosen := s.selection.Chosen
	s.log.WithFields(logrus.Fields{
		"device":         chosen.Properties.Name,
		"type":           chosen.Properties.Type.String(),
		"graphicsFamily": *chosen.Queues.GraphicsFamily,
		"presentFamily":  *chosen.Queues.PresentFamily,
		"policy":         opts.Policy.String(),
	}).Info("selected physical device")

	return s, nil
}

func (s *Session) stage(name string, fn func() error) error {
	start := hrtime.Now()
	err := fn()
	elapsed := hrtime.Since(start)
	s.timings = append(s.timings, StageTiming{Stage: name, Elapsed: elapsed})

	entry := s.log.WithFields(logrus.Fields{"stage": name, "elapsed": elapsed})
	if err != nil {
		entry.WithError(err).Error("bring-up stage failed")
		return err
	}
	entry.Debug("bring-up stage complete")
	return nil
}

// Close releases the diagnostic channel, logical device, surface, context and
// window, in that order, skipping whatever was never created. Calling Close
// more than once is harmless.
func (s *Session) Close() {
	if s == nil {
		return
	}

	s.channel.Destroy()
	s.channel = nil

	s.device.Destroy()
	s.device = nil

	s.surface.Destroy()
	s.surface = nil

	s.context.Destroy()
	s.context = nil

	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
}

func (s *Session) Context() *Context {
	return s.context
}

func (s *Session) Surface() *Surface {
	return s.surface
}

// Diagnostics returns the installed channel, or nil when diagnostics were not
// requested.
func (s *Session) Diagnostics() *DiagnosticChannel {
	return s.channel
}

// PhysicalDevice returns the chosen candidate.
func (s *Session) PhysicalDevice() *Candidate {
	if s.selection == nil {
		return nil
	}
	return s.selection.Chosen
}

// Candidates returns every physical device evaluated during selection.
func (s *Session) Candidates() []*Candidate {
	if s.selection == nil {
		return nil
	}
	return s.selection.Evaluated
}

func (s *Session) Device() *LogicalDevice {
	return s.device
}

func (s *Session) GraphicsQueue() driver.Queue {
	if s.device == nil {
		return nil
	}
	return s.device.GraphicsQueue()
}

func (s *Session) PresentQueue() driver.Queue {
	if s.device == nil {
		return nil
	}
	return s.device.PresentQueue()
}

// Timings returns the elapsed time of each stage that ran.
func (s *Session) Timings() []StageTiming {
	return s.timings
}

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return discard
}
