package bringup

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/bringup/driver"
)

// SelectionPolicy decides which suitable physical device is chosen.
type SelectionPolicy int

const (
	// FirstFit picks the first suitable device in enumeration order and stops
	// scanning there.
	FirstFit SelectionPolicy = iota
	// BestFit evaluates every device and picks the suitable one with the
	// highest score. Ties go to the earlier device.
	BestFit
)

func (p SelectionPolicy) String() string {
	switch p {
	case BestFit:
		return "best-fit"
	default:
		return "first-fit"
	}
}

// ParseSelectionPolicy accepts "first-fit" or "best-fit". An empty string is
// FirstFit.
func ParseSelectionPolicy(s string) (SelectionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first-fit", "firstfit", "first":
		return FirstFit, nil
	case "best-fit", "bestfit", "best":
		return BestFit, nil
	default:
		return FirstFit, errors.Newf("unknown device selection policy %q", s)
	}
}

// Candidate is an evaluated physical device.
type Candidate struct {
	// Index is the position of the device in enumeration order.
	Index      int
	Device     driver.PhysicalDevice
	Properties driver.DeviceProperties
	Queues     QueueFamilyIndices
	// Extensions are the device extensions the device supports.
	Extensions        driver.NameSet
	MissingExtensions []string
	// Err is set when a query against the device failed; such a device is
	// never suitable.
	Err error
	// Score is only computed for suitable devices.
	Score int
}

// Suitable reports whether the device has a complete queue family assignment
// and every required extension.
func (c *Candidate) Suitable() bool {
	return c.Err == nil && c.Queues.IsComplete() && len(c.MissingExtensions) == 0
}

// SelectOptions configures SelectDevice.
type SelectOptions struct {
	RequiredExtensions []string
	Policy             SelectionPolicy
	Logger             logrus.FieldLogger
}

// Selection is the result of SelectDevice.
type Selection struct {
	Chosen *Candidate
	// Evaluated lists every candidate that was examined, in enumeration order.
	// Under FirstFit the list ends at the chosen device.
	Evaluated []*Candidate
}

// SelectDevice enumerates the physical devices of ctx and picks one that can
// render and present to surface.
func SelectDevice(ctx *Context, surface *Surface, opts SelectOptions) (*Selection, error) {
	log := orDiscard(opts.Logger)

	physicalDevices, res, err := ctx.Instance().EnumeratePhysicalDevices()
	if err != nil {
		return nil, fail(ErrNoGpuFound, res, err, "enumerate physical devices")
	}

	if len(physicalDevices) == 0 {
		return nil, errors.WithHint(
			fail(ErrNoGpuFound, driver.Success, nil, "instance enumerated 0 physical devices"),
			"check that a Vulkan-capable GPU driver is installed")
	}

	selection := &Selection{}
	for idx, device := range physicalDevices {
		candidate := evaluateCandidate(idx, device, surface, opts.RequiredExtensions)
		selection.Evaluated = append(selection.Evaluated, candidate)
		logCandidate(log, candidate)

		if !candidate.Suitable() {
			continue
		}

		if opts.Policy == FirstFit {
			selection.Chosen = candidate
			break
		}

		if selection.Chosen == nil || candidate.Score > selection.Chosen.Score {
			selection.Chosen = candidate
		}
	}

	if selection.Chosen == nil {
		return nil, fail(ErrNoSuitableDeviceFound, driver.Success, nil,
			"none of %d devices supports graphics, presentation and extensions %v",
			len(physicalDevices), opts.RequiredExtensions)
	}

	return selection, nil
}

func evaluateCandidate(idx int, device driver.PhysicalDevice, surface *Surface, required []string) *Candidate {
	candidate := &Candidate{Index: idx, Device: device}

	properties, err := device.Properties()
	if err != nil {
		candidate.Err = errors.Wrap(err, "get physical device properties")
		return candidate
	}
	candidate.Properties = properties

	candidate.Queues, err = ResolveQueueFamilies(device, surface)
	if err != nil {
		candidate.Err = err
		return candidate
	}

	extensions, res, err := device.AvailableExtensions()
	if err != nil {
		candidate.Err = errors.Wrapf(err, "enumerate device extensions (%s)", res)
		return candidate
	}
	candidate.Extensions = extensions
	candidate.MissingExtensions = extensions.Missing(required)

	if candidate.Suitable() {
		candidate.Score = rateDeviceSuitability(properties)
	}
	return candidate
}

// rateDeviceSuitability favors discrete GPUs, then larger maximum texture
// sizes.
func rateDeviceSuitability(properties driver.DeviceProperties) int {
	score := properties.MaxImageDimension2D
	if properties.Type == driver.DeviceTypeDiscreteGPU {
		score += 1000
	}
	return score
}

func logCandidate(log logrus.FieldLogger, c *Candidate) {
	entry := log.WithFields(logrus.Fields{
		"index":    c.Index,
		"device":   c.Properties.Name,
		"type":     c.Properties.Type.String(),
		"suitable": c.Suitable(),
	})

	switch {
	case c.Err != nil:
		entry.WithError(c.Err).Warn("physical device query failed")
	case !c.Queues.IsComplete():
		entry.Debug("physical device lacks graphics or present queue family")
	case len(c.MissingExtensions) > 0:
		entry.WithField("missing", c.MissingExtensions).Debug("physical device lacks required extensions")
	default:
		entry.WithField("score", c.Score).Debug("physical device suitable")
	}
}
