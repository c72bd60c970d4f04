// Package drivertest is an in-memory driver for exercising bring-up without a
// GPU. Every create and destroy call is appended to a shared CallLog so tests
// can assert ordering.
package drivertest

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/bringup/driver"
)

// ErrorResult is the result the fake reports for injected failures that don't
// specify their own.
var ErrorResult = driver.Result{Code: -3, Name: "VK_ERROR_INITIALIZATION_FAILED"}

// CallLog records driver calls in order.
type CallLog struct {
	Calls []string
}

func (l *CallLog) add(call string) {
	if l != nil {
		l.Calls = append(l.Calls, call)
	}
}

// Count returns how many times call was recorded.
func (l *CallLog) Count(call string) int {
	n := 0
	for _, c := range l.Calls {
		if c == call {
			n++
		}
	}
	return n
}

// Message is a debug message the fake emits through a chained messenger
// while an instance is being created.
type Message struct {
	Severity driver.MessageSeverity
	Category driver.MessageCategory
	Text     string
}

// Loader is a fake driver.Loader.
type Loader struct {
	Log *CallLog

	Layers     []string
	Extensions []string

	// CreateResult, when not successful, makes CreateInstance fail.
	CreateResult driver.Result
	// DebugUtilsAbsent makes Instance.DebugUtils report the extension missing
	// even when it was enabled.
	DebugUtilsAbsent bool
	// MessengerResult, when not successful, makes CreateMessenger fail.
	MessengerResult driver.Result
	// CreationMessages are delivered to a chained messenger during CreateInstance.
	CreationMessages []Message

	Devices []*PhysicalDevice

	Instances []*Instance
}

func (l *Loader) AvailableLayers() (driver.NameSet, driver.Result, error) {
	return driver.NewNameSet(l.Layers...), driver.Success, nil
}

func (l *Loader) AvailableExtensions() (driver.NameSet, driver.Result, error) {
	return driver.NewNameSet(l.Extensions...), driver.Success, nil
}

func (l *Loader) CreateInstance(info driver.InstanceCreateInfo) (driver.Instance, driver.Result, error) {
	if info.Diagnostics != nil {
		for _, msg := range l.CreationMessages {
			if info.Diagnostics.Severities&msg.Severity != 0 && info.Diagnostics.Categories&msg.Category != 0 {
				info.Diagnostics.Callback(msg.Severity, msg.Category, msg.Text)
			}
		}
	}

	if !l.CreateResult.IsSuccess() {
		l.Log.add("create instance failed")
		return nil, l.CreateResult, errors.Newf("vkCreateInstance: %s", l.CreateResult)
	}

	instance := &Instance{loader: l, Info: info}
	l.Instances = append(l.Instances, instance)
	l.Log.add("create instance")
	return instance, driver.Success, nil
}

// Instance is a fake driver.Instance.
type Instance struct {
	loader *Loader

	Info       driver.InstanceCreateInfo
	Probes     int
	Messengers []*Messenger
	Destroyed  bool
}

func (i *Instance) extensionEnabled(name string) bool {
	for _, ext := range i.Info.EnabledExtensionNames {
		if ext == name {
			return true
		}
	}
	return false
}

func (i *Instance) DebugUtils() (driver.DebugUtils, bool) {
	i.Probes++
	if i.loader.DebugUtilsAbsent || !i.extensionEnabled(driver.DebugUtilsExtension) {
		return nil, false
	}
	return &DebugUtils{instance: i}, true
}

func (i *Instance) EnumeratePhysicalDevices() ([]driver.PhysicalDevice, driver.Result, error) {
	devices := make([]driver.PhysicalDevice, 0, len(i.loader.Devices))
	for _, device := range i.loader.Devices {
		device.log = i.loader.Log
		devices = append(devices, device)
	}
	return devices, driver.Success, nil
}

func (i *Instance) Destroy() {
	i.Destroyed = true
	i.loader.Log.add("destroy instance")
}

// DebugUtils is a fake driver.DebugUtils.
type DebugUtils struct {
	instance *Instance
}

func (d *DebugUtils) CreateMessenger(info driver.MessengerCreateInfo) (driver.Messenger, driver.Result, error) {
	res := d.instance.loader.MessengerResult
	if !res.IsSuccess() {
		return nil, res, errors.Newf("vkCreateDebugUtilsMessengerEXT: %s", res)
	}

	messenger := &Messenger{log: d.instance.loader.Log, Info: info}
	d.instance.Messengers = append(d.instance.Messengers, messenger)
	d.instance.loader.Log.add("create messenger")
	return messenger, driver.Success, nil
}

// Messenger is a fake driver.Messenger.
type Messenger struct {
	log *CallLog

	Info      driver.MessengerCreateInfo
	Destroyed bool
}

// Emit delivers a message to the installed callback and returns its result.
func (m *Messenger) Emit(severity driver.MessageSeverity, category driver.MessageCategory, text string) bool {
	return m.Info.Callback(severity, category, text)
}

func (m *Messenger) Destroy() {
	m.Destroyed = true
	m.log.add("destroy messenger")
}

// Surface is a fake driver.Surface.
type Surface struct {
	log *CallLog

	Destroyed bool
}

func (s *Surface) Destroy() {
	s.Destroyed = true
	s.log.add("destroy surface")
}

// Window is a fake window that binds fake surfaces.
type Window struct {
	Log *CallLog

	Extensions []string
	// SurfaceErr makes CreateSurface fail.
	SurfaceErr error

	Surfaces  []*Surface
	Destroyed bool
}

func (w *Window) RequiredInstanceExtensions() []string {
	return w.Extensions
}

func (w *Window) CreateSurface(instance driver.Instance) (driver.Surface, error) {
	if w.SurfaceErr != nil {
		return nil, w.SurfaceErr
	}
	if _, ok := instance.(*Instance); !ok {
		return nil, errors.Newf("drivertest: cannot bind surface to %T", instance)
	}

	surface := &Surface{log: w.Log}
	w.Surfaces = append(w.Surfaces, surface)
	w.Log.add("create surface")
	return surface, nil
}

func (w *Window) Destroy() {
	w.Destroyed = true
	w.Log.add("destroy window")
}
