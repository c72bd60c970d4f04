package bringup

import (
	"github.com/vkngwrapper/bringup/driver"
)

// ApplicationInfo identifies the application to the driver.
type ApplicationInfo struct {
	Name          string
	Version       driver.Version
	EngineName    string
	EngineVersion driver.Version
	APIVersion    driver.Version
}

// ContextOptions configures CreateContext.
type ContextOptions struct {
	Application ApplicationInfo
	// PlatformExtensions are the instance extensions the window system needs.
	PlatformExtensions []string
	// Diagnostics is nil when diagnostics were not requested.
	Diagnostics *Diagnostics
}

// Context is a created graphics API instance.
type Context struct {
	instance    driver.Instance
	diagnostics *Diagnostics
	debugUtils  driver.DebugUtils

	extensions []string
	layers     []string

	// Objects created from this context, released before the instance.
	channels []*DiagnosticChannel
	devices  []*LogicalDevice
	surfaces []*Surface
}

// CreateContext validates the requested diagnostics and creates an instance
// with the platform extensions enabled. When diagnostics are requested the
// messenger configuration is chained into instance creation so failures
// during creation are reported through the sink.
func CreateContext(loader driver.Loader, opts ContextOptions) (*Context, error) {
	if opts.Diagnostics != nil {
		if err := validateDiagnostics(loader, opts.Diagnostics); err != nil {
			return nil, err
		}
	}

	available, res, err := loader.AvailableExtensions()
	if err != nil {
		return nil, fail(ErrContextCreationFailed, res, err, "enumerate instance extensions")
	}

	app := opts.Application
	info := driver.InstanceCreateInfo{
		ApplicationName:    app.Name,
		ApplicationVersion: app.Version,
		EngineName:         app.EngineName,
		EngineVersion:      app.EngineVersion,
		APIVersion:         app.APIVersion,
	}

	for _, ext := range opts.PlatformExtensions {
		if !available.Has(ext) {
			return nil, fail(ErrContextCreationFailed, driver.Success, nil,
				"cannot initialize window system: missing extension %s", ext)
		}
		info.EnabledExtensionNames = appendUnique(info.EnabledExtensionNames, ext)
	}

	if opts.Diagnostics != nil {
		info.EnabledExtensionNames = appendUnique(info.EnabledExtensionNames, driver.DebugUtilsExtension)
		info.EnabledLayerNames = append(info.EnabledLayerNames, opts.Diagnostics.Layers...)

		messengerInfo := opts.Diagnostics.messengerCreateInfo()
		info.Diagnostics = &messengerInfo
	}

	if available.Has(driver.PortabilityEnumerationExtension) {
		info.EnabledExtensionNames = appendUnique(info.EnabledExtensionNames, driver.PortabilityEnumerationExtension)
		info.EnumeratePortability = true
	}

	instance, res, err := loader.CreateInstance(info)
	if err != nil || !res.IsSuccess() {
		return nil, fail(ErrContextCreationFailed, res, err, "create instance")
	}

	ctx := &Context{
		instance:    instance,
		diagnostics: opts.Diagnostics,
		extensions:  info.EnabledExtensionNames,
		layers:      info.EnabledLayerNames,
	}

	if opts.Diagnostics != nil {
		if debugUtils, ok := instance.DebugUtils(); ok {
			ctx.debugUtils = debugUtils
		}
	}

	return ctx, nil
}

// Instance returns the underlying driver instance, or nil once destroyed.
func (c *Context) Instance() driver.Instance {
	if c == nil {
		return nil
	}
	return c.instance
}

// Extensions returns the instance extensions that were enabled.
func (c *Context) Extensions() []string {
	return c.extensions
}

// Layers returns the instance layers that were enabled.
func (c *Context) Layers() []string {
	return c.layers
}

// DiagnosticsEnabled reports whether the context was created with diagnostics.
func (c *Context) DiagnosticsEnabled() bool {
	return c.diagnostics != nil
}

// Destroy destroys the instance. Diagnostic channels, logical devices and
// surfaces created from the context that are still alive are destroyed
// first, in that order.
func (c *Context) Destroy() {
	if c == nil || c.instance == nil {
		return
	}

	for _, channel := range c.channels {
		channel.Destroy()
	}
	for _, device := range c.devices {
		device.Destroy()
	}
	for _, surface := range c.surfaces {
		surface.Destroy()
	}
	c.channels, c.devices, c.surfaces = nil, nil, nil

	c.instance.Destroy()
	c.instance = nil
	c.debugUtils = nil
}

func appendUnique(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}
