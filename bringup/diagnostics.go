package bringup

import (
	"github.com/vkngwrapper/bringup/driver"
)

// Sink receives driver and validation messages.
type Sink func(severity driver.MessageSeverity, category driver.MessageCategory, message string)

// Diagnostics requests validation layers and a debug messenger. When set on
// Options, diagnostics are mandatory: bring-up fails if they can't be honored.
type Diagnostics struct {
	Layers []string
	// Severities defaults to warnings and errors.
	Severities driver.MessageSeverity
	// Categories defaults to every category.
	Categories driver.MessageCategory
	Sink       Sink
}

// continueCall is the value every debug callback hands back to the driver.
// Aborting the triggering call from inside a debug callback is undefined.
const continueCall = false

func (d *Diagnostics) messengerCreateInfo() driver.MessengerCreateInfo {
	severities := d.Severities
	if severities == 0 {
		severities = driver.SeverityWarning | driver.SeverityError
	}
	categories := d.Categories
	if categories == 0 {
		categories = driver.CategoryAll
	}

	sink := d.Sink
	return driver.MessengerCreateInfo{
		Severities: severities,
		Categories: categories,
		Callback: func(severity driver.MessageSeverity, category driver.MessageCategory, message string) bool {
			if sink != nil {
				sink(severity, category, message)
			}
			return continueCall
		},
	}
}

// DiagnosticChannel is a debug messenger installed for the lifetime of a
// Context.
type DiagnosticChannel struct {
	messenger driver.Messenger
}

// InstallDiagnostics installs a long-lived debug messenger on ctx. It returns
// a nil channel and no error when ctx was created without diagnostics.
func InstallDiagnostics(ctx *Context) (*DiagnosticChannel, error) {
	if ctx.diagnostics == nil {
		return nil, nil
	}

	if ctx.debugUtils == nil {
		return nil, withSDKHint(fail(ErrDiagnosticsUnavailable, driver.Success, nil,
			"instance does not expose %s", driver.DebugUtilsExtension))
	}

	messenger, res, err := ctx.debugUtils.CreateMessenger(ctx.diagnostics.messengerCreateInfo())
	if err != nil || !res.IsSuccess() {
		return nil, fail(ErrDiagnosticsUnavailable, res, err, "create debug messenger")
	}

	channel := &DiagnosticChannel{messenger: messenger}
	ctx.channels = append(ctx.channels, channel)
	return channel, nil
}

// Destroy removes the messenger. It is a no-op on a nil or destroyed channel.
func (c *DiagnosticChannel) Destroy() {
	if c == nil || c.messenger == nil {
		return
	}
	c.messenger.Destroy()
	c.messenger = nil
}
