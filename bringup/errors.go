package bringup

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/bringup/driver"
)

// Bring-up failures. Every error returned by this package is marked with one
// of these and can be matched with errors.Is.
var (
	ErrDiagnosticsUnavailable      = errors.New("requested diagnostics are unavailable")
	ErrContextCreationFailed       = errors.New("failed to create graphics context")
	ErrSurfaceBindingFailed        = errors.New("failed to bind presentation surface")
	ErrNoGpuFound                  = errors.New("failed to find GPUs with Vulkan support")
	ErrNoSuitableDeviceFound       = errors.New("failed to find a suitable GPU")
	ErrLogicalDeviceCreationFailed = errors.New("failed to create logical device")
)

type resultError struct {
	cause  error
	result driver.Result
}

func (e *resultError) Error() string { return e.cause.Error() }
func (e *resultError) Unwrap() error { return e.cause }

// ResultOf returns the driver result carried by err, if any.
func ResultOf(err error) (driver.Result, bool) {
	var re *resultError
	if errors.As(err, &re) {
		return re.result, true
	}
	return driver.Result{}, false
}

func withSDKHint(err error) error {
	return errors.WithHint(err, "install the LunarG Vulkan SDK or disable diagnostics")
}

// fail builds a stage failure marked with kind. A non-success result is named
// in the message and can be recovered with ResultOf.
func fail(kind error, res driver.Result, cause error, format string, args ...interface{}) error {
	var err error
	switch {
	case cause != nil && !res.IsSuccess():
		err = errors.Wrapf(cause, format+" (%s)", append(args, res)...)
	case cause != nil:
		err = errors.Wrapf(cause, format, args...)
	case !res.IsSuccess():
		err = errors.Newf(format+": %s", append(args, res)...)
	default:
		err = errors.Newf(format, args...)
	}

	if !res.IsSuccess() {
		err = &resultError{cause: err, result: res}
	}
	return errors.Mark(errors.Wrap(err, kind.Error()), kind)
}
