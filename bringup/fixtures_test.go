package bringup

import (
	"testing"

	"github.com/vkngwrapper/bringup/driver"
	"github.com/vkngwrapper/bringup/driver/drivertest"
)

const surfaceExtension = "VK_KHR_surface"

var (
	graphics        = driver.QueueGraphics | driver.QueueCompute | driver.QueueTransfer
	computeOnly     = driver.QueueCompute | driver.QueueTransfer
	swapchainOnly   = []string{driver.SwapchainExtension}
	validationLayer = []string{driver.KhronosValidationLayer}
)

// newDriver returns a loader offering the validation layer, the surface
// extension and debug utils, and a window that needs the surface extension.
// Both share one call log.
func newDriver(devices ...*drivertest.PhysicalDevice) (*drivertest.Loader, *drivertest.Window) {
	log := &drivertest.CallLog{}
	loader := &drivertest.Loader{
		Log:        log,
		Layers:     validationLayer,
		Extensions: []string{surfaceExtension, driver.DebugUtilsExtension},
		Devices:    devices,
	}
	window := &drivertest.Window{
		Log:        log,
		Extensions: []string{surfaceExtension},
	}
	return loader, window
}

func newContextAndSurface(t *testing.T, loader *drivertest.Loader, window *drivertest.Window) (*Context, *Surface) {
	t.Helper()

	ctx, err := CreateContext(loader, ContextOptions{PlatformExtensions: window.Extensions})
	if err != nil {
		t.Fatalf("CreateContext: %+v", err)
	}
	surface, err := BindSurface(ctx, window)
	if err != nil {
		t.Fatalf("BindSurface: %+v", err)
	}
	t.Cleanup(func() {
		surface.Destroy()
		ctx.Destroy()
	})
	return ctx, surface
}

func intPtr(i int) *int {
	return &i
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
