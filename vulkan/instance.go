package vulkan

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"

	"github.com/vkngwrapper/bringup/driver"
)

// Instance wraps an instance driver.
type Instance struct {
	driver  core1_0.CoreInstanceDriver
	surface khr_surface.ExtensionDriver
}

// Handle returns the raw instance for integrations that need it.
func (i *Instance) Handle() core1_0.Instance {
	return i.driver.Instance()
}

// SurfaceExtension returns the khr_surface driver for this instance.
func (i *Instance) SurfaceExtension() khr_surface.ExtensionDriver {
	if i.surface == nil {
		i.surface = khr_surface.CreateExtensionDriverFromCoreDriver(i.driver)
	}
	return i.surface
}

// WrapSurface adopts a surface created for this instance.
func (i *Instance) WrapSurface(surface khr_surface.Surface) driver.Surface {
	return &Surface{extension: i.SurfaceExtension(), surface: surface}
}

func (i *Instance) DebugUtils() (driver.DebugUtils, bool) {
	if !i.driver.Instance().IsInstanceExtensionActive(ext_debug_utils.ExtensionName) {
		return nil, false
	}
	return &DebugUtils{driver: ext_debug_utils.CreateExtensionDriverFromCoreDriver(i.driver)}, true
}

func (i *Instance) EnumeratePhysicalDevices() ([]driver.PhysicalDevice, driver.Result, error) {
	physicalDevices, res, err := i.driver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, resultOf(res), err
	}

	devices := make([]driver.PhysicalDevice, 0, len(physicalDevices))
	for _, device := range physicalDevices {
		devices = append(devices, &PhysicalDevice{instance: i, device: device})
	}
	return devices, resultOf(res), nil
}

func (i *Instance) Destroy() {
	if i.driver == nil {
		return
	}
	i.driver.DestroyInstance(nil)
	i.driver = nil
	i.surface = nil
}
