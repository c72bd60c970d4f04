// Package vulkan implements the bring-up driver interfaces on top of
// vkngwrapper. It is the only package that talks to the Vulkan loader.
package vulkan

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"

	"github.com/vkngwrapper/bringup/driver"
)

// Loader wraps the global Vulkan driver.
type Loader struct {
	driver core1_0.GlobalDriver
}

// NewLoader creates a loader from a vkGetInstanceProcAddr pointer, usually
// obtained from the window system.
func NewLoader(procAddr unsafe.Pointer) (*Loader, error) {
	if procAddr == nil {
		return nil, errors.New("vkGetInstanceProcAddr is nil")
	}

	globalDriver, err := core.CreateDriverFromProcAddr(procAddr)
	if err != nil {
		return nil, errors.Wrap(err, "load vulkan")
	}
	return &Loader{driver: globalDriver}, nil
}

func (l *Loader) AvailableLayers() (driver.NameSet, driver.Result, error) {
	layers, res, err := l.driver.AvailableLayers()
	if err != nil {
		return nil, resultOf(res), err
	}

	names := make(driver.NameSet, len(layers))
	for name := range layers {
		names[name] = struct{}{}
	}
	return names, resultOf(res), nil
}

func (l *Loader) AvailableExtensions() (driver.NameSet, driver.Result, error) {
	extensions, res, err := l.driver.AvailableExtensions()
	if err != nil {
		return nil, resultOf(res), err
	}

	names := make(driver.NameSet, len(extensions))
	for name := range extensions {
		names[name] = struct{}{}
	}
	return names, resultOf(res), nil
}

func (l *Loader) CreateInstance(info driver.InstanceCreateInfo) (driver.Instance, driver.Result, error) {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:       info.ApplicationName,
		ApplicationVersion:    version(info.ApplicationVersion),
		EngineName:            info.EngineName,
		EngineVersion:         version(info.EngineVersion),
		APIVersion:            common.APIVersion(version(info.APIVersion)),
		EnabledExtensionNames: info.EnabledExtensionNames,
		EnabledLayerNames:     info.EnabledLayerNames,
	}

	if info.EnumeratePortability {
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	// Chained so that instance creation and destruction are reported too
	if info.Diagnostics != nil {
		instanceOptions.Next = messengerOptions(*info.Diagnostics)
	}

	instance, res, err := l.driver.CreateInstance(nil, instanceOptions)
	if err != nil {
		return nil, resultOf(res), err
	}

	instanceDriver, err := l.driver.BuildInstanceDriver(instance)
	if err != nil {
		return nil, resultOf(res), errors.Wrap(err, "build instance driver")
	}
	return &Instance{driver: instanceDriver}, resultOf(res), nil
}

func version(v driver.Version) common.Version {
	return common.CreateVersion(v.Major, v.Minor, v.Patch)
}

func resultOf(res common.VkResult) driver.Result {
	return driver.Result{Code: int32(res), Name: res.String()}
}
