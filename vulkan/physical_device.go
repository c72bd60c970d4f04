package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/vkngwrapper/bringup/driver"
)

type PhysicalDevice struct {
	instance *Instance
	device   core1_0.PhysicalDevice
}

func (p *PhysicalDevice) Handle() core1_0.PhysicalDevice {
	return p.device
}

func (p *PhysicalDevice) Properties() (driver.DeviceProperties, error) {
	properties, err := p.instance.driver.GetPhysicalDeviceProperties(p.device)
	if err != nil {
		return driver.DeviceProperties{}, err
	}

	return driver.DeviceProperties{
		Name:                properties.DriverName,
		Type:                deviceType(properties.DriverType),
		VendorID:            uint32(properties.VendorID),
		DeviceID:            uint32(properties.DeviceID),
		MaxImageDimension2D: int(properties.Limits.MaxImageDimension2D),
		PipelineCacheUUID:   properties.PipelineCacheUUID,
	}, nil
}

func (p *PhysicalDevice) QueueFamilyProperties() []driver.QueueFamilyProperties {
	queueFamilies := p.instance.driver.GetPhysicalDeviceQueueFamilyProperties(p.device)

	families := make([]driver.QueueFamilyProperties, 0, len(queueFamilies))
	for _, queueFamily := range queueFamilies {
		families = append(families, driver.QueueFamilyProperties{
			QueueFlags: queueFlags(queueFamily.QueueFlags),
			QueueCount: int(queueFamily.QueueCount),
		})
	}
	return families
}

func (p *PhysicalDevice) SurfaceSupport(surface driver.Surface, queueFamilyIndex int) (bool, driver.Result, error) {
	s, ok := surface.(*Surface)
	if !ok || s == nil {
		return false, driver.Success, errors.Newf("cannot query support for surface %T", surface)
	}

	supported, res, err := s.extension.GetPhysicalDeviceSurfaceSupport(s.surface, p.device, queueFamilyIndex)
	return supported, resultOf(res), err
}

func (p *PhysicalDevice) AvailableExtensions() (driver.NameSet, driver.Result, error) {
	extensions, res, err := p.instance.driver.EnumerateDeviceExtensionProperties(p.device)
	if err != nil {
		return nil, resultOf(res), err
	}

	names := make(driver.NameSet, len(extensions))
	for name := range extensions {
		names[name] = struct{}{}
	}
	return names, resultOf(res), nil
}

func (p *PhysicalDevice) CreateDevice(info driver.DeviceCreateInfo) (driver.Device, driver.Result, error) {
	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	for _, queue := range info.QueueCreateInfos {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queue.QueueFamilyIndex,
			QueuePriorities:  queue.QueuePriorities,
		})
	}

	// Device layers are deprecated and vkngwrapper always passes none, so
	// info.EnabledLayerNames has no effect here.
	device, res, err := p.instance.driver.CreateDevice(p.device, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: info.EnabledExtensionNames,
	})
	if err != nil {
		return nil, resultOf(res), err
	}

	deviceDriver, err := p.instance.driver.BuildDeviceDriver(device)
	if err != nil {
		return nil, resultOf(res), errors.Wrap(err, "build device driver")
	}
	return &Device{driver: deviceDriver, queues: map[[2]int]*Queue{}}, resultOf(res), nil
}

func deviceType(t core1_0.PhysicalDeviceType) driver.DeviceType {
	switch t {
	case core1_0.PhysicalDeviceTypeIntegratedGPU:
		return driver.DeviceTypeIntegratedGPU
	case core1_0.PhysicalDeviceTypeDiscreteGPU:
		return driver.DeviceTypeDiscreteGPU
	case core1_0.PhysicalDeviceTypeVirtualGPU:
		return driver.DeviceTypeVirtualGPU
	case core1_0.PhysicalDeviceTypeCPU:
		return driver.DeviceTypeCPU
	default:
		return driver.DeviceTypeOther
	}
}

func queueFlags(flags core1_0.QueueFlags) driver.QueueFlags {
	var out driver.QueueFlags
	if flags&core1_0.QueueGraphics != 0 {
		out |= driver.QueueGraphics
	}
	if flags&core1_0.QueueCompute != 0 {
		out |= driver.QueueCompute
	}
	if flags&core1_0.QueueTransfer != 0 {
		out |= driver.QueueTransfer
	}
	return out
}
