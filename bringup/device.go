package bringup

import (
	"github.com/vkngwrapper/bringup/driver"
)

const queuePriority = float32(1.0)

// LogicalDevice is a created device with its graphics and present queues.
type LogicalDevice struct {
	device     driver.Device
	extensions []string

	graphicsQueue driver.Queue
	presentQueue  driver.Queue
}

// CreateLogicalDevice creates a device on candidate with one queue from each
// distinct family in its assignment. The assignment must be complete. Enabled
// instance layers are mirrored onto the device for older drivers.
func CreateLogicalDevice(ctx *Context, candidate *Candidate, extensions []string) (*LogicalDevice, error) {
	indices := candidate.Queues

	var queueFamilyOptions []driver.DeviceQueueCreateInfo
	for _, queueFamily := range indices.UniqueFamilies() {
		queueFamilyOptions = append(queueFamilyOptions, driver.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	var extensionNames []string
	for _, ext := range extensions {
		extensionNames = appendUnique(extensionNames, ext)
	}

	// Needed on portability implementations such as MoltenVK
	if candidate.Extensions.Has(driver.PortabilitySubsetExtension) {
		extensionNames = appendUnique(extensionNames, driver.PortabilitySubsetExtension)
	}

	device, res, err := candidate.Device.CreateDevice(driver.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledExtensionNames: extensionNames,
		EnabledLayerNames:     ctx.Layers(),
	})
	if err != nil || !res.IsSuccess() {
		return nil, fail(ErrLogicalDeviceCreationFailed, res, err, "create device on %q", candidate.Properties.Name)
	}

	logical := &LogicalDevice{
		device:     device,
		extensions: extensionNames,
	}

	logical.graphicsQueue = device.GetQueue(*indices.GraphicsFamily, 0)
	if *indices.PresentFamily == *indices.GraphicsFamily {
		logical.presentQueue = logical.graphicsQueue
	} else {
		logical.presentQueue = device.GetQueue(*indices.PresentFamily, 0)
	}

	ctx.devices = append(ctx.devices, logical)
	return logical, nil
}

func (d *LogicalDevice) GraphicsQueue() driver.Queue {
	return d.graphicsQueue
}

func (d *LogicalDevice) PresentQueue() driver.Queue {
	return d.presentQueue
}

// Extensions returns the device extensions that were enabled.
func (d *LogicalDevice) Extensions() []string {
	return d.extensions
}

// Handle returns the driver device, or nil once destroyed.
func (d *LogicalDevice) Handle() driver.Device {
	if d == nil {
		return nil
	}
	return d.device
}

// Destroy destroys the device. Its queues are released with it.
func (d *LogicalDevice) Destroy() {
	if d == nil || d.device == nil {
		return
	}
	d.device.Destroy()
	d.device = nil
	d.graphicsQueue = nil
	d.presentQueue = nil
}
