// Package driver describes the slice of the Vulkan API that device bring-up
// needs. The vulkan package implements it on top of vkngwrapper; the
// drivertest package provides an in-memory implementation for tests.
package driver

// Loader is the global, pre-instance entry point of the API.
type Loader interface {
	// AvailableLayers returns the names of the instance layers the loader offers.
	AvailableLayers() (NameSet, Result, error)
	// AvailableExtensions returns the names of the instance extensions the loader offers.
	AvailableExtensions() (NameSet, Result, error)
	CreateInstance(info InstanceCreateInfo) (Instance, Result, error)
}

// Instance is a created API instance.
type Instance interface {
	// DebugUtils probes for the debug utils extension. The second return value
	// is false when the extension was not enabled on this instance.
	DebugUtils() (DebugUtils, bool)
	EnumeratePhysicalDevices() ([]PhysicalDevice, Result, error)
	Destroy()
}

// DebugUtils creates messengers that report driver and validation messages.
type DebugUtils interface {
	CreateMessenger(info MessengerCreateInfo) (Messenger, Result, error)
}

// Messenger is an installed debug callback.
type Messenger interface {
	Destroy()
}

// Surface is a presentable surface bound to a window.
type Surface interface {
	Destroy()
}

// PhysicalDevice is an enumerated GPU. It is a reference only and is never
// destroyed.
type PhysicalDevice interface {
	Properties() (DeviceProperties, error)
	QueueFamilyProperties() []QueueFamilyProperties
	// SurfaceSupport reports whether the queue family at queueFamilyIndex can
	// present to surface.
	SurfaceSupport(surface Surface, queueFamilyIndex int) (bool, Result, error)
	AvailableExtensions() (NameSet, Result, error)
	CreateDevice(info DeviceCreateInfo) (Device, Result, error)
}

// Device is a created logical device.
type Device interface {
	GetQueue(queueFamilyIndex, queueIndex int) Queue
	Destroy()
}

// Queue is a command submission queue owned by a Device.
type Queue interface {
	FamilyIndex() int
}
