package drivertest

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/bringup/driver"
)

// PhysicalDevice is a fake driver.PhysicalDevice.
type PhysicalDevice struct {
	log *CallLog

	Props    driver.DeviceProperties
	Families []driver.QueueFamilyProperties
	// PresentFamilies lists the queue family indices that can present.
	PresentFamilies []int
	Extensions      []string

	SurfaceErr    error
	ExtensionsErr error
	PropertiesErr error
	// CreateResult, when not successful, makes CreateDevice fail.
	CreateResult driver.Result

	SurfaceQueries []int
	Created        []driver.DeviceCreateInfo
	Devices        []*Device
}

// NewPhysicalDevice returns a device with the given queue families and
// extensions. Families are described by their flags, one queue each.
func NewPhysicalDevice(name string, present []int, extensions []string, families ...driver.QueueFlags) *PhysicalDevice {
	device := &PhysicalDevice{
		Props:           driver.DeviceProperties{Name: name, Type: driver.DeviceTypeIntegratedGPU, MaxImageDimension2D: 4096},
		PresentFamilies: present,
		Extensions:      extensions,
	}
	for _, flags := range families {
		device.Families = append(device.Families, driver.QueueFamilyProperties{QueueFlags: flags, QueueCount: 1})
	}
	return device
}

func (d *PhysicalDevice) Properties() (driver.DeviceProperties, error) {
	if d.PropertiesErr != nil {
		return driver.DeviceProperties{}, d.PropertiesErr
	}
	return d.Props, nil
}

func (d *PhysicalDevice) QueueFamilyProperties() []driver.QueueFamilyProperties {
	return d.Families
}

func (d *PhysicalDevice) SurfaceSupport(surface driver.Surface, queueFamilyIndex int) (bool, driver.Result, error) {
	d.SurfaceQueries = append(d.SurfaceQueries, queueFamilyIndex)
	if d.SurfaceErr != nil {
		return false, ErrorResult, d.SurfaceErr
	}
	if s, ok := surface.(*Surface); !ok || s.Destroyed {
		return false, ErrorResult, errors.New("drivertest: surface support queried with an invalid surface")
	}

	for _, idx := range d.PresentFamilies {
		if idx == queueFamilyIndex {
			return true, driver.Success, nil
		}
	}
	return false, driver.Success, nil
}

func (d *PhysicalDevice) AvailableExtensions() (driver.NameSet, driver.Result, error) {
	if d.ExtensionsErr != nil {
		return nil, ErrorResult, d.ExtensionsErr
	}
	return driver.NewNameSet(d.Extensions...), driver.Success, nil
}

func (d *PhysicalDevice) CreateDevice(info driver.DeviceCreateInfo) (driver.Device, driver.Result, error) {
	d.Created = append(d.Created, info)
	if !d.CreateResult.IsSuccess() {
		d.log.add("create device failed")
		return nil, d.CreateResult, errors.Newf("vkCreateDevice: %s", d.CreateResult)
	}

	device := &Device{log: d.log, queues: map[[2]int]*Queue{}}
	d.Devices = append(d.Devices, device)
	d.log.add("create device")
	return device, driver.Success, nil
}

// Device is a fake driver.Device. GetQueue returns the same Queue for the
// same family and index.
type Device struct {
	log    *CallLog
	queues map[[2]int]*Queue

	QueueRequests [][2]int
	Destroyed     bool
}

func (d *Device) GetQueue(queueFamilyIndex, queueIndex int) driver.Queue {
	key := [2]int{queueFamilyIndex, queueIndex}
	d.QueueRequests = append(d.QueueRequests, key)
	q, ok := d.queues[key]
	if !ok {
		q = &Queue{Family: queueFamilyIndex, Index: queueIndex}
		d.queues[key] = q
	}
	return q
}

func (d *Device) Destroy() {
	d.Destroyed = true
	d.log.add("destroy device")
}

// Queue is a fake driver.Queue.
type Queue struct {
	Family int
	Index  int
}

func (q *Queue) FamilyIndex() int {
	return q.Family
}
