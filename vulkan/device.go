package vulkan

import (
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/vkngwrapper/bringup/driver"
)

type Device struct {
	driver core1_0.CoreDeviceDriver
	queues map[[2]int]*Queue
}

// Driver returns the device driver for code that renders with the device.
func (d *Device) Driver() core1_0.CoreDeviceDriver {
	return d.driver
}

func (d *Device) GetQueue(queueFamilyIndex, queueIndex int) driver.Queue {
	key := [2]int{queueFamilyIndex, queueIndex}
	if queue, ok := d.queues[key]; ok {
		return queue
	}

	queue := &Queue{
		queue:  d.driver.GetQueue(queueFamilyIndex, queueIndex),
		family: queueFamilyIndex,
	}
	d.queues[key] = queue
	return queue
}

// Destroy releases the device. Queues fetched from it become invalid.
func (d *Device) Destroy() {
	if d.driver == nil {
		return
	}
	d.driver.DestroyDevice(nil)
	d.driver = nil
	d.queues = nil
}

type Queue struct {
	queue  core1_0.Queue
	family int
}

func (q *Queue) Handle() core1_0.Queue {
	return q.queue
}

func (q *Queue) FamilyIndex() int {
	return q.family
}
