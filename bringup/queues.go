package bringup

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/bringup/driver"
)

// QueueFamilyIndices records which queue family serves each role on a
// physical device. A nil field means no family was found for that role.
type QueueFamilyIndices struct {
	GraphicsFamily *int
	PresentFamily  *int
}

func (i QueueFamilyIndices) IsComplete() bool {
	return i.GraphicsFamily != nil && i.PresentFamily != nil
}

// UniqueFamilies returns the distinct family indices in role order.
func (i QueueFamilyIndices) UniqueFamilies() []int {
	var families []int
	for _, family := range []*int{i.GraphicsFamily, i.PresentFamily} {
		if family == nil {
			continue
		}
		seen := false
		for _, f := range families {
			if f == *family {
				seen = true
				break
			}
		}
		if !seen {
			families = append(families, *family)
		}
	}
	return families
}

// ResolveQueueFamilies scans the queue families of device in index order and
// keeps the first family found for each role. The scan stops as soon as both
// roles are filled; the result may be incomplete.
func ResolveQueueFamilies(device driver.PhysicalDevice, surface *Surface) (QueueFamilyIndices, error) {
	indices := QueueFamilyIndices{}
	queueFamilies := device.QueueFamilyProperties()

	for queueFamilyIdx, queueFamily := range queueFamilies {
		if indices.GraphicsFamily == nil && queueFamily.QueueFlags&driver.QueueGraphics != 0 {
			indices.GraphicsFamily = new(int)
			*indices.GraphicsFamily = queueFamilyIdx
		}

		if indices.PresentFamily == nil {
			supported, res, err := device.SurfaceSupport(surface.Handle(), queueFamilyIdx)
			if err != nil {
				return indices, errors.Wrapf(err, "query surface support for queue family %d (%s)", queueFamilyIdx, res)
			}

			if supported {
				indices.PresentFamily = new(int)
				*indices.PresentFamily = queueFamilyIdx
			}
		}

		if indices.IsComplete() {
			break
		}
	}

	return indices, nil
}
