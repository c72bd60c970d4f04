package vulkan

import (
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

type Surface struct {
	extension khr_surface.ExtensionDriver
	surface   khr_surface.Surface
}

func (s *Surface) Handle() khr_surface.Surface {
	return s.surface
}

func (s *Surface) Destroy() {
	if s.extension == nil {
		return
	}
	s.extension.DestroySurface(s.surface, nil)
	s.extension = nil
}
