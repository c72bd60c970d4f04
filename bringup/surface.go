package bringup

import (
	"github.com/vkngwrapper/bringup/driver"
)

// Window is the window system collaborator. A Session takes ownership of the
// window it is given and destroys it last.
type Window interface {
	// RequiredInstanceExtensions lists the instance extensions the window
	// system needs to present.
	RequiredInstanceExtensions() []string
	// CreateSurface binds a presentable surface for this window to instance.
	CreateSurface(instance driver.Instance) (driver.Surface, error)
	Destroy()
}

// Surface is a presentation surface owned by a Context.
type Surface struct {
	surface driver.Surface
}

// BindSurface creates a presentation surface for window on ctx.
func BindSurface(ctx *Context, window Window) (*Surface, error) {
	surface, err := window.CreateSurface(ctx.Instance())
	if err != nil {
		return nil, fail(ErrSurfaceBindingFailed, driver.Success, err, "create surface")
	}
	bound := &Surface{surface: surface}
	ctx.surfaces = append(ctx.surfaces, bound)
	return bound, nil
}

// Handle returns the driver surface, or nil once destroyed.
func (s *Surface) Handle() driver.Surface {
	if s == nil {
		return nil
	}
	return s.surface
}

// Destroy destroys the surface. It is a no-op on a nil or destroyed surface.
func (s *Surface) Destroy() {
	if s == nil || s.surface == nil {
		return
	}
	s.surface.Destroy()
	s.surface = nil
}
