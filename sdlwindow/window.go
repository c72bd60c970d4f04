// Package sdlwindow provides the SDL2 window that bring-up presents to.
package sdlwindow

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"

	"github.com/vkngwrapper/bringup/driver"
	"github.com/vkngwrapper/bringup/vulkan"
)

// Window is a resizable Vulkan-capable SDL window. SDL calls must come from
// the thread that created the window.
type Window struct {
	window *sdl.Window
	closed bool
}

// New initializes SDL video and opens a window.
func New(title string, width, height int) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, errors.Wrap(err, "initialize sdl")
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "create window")
	}

	return &Window{window: window}, nil
}

// ProcAddr returns vkGetInstanceProcAddr as loaded by SDL.
func (w *Window) ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

func (w *Window) RequiredInstanceExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

func (w *Window) CreateSurface(instance driver.Instance) (driver.Surface, error) {
	vkInstance, ok := instance.(*vulkan.Instance)
	if !ok {
		return nil, errors.Newf("sdl cannot create a surface for %T", instance)
	}

	surface, err := vkng_sdl2.CreateSurface(vkInstance.Handle(), vkInstance.SurfaceExtension(), w.window)
	if err != nil {
		return nil, err
	}
	return vkInstance.WrapSurface(surface), nil
}

// PollEvents drains the event queue.
func (w *Window) PollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch event.(type) {
		case *sdl.QuitEvent:
			w.closed = true
		}
	}
}

// ShouldClose reports whether the user asked to close the window.
func (w *Window) ShouldClose() bool {
	return w.closed
}

func (w *Window) Destroy() {
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
	}
	sdl.Quit()
}
