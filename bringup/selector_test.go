package bringup

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/vkngwrapper/bringup/driver"
	"github.com/vkngwrapper/bringup/driver/drivertest"
)

func TestParseSelectionPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    SelectionPolicy
		wantErr bool
	}{
		{"", FirstFit, false},
		{"first-fit", FirstFit, false},
		{"Best-Fit", BestFit, false},
		{" best ", BestFit, false},
		{"fastest", FirstFit, true},
	}

	for _, tt := range tests {
		got, err := ParseSelectionPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSelectionPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSelectionPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSelectDeviceNoGpu(t *testing.T) {
	loader, window := newDriver()
	ctx, surface := newContextAndSurface(t, loader, window)

	_, err := SelectDevice(ctx, surface, SelectOptions{RequiredExtensions: swapchainOnly})
	if !errors.Is(err, ErrNoGpuFound) {
		t.Fatalf("SelectDevice() error = %v, want ErrNoGpuFound", err)
	}
	if errors.Is(err, ErrNoSuitableDeviceFound) {
		t.Errorf("error %v should not also be ErrNoSuitableDeviceFound", err)
	}
}

func TestSelectDeviceNoneSuitable(t *testing.T) {
	noPresent := drivertest.NewPhysicalDevice("headless", nil, swapchainOnly, graphics)
	noGraphics := drivertest.NewPhysicalDevice("compute", []int{0}, swapchainOnly, computeOnly)
	noSwapchain := drivertest.NewPhysicalDevice("offscreen", []int{0}, nil, graphics)

	loader, window := newDriver(noPresent, noGraphics, noSwapchain)
	ctx, surface := newContextAndSurface(t, loader, window)

	for _, policy := range []SelectionPolicy{FirstFit, BestFit} {
		_, err := SelectDevice(ctx, surface, SelectOptions{RequiredExtensions: swapchainOnly, Policy: policy})
		if !errors.Is(err, ErrNoSuitableDeviceFound) {
			t.Errorf("%v: SelectDevice() error = %v, want ErrNoSuitableDeviceFound", policy, err)
		}
		if errors.Is(err, ErrNoGpuFound) {
			t.Errorf("%v: error %v should not be ErrNoGpuFound", policy, err)
		}
	}
}

func TestSelectDeviceFirstFit(t *testing.T) {
	a := drivertest.NewPhysicalDevice("A", []int{0}, nil, graphics)
	b := drivertest.NewPhysicalDevice("B", []int{0}, swapchainOnly, graphics)
	c := drivertest.NewPhysicalDevice("C", []int{0}, swapchainOnly, graphics)
	c.Props.Type = driver.DeviceTypeDiscreteGPU

	loader, window := newDriver(a, b, c)
	ctx, surface := newContextAndSurface(t, loader, window)

	selection, err := SelectDevice(ctx, surface, SelectOptions{RequiredExtensions: swapchainOnly})
	if err != nil {
		t.Fatalf("SelectDevice: %+v", err)
	}

	if selection.Chosen.Device != b {
		t.Errorf("chose %q, want B", selection.Chosen.Properties.Name)
	}
	if len(selection.Evaluated) != 2 {
		t.Errorf("evaluated %d devices, want 2", len(selection.Evaluated))
	}
	if got := selection.Evaluated[0].MissingExtensions; !equalStrings(got, swapchainOnly) {
		t.Errorf("A missing extensions = %v, want %v", got, swapchainOnly)
	}
	if len(c.SurfaceQueries) != 0 {
		t.Errorf("C was queried after a suitable device was found")
	}
}

func TestSelectDeviceBestFit(t *testing.T) {
	tests := []struct {
		name    string
		devices func() []*drivertest.PhysicalDevice
		want    string
	}{
		{
			name: "discrete beats integrated",
			devices: func() []*drivertest.PhysicalDevice {
				integrated := drivertest.NewPhysicalDevice("integrated", []int{0}, swapchainOnly, graphics)
				discrete := drivertest.NewPhysicalDevice("discrete", []int{0}, swapchainOnly, graphics)
				discrete.Props.Type = driver.DeviceTypeDiscreteGPU
				return []*drivertest.PhysicalDevice{integrated, discrete}
			},
			want: "discrete",
		},
		{
			name: "larger images win",
			devices: func() []*drivertest.PhysicalDevice {
				small := drivertest.NewPhysicalDevice("small", []int{0}, swapchainOnly, graphics)
				large := drivertest.NewPhysicalDevice("large", []int{0}, swapchainOnly, graphics)
				large.Props.MaxImageDimension2D = 16384
				return []*drivertest.PhysicalDevice{small, large}
			},
			want: "large",
		},
		{
			name: "ties keep enumeration order",
			devices: func() []*drivertest.PhysicalDevice {
				return []*drivertest.PhysicalDevice{
					drivertest.NewPhysicalDevice("first", []int{0}, swapchainOnly, graphics),
					drivertest.NewPhysicalDevice("second", []int{0}, swapchainOnly, graphics),
				}
			},
			want: "first",
		},
		{
			name: "unsuitable discrete is skipped",
			devices: func() []*drivertest.PhysicalDevice {
				discrete := drivertest.NewPhysicalDevice("discrete", nil, swapchainOnly, graphics)
				discrete.Props.Type = driver.DeviceTypeDiscreteGPU
				integrated := drivertest.NewPhysicalDevice("integrated", []int{0}, swapchainOnly, graphics)
				return []*drivertest.PhysicalDevice{discrete, integrated}
			},
			want: "integrated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			devices := tt.devices()
			loader, window := newDriver(devices...)
			ctx, surface := newContextAndSurface(t, loader, window)

			selection, err := SelectDevice(ctx, surface, SelectOptions{RequiredExtensions: swapchainOnly, Policy: BestFit})
			if err != nil {
				t.Fatalf("SelectDevice: %+v", err)
			}
			if got := selection.Chosen.Properties.Name; got != tt.want {
				t.Errorf("chose %q, want %q", got, tt.want)
			}
			if len(selection.Evaluated) != len(devices) {
				t.Errorf("evaluated %d devices, want %d", len(selection.Evaluated), len(devices))
			}
		})
	}
}

func TestSelectDeviceIsDeterministic(t *testing.T) {
	a := drivertest.NewPhysicalDevice("A", []int{1}, swapchainOnly, computeOnly, graphics)
	b := drivertest.NewPhysicalDevice("B", []int{0}, swapchainOnly, graphics)
	loader, window := newDriver(a, b)
	ctx, surface := newContextAndSurface(t, loader, window)

	for _, policy := range []SelectionPolicy{FirstFit, BestFit} {
		first, err := SelectDevice(ctx, surface, SelectOptions{RequiredExtensions: swapchainOnly, Policy: policy})
		if err != nil {
			t.Fatalf("SelectDevice: %+v", err)
		}
		second, err := SelectDevice(ctx, surface, SelectOptions{RequiredExtensions: swapchainOnly, Policy: policy})
		if err != nil {
			t.Fatalf("SelectDevice: %+v", err)
		}

		if first.Chosen.Device != second.Chosen.Device {
			t.Errorf("%v: chose %q then %q", policy, first.Chosen.Properties.Name, second.Chosen.Properties.Name)
		}
		if *first.Chosen.Queues.GraphicsFamily != *second.Chosen.Queues.GraphicsFamily ||
			*first.Chosen.Queues.PresentFamily != *second.Chosen.Queues.PresentFamily {
			t.Errorf("%v: queue assignment changed between runs", policy)
		}
	}
}

func TestSelectDeviceQueryErrorMarksUnsuitable(t *testing.T) {
	tests := []struct {
		name   string
		breaks func(d *drivertest.PhysicalDevice)
	}{
		{"properties", func(d *drivertest.PhysicalDevice) { d.PropertiesErr = errors.New("lost") }},
		{"surface support", func(d *drivertest.PhysicalDevice) { d.SurfaceErr = errors.New("lost") }},
		{"extensions", func(d *drivertest.PhysicalDevice) { d.ExtensionsErr = errors.New("lost") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broken := drivertest.NewPhysicalDevice("broken", []int{0}, swapchainOnly, graphics)
			tt.breaks(broken)
			healthy := drivertest.NewPhysicalDevice("healthy", []int{0}, swapchainOnly, graphics)

			loader, window := newDriver(broken, healthy)
			ctx, surface := newContextAndSurface(t, loader, window)
			logger, hook := test.NewNullLogger()

			selection, err := SelectDevice(ctx, surface, SelectOptions{RequiredExtensions: swapchainOnly, Logger: logger})
			if err != nil {
				t.Fatalf("SelectDevice: %+v", err)
			}
			if selection.Chosen.Device != healthy {
				t.Errorf("chose %q, want healthy", selection.Chosen.Properties.Name)
			}
			if first := selection.Evaluated[0]; first.Err == nil || first.Suitable() {
				t.Errorf("broken candidate: Err = %v, Suitable = %v", first.Err, first.Suitable())
			}

			warned := false
			for _, entry := range hook.AllEntries() {
				if entry.Level == logrus.WarnLevel {
					warned = true
				}
			}
			if !warned {
				t.Error("expected a warning for the failed query")
			}
		})
	}
}

// A device that supports every required extension is suitable. The check is
// "nothing unmet", never a constant.
func TestSelectDeviceExtensionSubset(t *testing.T) {
	required := []string{driver.SwapchainExtension, "VK_KHR_maintenance1"}

	tests := []struct {
		name       string
		extensions []string
		suitable   bool
	}{
		{"exact", required, true},
		{"superset", append([]string{"VK_EXT_extra"}, required...), true},
		{"partial", []string{driver.SwapchainExtension}, false},
		{"none", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := drivertest.NewPhysicalDevice("gpu", []int{0}, tt.extensions, graphics)
			loader, window := newDriver(device)
			ctx, surface := newContextAndSurface(t, loader, window)

			_, err := SelectDevice(ctx, surface, SelectOptions{RequiredExtensions: required})
			if got := err == nil; got != tt.suitable {
				t.Errorf("suitable = %v, want %v (err %v)", got, tt.suitable, err)
			}
		})
	}
}

func TestSelectDeviceSkipsDeviceWithoutPresentation(t *testing.T) {
	a := drivertest.NewPhysicalDevice("A", nil, swapchainOnly, graphics)
	b := drivertest.NewPhysicalDevice("B", []int{0}, swapchainOnly, graphics)
	loader, window := newDriver(a, b)
	ctx, surface := newContextAndSurface(t, loader, window)

	selection, err := SelectDevice(ctx, surface, SelectOptions{RequiredExtensions: swapchainOnly})
	if err != nil {
		t.Fatalf("SelectDevice: %+v", err)
	}
	if selection.Chosen.Device != b {
		t.Errorf("chose %q, want B", selection.Chosen.Properties.Name)
	}
	if first := selection.Evaluated[0]; first.Queues.IsComplete() || first.Queues.PresentFamily != nil {
		t.Errorf("A assignment = %+v, want no present family", first.Queues)
	}
}
