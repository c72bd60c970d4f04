package bringup

import (
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/bringup/driver"
	"github.com/vkngwrapper/bringup/driver/drivertest"
)

func TestCreateContextWithoutDiagnostics(t *testing.T) {
	loader, window := newDriver()

	ctx, err := CreateContext(loader, ContextOptions{
		Application: ApplicationInfo{
			Name:       "triangle",
			Version:    driver.Version{Major: 1},
			EngineName: "No Engine",
			APIVersion: driver.Version{Major: 1, Minor: 2},
		},
		PlatformExtensions: window.Extensions,
	})
	if err != nil {
		t.Fatalf("CreateContext: %+v", err)
	}
	defer ctx.Destroy()

	instance := loader.Instances[0]
	if !equalStrings(instance.Info.EnabledExtensionNames, []string{surfaceExtension}) {
		t.Errorf("enabled extensions = %v", instance.Info.EnabledExtensionNames)
	}
	if len(instance.Info.EnabledLayerNames) != 0 {
		t.Errorf("enabled layers = %v, want none", instance.Info.EnabledLayerNames)
	}
	if instance.Info.Diagnostics != nil {
		t.Error("messenger chained without diagnostics")
	}
	if instance.Info.ApplicationName != "triangle" || instance.Info.APIVersion.Minor != 2 {
		t.Errorf("application info = %+v", instance.Info)
	}
	if instance.Probes != 0 {
		t.Errorf("debug utils probed %d times without diagnostics", instance.Probes)
	}
	if ctx.DiagnosticsEnabled() {
		t.Error("DiagnosticsEnabled() = true")
	}
}

func TestCreateContextWithDiagnostics(t *testing.T) {
	loader, window := newDriver()

	ctx, err := CreateContext(loader, ContextOptions{
		PlatformExtensions: window.Extensions,
		Diagnostics:        &Diagnostics{Layers: validationLayer},
	})
	if err != nil {
		t.Fatalf("CreateContext: %+v", err)
	}
	defer ctx.Destroy()

	instance := loader.Instances[0]
	wantExtensions := []string{surfaceExtension, driver.DebugUtilsExtension}
	if !equalStrings(instance.Info.EnabledExtensionNames, wantExtensions) {
		t.Errorf("enabled extensions = %v, want %v", instance.Info.EnabledExtensionNames, wantExtensions)
	}
	if !equalStrings(ctx.Layers(), validationLayer) {
		t.Errorf("enabled layers = %v", ctx.Layers())
	}
	if instance.Info.Diagnostics == nil {
		t.Error("no messenger chained into instance creation")
	}
	if instance.Probes != 1 {
		t.Errorf("debug utils probed %d times, want 1", instance.Probes)
	}
}

func TestCreateContextPortabilityEnumeration(t *testing.T) {
	loader, window := newDriver()
	loader.Extensions = append(loader.Extensions, driver.PortabilityEnumerationExtension)

	ctx, err := CreateContext(loader, ContextOptions{PlatformExtensions: window.Extensions})
	if err != nil {
		t.Fatalf("CreateContext: %+v", err)
	}
	defer ctx.Destroy()

	info := loader.Instances[0].Info
	if !info.EnumeratePortability {
		t.Error("portability enumeration not requested")
	}
	if !driver.NewNameSet(info.EnabledExtensionNames...).Has(driver.PortabilityEnumerationExtension) {
		t.Errorf("enabled extensions = %v", info.EnabledExtensionNames)
	}
}

func TestCreateContextFailures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*drivertest.Loader)
		opts    ContextOptions
		wantErr error
	}{
		{
			name:    "missing platform extension",
			setup:   func(l *drivertest.Loader) { l.Extensions = nil },
			opts:    ContextOptions{PlatformExtensions: []string{surfaceExtension}},
			wantErr: ErrContextCreationFailed,
		},
		{
			name:    "instance creation fails",
			setup:   func(l *drivertest.Loader) { l.CreateResult = drivertest.ErrorResult },
			opts:    ContextOptions{PlatformExtensions: []string{surfaceExtension}},
			wantErr: ErrContextCreationFailed,
		},
		{
			name:    "validation layer missing",
			setup:   func(l *drivertest.Loader) { l.Layers = nil },
			opts:    ContextOptions{Diagnostics: &Diagnostics{Layers: validationLayer}},
			wantErr: ErrDiagnosticsUnavailable,
		},
		{
			name:    "debug utils missing",
			setup:   func(l *drivertest.Loader) { l.Extensions = []string{surfaceExtension} },
			opts:    ContextOptions{Diagnostics: &Diagnostics{Layers: validationLayer}},
			wantErr: ErrDiagnosticsUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, _ := newDriver()
			tt.setup(loader)

			ctx, err := CreateContext(loader, tt.opts)
			if ctx != nil {
				t.Error("expected no context on failure")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if len(loader.Instances) != 0 {
				t.Errorf("%d instances left behind", len(loader.Instances))
			}
		})
	}
}

func TestCreateContextFailureCarriesResult(t *testing.T) {
	loader, window := newDriver()
	loader.CreateResult = drivertest.ErrorResult

	_, err := CreateContext(loader, ContextOptions{PlatformExtensions: window.Extensions})
	res, ok := ResultOf(err)
	if !ok || res.Name != "VK_ERROR_INITIALIZATION_FAILED" {
		t.Errorf("ResultOf(%v) = %v, %v", err, res, ok)
	}
}

func TestContextDestroyIsIdempotent(t *testing.T) {
	loader, window := newDriver()
	ctx, err := CreateContext(loader, ContextOptions{PlatformExtensions: window.Extensions})
	if err != nil {
		t.Fatalf("CreateContext: %+v", err)
	}

	ctx.Destroy()
	ctx.Destroy()

	if n := loader.Log.Count("destroy instance"); n != 1 {
		t.Errorf("instance destroyed %d times, want 1", n)
	}
	if ctx.Instance() != nil {
		t.Error("Instance() should be nil after Destroy")
	}
}

func TestContextDestroyReleasesIssuedObjects(t *testing.T) {
	loader, window := newDriver(drivertest.NewPhysicalDevice("gpu", []int{0}, swapchainOnly, graphics))
	ctx, err := CreateContext(loader, ContextOptions{
		PlatformExtensions: window.Extensions,
		Diagnostics:        &Diagnostics{Layers: validationLayer},
	})
	if err != nil {
		t.Fatalf("CreateContext: %+v", err)
	}

	surface, err := BindSurface(ctx, window)
	if err != nil {
		t.Fatalf("BindSurface: %+v", err)
	}
	channel, err := InstallDiagnostics(ctx)
	if err != nil {
		t.Fatalf("InstallDiagnostics: %+v", err)
	}
	selection, err := SelectDevice(ctx, surface, SelectOptions{RequiredExtensions: swapchainOnly})
	if err != nil {
		t.Fatalf("SelectDevice: %+v", err)
	}
	device, err := CreateLogicalDevice(ctx, selection.Chosen, swapchainOnly)
	if err != nil {
		t.Fatalf("CreateLogicalDevice: %+v", err)
	}

	before := len(loader.Log.Calls)
	ctx.Destroy()

	want := []string{"destroy messenger", "destroy device", "destroy surface", "destroy instance"}
	if got := loader.Log.Calls[before:]; !equalStrings(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}

	// Already released through the context.
	before = len(loader.Log.Calls)
	channel.Destroy()
	device.Destroy()
	surface.Destroy()
	if len(loader.Log.Calls) != before {
		t.Errorf("released objects made calls: %v", loader.Log.Calls[before:])
	}
}
