package bringup

import (
	"github.com/vkngwrapper/bringup/driver"
)

// CheckLayerSupport reports whether every requested layer is in supported.
func CheckLayerSupport(requested []string, supported driver.NameSet) bool {
	return len(supported.Missing(requested)) == 0
}

// validateDiagnostics confirms the loader can honor a diagnostics request:
// every requested layer and the debug utils extension must be offered.
func validateDiagnostics(loader driver.Loader, diagnostics *Diagnostics) error {
	layers, res, err := loader.AvailableLayers()
	if err != nil {
		return fail(ErrDiagnosticsUnavailable, res, err, "enumerate instance layers")
	}

	if !CheckLayerSupport(diagnostics.Layers, layers) {
		missing := layers.Missing(diagnostics.Layers)
		return withSDKHint(fail(ErrDiagnosticsUnavailable, driver.Success, nil,
			"validation layers %v not available", missing))
	}

	extensions, res, err := loader.AvailableExtensions()
	if err != nil {
		return fail(ErrDiagnosticsUnavailable, res, err, "enumerate instance extensions")
	}

	if !extensions.Has(driver.DebugUtilsExtension) {
		return withSDKHint(fail(ErrDiagnosticsUnavailable, driver.Success, nil,
			"instance extension %s not available", driver.DebugUtilsExtension))
	}

	return nil
}
