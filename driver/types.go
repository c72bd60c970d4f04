package driver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Well-known extension names used during bring-up.
const (
	DebugUtilsExtension             = "VK_EXT_debug_utils"
	SwapchainExtension              = "VK_KHR_swapchain"
	PortabilityEnumerationExtension = "VK_KHR_portability_enumeration"
	PortabilitySubsetExtension      = "VK_KHR_portability_subset"

	KhronosValidationLayer = "VK_LAYER_KHRONOS_validation"
)

// Result is a status code returned by a driver call.
type Result struct {
	Code int32
	Name string
}

// Success is the zero Result.
var Success = Result{Name: "VK_SUCCESS"}

func (r Result) IsSuccess() bool {
	return r.Code == 0
}

func (r Result) String() string {
	if r.Name == "" {
		if r.Code == 0 {
			return "VK_SUCCESS"
		}
		return fmt.Sprintf("VkResult(%d)", r.Code)
	}
	return r.Name
}

// NameSet is a set of layer or extension names.
type NameSet map[string]struct{}

func NewNameSet(names ...string) NameSet {
	set := make(NameSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Missing returns the names in required that are not in the set, in the order
// they appear in required.
func (s NameSet) Missing(required []string) []string {
	var missing []string
	for _, name := range required {
		if !s.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Sorted returns the names in lexical order.
func (s NameSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Version is an API, application or engine version.
type Version struct {
	Major, Minor, Patch uint32
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// InstanceCreateInfo holds the parameters for Loader.CreateInstance.
type InstanceCreateInfo struct {
	ApplicationName    string
	ApplicationVersion Version
	EngineName         string
	EngineVersion      Version
	APIVersion         Version

	EnabledExtensionNames []string
	EnabledLayerNames     []string

	// EnumeratePortability sets the portability enumeration instance flag.
	EnumeratePortability bool

	// Diagnostics, when set, is chained into instance creation so messages
	// emitted while the instance is being created are reported.
	Diagnostics *MessengerCreateInfo
}

// MessageSeverity is a bitmask of debug message severities.
type MessageSeverity uint32

const (
	SeverityVerbose MessageSeverity = 1 << iota
	SeverityInfo
	SeverityWarning
	SeverityError

	SeverityAll = SeverityVerbose | SeverityInfo | SeverityWarning | SeverityError
)

var severityNames = []struct {
	flag MessageSeverity
	name string
}{
	{SeverityVerbose, "verbose"},
	{SeverityInfo, "info"},
	{SeverityWarning, "warning"},
	{SeverityError, "error"},
}

func (s MessageSeverity) String() string {
	var parts []string
	for _, n := range severityNames {
		if s&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseSeverity maps a single severity name to its flag.
func ParseSeverity(name string) (MessageSeverity, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warn" {
		name = "warning"
	}
	for _, n := range severityNames {
		if n.name == name {
			return n.flag, true
		}
	}
	return 0, false
}

// MessageCategory is a bitmask of debug message categories.
type MessageCategory uint32

const (
	CategoryGeneral MessageCategory = 1 << iota
	CategoryValidation
	CategoryPerformance

	CategoryAll = CategoryGeneral | CategoryValidation | CategoryPerformance
)

var categoryNames = []struct {
	flag MessageCategory
	name string
}{
	{CategoryGeneral, "general"},
	{CategoryValidation, "validation"},
	{CategoryPerformance, "performance"},
}

func (c MessageCategory) String() string {
	var parts []string
	for _, n := range categoryNames {
		if c&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseCategory maps a single category name to its flag.
func ParseCategory(name string) (MessageCategory, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range categoryNames {
		if n.name == name {
			return n.flag, true
		}
	}
	return 0, false
}

// MessengerCallback receives one debug message. Its return value is handed
// back to the driver; true aborts the call that triggered the message.
type MessengerCallback func(severity MessageSeverity, category MessageCategory, message string) bool

// MessengerCreateInfo configures a debug messenger.
type MessengerCreateInfo struct {
	Severities MessageSeverity
	Categories MessageCategory
	Callback   MessengerCallback
}

// DeviceType classifies a physical device.
type DeviceType int

const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

func (t DeviceType) String() string {
	switch t {
	case DeviceTypeIntegratedGPU:
		return "integrated"
	case DeviceTypeDiscreteGPU:
		return "discrete"
	case DeviceTypeVirtualGPU:
		return "virtual"
	case DeviceTypeCPU:
		return "cpu"
	default:
		return "other"
	}
}

// DeviceProperties is the subset of physical device properties bring-up uses.
type DeviceProperties struct {
	Name                string
	Type                DeviceType
	VendorID            uint32
	DeviceID            uint32
	MaxImageDimension2D int
	PipelineCacheUUID   uuid.UUID
}

// QueueFlags is a bitmask of queue family capabilities.
type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
)

// QueueFamilyProperties describes one queue family of a physical device.
type QueueFamilyProperties struct {
	QueueFlags QueueFlags
	QueueCount int
}

// DeviceQueueCreateInfo requests queues from one queue family.
type DeviceQueueCreateInfo struct {
	QueueFamilyIndex int
	QueuePriorities  []float32
}

// DeviceCreateInfo holds the parameters for PhysicalDevice.CreateDevice.
type DeviceCreateInfo struct {
	QueueCreateInfos      []DeviceQueueCreateInfo
	EnabledExtensionNames []string
	// EnabledLayerNames mirrors the instance layers for older drivers that
	// still read device layers.
	EnabledLayerNames []string
}
