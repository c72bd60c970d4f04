package vulkan

import (
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"

	"github.com/vkngwrapper/bringup/driver"
)

var severityFlags = []struct {
	ours   driver.MessageSeverity
	theirs ext_debug_utils.DebugUtilsMessageSeverityFlags
}{
	{driver.SeverityVerbose, ext_debug_utils.SeverityVerbose},
	{driver.SeverityInfo, ext_debug_utils.SeverityInfo},
	{driver.SeverityWarning, ext_debug_utils.SeverityWarning},
	{driver.SeverityError, ext_debug_utils.SeverityError},
}

var categoryFlags = []struct {
	ours   driver.MessageCategory
	theirs ext_debug_utils.DebugUtilsMessageTypeFlags
}{
	{driver.CategoryGeneral, ext_debug_utils.TypeGeneral},
	{driver.CategoryValidation, ext_debug_utils.TypeValidation},
	{driver.CategoryPerformance, ext_debug_utils.TypePerformance},
}

func toSeverityFlags(s driver.MessageSeverity) ext_debug_utils.DebugUtilsMessageSeverityFlags {
	var out ext_debug_utils.DebugUtilsMessageSeverityFlags
	for _, f := range severityFlags {
		if s&f.ours != 0 {
			out |= f.theirs
		}
	}
	return out
}

func fromSeverityFlags(s ext_debug_utils.DebugUtilsMessageSeverityFlags) driver.MessageSeverity {
	var out driver.MessageSeverity
	for _, f := range severityFlags {
		if s&f.theirs != 0 {
			out |= f.ours
		}
	}
	return out
}

func toTypeFlags(c driver.MessageCategory) ext_debug_utils.DebugUtilsMessageTypeFlags {
	var out ext_debug_utils.DebugUtilsMessageTypeFlags
	for _, f := range categoryFlags {
		if c&f.ours != 0 {
			out |= f.theirs
		}
	}
	return out
}

func fromTypeFlags(t ext_debug_utils.DebugUtilsMessageTypeFlags) driver.MessageCategory {
	var out driver.MessageCategory
	for _, f := range categoryFlags {
		if t&f.theirs != 0 {
			out |= f.ours
		}
	}
	return out
}

func messengerOptions(info driver.MessengerCreateInfo) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	callback := info.Callback
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: toSeverityFlags(info.Severities),
		MessageType:     toTypeFlags(info.Categories),
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			message := ""
			if data != nil {
				message = data.Message
			}
			return callback(fromSeverityFlags(severity), fromTypeFlags(msgType), message)
		},
	}
}

type DebugUtils struct {
	driver ext_debug_utils.ExtensionDriver
}

func (d *DebugUtils) CreateMessenger(info driver.MessengerCreateInfo) (driver.Messenger, driver.Result, error) {
	messenger, res, err := d.driver.CreateDebugUtilsMessenger(nil, messengerOptions(info))
	if err != nil {
		return nil, resultOf(res), err
	}
	return &Messenger{driver: d.driver, messenger: messenger}, resultOf(res), nil
}

type Messenger struct {
	driver    ext_debug_utils.ExtensionDriver
	messenger ext_debug_utils.DebugUtilsMessenger
}

func (m *Messenger) Destroy() {
	if m.driver == nil {
		return
	}
	m.driver.DestroyDebugUtilsMessenger(m.messenger, nil)
	m.driver = nil
}
