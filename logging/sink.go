package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/bringup/bringup"
	"github.com/vkngwrapper/bringup/driver"
)

// DiagnosticSink returns a sink that logs each driver message at the level
// matching its severity, tagged with its category.
func DiagnosticSink(log logrus.FieldLogger) bringup.Sink {
	return func(severity driver.MessageSeverity, category driver.MessageCategory, message string) {
		entry := log.WithFields(logrus.Fields{
			"source":   "vulkan",
			"category": category.String(),
		})

		switch {
		case severity&driver.SeverityError != 0:
			entry.Error(message)
		case severity&driver.SeverityWarning != 0:
			entry.Warn(message)
		case severity&driver.SeverityInfo != 0:
			entry.Info(message)
		default:
			entry.Debug(message)
		}
	}
}
