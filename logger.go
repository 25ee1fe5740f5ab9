// logger.go
package headingcommand

import (
	"os"

	"github.com/baditaflorin/go_heading_command/internal/adapters/logger"
	"github.com/baditaflorin/go_heading_command/internal/ports"
)

// createDefaultLogger creates and returns a default logger instance.
func createDefaultLogger() (ports.Logger, error) {
	return logger.New(logger.Options{
		Output: os.Stdout,
		Async:  true,
	})
}
