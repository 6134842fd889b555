package application

import (
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// StructuredLogger provides structured logging with context.
// Entries are emitted as single-line JSON on the standard logger.
type StructuredLogger struct {
	logger *log.Logger
}

// NewStructuredLogger creates a new structured logger.
func NewStructuredLogger() *StructuredLogger {
	return &StructuredLogger{
		logger: log.Default(),
	}
}

// LogInfo logs an informational message with context.
func (l *StructuredLogger) LogInfo(message string, context map[string]interface{}) {
	l.logger.Println(l.buildLogEntry("INFO", message, nil, context))
}

// LogWarn logs a warning with context. Used for observability events that
// are deliberately not surfaced as failures, e.g. a single enrichment
// fetch failing inside an otherwise successful search.
func (l *StructuredLogger) LogWarn(message string, context map[string]interface{}) {
	l.logger.Println(l.buildLogEntry("WARN", message, nil, context))
}

// LogError logs an error message with context.
func (l *StructuredLogger) LogError(message string, err error, context map[string]interface{}) {
	l.logger.Println(l.buildLogEntry("ERROR", message, err, context))
}

// buildLogEntry constructs a structured log entry.
func (l *StructuredLogger) buildLogEntry(level, message string, err error, context map[string]interface{}) string {
	entry := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"level":     level,
		"message":   message,
	}

	if err != nil {
		entry["error"] = err.Error()
	}

	for k, v := range context {
		entry[k] = v
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"level":"ERROR","message":"failed to marshal log entry","error":"%s"}`, err.Error())
	}
	return string(data)
}
