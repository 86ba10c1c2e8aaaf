package logging

import (
	"strings"

	"github.com/google/uuid"
)

// RequestIDGenerator genera ids de correlación: requests HTTP y corridas de jobs
type RequestIDGenerator struct {
	prefix string
}

// NewRequestIDGenerator creates a new request ID generator
func NewRequestIDGenerator(prefix string) *RequestIDGenerator {
	if prefix == "" {
		prefix = "req"
	}
	return &RequestIDGenerator{
		prefix: prefix,
	}
}

// Generate creates a new unique request ID
// Format: {prefix}_{uuid}
func (g *RequestIDGenerator) Generate() string {
	return g.prefix + "_" + uuid.NewString()
}

// GenerateShort creates a shorter request ID for job runs and log correlation
func (g *RequestIDGenerator) GenerateShort() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return g.prefix + "_" + id[:8]
}

var defaultGenerator = NewRequestIDGenerator("cpb")

// GenerateRequestID generates a request ID using the default generator
func GenerateRequestID() string {
	return defaultGenerator.Generate()
}

// GenerateShortRequestID generates a short request ID using the default generator
func GenerateShortRequestID() string {
	return defaultGenerator.GenerateShort()
}

// GenerateJobID genera un id corto con el nombre del job como prefijo ("health_check_1a2b3c4d")
func GenerateJobID(job string) string {
	return NewRequestIDGenerator(job).GenerateShort()
}
