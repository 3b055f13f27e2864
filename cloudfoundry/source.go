package cloudfoundry

import (
	"os"
	"strings"
)

// Source supplies platform metadata. Both methods return nil without error
// when the platform did not provide the document.
type Source interface {
	Services() (Services, error)
	Application() (*Application, error)
}

// EnvSource reads platform metadata from environment variables.
type EnvSource struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// NewEnvSource returns a Source backed by the process environment.
func NewEnvSource() *EnvSource {
	return &EnvSource{Getenv: os.Getenv}
}

func (s *EnvSource) getenv(key string) string {
	if s.Getenv == nil {
		return os.Getenv(key)
	}
	return s.Getenv(key)
}

// Services parses VCAP_SERVICES.
func (s *EnvSource) Services() (Services, error) {
	raw := strings.TrimSpace(s.getenv(EnvServices))
	if raw == "" {
		return nil, nil
	}
	return ParseServices([]byte(raw))
}

// Application parses VCAP_APPLICATION.
func (s *EnvSource) Application() (*Application, error) {
	raw := strings.TrimSpace(s.getenv(EnvApplication))
	if raw == "" {
		return nil, nil
	}
	return ParseApplication([]byte(raw))
}

// StaticSource serves fixed, already parsed metadata.
type StaticSource struct {
	Bindings Services
	App      *Application
}

func (s StaticSource) Services() (Services, error)        { return s.Bindings, nil }
func (s StaticSource) Application() (*Application, error) { return s.App, nil }
