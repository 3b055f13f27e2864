package cloudfoundry

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kbukum/discoverykit/errors"
)

// Environment variables holding platform metadata.
const (
	EnvServices    = "VCAP_SERVICES"
	EnvApplication = "VCAP_APPLICATION"
)

// ServiceBinding is one bound service instance.
type ServiceBinding struct {
	Name        string            `json:"name"`
	Label       string            `json:"label"`
	Plan        string            `json:"plan"`
	Tags        []string          `json:"tags"`
	Credentials map[string]string `json:"-"`
}

// HasTag reports whether the binding carries tag, ignoring case.
func (b ServiceBinding) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Services groups bindings by service label.
type Services map[string][]ServiceBinding

// All returns every binding ordered by label, keeping the platform's order
// within a label.
func (s Services) All() []ServiceBinding {
	labels := make([]string, 0, len(s))
	for label := range s {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var all []ServiceBinding
	for _, label := range labels {
		all = append(all, s[label]...)
	}
	return all
}

// Application describes the running application instance.
type Application struct {
	ApplicationID   string   `json:"application_id"`
	ApplicationName string   `json:"application_name"`
	ApplicationURIs []string `json:"application_uris"`
	InstanceID      string   `json:"instance_id"`
	InstanceIndex   int      `json:"instance_index"`
	SpaceName       string   `json:"space_name"`
	Version         string   `json:"version"`
}

type rawBinding struct {
	Name        string                     `json:"name"`
	Label       string                     `json:"label"`
	Plan        string                     `json:"plan"`
	Tags        []string                   `json:"tags"`
	Credentials map[string]json.RawMessage `json:"credentials"`
}

// ParseServices decodes a VCAP_SERVICES document. Credential values that are
// not strings are kept as their JSON text; null becomes the empty string.
func ParseServices(data []byte) (Services, error) {
	var raw map[string][]rawBinding
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "malformed "+EnvServices).WithCause(err)
	}

	services := make(Services, len(raw))
	for label, bindings := range raw {
		out := make([]ServiceBinding, 0, len(bindings))
		for _, rb := range bindings {
			b := ServiceBinding{
				Name:        rb.Name,
				Label:       rb.Label,
				Plan:        rb.Plan,
				Tags:        rb.Tags,
				Credentials: make(map[string]string, len(rb.Credentials)),
			}
			if b.Label == "" {
				b.Label = label
			}
			for k, v := range rb.Credentials {
				b.Credentials[k] = credentialString(v)
			}
			out = append(out, b)
		}
		services[label] = out
	}
	return services, nil
}

func credentialString(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	text := strings.TrimSpace(string(v))
	if text == "null" {
		return ""
	}
	return text
}

// ParseApplication decodes a VCAP_APPLICATION document.
func ParseApplication(data []byte) (*Application, error) {
	var app Application
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "malformed "+EnvApplication).WithCause(err)
	}
	if app.ApplicationName == "" {
		// older platforms only set "name"
		var legacy struct {
			Name string   `json:"name"`
			URIs []string `json:"uris"`
		}
		if err := json.Unmarshal(data, &legacy); err == nil {
			app.ApplicationName = legacy.Name
			if len(app.ApplicationURIs) == 0 {
				app.ApplicationURIs = legacy.URIs
			}
		}
	}
	return &app, nil
}

// String identifies the binding in logs without exposing credentials.
func (b ServiceBinding) String() string {
	return fmt.Sprintf("%s (label=%s plan=%s)", b.Name, b.Label, b.Plan)
}
