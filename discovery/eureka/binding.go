package eureka

import (
	"strings"

	"github.com/kbukum/discoverykit/cloudfoundry"
	"github.com/kbukum/discoverykit/config"
	"github.com/kbukum/discoverykit/discovery"
	"github.com/kbukum/discoverykit/errors"
)

// ServiceRegistryLabel is the label of the Spring Cloud Services registry broker.
const ServiceRegistryLabel = "p-service-registry"

var bindingTags = []string{"eureka", "discovery", "registry"}

// MatchesBinding reports whether b is a Eureka registry binding.
func MatchesBinding(b cloudfoundry.ServiceBinding) bool {
	if strings.EqualFold(b.Label, ServiceRegistryLabel) {
		return true
	}
	for _, tag := range bindingTags {
		if b.HasTag(tag) {
			return true
		}
	}
	return false
}

// ApplyOverride replaces the configured server URL and OAuth credentials with
// the ones from a service binding. The binding URI points at the server root,
// so "/eureka/" is appended when missing.
func ApplyOverride(opts *ClientOptions, o discovery.ConnectionOverride) {
	if o.ServiceURL != "" {
		opts.ServiceURL = serviceURLFromBinding(o.ServiceURL)
	}
	if o.ClientID != "" {
		opts.ClientID = o.ClientID
	}
	if o.ClientSecret != "" {
		opts.ClientSecret = o.ClientSecret
	}
	if o.AccessTokenURI != "" {
		opts.AccessTokenURI = o.AccessTokenURI
	}
}

func serviceURLFromBinding(uri string) string {
	trimmed := strings.TrimRight(uri, "/")
	if strings.HasSuffix(trimmed, "/eureka") {
		return trimmed + "/"
	}
	return trimmed + "/eureka/"
}

// ApplyApplication fills instance defaults from the running platform
// application. Any key present in tree keeps its configured value.
func ApplyApplication(opts *InstanceOptions, app *cloudfoundry.Application, tree config.Tree) {
	configured := func(key string) bool {
		return tree.IsSet(InstancePrefix + "." + key)
	}

	if !configured("appName") && !tree.IsSet(ApplicationNameKey) && app.ApplicationName != "" {
		opts.AppName = app.ApplicationName
	}

	if strings.EqualFold(opts.RegistrationMethod, RegistrationMethodRoute) && len(app.ApplicationURIs) > 0 {
		if !configured("hostName") {
			opts.HostName = app.ApplicationURIs[0]
		}
		if !configured("port") {
			opts.NonSecurePort = 80
		}
	}

	if !configured("instanceId") && app.InstanceID != "" {
		opts.InstanceID = opts.EffectiveHostName() + ":" + app.InstanceID
	}
}

func asClientOptions(o discovery.ClientOptions) (*ClientOptions, error) {
	co, ok := o.(*ClientOptions)
	if !ok {
		return nil, errors.InvalidState(discovery.ClientTypeEureka.String(), "client options are not Eureka client options")
	}
	return co, nil
}

func asInstanceOptions(o discovery.RegistrationOptions) (*InstanceOptions, error) {
	inst, ok := o.(*InstanceOptions)
	if !ok {
		return nil, errors.InvalidState(discovery.ClientTypeEureka.String(), "registration options are not Eureka instance options")
	}
	return inst, nil
}
