package eureka

import (
	"github.com/kbukum/discoverykit/cloudfoundry"
	"github.com/kbukum/discoverykit/config"
	"github.com/kbukum/discoverykit/discovery"
	"github.com/kbukum/discoverykit/logger"
	"github.com/kbukum/discoverykit/validation"
)

var registrationMethods = []string{
	RegistrationMethodRoute,
	RegistrationMethodDirect,
	RegistrationMethodHostName,
	RegistrationMethodIP,
}

func init() {
	discovery.RegisterProvider(discovery.Provider{
		Type:   discovery.ClientTypeEureka,
		Detect: Detect,
		Bind: func(tree config.Tree) (discovery.ClientOptions, discovery.RegistrationOptions, error) {
			client, inst, err := BindOptions(tree)
			if err != nil {
				return nil, nil, err
			}
			return client, inst, nil
		},
		MatchesBinding: MatchesBinding,
		ApplyOverride: func(opts discovery.ClientOptions, o discovery.ConnectionOverride) error {
			client, err := asClientOptions(opts)
			if err != nil {
				return err
			}
			ApplyOverride(client, o)
			return nil
		},
		ApplyApplication: func(opts discovery.RegistrationOptions, app *cloudfoundry.Application, tree config.Tree) error {
			inst, err := asInstanceOptions(opts)
			if err != nil {
				return err
			}
			ApplyApplication(inst, app, tree)
			return nil
		},
		DefaultClientOptions: func() discovery.ClientOptions {
			return DefaultClientOptions()
		},
		DefaultRegistrationOptions: func() discovery.RegistrationOptions {
			return DefaultInstanceOptions()
		},
		Validate: func(client discovery.ClientOptions, reg discovery.RegistrationOptions) error {
			co, err := asClientOptions(client)
			if err != nil {
				return err
			}
			inst, err := asInstanceOptions(reg)
			if err != nil {
				return err
			}
			return Validate(co, inst)
		},
		NewClient: func(client discovery.ClientOptions, reg discovery.RegistrationOptions, log *logger.Logger) (discovery.Client, error) {
			co, err := asClientOptions(client)
			if err != nil {
				return nil, err
			}
			inst, err := asInstanceOptions(reg)
			if err != nil {
				return nil, err
			}
			c, err := NewClient(co, inst, log)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	})
}

// Validate checks client and instance options before registration.
func Validate(client *ClientOptions, inst *InstanceOptions) error {
	v := validation.New()
	v.Merge("eureka.client", validation.Validate(client))
	v.Merge("eureka.instance", validation.Validate(inst))
	if client.ShouldRegisterWithEureka || client.ShouldFetchRegistry {
		v.URL("eureka.client.serviceUrl", client.ServiceURL)
	}
	v.OneOf("eureka.instance.registrationMethod", inst.RegistrationMethod, registrationMethods)
	v.Custom(inst.LeaseExpirationDurationInSeconds >= inst.LeaseRenewalIntervalInSeconds,
		"eureka.instance.leaseExpirationDurationInSeconds", "must not be shorter than leaseRenewalIntervalInSeconds")
	return v.Err()
}
