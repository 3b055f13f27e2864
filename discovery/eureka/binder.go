package eureka

import (
	"github.com/kbukum/discoverykit/config"
)

// Configuration keys read by BindOptions.
const (
	ClientPrefix          = "eureka.client"
	InstancePrefix        = "eureka.instance"
	RegistrationMethodKey = "spring.cloud.discovery.registrationMethod"
	ApplicationNameKey    = "spring.application.name"
	MetadataKey           = InstancePrefix + ".metadataMap"
)

// Detect reports whether tree configures a Eureka client.
func Detect(tree config.Tree) bool {
	return tree.IsSet(ClientPrefix)
}

// BindOptions reads client and instance options from tree on top of their
// defaults. Metadata keys keep the spelling of the configuration source.
func BindOptions(tree config.Tree) (*ClientOptions, *InstanceOptions, error) {
	client := DefaultClientOptions()
	if tree.IsSet(ClientPrefix) {
		if err := tree.UnmarshalKey(ClientPrefix, client); err != nil {
			return nil, nil, err
		}
	}

	inst := DefaultInstanceOptions()
	if tree.IsSet(InstancePrefix) {
		if err := tree.UnmarshalKey(InstancePrefix, inst); err != nil {
			return nil, nil, err
		}
	}
	inst.MetadataMap = tree.StringMap(MetadataKey)
	inst.RegistrationMethod = tree.GetString(RegistrationMethodKey)
	if inst.AppName == "" {
		inst.AppName = tree.GetString(ApplicationNameKey)
	}
	return client, inst, nil
}
