package discovery

import "strings"

// ClientType selects the registry kind a discovery client talks to.
type ClientType int

const (
	// ClientTypeUnknown is the zero value; it is never valid for registration.
	ClientTypeUnknown ClientType = iota
	ClientTypeEureka
)

func (t ClientType) String() string {
	switch t {
	case ClientTypeEureka:
		return "EUREKA"
	default:
		return "UNKNOWN"
	}
}

// ParseClientType maps a name such as "eureka" to its ClientType, ignoring
// case. Unrecognised names yield ClientTypeUnknown.
func ParseClientType(name string) ClientType {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "EUREKA":
		return ClientTypeEureka
	default:
		return ClientTypeUnknown
	}
}

// ClientOptions is the registry-connection payload for one client type.
type ClientOptions interface {
	ClientType() ClientType
}

// RegistrationOptions is the instance self-registration payload for one
// client type.
type RegistrationOptions interface {
	ClientType() ClientType
}

// Options is the fully resolved discovery configuration. Its payloads are
// nil until a client type has been selected.
type Options struct {
	ClientType          ClientType
	ClientOptions       ClientOptions
	RegistrationOptions RegistrationOptions
}

// NewOptions returns Options with ClientTypeUnknown and no payloads.
func NewOptions() *Options {
	return &Options{}
}

// ServiceInstance describes the local instance as other services will see it.
type ServiceInstance struct {
	ServiceID string
	Host      string
	Port      int
	Secure    bool
	URI       string
	Metadata  map[string]string
}
