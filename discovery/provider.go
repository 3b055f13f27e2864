package discovery

import (
	"sort"
	"sync"

	"github.com/kbukum/discoverykit/cloudfoundry"
	"github.com/kbukum/discoverykit/config"
	"github.com/kbukum/discoverykit/logger"
)

// Provider supplies the type-specific behavior of one client type.
// Implementation packages register themselves from an init function:
//
//	func init() { discovery.RegisterProvider(provider) }
type Provider struct {
	Type ClientType

	// Detect reports whether the configuration tree configures this type.
	Detect func(tree config.Tree) bool

	// Bind reads both payloads from the tree. Absent keys keep defaults.
	Bind func(tree config.Tree) (ClientOptions, RegistrationOptions, error)

	// MatchesBinding reports whether a platform service binding is a
	// registry of this type.
	MatchesBinding func(b cloudfoundry.ServiceBinding) bool

	// ApplyOverride merges connection data from a service binding.
	ApplyOverride func(opts ClientOptions, o ConnectionOverride) error

	// ApplyApplication fills registration defaults from the running platform
	// application. Keys set in tree keep their configured values.
	ApplyApplication func(opts RegistrationOptions, app *cloudfoundry.Application, tree config.Tree) error

	DefaultClientOptions       func() ClientOptions
	DefaultRegistrationOptions func() RegistrationOptions

	// Validate checks a payload pair before it is registered.
	Validate func(client ClientOptions, reg RegistrationOptions) error

	// NewClient builds the concrete client. It must not perform network I/O.
	NewClient func(client ClientOptions, reg RegistrationOptions, log *logger.Logger) (Client, error)
}

var (
	providersMu sync.RWMutex
	providers   = make(map[ClientType]Provider)
)

// RegisterProvider makes a client type available to the resolver and
// registrar. Registering the same type again replaces the earlier provider.
func RegisterProvider(p Provider) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[p.Type] = p
}

// LookupProvider returns the provider registered for t.
func LookupProvider(t ClientType) (Provider, bool) {
	providersMu.RLock()
	defer providersMu.RUnlock()
	p, ok := providers[t]
	return p, ok
}

// registeredProviders returns every provider ordered by client type so
// detection is deterministic.
func registeredProviders() []Provider {
	providersMu.RLock()
	defer providersMu.RUnlock()

	out := make([]Provider, 0, len(providers))
	for _, p := range providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
