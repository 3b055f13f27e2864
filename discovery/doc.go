// Package discovery resolves service-discovery configuration and registers a
// single discovery client into a di.Container.
//
// Connection details can come from three places: the configuration tree
// (eureka.client / eureka.instance), a platform service binding
// (VCAP_SERVICES) or options built in code. A matching service binding
// overrides the configured server URL and credentials.
//
//	c := di.NewContainer()
//	if err := discovery.RegisterFromConfig(ctx, c, tree); err != nil {
//	    return err // startup must abort
//	}
//	client := di.MustResolve[discovery.Client](c, di.Pkg.DiscoveryClient)
//
// Client types are provided by implementation packages that register a
// Provider from init. Import discovery/eureka for its side effect:
//
//	import _ "github.com/kbukum/discoverykit/discovery/eureka"
package discovery
