// Package di provides the dependency injection container discovery clients
// are registered into.
//
// Components are registered under string keys either built (singleton) or
// as a constructor run on first resolution (lazy), so registration never
// triggers side effects. Each key yields one instance; registering a key
// again supersedes the earlier registration:
//
//	err := c.RegisterLazy(di.Pkg.DiscoveryClient, func() (discovery.Client, error) {
//	    return eureka.NewClient(clientOpts, instanceOpts, log)
//	})
//
//	client, err := di.Resolve[discovery.Client](c, di.Pkg.DiscoveryClient)
package di
