// Package bootstrap runs a service's components with uniform startup and
// shutdown.
//
// An App owns the configuration tree, a DI container and a component
// registry. Run starts every component, runs OnStart and OnReady hooks,
// waits for SIGINT or SIGTERM, then runs OnStop hooks and stops components
// in reverse order:
//
//	tree, _ := config.LoadTree("orders")
//	app, _ := bootstrap.NewApp("orders", tree)
//	app.RegisterComponent(discovery.NewComponent(app.Container, app.Tree, app.Logger))
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package bootstrap
