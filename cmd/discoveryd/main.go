// Command discoveryd registers a service instance with its discovery
// registry and serves the status and health pages the registry polls.
//
// Configuration is read from the first of appsettings.json, discoveryd.yml
// and config.yml found (or the file named by -config), a .env file (or the
// file named by -env) and the environment. Cloud Foundry service bindings in
// VCAP_SERVICES override the configured registry connection.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/discoverykit/bootstrap"
	"github.com/kbukum/discoverykit/component"
	"github.com/kbukum/discoverykit/config"
	"github.com/kbukum/discoverykit/discovery"
	"github.com/kbukum/discoverykit/discovery/eureka"
	"github.com/kbukum/discoverykit/logger"
	"github.com/kbukum/discoverykit/observability"
	"github.com/kbukum/discoverykit/server"
)

const serviceName = "discoveryd"

// healthPath serves the aggregated health of every component.
const healthPath = "/health"

type routeRegistrar interface {
	RegisterRoutes(r gin.IRoutes)
	Routes() []component.Route
}

func main() {
	configFile := flag.String("config", "", "configuration file")
	envFile := flag.String("env", "", ".env file")
	serviceBinding := flag.String("service", "", "name of the registry service binding to use")
	flag.Parse()

	var loadOpts []config.LoaderOption
	if *configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		loadOpts = append(loadOpts, config.WithEnvFile(*envFile))
	}
	if err := run(context.Background(), *serviceBinding, loadOpts...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, serviceBinding string, loadOpts ...config.LoaderOption) error {
	tree, err := config.LoadTree(serviceName, loadOpts...)
	if err != nil {
		return err
	}

	app, err := bootstrap.NewApp(serviceName, tree)
	if err != nil {
		return err
	}

	telCfg, err := observability.LoadConfig(tree)
	if err != nil {
		return err
	}
	tel, err := observability.Start(ctx, serviceName, telCfg)
	if err != nil {
		return err
	}
	app.OnStop(tel.Shutdown)

	registrar := discovery.NewRegistrar(
		discovery.WithRegistrarLogger(app.Logger),
		discovery.WithRegistrarMetrics(tel.Metrics),
	)
	compOpts := []discovery.ComponentOption{discovery.WithRegistrar(registrar)}
	if serviceBinding != "" {
		compOpts = append(compOpts, discovery.WithServiceName(serviceBinding))
	}
	disc := discovery.NewComponent(app.Container, app.Tree, app.Logger, compOpts...)

	srv, err := server.FromConfig(tree, app.Logger)
	if err != nil {
		return err
	}
	srv.Mount(func(r gin.IRoutes) {
		mountRoutes(r, disc.Client(), app)
	})
	srv.ApplyMiddleware(polledPaths(tree)...)

	// discovery starts first so the server can mount the client's routes
	if err := app.RegisterComponent(disc); err != nil {
		return err
	}
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return err
	}

	return app.Run(ctx)
}

// mountRoutes serves the client's registry routes and the aggregate health
// route. A registry route configured at healthPath takes the path.
func mountRoutes(r gin.IRoutes, client discovery.Client, app *bootstrap.App) {
	rr, ok := client.(routeRegistrar)
	if ok {
		rr.RegisterRoutes(r)
		for _, rt := range rr.Routes() {
			if rt.Path == healthPath {
				app.Logger.Warn("registry route shadows aggregate health route", logger.Fields(
					"path", healthPath,
					"handler", rt.Handler,
				))
				return
			}
		}
	}
	r.GET(healthPath, healthHandler(app))
}

// polledPaths lists the paths the registry polls, which are not request-logged.
func polledPaths(tree config.Tree) []string {
	paths := []string{healthPath, eureka.DefaultStatusPageURLPath, eureka.DefaultHealthCheckURLPath}
	for _, key := range []string{"statusPageUrlPath", "healthCheckUrlPath"} {
		if p := tree.GetString(eureka.InstancePrefix + "." + key); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func healthHandler(app *bootstrap.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := observability.NewHealthReport(app.Name, app.Components.HealthAll(c.Request.Context()))
		c.JSON(report.HTTPStatus(), report)
	}
}
