// Package server runs a Gin HTTP server as a lifecycle component.
//
// A registered instance must answer the status and health URLs it advertises
// to the registry. Routes owned by components that start earlier are added
// with Mount and installed when the server starts:
//
//	srv, _ := server.FromConfig(tree, log)
//	srv.ApplyMiddleware("/healthcheck")
//	srv.Mount(func(r gin.IRoutes) { client.RegisterRoutes(r) })
//	registry.Register(server.NewComponent(srv))
//
// Middleware (server/middleware): Recovery, RequestID and RequestLogger.
package server
