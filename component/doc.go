// Package component runs the lifecycle of a service's long-lived parts, such
// as the discovery client registration and the HTTP server that answers the
// registry's status and health polls.
//
// A Registry starts components in registration order and stops them in
// reverse. A failed start stops whatever already started. Health checks run
// concurrently and are aggregated with HealthStatus.Worse.
package component
