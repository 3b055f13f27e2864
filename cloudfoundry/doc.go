// Package cloudfoundry reads the platform metadata Cloud Foundry injects into
// an application's environment: bound services from VCAP_SERVICES and the
// running application from VCAP_APPLICATION.
//
// The discovery resolver consumes a Source, so tests can supply fixtures
// through StaticSource instead of mutating the process environment.
package cloudfoundry
