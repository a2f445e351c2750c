// Package config decodes the plain configuration map the orchestrator is
// constructed with (spec §6 "Configuration map recognized at
// construction") into a typed Config, applying the documented defaults.
// Loading the map itself — from a file, environment, or CLI flags — is
// outside this package's and this module's scope.
package config
