// Package wpconfig resolves the constants a WordPress installation needs from
// its environment. A Configurator probes the installation layout, loads the
// environment together with any dotenv files, lets hooks adjust the result and
// then publishes every constant into a write-once registry, applying the
// documented default for each value that is not provided.
//
// Constants that are already defined in the registry are left untouched, so
// an embedding application can pre-define values and Configure can safely run
// more than once.
package wpconfig
