// Package envsource holds the configuration source the configurator reads
// from: the process environment merged with dotenv files found under the
// installation base path. The real environment always wins over files.
package envsource
