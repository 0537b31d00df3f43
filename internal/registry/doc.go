// Package registry is the glue between compiled modules and the parameter
// catalog.
//
// Modules register converters, views and parameter definitions in Go, and
// may ship HCL manifests. Once every module has registered, Build resolves
// the lot into a validated catalog.Catalog. Duplicate registrations are
// programmer errors and panic; everything that depends on how the pieces fit
// together is reported by Build as an aggregated configuration error.
package registry
