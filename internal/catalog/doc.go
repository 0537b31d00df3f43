// Package catalog resolves parameter declarations against the views that own
// them.
//
// Declarations come from the outside (manifests, Go modules) as a flat list
// of Definitions. Build validates every one of them once at startup: it works
// out the value type (from a matching view property or the declared type),
// binds exactly one converter, and checks that a configured default decodes.
// Every problem found is reported together and no catalog is returned, so a
// process with a broken configuration never gets past initialisation.
//
// A built Catalog is immutable and safe to share between views.
package catalog
