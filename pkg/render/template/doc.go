// Package template defines the template engine seam page renderers depend on.
// The pongo subpackage provides the default implementation.
package template
