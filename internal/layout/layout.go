// Package layout classifies a WordPress installation directory.
package layout

import (
	"github.com/go-git/go-billy/v5"
)

// Directories that must all exist directly under the base path for an
// installation to count as standard.
var probeDirs = []string{"wp-admin", "wp-content", "wp-includes"}

// Layout is the installation structure detected under a base path.
type Layout struct {
	standard bool
}

// Standard is the layout where WordPress core lives in the application root.
var Standard = Layout{standard: true}

// Custom is the layout where WordPress core lives in a dedicated subdirectory.
var Custom = Layout{standard: false}

// Probe inspects root and returns its layout.
func Probe(root billy.Filesystem) Layout {
	if IsStandard(root) {
		return Standard
	}
	return Custom
}

// IsStandard reports whether wp-admin, wp-content and wp-includes all exist
// directly under root.
func IsStandard(root billy.Filesystem) bool {
	for _, dir := range probeDirs {
		if _, err := root.Stat(dir); err != nil {
			return false
		}
	}
	return true
}

// IsStandard reports whether l is the standard layout.
func (l Layout) IsStandard() bool {
	return l.standard
}

// PublicDir is the default public directory, relative to the base path.
func (l Layout) PublicDir() string {
	if l.standard {
		return "/"
	}
	return "public"
}

// CoreDir is the default WordPress core subdirectory, relative to the public directory.
func (l Layout) CoreDir() string {
	if l.standard {
		return "/"
	}
	return "wordpress"
}

// ContentDir is the default content subdirectory, relative to the public directory.
func (l Layout) ContentDir() string {
	if l.standard {
		return "wp-content"
	}
	return "/"
}

func (l Layout) String() string {
	if l.standard {
		return "standard"
	}
	return "custom"
}
