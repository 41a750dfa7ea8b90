// Package services orchestrates the analytics core into the report bundle
// the renderer, exporter, and HTTP surface consume. Services hold no state
// between calls: every artifact is recomputed from the validated panel and
// the analysis options, and sections with no usable data come back as
// explicit empty results rather than failures.
package services
