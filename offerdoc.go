// Package offerdoc turns merchant product pages and feeds into normalized
// offer records. Each record (a Fragment) captures what one datasource says
// about one product at one URL: price, availability, ratings, attributes,
// free text and media resources.
//
// Extraction is configuration driven. A datasource declares an ordered list
// of extractors whose paths are written in a small expression language
// (path::OPERATION::OPERATION) evaluated against markup or JSON documents.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., etree/, json5/, sqlite/, nats/).
package offerdoc
