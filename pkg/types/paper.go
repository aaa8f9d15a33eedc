// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper research agent:
// catalog records, conversation turns, accumulated search parameters, and the
// per-component configuration structs.
package types

// Paper is one work as returned by the bibliographic catalog. ID is the
// catalog's globally unique identifier and serves as the deduplication key;
// the remaining fields are metadata passed through to the caller unchanged.
type Paper struct {
	// ID is the canonical catalog identifier (e.g. an OpenAlex work URL).
	ID string `json:"id" yaml:"id"`

	// Title is the paper title as returned by the catalog.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in catalog order.
	Authors []string `json:"authors" yaml:"authors"`

	// PublicationYear is the year of publication (0 if unknown).
	PublicationYear int `json:"publication_year" yaml:"publication_year"`

	// PublicationDate is the full publication date in YYYY-MM-DD form,
	// when the catalog knows it.
	PublicationDate string `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`

	// DOI is the bare DOI with the https://doi.org/ prefix stripped.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Abstract is the paper abstract, reconstructed from the catalog's
	// inverted index when necessary.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// CitationCount is the number of citing works known to the catalog.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// OpenAccess reports whether a free copy of the paper is available.
	OpenAccess bool `json:"open_access" yaml:"open_access"`

	// PDFURL is the open-access PDF location, if one is known.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// LandingPageURL is the publisher landing page, if known.
	LandingPageURL string `json:"landing_page_url,omitempty" yaml:"landing_page_url,omitempty"`
}
