package store

import (
	"context"

	"github.com/autoscheduler/autoscheduler/internal/catalog"
	"github.com/autoscheduler/autoscheduler/internal/domain"
)

// CatalogStore defines the interface for the section catalog. Sections are
// kept in the backend's raw record form so that reads go through the same
// parser as backend responses.
type CatalogStore interface {
	// FetchTerms maps each term's description to its term code.
	FetchTerms(ctx context.Context) (map[string]string, error)

	// FetchSections returns the raw sections of course ("CSCE 121") in term
	// that pass filters, ordered by section number.
	FetchSections(ctx context.Context, course, term string, filters domain.SectionFilters) ([]catalog.RawSection, error)

	// ImportSections replaces every section of term with sections.
	// Returns ErrInvalidEntity if any record fails to parse.
	ImportSections(ctx context.Context, term string, sections []catalog.RawSection) error
}
