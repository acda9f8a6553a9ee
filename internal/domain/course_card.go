package domain

import "fmt"

// CustomizationLevel selects how a course card chooses sections.
type CustomizationLevel string

const (
	// CustomizationLevelBasic filters sections by the card's options only.
	CustomizationLevelBasic CustomizationLevel = "basic"
	// CustomizationLevelSection lets the user pick individual sections.
	CustomizationLevelSection CustomizationLevel = "section"
)

// Valid reports whether c is a known customization level.
func (c CustomizationLevel) Valid() bool {
	return c == CustomizationLevelBasic || c == CustomizationLevelSection
}

// SectionFilter is a tri-state preference for a section attribute.
type SectionFilter string

const (
	SectionFilterNoPreference SectionFilter = "no_preference"
	SectionFilterExclude      SectionFilter = "exclude"
	SectionFilterOnly         SectionFilter = "only"
)

// Valid reports whether f is a known filter value.
func (f SectionFilter) Valid() bool {
	switch f {
	case SectionFilterNoPreference, SectionFilterExclude, SectionFilterOnly:
		return true
	}
	return false
}

// Allows reports whether a section with the attribute set to has passes f.
func (f SectionFilter) Allows(has bool) bool {
	switch f {
	case SectionFilterExclude:
		return !has
	case SectionFilterOnly:
		return has
	default:
		return true
	}
}

// SectionFilters is the subset of card options that decides which sections
// the backend returns.
type SectionFilters struct {
	Honors       SectionFilter `json:"honors"`
	Remote       SectionFilter `json:"remote"`
	Asynchronous SectionFilter `json:"asynchronous"`
	IncludeFull  bool          `json:"include_full"`
}

// Allows reports whether s passes every filter.
func (f SectionFilters) Allows(s *Section) bool {
	if !f.IncludeFull && s.IsFull() {
		return false
	}
	return f.Honors.Allows(s.Honors) && f.Remote.Allows(s.Remote) && f.Asynchronous.Allows(s.Asynchronous)
}

// SortType names a rule for ordering a card's sections.
type SortType string

const (
	SortTypeDefault             SortType = "default"
	SortTypeSectionNum          SortType = "section_num"
	SortTypeGrade               SortType = "grade"
	SortTypeInstructor          SortType = "instructor"
	SortTypeOpenSeats           SortType = "open_seats"
	SortTypeHonors              SortType = "honors"
	SortTypeInstructionalMethod SortType = "instructional_method"
)

// DefaultSortDirections holds the direction each sort type starts in. The
// value only matters relative to itself: sorting.Sort gives a type's
// natural order (A to Z, highest GPA, most open seats, honors first) when
// passed its default, and reverses the key when passed the opposite.
var DefaultSortDirections = map[SortType]bool{
	SortTypeDefault:             true,
	SortTypeSectionNum:          true,
	SortTypeGrade:               false,
	SortTypeInstructor:          true,
	SortTypeOpenSeats:           false,
	SortTypeHonors:              false,
	SortTypeInstructionalMethod: true,
}

// DefaultSortDirection returns the starting direction for t.
func DefaultSortDirection(t SortType) bool {
	dir, ok := DefaultSortDirections[t]
	if !ok {
		return true
	}
	return dir
}

// ParseSortType validates a sort type name.
func ParseSortType(s string) (SortType, error) {
	t := SortType(s)
	if _, ok := DefaultSortDirections[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSortType, s)
	}
	return t, nil
}

// CourseCardOptions is the configuration and result set of one course card.
type CourseCardOptions struct {
	Course             string             `json:"course"`
	CustomizationLevel CustomizationLevel `json:"customization_level"`
	Remote             SectionFilter      `json:"remote"`
	Honors             SectionFilter      `json:"honors"`
	Asynchronous       SectionFilter      `json:"asynchronous"`
	IncludeFull        bool               `json:"include_full"`
	SortType           SortType           `json:"sort_type"`
	SortDirection      bool               `json:"sort_direction"`
	Sections           []SectionSelected  `json:"sections"`
	Collapsed          bool               `json:"collapsed"`
	Loading            bool               `json:"loading"`

	// Set from the last fetch; tell the UI which filters are worth showing.
	HasHonors       bool `json:"has_honors"`
	HasRemote       bool `json:"has_remote"`
	HasAsynchronous bool `json:"has_asynchronous"`
}

// NewCourseCardOptions returns a card with default settings.
func NewCourseCardOptions() CourseCardOptions {
	return CourseCardOptions{
		Course:             "",
		CustomizationLevel: CustomizationLevelBasic,
		Remote:             SectionFilterNoPreference,
		Honors:             SectionFilterExclude,
		Asynchronous:       SectionFilterNoPreference,
		SortType:           SortTypeDefault,
		SortDirection:      DefaultSortDirection(SortTypeDefault),
		Sections:           []SectionSelected{},
	}
}

// Filters returns the section filters configured on the card.
func (o *CourseCardOptions) Filters() SectionFilters {
	return SectionFilters{
		Honors:       o.Honors,
		Remote:       o.Remote,
		Asynchronous: o.Asynchronous,
		IncludeFull:  o.IncludeFull,
	}
}

// SelectedCRNs returns the CRNs of the selected sections in card order.
func (o *CourseCardOptions) SelectedCRNs() []int {
	crns := make([]int, 0)
	for _, s := range o.Sections {
		if s.Selected && s.Section != nil {
			crns = append(crns, s.Section.CRN)
		}
	}
	return crns
}

// SerializedCourseCardOptions is the persisted form of a course card.
// Absent fields take the card defaults; Sections lists selected CRNs.
type SerializedCourseCardOptions struct {
	Course             *string             `json:"course,omitempty"`
	CustomizationLevel *CustomizationLevel `json:"customization_level,omitempty"`
	Remote             *SectionFilter      `json:"remote,omitempty"`
	Honors             *SectionFilter      `json:"honors,omitempty"`
	Asynchronous       *SectionFilter      `json:"asynchronous,omitempty"`
	IncludeFull        *bool               `json:"include_full,omitempty"`
	SortType           *SortType           `json:"sort_type,omitempty"`
	SortDirection      *bool               `json:"sort_direction,omitempty"`
	Collapsed          *bool               `json:"collapsed,omitempty"`
	Sections           []int               `json:"sections,omitempty"`
}

// Validate checks the enum fields that are present.
func (o *SerializedCourseCardOptions) Validate() error {
	if o.CustomizationLevel != nil && !o.CustomizationLevel.Valid() {
		return fmt.Errorf("%w: customization level %q", ErrInvalidFormat, *o.CustomizationLevel)
	}
	filters := []struct {
		name   string
		filter *SectionFilter
	}{
		{"remote", o.Remote},
		{"honors", o.Honors},
		{"asynchronous", o.Asynchronous},
	}
	for _, f := range filters {
		if f.filter != nil && !f.filter.Valid() {
			return fmt.Errorf("%w: %s filter %q", ErrInvalidFormat, f.name, *f.filter)
		}
	}
	if o.SortType != nil {
		if _, err := ParseSortType(string(*o.SortType)); err != nil {
			return err
		}
	}
	return nil
}
