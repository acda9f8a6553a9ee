package coursecard

import (
	"fmt"

	"github.com/autoscheduler/autoscheduler/internal/domain"
)

// CourseCardUpdate is a partial change to a card. Nil fields are left
// untouched.
type CourseCardUpdate struct {
	Course             *string                    `json:"course,omitempty"`
	CustomizationLevel *domain.CustomizationLevel `json:"customization_level,omitempty"`
	Remote             *domain.SectionFilter      `json:"remote,omitempty"`
	Honors             *domain.SectionFilter      `json:"honors,omitempty"`
	Asynchronous       *domain.SectionFilter      `json:"asynchronous,omitempty"`
	IncludeFull        *bool                      `json:"include_full,omitempty"`
	SortType           *domain.SortType           `json:"sort_type,omitempty"`
	SortDirection      *bool                      `json:"sort_direction,omitempty"`
	Sections           []domain.SectionSelected   `json:"sections,omitempty"`
	Collapsed          *bool                      `json:"collapsed,omitempty"`
}

// Validate checks enum fields and that every section entry carries a
// section.
func (u *CourseCardUpdate) Validate() error {
	if err := u.options().Validate(); err != nil {
		return err
	}
	for i, sec := range u.Sections {
		if sec.Section == nil {
			return fmt.Errorf("%w: sections[%d] has no section", domain.ErrInvalidFormat, i)
		}
	}
	return nil
}

// options returns the serializable subset of u, sharing its pointers.
func (u *CourseCardUpdate) options() *domain.SerializedCourseCardOptions {
	return &domain.SerializedCourseCardOptions{
		Course:             u.Course,
		CustomizationLevel: u.CustomizationLevel,
		Remote:             u.Remote,
		Honors:             u.Honors,
		Asynchronous:       u.Asynchronous,
		IncludeFull:        u.IncludeFull,
		SortType:           u.SortType,
		SortDirection:      u.SortDirection,
		Collapsed:          u.Collapsed,
	}
}

// changesQuery reports whether applying u to card would change what the
// backend returns for it.
func (u *CourseCardUpdate) changesQuery(card *domain.CourseCardOptions) bool {
	switch {
	case u.Course != nil && *u.Course != card.Course:
		return true
	case u.Remote != nil && *u.Remote != card.Remote:
		return true
	case u.Honors != nil && *u.Honors != card.Honors:
		return true
	case u.Asynchronous != nil && *u.Asynchronous != card.Asynchronous:
		return true
	case u.IncludeFull != nil && *u.IncludeFull != card.IncludeFull:
		return true
	}
	return false
}

// changesSort reports whether u sets a different sort type or direction.
func (u *CourseCardUpdate) changesSort(card *domain.CourseCardOptions) bool {
	return (u.SortType != nil && *u.SortType != card.SortType) ||
		(u.SortDirection != nil && *u.SortDirection != card.SortDirection)
}

// apply merges u into card. Sections are copied, not aliased, and entries
// without a section are dropped.
func (u *CourseCardUpdate) apply(card *domain.CourseCardOptions) {
	if u.Course != nil {
		card.Course = *u.Course
	}
	if u.CustomizationLevel != nil {
		card.CustomizationLevel = *u.CustomizationLevel
	}
	if u.Remote != nil {
		card.Remote = *u.Remote
	}
	if u.Honors != nil {
		card.Honors = *u.Honors
	}
	if u.Asynchronous != nil {
		card.Asynchronous = *u.Asynchronous
	}
	if u.IncludeFull != nil {
		card.IncludeFull = *u.IncludeFull
	}
	if u.SortType != nil {
		card.SortType = *u.SortType
	}
	if u.SortDirection != nil {
		card.SortDirection = *u.SortDirection
	}
	if u.Sections != nil {
		card.Sections = make([]domain.SectionSelected, 0, len(u.Sections))
		for _, sec := range u.Sections {
			if sec.Section != nil {
				card.Sections = append(card.Sections, sec)
			}
		}
	}
	if u.Collapsed != nil {
		card.Collapsed = *u.Collapsed
	}
}

// fromSerialized builds a card from its persisted form, filling defaults.
// Unknown enum values fall back to the defaults as well.
func fromSerialized(s domain.SerializedCourseCardOptions) *domain.CourseCardOptions {
	card := domain.NewCourseCardOptions()
	u := CourseCardUpdate{
		Course:             s.Course,
		CustomizationLevel: s.CustomizationLevel,
		Remote:             s.Remote,
		Honors:             s.Honors,
		Asynchronous:       s.Asynchronous,
		IncludeFull:        s.IncludeFull,
		SortType:           s.SortType,
		SortDirection:      s.SortDirection,
		Collapsed:          s.Collapsed,
	}
	u.dropInvalid()
	if u.SortType != nil && u.SortDirection == nil {
		dir := domain.DefaultSortDirection(*u.SortType)
		u.SortDirection = &dir
	}
	u.apply(&card)
	return &card
}

func (u *CourseCardUpdate) dropInvalid() {
	if u.CustomizationLevel != nil && !u.CustomizationLevel.Valid() {
		u.CustomizationLevel = nil
	}
	for _, f := range []**domain.SectionFilter{&u.Remote, &u.Honors, &u.Asynchronous} {
		if *f != nil && !(*f).Valid() {
			*f = nil
		}
	}
	if u.SortType != nil {
		if _, err := domain.ParseSortType(string(*u.SortType)); err != nil {
			u.SortType, u.SortDirection = nil, nil
		}
	}
}
