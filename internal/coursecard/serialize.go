package coursecard

import "github.com/autoscheduler/autoscheduler/internal/domain"

// SerializeCourseCards converts a snapshot into its persisted form, in
// index order. Selected sections are kept as CRNs.
func SerializeCourseCards(a CourseCardArray) []domain.SerializedCourseCardOptions {
	out := make([]domain.SerializedCourseCardOptions, 0, len(a.Cards))
	for _, i := range a.Indices() {
		c := a.Cards[i]
		course := c.Course
		level := c.CustomizationLevel
		remote, honors, async := c.Remote, c.Honors, c.Asynchronous
		includeFull := c.IncludeFull
		sortType, sortDirection := c.SortType, c.SortDirection
		collapsed := c.Collapsed

		out = append(out, domain.SerializedCourseCardOptions{
			Course:             &course,
			CustomizationLevel: &level,
			Remote:             &remote,
			Honors:             &honors,
			Asynchronous:       &async,
			IncludeFull:        &includeFull,
			SortType:           &sortType,
			SortDirection:      &sortDirection,
			Collapsed:          &collapsed,
			Sections:           c.SelectedCRNs(),
		})
	}
	return out
}

// WithSelection returns a copy of sections with exactly the given CRNs
// selected. Entries without a section are dropped.
func WithSelection(sections []domain.SectionSelected, crns []int) []domain.SectionSelected {
	want := make(map[int]bool, len(crns))
	for _, crn := range crns {
		want[crn] = true
	}
	out := make([]domain.SectionSelected, 0, len(sections))
	for _, s := range sections {
		if s.Section == nil {
			continue
		}
		s.Selected = want[s.Section.CRN]
		out = append(out, s)
	}
	return out
}
