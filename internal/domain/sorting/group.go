package sorting

import "github.com/autoscheduler/autoscheduler/internal/domain"

// InstructorGroup is a run of sections taught by one instructor with the
// same honors designation.
type InstructorGroup struct {
	Instructor string                   `json:"instructor"`
	Honors     bool                     `json:"honors"`
	Sections   []domain.SectionSelected `json:"sections"`
}

type groupKey struct {
	name   string
	honors bool
}

// GroupByInstructor gathers sections into instructor groups. Groups appear
// in the order their first section appears, and sections keep their
// relative order inside a group, so a sorted list stays sorted per group.
func GroupByInstructor(sections []domain.SectionSelected) []InstructorGroup {
	groups := make([]InstructorGroup, 0)
	index := make(map[groupKey]int)

	for _, s := range sections {
		key := groupKey{name: s.Section.Instructor.Name, honors: s.Section.Honors}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, InstructorGroup{Instructor: key.name, Honors: key.honors})
		}
		groups[i].Sections = append(groups[i].Sections, s)
	}
	return groups
}
