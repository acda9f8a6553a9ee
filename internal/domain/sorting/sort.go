// Package sorting orders a course card's sections by one of the card sort
// types. Sorting never mutates its input and is stable: sections that tie
// on the sort key and the section-number tie-break keep their input order.
package sorting

import (
	"cmp"
	"slices"
	"strings"

	"github.com/autoscheduler/autoscheduler/internal/domain"
)

// rule describes one sort type. compare orders two sections in the sort
// type's default direction; missing reports a section with no sort key,
// which always goes last.
type rule struct {
	compare func(a, b *domain.Section) int
	missing func(s *domain.Section) bool
}

var rules = map[domain.SortType]rule{
	domain.SortTypeSectionNum: {
		compare: func(a, b *domain.Section) int {
			return strings.Compare(a.SectionNum, b.SectionNum)
		},
	},
	domain.SortTypeGrade: {
		// Higher GPA first.
		compare: func(a, b *domain.Section) int {
			return cmp.Compare(*b.Grades.GPA, *a.Grades.GPA)
		},
		missing: func(s *domain.Section) bool { return !s.Grades.HasGPA() },
	},
	domain.SortTypeInstructor: {
		compare: func(a, b *domain.Section) int {
			return strings.Compare(a.Instructor.Name, b.Instructor.Name)
		},
	},
	domain.SortTypeOpenSeats: {
		compare: func(a, b *domain.Section) int {
			return cmp.Compare(b.OpenSeats(), a.OpenSeats())
		},
	},
	domain.SortTypeHonors: {
		compare: func(a, b *domain.Section) int {
			return cmp.Compare(boolRank(a.Honors), boolRank(b.Honors))
		},
	},
	domain.SortTypeInstructionalMethod: {
		compare: func(a, b *domain.Section) int {
			ra, _ := a.InstructionalMethod.Rank()
			rb, _ := b.InstructionalMethod.Rank()
			return cmp.Compare(ra, rb)
		},
		missing: func(s *domain.Section) bool {
			_, ok := s.InstructionalMethod.Rank()
			return !ok
		},
	},
}

// Sort returns a sorted copy of sections. ascending is relative to the
// sort type's default direction (domain.DefaultSortDirections): passing the
// default gives the natural order, passing its opposite reverses the sort
// key. The section-number tie-break always stays ascending and sections
// missing the key stay at the end. SortTypeDefault keeps input order and
// simply reverses it when the direction is flipped.
func Sort(sections []domain.SectionSelected, sortType domain.SortType, ascending bool) []domain.SectionSelected {
	out := slices.Clone(sections)
	if out == nil {
		out = []domain.SectionSelected{}
	}
	reversed := ascending != domain.DefaultSortDirection(sortType)

	r, ok := rules[sortType]
	if !ok {
		if reversed {
			slices.Reverse(out)
		}
		return out
	}

	slices.SortStableFunc(out, func(a, b domain.SectionSelected) int {
		return r.order(a.Section, b.Section, reversed)
	})
	return out
}

func (r rule) order(a, b *domain.Section, reversed bool) int {
	if r.missing != nil {
		am, bm := r.missing(a), r.missing(b)
		switch {
		case am && !bm:
			return 1
		case !am && bm:
			return -1
		case am && bm:
			return strings.Compare(a.SectionNum, b.SectionNum)
		}
	}

	c := r.compare(a, b)
	if reversed {
		c = -c
	}
	if c != 0 {
		return c
	}
	return strings.Compare(a.SectionNum, b.SectionNum)
}

// boolRank puts true before false.
func boolRank(b bool) int {
	if b {
		return 0
	}
	return 1
}
