package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstructor(t *testing.T) {
	t.Parallel()

	i, err := NewInstructor(InstructorArgs{Name: ptr("Aakash Tyagi")})
	require.NoError(t, err)
	assert.Equal(t, Instructor{Name: "Aakash Tyagi"}, i)

	_, err = NewInstructor(InstructorArgs{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewGrades(t *testing.T) {
	t.Parallel()

	g, err := NewGrades(Grades{GPA: ptr(3.2), A: ptr(10), Count: ptr(40)})
	require.NoError(t, err)
	assert.True(t, g.HasGPA())
	assert.InDelta(t, 3.2, *g.GPA, 1e-9)

	g, err = NewGrades(Grades{})
	require.NoError(t, err)
	assert.False(t, g.HasGPA())

	_, err = NewGrades(Grades{GPA: ptr(4.5)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewGrades(Grades{Q: ptr(-1)})
	assert.ErrorIs(t, err, ErrValidation)

	var none *Grades
	assert.False(t, none.HasGPA())
}

func TestSectionFilters(t *testing.T) {
	t.Parallel()
	full := &Section{CurrentEnrollment: 20, MaxEnrollment: 20, Honors: true}
	open := &Section{CurrentEnrollment: 2, MaxEnrollment: 20}

	opts := NewCourseCardOptions()
	f := opts.Filters()
	assert.False(t, f.Allows(full), "full honors section excluded by default")
	assert.True(t, f.Allows(open))

	f.IncludeFull = true
	f.Honors = SectionFilterOnly
	assert.True(t, f.Allows(full))
	assert.False(t, f.Allows(open))
}

func TestParseSortType(t *testing.T) {
	t.Parallel()
	st, err := ParseSortType("grade")
	require.NoError(t, err)
	assert.Equal(t, SortTypeGrade, st)
	assert.False(t, DefaultSortDirection(st))

	_, err = ParseSortType("vibes")
	assert.ErrorIs(t, err, ErrUnknownSortType)
}
