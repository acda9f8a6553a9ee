package domain

// Grades is the historical grade distribution of a section.
// Every field is optional; a Section with no grade history holds a nil *Grades.
type Grades struct {
	GPA   *float64 `json:"gpa"`
	A     *int     `json:"A"`
	B     *int     `json:"B"`
	C     *int     `json:"C"`
	D     *int     `json:"D"`
	F     *int     `json:"F"`
	I     *int     `json:"I"`
	S     *int     `json:"S"`
	U     *int     `json:"U"`
	Q     *int     `json:"Q"`
	X     *int     `json:"X"`
	Count *int     `json:"count"`
}

// maxGPA is the top of the 4.0 scale.
const maxGPA = 4.0

// NewGrades validates a grade distribution. GPA must lie on the 4.0 scale
// and counts must not be negative.
func NewGrades(g Grades) (*Grades, error) {
	if g.GPA != nil && (*g.GPA < 0 || *g.GPA > maxGPA) {
		return nil, invalidField("Grades", "gpa", "must be between 0 and 4")
	}

	counts := []struct {
		name  string
		value *int
	}{
		{"A", g.A}, {"B", g.B}, {"C", g.C}, {"D", g.D}, {"F", g.F}, {"I", g.I},
		{"S", g.S}, {"U", g.U}, {"Q", g.Q}, {"X", g.X}, {"count", g.Count},
	}
	for _, c := range counts {
		if c.value != nil && *c.value < 0 {
			return nil, invalidField("Grades", c.name, "must not be negative")
		}
	}

	out := g
	return &out, nil
}

// HasGPA reports whether a GPA is known for g. It is safe on a nil receiver.
func (g *Grades) HasGPA() bool {
	return g != nil && g.GPA != nil
}
