package catalog

// RawGrades is the grade distribution as the backend sends it.
type RawGrades struct {
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

// RawMeeting is one meeting of a RawSection. Times are "H:MM" or "HH:MM".
type RawMeeting struct {
	ID        *int    `json:"id"`
	Building  *string `json:"building"`
	Days      []bool  `json:"days"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Type      *string `json:"type"`
}

// RawSection is a section record from the backend. Every field is a pointer
// so that a missing or null value reaches the entity constructors as nil.
type RawSection struct {
	ID                  *int         `json:"id"`
	CRN                 *int         `json:"crn"`
	Subject             *string      `json:"subject"`
	CourseNum           *string      `json:"course_num"`
	SectionNum          *string      `json:"section_num"`
	MinCredits          *int         `json:"min_credits"`
	MaxCredits          *int         `json:"max_credits"`
	CurrentEnrollment   *int         `json:"current_enrollment"`
	MaxEnrollment       *int         `json:"max_enrollment"`
	InstructorName      *string      `json:"instructor_name"`
	Honors              *bool        `json:"honors"`
	Remote              *bool        `json:"remote"`
	Asynchronous        *bool        `json:"asynchronous"`
	InstructionalMethod *string      `json:"instructional_method"`
	Meetings            []RawMeeting `json:"meetings"`
	Grades              *RawGrades   `json:"grades"`
}
