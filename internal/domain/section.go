package domain

import "strings"

// InstructionalMethod describes how a section is delivered.
type InstructionalMethod string

// Known instructional methods. InstructionalMethodNone means the backend
// gave no method; it sorts after every known method.
const (
	InstructionalMethodNone            InstructionalMethod = ""
	InstructionalMethodF2F             InstructionalMethod = "F2F"
	InstructionalMethodMixedF2FRemote  InstructionalMethod = "MIXED_F2F_REMOTE"
	InstructionalMethodF2FRemoteOption InstructionalMethod = "F2F_REMOTE_OPTION"
	InstructionalMethodRemote          InstructionalMethod = "REMOTE"
	InstructionalMethodWebBased        InstructionalMethod = "WEB_BASED"
	InstructionalMethodStudyAbroad     InstructionalMethod = "STUDY_ABROAD"
)

var instructionalMethodRank = map[InstructionalMethod]int{
	InstructionalMethodF2F:             0,
	InstructionalMethodMixedF2FRemote:  1,
	InstructionalMethodF2FRemoteOption: 2,
	InstructionalMethodRemote:          3,
	InstructionalMethodWebBased:        4,
	InstructionalMethodStudyAbroad:     5,
}

// instructionalMethodNames maps the registrar's descriptions onto methods.
var instructionalMethodNames = map[string]InstructionalMethod{
	"face to face":              InstructionalMethodF2F,
	"mixed face to face/remote": InstructionalMethodMixedF2FRemote,
	"f2f remote option":         InstructionalMethodF2FRemoteOption,
	"remote only":               InstructionalMethodRemote,
	"web based":                 InstructionalMethodWebBased,
	"study abroad":              InstructionalMethodStudyAbroad,
}

// Rank returns the sort position of m and false when m is unknown or none.
func (m InstructionalMethod) Rank() (int, bool) {
	r, ok := instructionalMethodRank[m]
	return r, ok
}

// ParseInstructionalMethod accepts either an enum code ("WEB_BASED") or the
// registrar description ("Web Based"). Unknown values map to
// InstructionalMethodNone.
func ParseInstructionalMethod(s string) InstructionalMethod {
	s = strings.TrimSpace(s)
	if _, ok := instructionalMethodRank[InstructionalMethod(strings.ToUpper(s))]; ok {
		return InstructionalMethod(strings.ToUpper(s))
	}
	if m, ok := instructionalMethodNames[strings.ToLower(s)]; ok {
		return m
	}
	return InstructionalMethodNone
}

// Section is one offered class section, identified by its CRN.
// A Section owns its Instructor and Grades; its Meetings point back at it.
type Section struct {
	ID                  int                 `json:"id"`
	CRN                 int                 `json:"crn"`
	Subject             string              `json:"subject"`
	CourseNum           string              `json:"course_num"`
	SectionNum          string              `json:"section_num"`
	MinCredits          int                 `json:"min_credits"`
	MaxCredits          *int                `json:"max_credits"`
	CurrentEnrollment   int                 `json:"current_enrollment"`
	MaxEnrollment       int                 `json:"max_enrollment"`
	Instructor          Instructor          `json:"instructor"`
	Grades              *Grades             `json:"grades"`
	Honors              bool                `json:"honors"`
	Remote              bool                `json:"remote"`
	Asynchronous        bool                `json:"asynchronous"`
	InstructionalMethod InstructionalMethod `json:"instructional_method"`
}

// SectionArgs is the constructor input for a Section. Pointer fields are
// required unless noted; nil stands for a null or missing value.
type SectionArgs struct {
	ID                *int
	CRN               *int
	Subject           *string
	CourseNum         *string
	SectionNum        *string
	MinCredits        *int
	MaxCredits        *int // optional
	CurrentEnrollment *int
	MaxEnrollment     *int
	Instructor        *Instructor
	Grades            *Grades // optional
	Honors            *bool
	Remote            *bool
	Asynchronous      *bool

	// InstructionalMethod is optional and defaults to InstructionalMethodNone.
	InstructionalMethod *InstructionalMethod
}

// NewSection validates args and builds a Section.
func NewSection(args SectionArgs) (*Section, error) {
	const entity = "Section"

	switch {
	case args.ID == nil:
		return nil, missingField(entity, "id")
	case args.CRN == nil:
		return nil, missingField(entity, "crn")
	case args.Subject == nil:
		return nil, missingField(entity, "subject")
	case args.CourseNum == nil:
		return nil, missingField(entity, "courseNum")
	case args.SectionNum == nil:
		return nil, missingField(entity, "sectionNum")
	case args.MinCredits == nil:
		return nil, missingField(entity, "minCredits")
	case args.CurrentEnrollment == nil:
		return nil, missingField(entity, "currentEnrollment")
	case args.MaxEnrollment == nil:
		return nil, missingField(entity, "maxEnrollment")
	case args.Instructor == nil:
		return nil, missingField(entity, "instructor")
	case args.Honors == nil:
		return nil, missingField(entity, "honors")
	case args.Remote == nil:
		return nil, missingField(entity, "remote")
	case args.Asynchronous == nil:
		return nil, missingField(entity, "asynchronous")
	}

	s := &Section{
		ID:                *args.ID,
		CRN:               *args.CRN,
		Subject:           *args.Subject,
		CourseNum:         *args.CourseNum,
		SectionNum:        *args.SectionNum,
		MinCredits:        *args.MinCredits,
		CurrentEnrollment: *args.CurrentEnrollment,
		MaxEnrollment:     *args.MaxEnrollment,
		Instructor:        *args.Instructor,
		Grades:            args.Grades,
		Honors:            *args.Honors,
		Remote:            *args.Remote,
		Asynchronous:      *args.Asynchronous,
	}
	if args.MaxCredits != nil {
		maxCredits := *args.MaxCredits
		s.MaxCredits = &maxCredits
	}
	if args.InstructionalMethod != nil {
		s.InstructionalMethod = *args.InstructionalMethod
	}
	return s, nil
}

// OpenSeats is the number of seats left; it is negative when over-enrolled.
func (s *Section) OpenSeats() int {
	return s.MaxEnrollment - s.CurrentEnrollment
}

// IsFull reports whether no seats remain.
func (s *Section) IsFull() bool {
	return s.OpenSeats() <= 0
}

// SectionSelected pairs a section with its meetings and whether the user
// picked it on a course card.
type SectionSelected struct {
	Section  *Section   `json:"section"`
	Meetings []*Meeting `json:"meetings"`
	Selected bool       `json:"selected"`
}
