package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/autoscheduler/autoscheduler/internal/domain"
)

// ParseSectionSelected turns raw backend sections into domain entities.
// Every result has Selected set to false; meetings are ordered by
// domain.SortMeetings. The first invalid record aborts parsing.
func ParseSectionSelected(raw []RawSection) ([]domain.SectionSelected, error) {
	out := make([]domain.SectionSelected, 0, len(raw))
	for i := range raw {
		s, err := parseSection(&raw[i])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func parseSection(r *RawSection) (domain.SectionSelected, error) {
	instructor, err := domain.NewInstructor(domain.InstructorArgs{Name: r.InstructorName})
	if err != nil {
		return domain.SectionSelected{}, err
	}

	var grades *domain.Grades
	if r.Grades != nil {
		grades, err = domain.NewGrades(domain.Grades(*r.Grades))
		if err != nil {
			return domain.SectionSelected{}, err
		}
	}

	var method *domain.InstructionalMethod
	if r.InstructionalMethod != nil {
		m := domain.ParseInstructionalMethod(*r.InstructionalMethod)
		method = &m
	}

	section, err := domain.NewSection(domain.SectionArgs{
		ID:                  r.ID,
		CRN:                 r.CRN,
		Subject:             r.Subject,
		CourseNum:           r.CourseNum,
		SectionNum:          r.SectionNum,
		MinCredits:          r.MinCredits,
		MaxCredits:          r.MaxCredits,
		CurrentEnrollment:   r.CurrentEnrollment,
		MaxEnrollment:       r.MaxEnrollment,
		Instructor:          &instructor,
		Grades:              grades,
		Honors:              r.Honors,
		Remote:              r.Remote,
		Asynchronous:        r.Asynchronous,
		InstructionalMethod: method,
	})
	if err != nil {
		return domain.SectionSelected{}, err
	}

	meetings := make([]*domain.Meeting, 0, len(r.Meetings))
	for i := range r.Meetings {
		m, err := parseMeeting(&r.Meetings[i], section)
		if err != nil {
			return domain.SectionSelected{}, err
		}
		meetings = append(meetings, m)
	}
	domain.SortMeetings(meetings)

	return domain.SectionSelected{Section: section, Meetings: meetings}, nil
}

func parseMeeting(r *RawMeeting, section *domain.Section) (*domain.Meeting, error) {
	startH, startM, err := parseClock(r.StartTime, "startTime")
	if err != nil {
		return nil, err
	}
	endH, endM, err := parseClock(r.EndTime, "endTime")
	if err != nil {
		return nil, err
	}

	var meetingType *domain.MeetingType
	if r.Type != nil {
		t := domain.MeetingType(strings.ToUpper(strings.TrimSpace(*r.Type)))
		meetingType = &t
	}

	return domain.NewMeeting(domain.MeetingArgs{
		ID:               r.ID,
		Building:         r.Building,
		MeetingDays:      r.Days,
		StartTimeHours:   startH,
		StartTimeMinutes: startM,
		EndTimeHours:     endH,
		EndTimeMinutes:   endM,
		MeetingType:      meetingType,
		Section:          section,
	})
}

// parseClock splits an "H:MM" time. A nil or empty value yields nil parts,
// which the Meeting constructor turns into zero.
func parseClock(v *string, field string) (*int, *int, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil, nil
	}
	t, err := time.Parse("15:04", strings.TrimSpace(*v))
	if err != nil {
		return nil, nil, &domain.ValidationError{
			Entity: "Meeting",
			Field:  field,
			Reason: fmt.Sprintf("must be HH:MM, got %q", *v),
		}
	}
	h, m := t.Hour(), t.Minute()
	return &h, &m, nil
}

// DecodeSections reads a JSON array of raw sections.
func DecodeSections(r io.Reader) ([]RawSection, error) {
	var raw []RawSection
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decoding sections: %v", domain.ErrInvalidFormat, err)
	}
	return raw, nil
}

// SplitCourse splits a course name such as "CSCE 121" into its subject
// and course number.
func SplitCourse(course string) (subject, courseNum string, err error) {
	fields := strings.Fields(course)
	if len(fields) != 2 {
		return "", "", fmt.Errorf("%w: course %q must be \"SUBJECT NUMBER\"", domain.ErrInvalidFormat, course)
	}
	return strings.ToUpper(fields[0]), fields[1], nil
}
