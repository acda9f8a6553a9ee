package domain

import (
	"sort"
	"strings"
)

// MeetingType is the registrar code for a meeting (LEC, LAB, EXAM, REC, ...).
type MeetingType string

// Meeting types with a fixed position in a section's meeting order.
// Any other non-empty code sorts between LAB and EXAM.
const (
	MeetingTypeLEC  MeetingType = "LEC"
	MeetingTypeLAB  MeetingType = "LAB"
	MeetingTypeEXAM MeetingType = "EXAM"
)

// DaysPerWeek is the length of Meeting.MeetingDays (Sunday first).
const DaysPerWeek = 7

// Priority returns the position of t in a section's meeting list.
func (t MeetingType) Priority() int {
	switch t {
	case MeetingTypeLEC:
		return 0
	case MeetingTypeLAB:
		return 1
	case MeetingTypeEXAM:
		return 3
	default:
		return 2
	}
}

// Meeting is one scheduled time block of a section.
// Section is a back-reference for lookups; the meeting does not own it.
type Meeting struct {
	ID               int               `json:"id"`
	Building         string            `json:"building"`
	MeetingDays      [DaysPerWeek]bool `json:"meeting_days"`
	StartTimeHours   int               `json:"start_time_hours"`
	StartTimeMinutes int               `json:"start_time_minutes"`
	EndTimeHours     int               `json:"end_time_hours"`
	EndTimeMinutes   int               `json:"end_time_minutes"`
	MeetingType      MeetingType       `json:"meeting_type"`
	Section          *Section          `json:"-"`
}

// MeetingArgs is the constructor input for a Meeting.
// Building and the four time components are optional.
type MeetingArgs struct {
	ID               *int
	Building         *string
	MeetingDays      []bool
	StartTimeHours   *int
	StartTimeMinutes *int
	EndTimeHours     *int
	EndTimeMinutes   *int
	MeetingType      *MeetingType
	Section          *Section
}

// NewMeeting validates args and builds a Meeting.
func NewMeeting(args MeetingArgs) (*Meeting, error) {
	const entity = "Meeting"

	switch {
	case args.ID == nil:
		return nil, missingField(entity, "id")
	case args.MeetingDays == nil:
		return nil, missingField(entity, "meetingDays")
	case len(args.MeetingDays) != DaysPerWeek:
		return nil, invalidField(entity, "meetingDays", "must have 7 entries")
	case args.MeetingType == nil:
		return nil, missingField(entity, "meetingType")
	case strings.TrimSpace(string(*args.MeetingType)) == "":
		return nil, invalidField(entity, "meetingType", "must not be empty")
	case args.Section == nil:
		return nil, missingField(entity, "section")
	}

	m := &Meeting{
		ID:          *args.ID,
		MeetingType: *args.MeetingType,
		Section:     args.Section,
	}
	copy(m.MeetingDays[:], args.MeetingDays)
	if args.Building != nil {
		m.Building = *args.Building
	}
	m.StartTimeHours = intOrZero(args.StartTimeHours)
	m.StartTimeMinutes = intOrZero(args.StartTimeMinutes)
	m.EndTimeHours = intOrZero(args.EndTimeHours)
	m.EndTimeMinutes = intOrZero(args.EndTimeMinutes)
	return m, nil
}

// SortMeetings orders meetings LEC, LAB, other types, EXAM in place,
// keeping input order among meetings of equal priority.
func SortMeetings(meetings []*Meeting) {
	sort.SliceStable(meetings, func(i, j int) bool {
		return meetings[i].MeetingType.Priority() < meetings[j].MeetingType.Priority()
	})
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
