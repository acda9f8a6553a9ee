package domain

import (
	"testing"
)

func validMeetingArgs(section *Section) MeetingArgs {
	lec := MeetingTypeLEC
	return MeetingArgs{
		ID:               ptr(11),
		Building:         ptr("ZACH"),
		MeetingDays:      []bool{false, true, false, true, false, true, false},
		StartTimeHours:   ptr(8),
		StartTimeMinutes: ptr(0),
		EndTimeHours:     ptr(8),
		EndTimeMinutes:   ptr(50),
		MeetingType:      &lec,
		Section:          section,
	}
}

func TestNewMeeting(t *testing.T) {
	t.Parallel()
	section := &Section{ID: 1, SectionNum: "500"}

	m, err := NewMeeting(validMeetingArgs(section))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if m.Section != section {
		t.Error("Expected meeting to point back at its section")
	}
	if m.Building != "ZACH" || m.EndTimeMinutes != 50 {
		t.Errorf("Unexpected meeting fields: %+v", m)
	}
	if !m.MeetingDays[1] || m.MeetingDays[0] {
		t.Errorf("Expected Monday-only pattern to be copied, got %v", m.MeetingDays)
	}
}

func TestNewMeetingDefaults(t *testing.T) {
	t.Parallel()
	args := validMeetingArgs(&Section{})
	args.Building = nil
	args.StartTimeHours = nil
	args.StartTimeMinutes = nil
	args.EndTimeHours = nil
	args.EndTimeMinutes = nil

	m, err := NewMeeting(args)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if m.Building != "" {
		t.Errorf("Expected empty building, got %q", m.Building)
	}
	if m.StartTimeHours != 0 || m.StartTimeMinutes != 0 || m.EndTimeHours != 0 || m.EndTimeMinutes != 0 {
		t.Errorf("Expected zero times, got %+v", m)
	}
}

func TestNewMeetingRejectsInvalid(t *testing.T) {
	t.Parallel()
	empty := MeetingType(" ")
	cases := map[string]func(*MeetingArgs){
		"null id":          func(a *MeetingArgs) { a.ID = nil },
		"null days":        func(a *MeetingArgs) { a.MeetingDays = nil },
		"short days":       func(a *MeetingArgs) { a.MeetingDays = []bool{true} },
		"null type":        func(a *MeetingArgs) { a.MeetingType = nil },
		"blank type":       func(a *MeetingArgs) { a.MeetingType = &empty },
		"null section ref": func(a *MeetingArgs) { a.Section = nil },
	}
	for name, mutate := range cases {
		args := validMeetingArgs(&Section{})
		mutate(&args)
		if _, err := NewMeeting(args); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestSortMeetings(t *testing.T) {
	t.Parallel()
	section := &Section{}
	mk := func(id int, typ MeetingType) *Meeting {
		return &Meeting{ID: id, MeetingType: typ, Section: section}
	}
	meetings := []*Meeting{
		mk(13, MeetingTypeEXAM),
		mk(14, "REC"),
		mk(12, MeetingTypeLAB),
		mk(11, MeetingTypeLEC),
		mk(15, MeetingTypeLEC),
	}

	SortMeetings(meetings)

	want := []int{11, 15, 12, 14, 13}
	for i, m := range meetings {
		if m.ID != want[i] {
			t.Fatalf("position %d: expected meeting %d, got %d", i, want[i], m.ID)
		}
	}
}
