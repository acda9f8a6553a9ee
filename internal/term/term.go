// Package term encodes and decodes six-digit term codes and defines the
// source the API lists terms from.
//
// A term code is the four-digit year followed by a semester digit and a
// campus digit: 202031 is Fall 2020 at College Station.
package term

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidTerm is returned for malformed years and term codes.
var ErrInvalidTerm = errors.New("invalid term")

// Source lists the terms sections can be fetched for.
type Source interface {
	// FetchTerms maps a human-readable description to its term code.
	FetchTerms(ctx context.Context) (map[string]string, error)
}

// Semester is the second-to-last digit of a term code.
type Semester int

const (
	Spring Semester = 1
	Summer Semester = 2
	Fall   Semester = 3
)

func (s Semester) String() string {
	switch s {
	case Spring:
		return "Spring"
	case Summer:
		return "Summer"
	case Fall:
		return "Fall"
	}
	return fmt.Sprintf("Semester(%d)", int(s))
}

// Location is the last digit of a term code.
type Location int

const (
	CollegeStation Location = 1
	Galveston      Location = 2
	Qatar          Location = 3
)

func (l Location) String() string {
	switch l {
	case CollegeStation:
		return "College Station"
	case Galveston:
		return "Galveston"
	case Qatar:
		return "Qatar"
	}
	return fmt.Sprintf("Location(%d)", int(l))
}

// Term is a decoded term code.
type Term struct {
	Year     int
	Semester Semester
	Location Location
}

// Code builds the term code for a four-digit year.
func Code(year string, semester Semester, location Location) (string, error) {
	if len(year) != 4 {
		return "", fmt.Errorf("%w: year %q must have 4 digits", ErrInvalidTerm, year)
	}
	if _, err := strconv.Atoi(year); err != nil {
		return "", fmt.Errorf("%w: year %q is not a number", ErrInvalidTerm, year)
	}
	if semester < Spring || semester > Fall {
		return "", fmt.Errorf("%w: unknown semester %d", ErrInvalidTerm, int(semester))
	}
	if location < CollegeStation || location > Qatar {
		return "", fmt.Errorf("%w: unknown location %d", ErrInvalidTerm, int(location))
	}
	return fmt.Sprintf("%s%d%d", year, int(semester), int(location)), nil
}

// Parse decodes a term code.
func Parse(code string) (Term, error) {
	if len(code) != 6 {
		return Term{}, fmt.Errorf("%w: code %q must have 6 digits", ErrInvalidTerm, code)
	}
	n, err := strconv.Atoi(code)
	if err != nil || n < 0 {
		return Term{}, fmt.Errorf("%w: code %q is not a number", ErrInvalidTerm, code)
	}
	t := Term{
		Year:     n / 100,
		Semester: Semester(n / 10 % 10),
		Location: Location(n % 10),
	}
	if t.Semester < Spring || t.Semester > Fall || t.Location < CollegeStation || t.Location > Qatar {
		return Term{}, fmt.Errorf("%w: code %q", ErrInvalidTerm, code)
	}
	return t, nil
}

// Code re-encodes t.
func (t Term) Code() string {
	return fmt.Sprintf("%04d%d%d", t.Year, int(t.Semester), int(t.Location))
}

// String returns the description shown in the term picker,
// e.g. "Fall 2020 - College Station".
func (t Term) String() string {
	return fmt.Sprintf("%s %d - %s", t.Semester, t.Year, t.Location)
}

// Describe returns the picker description of a term code, or the code
// itself when it cannot be decoded.
func Describe(code string) string {
	t, err := Parse(code)
	if err != nil {
		return code
	}
	return t.String()
}
