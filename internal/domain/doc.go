// Package domain contains the course-scheduling entities: sections, their
// meetings, instructors and grade distributions, plus the option types that
// make up a course card. Entities are built through constructors that
// reject null required fields with a *ValidationError.
package domain
