package domain

// Instructor is the person teaching a section. Instructors compare by value.
type Instructor struct {
	Name string `json:"name"`
}

// InstructorArgs holds the raw constructor input for an Instructor.
// A nil field means the value was null or missing.
type InstructorArgs struct {
	Name *string
}

// NewInstructor validates args and returns an Instructor.
func NewInstructor(args InstructorArgs) (Instructor, error) {
	if args.Name == nil {
		return Instructor{}, missingField("Instructor", "name")
	}
	return Instructor{Name: *args.Name}, nil
}
