package value_objects

import "fmt"

// SubjectType discriminates the closed set of grant holder kinds.
type SubjectType string

const (
	SubjectUser         SubjectType = "user"
	SubjectGroup        SubjectType = "group"
	SubjectOrganization SubjectType = "organization"
	SubjectRole         SubjectType = "role"
)

// IsValid reports whether the type is one of the recognized kinds.
func (t SubjectType) IsValid() bool {
	switch t {
	case SubjectUser, SubjectGroup, SubjectOrganization, SubjectRole:
		return true
	}
	return false
}

// Subject identifies a grant holder: a user, or one of the membership
// containers (group, organization, role) a user may belong to.
type Subject struct {
	Type SubjectType
	ID   string
}

// NewSubject validates and builds a subject identifier.
func NewSubject(subjectType SubjectType, id string) (Subject, error) {
	if !subjectType.IsValid() {
		return Subject{}, fmt.Errorf("unknown subject type: %q", subjectType)
	}
	if id == "" {
		return Subject{}, fmt.Errorf("subject id is required")
	}
	return Subject{Type: subjectType, ID: id}, nil
}

// UserSubject is shorthand for a user-typed subject.
func UserSubject(userID string) Subject {
	return Subject{Type: SubjectUser, ID: userID}
}

func (s Subject) String() string {
	return fmt.Sprintf("%s:%s", s.Type, s.ID)
}
