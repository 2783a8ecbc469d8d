package portalAuth

import "time"

// Account is a stored student account. It is a value type: the With*
// methods and Apply return modified copies and never touch the receiver.
type Account struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash string
	StudentID    string
	Course       string
	Year         int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountView is an Account without its password hash. It is the only
// account shape the engine hands to callers.
type AccountView struct {
	ID        int64
	Email     string
	FullName  string
	StudentID string
	Course    string
	Year      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileUpdate names the fields a profile update may change. Nil fields are
// left as they are. Email and password cannot be changed this way.
type ProfileUpdate struct {
	FullName  *string
	StudentID *string
	Course    *string
	Year      *int
}

// Empty reports whether u changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.FullName == nil && u.StudentID == nil && u.Course == nil && u.Year == nil
}

func (a Account) WithFullName(name string) Account {
	a.FullName = name
	return a
}

func (a Account) WithStudentID(id string) Account {
	a.StudentID = id
	return a
}

func (a Account) WithCourse(course string) Account {
	a.Course = course
	return a
}

func (a Account) WithYear(year int) Account {
	a.Year = year
	return a
}

// Apply returns a copy of a with every non-nil field of u applied.
func (a Account) Apply(u ProfileUpdate) Account {
	if u.FullName != nil {
		a = a.WithFullName(*u.FullName)
	}
	if u.StudentID != nil {
		a = a.WithStudentID(*u.StudentID)
	}
	if u.Course != nil {
		a = a.WithCourse(*u.Course)
	}
	if u.Year != nil {
		a = a.WithYear(*u.Year)
	}
	return a
}

// View strips the password hash.
func (a Account) View() AccountView {
	return AccountView{
		ID:        a.ID,
		Email:     a.Email,
		FullName:  a.FullName,
		StudentID: a.StudentID,
		Course:    a.Course,
		Year:      a.Year,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
