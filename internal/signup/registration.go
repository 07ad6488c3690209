// Package signup validates registrations from the landing page form and
// relays them to the email delivery service.
package signup

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Form field names, as sent to the email template.
const (
	FieldStudentName = "studentName"
	FieldParentName  = "parentName"
	FieldEmail       = "email"
	FieldAge         = "age"
	FieldMessage     = "message"
)

// DefaultMessage replaces an empty message.
const DefaultMessage = "No additional information provided"

// Age limits for students.
const (
	MinAge = 7
	MaxAge = 12
)

var leadingIntPattern = regexp.MustCompile(`^[+-]?[0-9]+`)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Registration is one signup form submission.
type Registration struct {
	StudentName string `yaml:"student_name"`
	ParentName  string `yaml:"parent_name"`
	Email       string `yaml:"email"`
	Age         string `yaml:"age"`
	Message     string `yaml:"message"`
}

// Normalize trims every field and fills in the default message.
func (r Registration) Normalize() Registration {
	r.StudentName = strings.TrimSpace(r.StudentName)
	r.ParentName = strings.TrimSpace(r.ParentName)
	r.Email = strings.TrimSpace(r.Email)
	r.Age = strings.TrimSpace(r.Age)
	r.Message = strings.TrimSpace(r.Message)
	if r.Message == "" {
		r.Message = DefaultMessage
	}
	return r
}

// Params returns the flat template parameters sent to the delivery service.
func (r Registration) Params() map[string]string {
	return map[string]string{
		FieldStudentName: r.StudentName,
		FieldParentName:  r.ParentName,
		FieldEmail:       r.Email,
		FieldAge:         r.Age,
		FieldMessage:     r.Message,
	}
}

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := fe.Names()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fe[k]))
	}
	return "signup: invalid registration: " + strings.Join(parts, "; ")
}

// Names returns the failing field names in sorted order.
func (fe FieldErrors) Names() []string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateField checks one trimmed field value. It returns "" when valid.
// Fields without a rule always pass.
func ValidateField(name, value string) string {
	value = strings.TrimSpace(value)
	switch name {
	case FieldStudentName, FieldParentName:
		if len(utf16.Encode([]rune(value))) < 2 {
			return "Please enter a valid name (at least 2 characters)"
		}
	case FieldEmail:
		if !emailPattern.MatchString(value) {
			return "Please enter a valid email address"
		}
	case FieldAge:
		age, ok := leadingInt(value)
		if !ok || age < MinAge || age > MaxAge {
			return fmt.Sprintf("Age must be between %d and %d", MinAge, MaxAge)
		}
	}
	return ""
}

// leadingInt reads the optionally signed decimal prefix of s and ignores
// whatever follows it, so "8 years" and "10.5" read as 8 and 10.
func leadingInt(s string) (int, bool) {
	m := leadingIntPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Validate checks every required field and returns FieldErrors, or nil when
// the registration is valid.
func (r Registration) Validate() error {
	fe := FieldErrors{}
	for name, value := range map[string]string{
		FieldStudentName: r.StudentName,
		FieldParentName:  r.ParentName,
		FieldEmail:       r.Email,
		FieldAge:         r.Age,
	} {
		if msg := ValidateField(name, value); msg != "" {
			fe[name] = msg
		}
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}
