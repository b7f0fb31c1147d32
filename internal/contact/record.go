package contact

import (
	"strings"
	"time"
)

// Phone is a validated 10-digit phone number.
type Phone string

// NewPhone validates s and returns it as a Phone.
func NewPhone(s string) (Phone, error) {
	if !ValidatePhone(s) {
		return "", &ValidationError{Field: "phone", Value: s, Message: msgInvalidPhone}
	}
	return Phone(s), nil
}

func (p Phone) String() string { return string(p) }

// Birthday is a validated calendar date.
type Birthday struct {
	date time.Time
}

// NewBirthday parses s as DD.MM.YYYY.
func NewBirthday(s string) (Birthday, error) {
	t, ok := parseBirthday(s)
	if !ok {
		return Birthday{}, &ValidationError{Field: "birthday", Value: s, Message: msgInvalidBirthday}
	}
	return Birthday{date: t}, nil
}

// Month returns the month of the birthday.
func (b Birthday) Month() time.Month { return b.date.Month() }

// Day returns the day of the month of the birthday.
func (b Birthday) Day() int { return b.date.Day() }

// Year returns the birth year.
func (b Birthday) Year() int { return b.date.Year() }

func (b Birthday) String() string { return b.date.Format(BirthdayLayout) }

// Record is a single contact. The name is fixed at creation; phones keep
// insertion order and may repeat.
type Record struct {
	name     string
	phones   []Phone
	birthday *Birthday
}

// NewRecord returns a Record with only a name set.
func NewRecord(name string) *Record {
	return &Record{name: name}
}

// Name returns the contact name.
func (r *Record) Name() string { return r.name }

// Phones returns a copy of the stored phones.
func (r *Record) Phones() []Phone {
	out := make([]Phone, len(r.phones))
	copy(out, r.phones)
	return out
}

// Birthday returns the birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// AddPhone validates s and appends it.
func (r *Record) AddPhone(s string) error {
	p, err := NewPhone(s)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// RemovePhone drops every phone equal to s.
func (r *Record) RemovePhone(s string) {
	kept := r.phones[:0]
	for _, p := range r.phones {
		if string(p) != s {
			kept = append(kept, p)
		}
	}
	r.phones = kept
}

// EditPhone replaces the first phone equal to old with next, keeping its
// position. next is validated even when old is absent. An absent old is not
// an error: the record is left unchanged.
func (r *Record) EditPhone(old, next string) error {
	p, err := NewPhone(next)
	if err != nil {
		return err
	}
	for i := range r.phones {
		if string(r.phones[i]) == old {
			r.phones[i] = p
			return nil
		}
	}
	return nil
}

// FindPhone returns the first stored phone equal to s.
func (r *Record) FindPhone(s string) (Phone, bool) {
	for _, p := range r.phones {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// AddBirthday validates s and sets or overwrites the birthday.
func (r *Record) AddBirthday(s string) error {
	b, err := NewBirthday(s)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

func (r *Record) String() string {
	phones := make([]string, len(r.phones))
	for i, p := range r.phones {
		phones[i] = string(p)
	}
	birthday := "N/A"
	if r.birthday != nil {
		birthday = r.birthday.String()
	}
	return "Contact name: " + r.name + ", phones: " + strings.Join(phones, "; ") + ", birthday: " + birthday
}
