// Package models defines server-side data models persisted in the database.
package models

import "time"

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// User is a user account. Password holds the bcrypt hash, never the plain
// text. Balance is kept in minor currency units.
type User struct {
	ID        int64
	FullName  string
	UserName  string
	Password  string
	Gender    Gender
	Balance   int64
	Role      string
	Deleted   bool
	CreatedAt time.Time
}

func (u *User) GetID() int64 { return u.ID }
