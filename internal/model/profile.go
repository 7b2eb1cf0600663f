package model

import (
	"strings"
	"time"
)

// Address is the home address block of a student profile.
type Address struct {
	HouseNumber string `json:"houseNumber,omitempty"`
	Moo         string `json:"moo,omitempty"`
	Street      string `json:"street,omitempty"`
	SubDistrict string `json:"subDistrict,omitempty"`
	District    string `json:"district,omitempty"`
	Province    string `json:"province,omitempty"`
}

// PersonInfo describes a guardian or parent.
type PersonInfo struct {
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	Relation   string `json:"relation,omitempty"`
}

// StudentProfile is one enrolled student. Profiles are keyed by class, not by year.
type StudentProfile struct {
	LastProfileUpdate time.Time  `json:"lastProfileUpdate"`
	Address           Address    `json:"address"`
	Guardian          PersonInfo `json:"guardian"`
	Father            PersonInfo `json:"father"`
	Mother            PersonInfo `json:"mother"`
	ID                string     `json:"id"`
	SchoolCode        string     `json:"schoolCode,omitempty"`
	SchoolName        string     `json:"schoolName,omitempty"`
	NationalID        string     `json:"nationalId,omitempty"`
	ClassName         string     `json:"className"`
	Room              string     `json:"room,omitempty"`
	StudentSchoolID   string     `json:"studentSchoolId,omitempty"`
	Gender            string     `json:"gender,omitempty"`
	Title             string     `json:"title,omitempty"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	FullName          string     `json:"fullName"`
	BirthDate         string     `json:"birthDate,omitempty"`
	Age               string     `json:"age,omitempty"`
	Weight            string     `json:"weight,omitempty"`
	Height            string     `json:"height,omitempty"`
	BloodGroup        string     `json:"bloodGroup,omitempty"`
	Religion          string     `json:"religion,omitempty"`
	Ethnicity         string     `json:"ethnicity,omitempty"`
	Nationality       string     `json:"nationality,omitempty"`
	Disadvantage      string     `json:"disadvantage,omitempty"`
	StatusNote        string     `json:"statusNote,omitempty"`
}

// ComposeFullName builds the display name. The title is glued to the first name
// without a space, as Thai names are written.
func ComposeFullName(title, firstName, lastName string) string {
	return strings.TrimSpace(title + firstName + " " + lastName)
}

// DisplayID is the number printed next to a student's name on score sheets.
func (p StudentProfile) DisplayID() string {
	if p.StudentSchoolID != "" {
		return p.StudentSchoolID
	}
	return p.NationalID
}

// FindProfile returns the profile with the given id.
func FindProfile(profiles []StudentProfile, id string) (StudentProfile, bool) {
	for _, p := range profiles {
		if p.ID == id {
			return p, true
		}
	}
	return StudentProfile{}, false
}
