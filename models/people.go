package models

import "strings"

// Person represents an employee record held by the directory.
type Person struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
	Country     string `json:"country"`
	AvatarLarge string `json:"avatarLarge"`
	AvatarThumb string `json:"avatarThumb"`
	JobTitle    string `json:"jobTitle"`
	Department  string `json:"department"`
}

// FullName joins the first and last name with a single space.
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// RawPerson is a record as returned by the remote person provider.
type RawPerson struct {
	Login    RawLogin    `json:"login"`
	Name     RawName     `json:"name"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	Location RawLocation `json:"location"`
	Picture  RawPicture  `json:"picture"`
}

type RawLogin struct {
	UUID     string `json:"uuid"`
	Username string `json:"username,omitempty"`
}

type RawName struct {
	Title string `json:"title,omitempty"`
	First string `json:"first"`
	Last  string `json:"last"`
}

type RawLocation struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

type RawPicture struct {
	Large     string `json:"large"`
	Medium    string `json:"medium,omitempty"`
	Thumbnail string `json:"thumbnail"`
}

// PeoplePage is the provider response envelope.
type PeoplePage struct {
	Results []RawPerson `json:"results"`
	Info    PageInfo    `json:"info"`
	Error   string      `json:"error,omitempty"`
}

type PageInfo struct {
	Seed    string `json:"seed"`
	Page    int    `json:"page"`
	Results int    `json:"results"`
}

// TeamToggleRequest identifies the person to toggle, either inline or by directory ID.
type TeamToggleRequest struct {
	ID     string  `json:"id,omitempty"`
	Person *Person `json:"person,omitempty"`
}

// TeamToggleResponse reports the outcome of a toggle.
type TeamToggleResponse struct {
	Outcome string `json:"outcome"`
	Person  Person `json:"person"`
}

// MembershipResponse reports whether a person is on the team.
type MembershipResponse struct {
	ID     string `json:"id"`
	Member bool   `json:"member"`
}
