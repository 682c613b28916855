package testutil

import (
	"fmt"
	"strings"

	"github.com/Pallinder/go-randomdata"
)

// Person is a throwaway identity for enquiry and booking fixtures.
type Person struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	City      string
	Pincode   string
}

// RandomPerson returns a person whose fields pass enquiry validation.
func RandomPerson() Person {
	first := randomdata.FirstName(randomdata.RandomGender)
	last := randomdata.LastName()
	return Person{
		FirstName: first,
		LastName:  last,
		Email:     strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", first, last, randomdata.Number(1000, 9999))),
		Phone:     fmt.Sprintf("9%09d", randomdata.Number(0, 999999999)),
		City:      randomdata.StringSample("Mumbai", "Thane", "Pune"),
		Pincode:   fmt.Sprintf("4%05d", randomdata.Number(0, 99999)),
	}
}
