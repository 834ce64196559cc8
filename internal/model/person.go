package model

// Person holds the contact fields shared by Patient, Practitioner, Nurse and
// User. It is embedded by value rather than inherited; kind-specific behavior
// stays on the owning entity.
type Person struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	BirthDate string `json:"birthDate,omitempty"`
}

func (p Person) personFields() map[string]string {
	return map[string]string{
		"firstName": p.FirstName,
		"lastName":  p.LastName,
		"email":     p.Email,
		"phone":     p.Phone,
	}
}
