package validate

import "github.com/santalucia-health/hospital-admin-service/internal/model"

// PersonFields cleans and validates the shared person fields in place.
func PersonFields(p *model.Person) error {
	var err error
	if p.FirstName, err = Name("firstName", p.FirstName); err != nil {
		return err
	}
	if p.LastName, err = Name("lastName", p.LastName); err != nil {
		return err
	}
	if p.Email, err = Email("email", p.Email); err != nil {
		return err
	}
	if p.Phone, err = Phone("phone", p.Phone); err != nil {
		return err
	}
	if p.Address, err = Address("address", p.Address); err != nil {
		return err
	}
	if p.BirthDate, err = Date("birthDate", p.BirthDate); err != nil {
		return err
	}
	return nil
}
