package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// cnicPattern matches the national identity card format 12345-1234567-1
// with the dashes optional.
var cnicPattern = regexp.MustCompile(`^\d{5}-?\d{7}-?\d$`)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Contact is a value object holding a customer's identity and reachability
// details. It is immutable - all operations return new Contact instances.
type Contact struct {
	phone   string
	email   string
	cnic    string
	address string
}

// ContactOption is a functional option for configuring Contact
type ContactOption func(*Contact)

// WithEmail sets the email for the contact
func WithEmail(email string) ContactOption {
	return func(c *Contact) {
		c.email = strings.TrimSpace(email)
	}
}

// WithAddress sets the postal address for the contact
func WithAddress(address string) ContactOption {
	return func(c *Contact) {
		c.address = strings.TrimSpace(address)
	}
}

// NewContact creates a Contact. Phone and CNIC are required; email and
// address are optional.
func NewContact(phone, cnic string, opts ...ContactOption) (Contact, error) {
	phone = strings.TrimSpace(phone)
	cnic = strings.TrimSpace(cnic)

	if phone == "" {
		return Contact{}, fmt.Errorf("phone cannot be empty")
	}
	if !cnicPattern.MatchString(cnic) {
		return Contact{}, fmt.Errorf("invalid CNIC: %s", cnic)
	}

	c := Contact{phone: phone, cnic: normalizeCNIC(cnic)}
	for _, opt := range opts {
		opt(&c)
	}
	if c.email != "" && !emailPattern.MatchString(c.email) {
		return Contact{}, fmt.Errorf("invalid email: %s", c.email)
	}
	return c, nil
}

// normalizeCNIC renders the CNIC in the dashed display form
func normalizeCNIC(cnic string) string {
	digits := strings.ReplaceAll(cnic, "-", "")
	return digits[0:5] + "-" + digits[5:12] + "-" + digits[12:13]
}

// Phone returns the phone number
func (c Contact) Phone() string { return c.phone }

// Email returns the email address
func (c Contact) Email() string { return c.email }

// CNIC returns the national identity card number in dashed form
func (c Contact) CNIC() string { return c.cnic }

// Address returns the postal address
func (c Contact) Address() string { return c.address }

// IsZero reports whether the contact is unset
func (c Contact) IsZero() bool {
	return c == Contact{}
}

// Equals returns true if both contacts hold the same values
func (c Contact) Equals(other Contact) bool {
	return c == other
}

// MarshalJSON implements json.Marshaler
func (c Contact) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Phone   string `json:"phone"`
		Email   string `json:"email,omitempty"`
		CNIC    string `json:"cnic"`
		Address string `json:"address,omitempty"`
	}{
		Phone:   c.phone,
		Email:   c.email,
		CNIC:    c.cnic,
		Address: c.address,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Contact) UnmarshalJSON(data []byte) error {
	var v struct {
		Phone   string `json:"phone"`
		Email   string `json:"email"`
		CNIC    string `json:"cnic"`
		Address string `json:"address"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	contact, err := NewContact(v.Phone, v.CNIC, WithEmail(v.Email), WithAddress(v.Address))
	if err != nil {
		return err
	}
	*c = contact
	return nil
}

// Value implements driver.Valuer, storing the contact as JSON
func (c Contact) Value() (driver.Value, error) {
	if c.IsZero() {
		return nil, nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner
func (c *Contact) Scan(value any) error {
	if value == nil {
		*c = Contact{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Contact", value)
	}
	return json.Unmarshal(data, c)
}
