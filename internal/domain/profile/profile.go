package profile

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile is a registered organization: a buyer that posts projects or a
// supplier that bids on them.
type Profile struct {
	ID                 uuid.UUID `json:"id"`
	Type               UserType  `json:"user_type"`
	CompanyName        string    `json:"company_name"`
	RepresentativeName string    `json:"representative_name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone,omitempty"`
	BusinessNumber     string    `json:"business_number,omitempty"`
	Address            string    `json:"address,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserType int

const (
	TypeBuyer UserType = iota
	TypeSupplier
)

func (t UserType) String() string {
	switch t {
	case TypeBuyer:
		return "buyer"
	case TypeSupplier:
		return "supplier"
	default:
		return "unknown"
	}
}

// ParseUserType converts a stored string to a UserType.
func ParseUserType(s string) (UserType, error) {
	switch strings.ToLower(s) {
	case "buyer", "a":
		return TypeBuyer, nil
	case "supplier", "b":
		return TypeSupplier, nil
	default:
		return 0, fmt.Errorf("invalid user type: %q", s)
	}
}

// NewProfile creates a profile at signup time.
func NewProfile(userType UserType, companyName, representativeName, email string) (*Profile, error) {
	if userType != TypeBuyer && userType != TypeSupplier {
		return nil, ErrInvalidUserType
	}

	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return nil, fmt.Errorf("company name is required")
	}

	representativeName = strings.TrimSpace(representativeName)
	if representativeName == "" {
		return nil, fmt.Errorf("representative name is required")
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}

	now := time.Now()
	return &Profile{
		ID:                 uuid.New(),
		Type:               userType,
		CompanyName:        companyName,
		RepresentativeName: representativeName,
		Email:              email,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// Update applies owner-initiated changes to the mutable contact fields.
func (p *Profile) Update(companyName, representativeName, phone, businessNumber, address string) error {
	if companyName = strings.TrimSpace(companyName); companyName != "" {
		p.CompanyName = companyName
	}
	if representativeName = strings.TrimSpace(representativeName); representativeName != "" {
		p.RepresentativeName = representativeName
	}
	p.Phone = phone
	p.BusinessNumber = businessNumber
	p.Address = address
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Profile) IsBuyer() bool {
	return p.Type == TypeBuyer
}

func (p *Profile) IsSupplier() bool {
	return p.Type == TypeSupplier
}

var ErrInvalidUserType = fmt.Errorf("invalid user type")
