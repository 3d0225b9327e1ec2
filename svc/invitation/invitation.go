package invitation

import "time"

// Salutation selects the form of address used in the invitation message.
type Salutation string

const (
	FormalMale     Salutation = "FORMAL_MALE"
	FormalFemale   Salutation = "FORMAL_FEMALE"
	InformalFemale Salutation = "INFORMAL_FEMALE"
	InformalMale   Salutation = "INFORMAL_MALE"
)

// DefaultSalutation is applied on write when no salutation is set.
const DefaultSalutation = InformalMale

// Salutations lists every known salutation.
var Salutations = []Salutation{FormalMale, FormalFemale, InformalFemale, InformalMale}

func (s Salutation) String() string { return string(s) }

// Valid reports whether s is one of the known salutations.
func (s Salutation) Valid() bool {
	for _, v := range Salutations {
		if s == v {
			return true
		}
	}
	return false
}

// Invitation is one invitee of the event together with the lifecycle state
// of their invitation.
type Invitation struct {
	ID              string     `json:"id,omitempty"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Email           string     `json:"email"`
	Comment         string     `json:"comment,omitempty"`
	InternalComment string     `json:"internalComment,omitempty"`
	Contact         string     `json:"contact,omitempty"`
	Salutation      Salutation `json:"salutation,omitempty"`
	InvitationState State      `json:"invitationState,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	CreatedBy       string     `json:"createdBy,omitempty"`
	ModifiedAt      time.Time  `json:"modifiedAt"`
	ModifiedBy      string     `json:"modifiedBy,omitempty"`
}

// FullName returns "FirstName LastName".
func (i Invitation) FullName() string {
	switch {
	case i.FirstName == "":
		return i.LastName
	case i.LastName == "":
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}
