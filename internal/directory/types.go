package directory

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque directory identifier. The directory sends ids as either JSON
// numbers or strings; both decode to the same textual form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("directory id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Organization is an entry of the sub-org name hierarchy.
type Organization struct {
	ID       ID             `json:"id"`
	Name     string         `json:"name"`
	SubOrgID ID             `json:"subOrgId"`
	Children []Organization `json:"children,omitempty"`
}

// SubOrg is one element of the sub-orgs-with-callings response.
type SubOrg struct {
	SubOrgID ID        `json:"subOrgId"`
	Name     string    `json:"name"`
	Children []SubUnit `json:"children"`
}

// SubUnit is a class within a sub-organization.
type SubUnit struct {
	SubOrgID     ID           `json:"subOrgId"`
	Name         string       `json:"name"`
	FirstOrgType string       `json:"firstOrgType"`
	Members      []MemberStub `json:"members"`
}

// MemberStub is the member shape listed under a sub-unit. Email and
// HouseholdEmail are empty when the directory omits them or sends null.
type MemberStub struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	HouseholdEmail string `json:"householdEmail"`
}

// MemberProfile is the member record, of which only the household is used.
type MemberProfile struct {
	Household Household `json:"household"`
}

// Household lists every member living with the profiled member.
type Household struct {
	Members []HouseholdMember `json:"members"`
}

// HouseholdMember is one household entry, flagged when it is the head of household.
type HouseholdMember struct {
	ID              ID   `json:"id"`
	HeadOfHousehold bool `json:"headOfHousehold"`
}

// MemberCard is the contact card of a single member.
type MemberCard struct {
	Email string `json:"email"`
}
