package classes

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Tag is the directory's sub-unit type, reported as firstOrgType.
type Tag string

// Organization is one row of the fixed organization table.
type Organization struct {
	Code        string
	Name        string
	Description string
	Classes     map[string]Tag
}

// Letters returns the organization's class letters in sorted order.
func (o Organization) Letters() []string {
	letters := make([]string, 0, len(o.Classes))
	for letter := range o.Classes {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	return letters
}

var organizations = []Organization{
	{
		Code:        "M",
		Name:        "Young Men",
		Description: "(P)riest, (T)eacher, (D)eacon",
		Classes: map[string]Tag{
			"D": "DEACONS_QUORUM",
			"P": "PRIESTS_QUORUM",
			"T": "TEACHERS_QUORUM",
		},
	},
	{
		Code:        "W",
		Name:        "Young Women",
		Description: "(L)aurel, (M)ia Maid, (B)eehive",
		Classes: map[string]Tag{
			"B": "BEEHIVE",
			"L": "LAUREL",
			"M": "MIA_MAID",
		},
	},
}

func init() {
	if err := validateTable(organizations); err != nil {
		panic(err)
	}
}

// validateTable checks codes and class letters are single upper-case characters,
// unique, and that no tag is claimed by two letters.
func validateTable(orgs []Organization) error {
	codes := map[string]bool{}
	for _, org := range orgs {
		if !isLetter(org.Code) {
			return fmt.Errorf("organization code %q must be a single upper-case letter", org.Code)
		}
		if codes[org.Code] {
			return fmt.Errorf("duplicate organization code %q", org.Code)
		}
		codes[org.Code] = true

		if org.Name == "" {
			return fmt.Errorf("organization %q has no name", org.Code)
		}
		if len(org.Classes) == 0 {
			return fmt.Errorf("organization %q has no classes", org.Code)
		}

		tags := map[Tag]bool{}
		for letter, tag := range org.Classes {
			if !isLetter(letter) {
				return fmt.Errorf("organization %q class letter %q must be a single upper-case letter", org.Code, letter)
			}
			if tag == "" || tags[tag] {
				return fmt.Errorf("organization %q has an empty or duplicate tag %q", org.Code, tag)
			}
			tags[tag] = true
		}
	}
	return nil
}

func isLetter(s string) bool {
	return len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z'
}

// Organizations returns the supported organizations in table order.
func Organizations() []Organization {
	return slices.Clone(organizations)
}

// Codes returns the supported organization codes.
func Codes() []string {
	codes := make([]string, 0, len(organizations))
	for _, org := range organizations {
		codes = append(codes, org.Code)
	}
	return codes
}

// Lookup finds an organization by code, case-insensitively.
func Lookup(code string) (Organization, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, org := range organizations {
		if org.Code == code {
			return org, true
		}
	}
	return Organization{}, false
}

// Selection is a validated organization and class choice.
type Selection struct {
	Organization Organization
	Letters      []string
	Tags         map[Tag]struct{}
}

// Code returns the normalized organization code.
func (s Selection) Code() string {
	return s.Organization.Code
}

// Has reports whether a sub-unit type tag is part of the selection.
func (s Selection) Has(tag string) bool {
	_, ok := s.Tags[Tag(tag)]
	return ok
}

// ValidateOrganization checks the organization code on its own so callers can
// reject it before asking for class letters.
func ValidateOrganization(orgCode string) (Organization, error) {
	org, ok := Lookup(orgCode)
	if !ok {
		return Organization{}, &ValidationError{Kind: ErrInvalidOrganization, Input: orgCode}
	}
	return org, nil
}

// ValidateSelection turns raw user input into a Selection. Letter order and
// duplicates do not affect the resulting tag set.
func ValidateSelection(orgCode, classLetters string) (Selection, error) {
	org, err := ValidateOrganization(orgCode)
	if err != nil {
		return Selection{}, err
	}

	input := strings.ToUpper(strings.TrimSpace(classLetters))
	if input == "" {
		return Selection{}, &ValidationError{Kind: ErrInvalidClassSelection, Input: classLetters, ValidLetters: org.Letters()}
	}

	tags := make(map[Tag]struct{})
	var letters []string
	for _, r := range input {
		letter := string(r)
		tag, ok := org.Classes[letter]
		if !ok {
			return Selection{}, &ValidationError{Kind: ErrInvalidClassSelection, Input: classLetters, ValidLetters: org.Letters()}
		}
		if _, seen := tags[tag]; !seen {
			letters = append(letters, letter)
		}
		tags[tag] = struct{}{}
	}
	sort.Strings(letters)

	return Selection{Organization: org, Letters: letters, Tags: tags}, nil
}
