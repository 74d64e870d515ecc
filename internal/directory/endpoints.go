package directory

import "net/url"

// OrgsPath is the organization hierarchy resource.
func OrgsPath() string {
	return "/services/orgs/sub-org-name-hierarchy"
}

// SubOrgPath is the sub-organization detail resource for a sub-org id.
func SubOrgPath(subOrgID ID) string {
	return "/services/orgs/sub-orgs-with-callings?subOrgId=" + url.QueryEscape(subOrgID.String())
}

// MemberProfilePath is the member profile resource, which includes the household.
func MemberProfilePath(memberID ID) string {
	return "/records/member-profile/service/" + url.PathEscape(memberID.String())
}

// MemberCardPath is the member contact card resource.
func MemberCardPath(memberID ID) string {
	return "/services/member-card?id=" + url.QueryEscape(memberID.String())
}
