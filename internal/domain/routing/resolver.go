// Package routing decides which organization reviews a submission next.
// The hierarchy is fixed at compile time.
package routing

import (
	"compliance-portal/internal/domain/apperr"
	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/submission"
)

// tiers that escalate to the audit authority (reports) or the top office (conduct requests)
var upperTiers = map[organization.Code]bool{
	organization.LCO:  true,
	organization.USG:  true,
	organization.GSC:  true,
	organization.USED: true,
	organization.TGP:  true,
}

// ResolveTarget returns the organization that must review a new submission.
// Letters of appeal go to the origin's report reviewer. currentReviewer, when
// given, must name that reviewer: an appeal cannot pick a tier outside the
// existing reviewer relationship.
func ResolveTarget(origin organization.Code, kind submission.Kind, currentReviewer organization.Code) (organization.Code, error) {
	if !origin.Known() {
		return "", apperr.Routing("unknown organization %q", origin)
	}
	if !kind.Valid() {
		return "", apperr.Validation("unknown submission kind %q", kind)
	}
	route := kind
	if kind == submission.KindAppeal {
		route = submission.KindAccomplishment
	}
	target, ok := Parent(origin, route)
	if !ok {
		return "", apperr.Routing("organization %s does not submit %s", origin, kind)
	}
	if kind != submission.KindAppeal || currentReviewer == "" || currentReviewer == origin {
		return target, nil
	}
	if !currentReviewer.Known() {
		return "", apperr.Routing("unknown reviewer %q", currentReviewer)
	}
	if currentReviewer != target {
		return "", apperr.Routing("%s does not review %s; appeals go to %s", currentReviewer, origin, target)
	}
	return target, nil
}

// Parent is the immediate reviewer of code for kind. COA and OSLD have none.
func Parent(code organization.Code, kind submission.Kind) (organization.Code, bool) {
	switch {
	case code == organization.COA || code == organization.OSLD || !code.Known():
		return "", false
	case code == organization.LSG:
		return organization.USG, true
	case upperTiers[code]:
		if kind == submission.KindRequestToConduct {
			return organization.OSLD, true
		}
		return organization.COA, true
	default:
		return organization.LCO, true
	}
}
