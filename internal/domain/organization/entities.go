package organization

import (
	"context"
	"strings"
	"time"
)

// Code identifies one tier of the review hierarchy.
type Code string

const (
	AO   Code = "AO"
	LSG  Code = "LSG"
	LCO  Code = "LCO"
	USG  Code = "USG"
	GSC  Code = "GSC"
	USED Code = "USED"
	TGP  Code = "TGP"
	COA  Code = "COA" // audit authority
	OSLD Code = "OSLD"

	// All is the broadcast target of an activity; it is not an organization.
	All Code = "ALL"
)

var roster = []Code{AO, LSG, LCO, USG, GSC, USED, TGP, COA, OSLD}

// Roster returns every known organization in a fixed order.
func Roster() []Code {
	out := make([]Code, len(roster))
	copy(out, roster)
	return out
}

// Submitters returns the tiers that originate submissions. COA and OSLD only review.
func Submitters() []Code {
	return []Code{AO, LSG, LCO, USG, GSC, USED, TGP}
}

func (c Code) Known() bool {
	for _, r := range roster {
		if r == c {
			return true
		}
	}
	return false
}

func (c Code) String() string { return string(c) }

// Parse normalises raw input; ok is false for codes outside the roster.
func Parse(raw string) (Code, bool) {
	c := Code(strings.ToUpper(strings.TrimSpace(raw)))
	return c, c.Known()
}

// Organization is the persisted profile of a roster entry.
type Organization struct {
	Code      Code      `gorm:"column:code;primaryKey;size:8" json:"code"`
	Name      string    `gorm:"column:name;size:128" json:"name"`
	Email     string    `gorm:"column:email;size:255" json:"email,omitempty"`
	OnHold    bool      `gorm:"column:on_hold;not null;default:false" json:"on_hold"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Organization) TableName() string { return "organizations" }

type Repository interface {
	List(ctx context.Context) ([]Organization, error)
	GetByCode(ctx context.Context, code Code) (*Organization, error)
	// EnsureRoster inserts any missing roster rows without touching existing ones.
	EnsureRoster(ctx context.Context, orgs []Organization) error
	SetHold(ctx context.Context, code Code, onHold bool) error
}

// DefaultProfiles seeds the organizations table.
func DefaultProfiles() []Organization {
	names := map[Code]string{
		AO:   "Accredited Organizations",
		LSG:  "Local Student Government",
		LCO:  "League of Campus Organizations",
		USG:  "University Student Government",
		GSC:  "Graduate Student Council",
		USED: "University Student Enterprise Development",
		TGP:  "The Gold Panicles",
		COA:  "Commission on Audit",
		OSLD: "Office of Student Leadership and Development",
	}
	out := make([]Organization, 0, len(roster))
	for _, c := range roster {
		out = append(out, Organization{Code: c, Name: names[c]})
	}
	return out
}
