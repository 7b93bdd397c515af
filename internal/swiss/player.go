package swiss

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DateLayout is the DD/MM/YY layout used for birth dates and tournament dates.
	DateLayout = "02/01/06"
	// LongDateLayout is DD/MM/YYYY, accepted on input.
	LongDateLayout = "02/01/2006"
	// FullDateLayout keeps the century in documents.
	FullDateLayout = "2006-01-02"
)

// ParseDate reads DD/MM/YYYY, or DD/MM/YY where 69-99 means 19xx and 00-68
// means 20xx.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(LongDateLayout, s); err == nil {
		return d, nil
	}
	return time.Parse(DateLayout, s)
}

type Sex int

const (
	Male Sex = iota
	Female
	Unspecified
)

var sexLabels = [...]string{"male", "female", "unspecified"}

// SexFromIndex maps a menu index onto a Sex. Anything out of range is
// Unspecified rather than an error.
func SexFromIndex(i int) Sex {
	if i < int(Male) || i > int(Unspecified) {
		return Unspecified
	}
	return Sex(i)
}

func (s Sex) String() string {
	return sexLabels[SexFromIndex(int(s))]
}

// Player is a registered chess player. ID is assigned at creation and is the
// player's identity everywhere in memory; DocID is the id handed out by the
// document store and stays 0 until the player has been saved.
type Player struct {
	ID         uuid.UUID
	DocID      int
	FamilyName string
	FirstName  string
	BirthDate  time.Time
	Sex        Sex
	Elo        int
}

func NewPlayer(familyName, firstName string, birthDate time.Time, sex Sex, elo int) *Player {
	return &Player{
		ID:         uuid.New(),
		FamilyName: familyName,
		FirstName:  firstName,
		BirthDate:  birthDate,
		Sex:        SexFromIndex(int(sex)),
		Elo:        elo,
	}
}

// Update edits the player in place. Birth date is fixed at registration.
func (p *Player) Update(familyName, firstName string, sex Sex, elo int) {
	p.FamilyName = familyName
	p.FirstName = firstName
	p.Sex = SexFromIndex(int(sex))
	p.Elo = elo
}

func (p *Player) FullName() string {
	return p.FirstName + " " + strings.ToUpper(p.FamilyName)
}

func (p *Player) String() string {
	return fmt.Sprintf("%s (%d)", p.FullName(), p.Elo)
}

func (p *Player) is(other *Player) bool {
	return p != nil && other != nil && p.ID == other.ID
}
