package explore

import (
	"fmt"
	"time"

	"github.com/oggyb/matchmaker/internal/db"
)

// ProfileCard is everything the client renders for one feed candidate.
// Lookup-derived fields are omitted when the profile has no value.
type ProfileCard struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	BirthDate      *string  `json:"birthDate"`
	Age            int      `json:"age"`
	Bio            string   `json:"bio"`
	Distance       int      `json:"distance"`
	Images         []string `json:"images"`
	Tags           []string `json:"tags"`
	CurrentTag     *string  `json:"currentTag,omitempty"`
	Classification *string  `json:"classification,omitempty"`
	BillSplit      *string  `json:"billSplit,omitempty"`
	AvailableToday bool     `json:"availableToday"`
	RankingScore   float64  `json:"rankingScore"`
	Height         *string  `json:"height,omitempty"`
	Education      *string  `json:"education,omitempty"`
	Relationship   *string  `json:"relationship,omitempty"`
	Family         *string  `json:"family,omitempty"`
	Drink          *string  `json:"drink,omitempty"`
	Smoke          *string  `json:"smoke,omitempty"`
	Pets           *string  `json:"pets,omitempty"`
	Exercise       *string  `json:"exercise,omitempty"`
	Food           *string  `json:"food,omitempty"`
	Sleep          *string  `json:"sleep,omitempty"`
	Personality    []string `json:"personality"`
	LookingFor     []string `json:"lookingFor"`
}

func toCard(p db.Profile, now time.Time) ProfileCard {
	card := ProfileCard{
		ID:             p.UserID,
		Name:           p.Name,
		Age:            Age(p.BirthDate, now),
		Bio:            p.Bio,
		Images:         images(p.Photos),
		Tags:           labels(p.Tags, func(t db.Tag) string { return t.Label }),
		AvailableToday: p.AvailableToday,
		Personality:    labels(p.Personality, func(t db.PersonalityTrait) string { return t.Label }),
		LookingFor:     labels(p.LookingFor, func(o db.LookingForOption) string { return o.Label }),
	}
	if p.BirthDate != nil {
		d := p.BirthDate.Format(time.DateOnly)
		card.BirthDate = &d
	}
	if p.HeightCM != nil && *p.HeightCM > 0 {
		h := fmt.Sprintf("%d cm", *p.HeightCM)
		card.Height = &h
	}

	if p.CurrentTag != nil {
		card.CurrentTag = &p.CurrentTag.Label
	}
	if p.Classification != nil {
		card.Classification = &p.Classification.Label
	}
	if p.BillSplit != nil {
		card.BillSplit = &p.BillSplit.Label
	}
	if p.Education != nil {
		card.Education = &p.Education.Label
	}
	if p.Relationship != nil {
		card.Relationship = &p.Relationship.Label
	}
	if p.Family != nil {
		card.Family = &p.Family.Label
	}
	if p.Drink != nil {
		card.Drink = &p.Drink.Label
	}
	if p.Smoke != nil {
		card.Smoke = &p.Smoke.Label
	}
	if p.Pets != nil {
		card.Pets = &p.Pets.Label
	}
	if p.Exercise != nil {
		card.Exercise = &p.Exercise.Label
	}
	if p.Food != nil {
		card.Food = &p.Food.Label
	}
	if p.Sleep != nil {
		card.Sleep = &p.Sleep.Label
	}
	return card
}

// Age is the number of whole years between birth and now; 0 when unknown.
func Age(birth *time.Time, now time.Time) int {
	if birth == nil || birth.IsZero() {
		return 0
	}
	b := birth.UTC()
	n := now.UTC()
	years := n.Year() - b.Year()
	if n.Month() < b.Month() || (n.Month() == b.Month() && n.Day() < b.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// images lists active photo URLs in display order.
func images(photos []db.ProfilePhoto) []string {
	out := make([]string, 0, len(photos))
	for _, ph := range photos {
		if ph.State().Kind != db.PhotoActive {
			continue
		}
		if u := ph.URL(); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func labels[T any](items []T, label func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if l := label(it); l != "" {
			out = append(out, l)
		}
	}
	return out
}
