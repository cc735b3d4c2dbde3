package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/go-faker/faker/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoPassword is the plain-text password of every seeded user.
const DemoPassword = "password"

var (
	genderOptions = []struct{ label, group string }{
		{"Straight man", "masc"}, {"Bi man", "masc"}, {"Gay man", "masc"}, {"Trans man", "masc"},
		{"Straight woman", "fem"}, {"Bi woman", "fem"}, {"Lesbian woman", "fem"}, {"Trans woman", "fem"},
		{"Other", "other"},
	}
	tagLabels            = []string{"Cold beer", "Wine for two", "Samba night", "Board games", "Beach day", "Karaoke", "Live music", "Hiking", "Brunch", "Movie marathon"}
	classificationLabels = []string{"Budget premium", "Fake rich", "Yacht owner", "Zillionaire", "Rather not say"}
	billSplitLabels      = []string{"I pay", "We split", "My date pays"}
	relationshipLabels   = []string{"Marriage", "Dating", "Friends with benefits", "Casual", "Not sure yet"}
	educationLabels      = []string{"High school", "Bachelor", "Master", "PhD", "School of life"}
	familyLabels         = []string{"Want kids", "Don't want kids", "Have kids", "Not sure"}
	signLabels           = []string{"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo", "Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces"}
	petLabels            = []string{"Dog", "Cat", "Both", "None"}
	drinkLabels          = []string{"Socially", "Never", "Often"}
	smokeLabels          = []string{"Never", "Socially", "Trying to quit"}
	exerciseLabels       = []string{"Daily", "Sometimes", "Never"}
	foodLabels           = []string{"Omnivore", "Vegetarian", "Vegan"}
	sleepLabels          = []string{"Early bird", "Night owl"}
	personalityLabels    = []string{"Introvert", "Extrovert", "Funny", "Romantic", "Adventurous", "Calm"}
)

func lookupRows(labels []string) []Lookup {
	rows := make([]Lookup, len(labels))
	for i, l := range labels {
		rows[i] = Lookup{Label: l, SortOrder: i, IsActive: true}
	}
	return rows
}

// SeedLookups inserts the option lists. Existing labels are left untouched.
func SeedLookups(db *gorm.DB) error {
	ignore := clause.OnConflict{Columns: []clause.Column{{Name: "label"}}, DoNothing: true}

	insert := func(rows any) error {
		return db.Clauses(ignore).Create(rows).Error
	}

	genders := make([]Gender, len(genderOptions))
	looking := make([]LookingForOption, len(genderOptions))
	for i, g := range genderOptions {
		base := Lookup{Label: g.label, SortOrder: i, IsActive: true}
		genders[i] = Gender{Lookup: base, Group: g.group}
		looking[i] = LookingForOption{Lookup: base, Group: g.group}
	}

	steps := []any{&genders, &looking}
	steps = append(steps,
		wrap[Tag](tagLabels, func(l Lookup) Tag { return Tag{l} }),
		wrap[Classification](classificationLabels, func(l Lookup) Classification { return Classification{l} }),
		wrap[BillSplitOption](billSplitLabels, func(l Lookup) BillSplitOption { return BillSplitOption{l} }),
		wrap[Relationship](relationshipLabels, func(l Lookup) Relationship { return Relationship{l} }),
		wrap[Education](educationLabels, func(l Lookup) Education { return Education{l} }),
		wrap[Family](familyLabels, func(l Lookup) Family { return Family{l} }),
		wrap[Sign](signLabels, func(l Lookup) Sign { return Sign{l} }),
		wrap[Pet](petLabels, func(l Lookup) Pet { return Pet{l} }),
		wrap[Drink](drinkLabels, func(l Lookup) Drink { return Drink{l} }),
		wrap[Smoke](smokeLabels, func(l Lookup) Smoke { return Smoke{l} }),
		wrap[Exercise](exerciseLabels, func(l Lookup) Exercise { return Exercise{l} }),
		wrap[Food](foodLabels, func(l Lookup) Food { return Food{l} }),
		wrap[Sleep](sleepLabels, func(l Lookup) Sleep { return Sleep{l} }),
		wrap[PersonalityTrait](personalityLabels, func(l Lookup) PersonalityTrait { return PersonalityTrait{l} }),
	)

	for _, rows := range steps {
		if err := insert(rows); err != nil {
			return fmt.Errorf("failed to seed lookups: %w", err)
		}
	}
	return nil
}

func wrap[T any](labels []string, mk func(Lookup) T) *[]T {
	out := make([]T, 0, len(labels))
	for _, l := range lookupRows(labels) {
		out = append(out, mk(l))
	}
	return &out
}

// ClearData removes every user-owned row, children first.
func ClearData(db *gorm.DB) error {
	for _, table := range []string{
		"messages", "matches", "swipes",
		"profile_tags", "profile_looking_for", "profile_personality",
		"profile_photos", "profiles", "users",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// SeedTestData resets the database and populates it with demo data.
//
// Behavior:
//  1. Clears users and everything hanging off them; lookups are kept.
//  2. Creates n users with bcrypt-hashed DemoPassword, a profile and 1-3 photos each.
//  3. Generates ~70% positive swipes; every 3rd pair is made mutual and
//     gets a match plus a short conversation.
//
// Returns the created users in creation order.
func SeedTestData(db *gorm.DB, n int) ([]User, error) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if err := SeedLookups(db); err != nil {
		return nil, err
	}
	if err := ClearData(db); err != nil {
		return nil, err
	}
	log.Println("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var (
		tags        []Tag
		looking     []LookingForOption
		personality []PersonalityTrait
		genders     []Gender
	)
	for _, dst := range []any{&tags, &looking, &personality, &genders} {
		if err := db.Find(dst).Error; err != nil {
			return nil, fmt.Errorf("failed to load lookups: %w", err)
		}
	}

	users := make([]User, 0, n)
	now := NowUTC()
	for i := 1; i <= n; i++ {
		user := User{
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Status:       UserActive,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to seed user: %w", err)
		}

		birth := now.AddDate(-(20 + r.Intn(20)), -r.Intn(12), -r.Intn(28))
		height := 155 + r.Intn(40)
		profile := Profile{
			UserID:         user.ID,
			Name:           faker.FirstName(),
			BirthDate:      &birth,
			Bio:            faker.Sentence(),
			HeightCM:       &height,
			AvailableToday: r.Intn(2) == 0,
			Tags:           pick(r, tags, 3),
			LookingFor:     pick(r, looking, 2),
			Personality:    pick(r, personality, 2),
			UpdatedAt:      now.Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if len(genders) > 0 {
			profile.GenderID = &genders[r.Intn(len(genders))].ID
		}
		if len(profile.Tags) > 0 {
			profile.CurrentTagID = &profile.Tags[0].ID
		}
		if err := db.Create(&profile).Error; err != nil {
			return nil, fmt.Errorf("failed to seed profile: %w", err)
		}

		photos := 1 + r.Intn(3)
		for j := 0; j < photos; j++ {
			url := fmt.Sprintf("https://picsum.photos/seed/%s-%d/600/800", user.ID, j)
			photo := ProfilePhoto{
				UserID:     user.ID,
				GCSPath:    fmt.Sprintf("profiles/%s/%d.jpg", user.ID, j),
				PublicURL:  &url,
				OrderIndex: j,
				IsPrimary:  j == 0,
			}
			if err := db.Create(&photo).Error; err != nil {
				return nil, fmt.Errorf("failed to seed photo: %w", err)
			}
		}

		users = append(users, user)
	}
	log.Printf("Seeded %d users.", n)

	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"direction", "created_at"}),
	}

	counter, matches := 0, 0
	for a := range users {
		for j := 0; j < n/2; j++ {
			b := r.Intn(len(users))
			if a == b {
				continue
			}
			from, to := users[a].ID, users[b].ID

			dir := DirectionDislike
			if r.Intn(100) < 70 {
				dir = DirectionLike
				if r.Intn(10) == 0 {
					dir = DirectionSuperlike
				}
			}

			mutual := counter%3 == 0
			if mutual {
				dir = DirectionLike
				recip := Swipe{FromUserID: to, ToUserID: from, Direction: DirectionLike, CreatedAt: NowUTC()}
				if err := db.Clauses(upsert).Create(&recip).Error; err != nil {
					return nil, fmt.Errorf("failed to seed swipe: %w", err)
				}
			}

			swipe := Swipe{FromUserID: from, ToUserID: to, Direction: dir, CreatedAt: NowUTC()}
			if err := db.Clauses(upsert).Create(&swipe).Error; err != nil {
				return nil, fmt.Errorf("failed to seed swipe: %w", err)
			}

			if mutual {
				ua, ub := CanonicalPair(from, to)
				m := Match{UserA: ua, UserB: ub}
				res := db.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "user_a"}, {Name: "user_b"}},
					DoNothing: true,
				}).Create(&m)
				if res.Error != nil {
					return nil, fmt.Errorf("failed to seed match: %w", res.Error)
				}
				if res.RowsAffected == 1 {
					matches++
					if err := seedConversation(db, r, m); err != nil {
						return nil, err
					}
				}
			}
			counter++
		}
	}
	log.Printf("Seeded %d swipes and %d matches.", counter, matches)

	return users, nil
}

func seedConversation(db *gorm.DB, r *rand.Rand, m Match) error {
	start := NowUTC().Add(-time.Duration(1+r.Intn(48)) * time.Hour)
	count := r.Intn(5)
	for k := 0; k < count; k++ {
		sender := m.UserA
		if k%2 == 1 {
			sender = m.UserB
		}
		msg := Message{
			MatchID:   m.ID,
			SenderID:  sender,
			Body:      faker.Sentence(),
			CreatedAt: start.Add(time.Duration(k) * time.Minute),
		}
		if err := db.Create(&msg).Error; err != nil {
			return fmt.Errorf("failed to seed message: %w", err)
		}
	}
	return nil
}

func pick[T any](r *rand.Rand, from []T, upTo int) []T {
	if len(from) == 0 {
		return nil
	}
	idx := r.Perm(len(from))
	k := 1 + r.Intn(upTo)
	if k > len(idx) {
		k = len(idx)
	}
	out := make([]T, 0, k)
	for _, i := range idx[:k] {
		out = append(out, from[i])
	}
	return out
}

// SeedMinimalTestData creates two users, each with a profile and one photo,
// and no swipes. Returns them in creation order.
func SeedMinimalTestData(db *gorm.DB) ([]User, error) {
	if err := ClearData(db); err != nil {
		return nil, err
	}

	users := []User{
		{Email: "u1@test.com", PasswordHash: "x"},
		{Email: "u2@test.com", PasswordHash: "x"},
	}
	if err := db.Create(&users).Error; err != nil {
		return nil, err
	}

	for i, u := range users {
		p := Profile{UserID: u.ID, Name: fmt.Sprintf("User %d", i+1)}
		if err := db.Create(&p).Error; err != nil {
			return nil, err
		}
		photo := ProfilePhoto{UserID: u.ID, GCSPath: fmt.Sprintf("profiles/%s/0.jpg", u.ID), IsPrimary: true}
		if err := db.Create(&photo).Error; err != nil {
			return nil, err
		}
	}

	return users, nil
}
