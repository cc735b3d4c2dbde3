package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStatus is the account state of a User.
type UserStatus string

const (
	UserActive  UserStatus = "active"
	UserBlocked UserStatus = "blocked"
)

// User table
type User struct {
	ID           string     `gorm:"primaryKey;size:36"`
	Email        string     `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `gorm:"size:255"`
	Status       UserStatus `gorm:"size:16;not null;default:active"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Status == "" {
		u.Status = UserActive
	}
	return nil
}

// Lookup holds the shared columns of every option table (tags, drinks, ...).
type Lookup struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Label     string    `gorm:"uniqueIndex;size:191;not null"`
	SortOrder int       `gorm:"not null;default:0;index"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type (
	Tag              struct{ Lookup }
	Classification   struct{ Lookup }
	BillSplitOption  struct{ Lookup }
	Relationship     struct{ Lookup }
	Education        struct{ Lookup }
	Family           struct{ Lookup }
	Sign             struct{ Lookup }
	Pet              struct{ Lookup }
	Drink            struct{ Lookup }
	Smoke            struct{ Lookup }
	Exercise         struct{ Lookup }
	Food             struct{ Lookup }
	Sleep            struct{ Lookup }
	PersonalityTrait struct{ Lookup }
)

// Gender and LookingForOption carry a display group (masc, fem, other).
type Gender struct {
	Lookup
	Group string `gorm:"size:32;not null;default:other"`
}

type LookingForOption struct {
	Lookup
	Group string `gorm:"size:32;not null;default:other"`
}

// Profile is one-to-one with User and keyed by the user id.
//
// Feed ordering reads (updated_at DESC, user_id DESC), hence the composite index.
type Profile struct {
	UserID         string `gorm:"primaryKey;size:36;index:idx_profiles_feed,priority:2,sort:desc"`
	User           *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Name           string `gorm:"size:255;not null"`
	BirthDate      *time.Time
	Bio            string `gorm:"type:text"`
	HeightCM       *int
	RankingEnabled bool `gorm:"not null;default:false"`
	AvailableToday bool `gorm:"not null;default:false;index"`

	GenderID         *uint
	Gender           *Gender `gorm:"foreignKey:GenderID"`
	CurrentTagID     *uint
	CurrentTag       *Tag `gorm:"foreignKey:CurrentTagID"`
	ClassificationID *uint
	Classification   *Classification `gorm:"foreignKey:ClassificationID"`
	BillSplitID      *uint
	BillSplit        *BillSplitOption `gorm:"foreignKey:BillSplitID"`
	RelationshipID   *uint
	Relationship     *Relationship `gorm:"foreignKey:RelationshipID"`
	EducationID      *uint
	Education        *Education `gorm:"foreignKey:EducationID"`
	FamilyID         *uint
	Family           *Family `gorm:"foreignKey:FamilyID"`
	SignID           *uint
	Sign             *Sign `gorm:"foreignKey:SignID"`
	PetsID           *uint
	Pets             *Pet `gorm:"foreignKey:PetsID"`
	DrinkID          *uint
	Drink            *Drink `gorm:"foreignKey:DrinkID"`
	SmokeID          *uint
	Smoke            *Smoke `gorm:"foreignKey:SmokeID"`
	ExerciseID       *uint
	Exercise         *Exercise `gorm:"foreignKey:ExerciseID"`
	FoodID           *uint
	Food             *Food `gorm:"foreignKey:FoodID"`
	SleepID          *uint
	Sleep            *Sleep `gorm:"foreignKey:SleepID"`

	Photos      []ProfilePhoto     `gorm:"foreignKey:UserID;references:UserID"`
	Tags        []Tag              `gorm:"many2many:profile_tags;foreignKey:UserID;joinForeignKey:UserID;references:ID;joinReferences:TagID"`
	LookingFor  []LookingForOption `gorm:"many2many:profile_looking_for;foreignKey:UserID;joinForeignKey:UserID;references:ID;joinReferences:LookingForID"`
	Personality []PersonalityTrait `gorm:"many2many:profile_personality;foreignKey:UserID;joinForeignKey:UserID;references:ID;joinReferences:PersonalityID"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime;index:idx_profiles_feed,priority:1,sort:desc"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// ProfilePhoto rows are never removed; DeletedAt marks a removed photo so
// ordering history survives. Use State to branch on the lifecycle.
type ProfilePhoto struct {
	ID         string `gorm:"primaryKey;size:36"`
	UserID     string `gorm:"size:36;not null;index:idx_photos_user_created,priority:1;uniqueIndex:idx_photos_user_order,priority:1"`
	User       *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	GCSPath    string `gorm:"column:gcs_path;size:512;not null"`
	PublicURL  *string `gorm:"size:1024"`
	Width      *int
	Height     *int
	OrderIndex int        `gorm:"not null;default:0;uniqueIndex:idx_photos_user_order,priority:2"`
	IsPrimary  bool       `gorm:"not null;default:false"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index:idx_photos_user_created,priority:2"`
	DeletedAt  *time.Time `gorm:"index"`
}

func (p *ProfilePhoto) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PhotoStateKind distinguishes an active photo from a removed one.
type PhotoStateKind int

const (
	PhotoActive PhotoStateKind = iota
	PhotoRemoved
)

// PhotoState is the tagged lifecycle of a photo. RemovedAt is set only
// for PhotoRemoved.
type PhotoState struct {
	Kind      PhotoStateKind
	RemovedAt time.Time
}

func (p ProfilePhoto) State() PhotoState {
	if p.DeletedAt != nil {
		return PhotoState{Kind: PhotoRemoved, RemovedAt: *p.DeletedAt}
	}
	return PhotoState{Kind: PhotoActive}
}

// URL is the public address of the photo, falling back to the storage path.
func (p ProfilePhoto) URL() string {
	if p.PublicURL != nil && *p.PublicURL != "" {
		return *p.PublicURL
	}
	return p.GCSPath
}

// ActivePhotos restricts a photo query to non-removed photos in display order.
func ActivePhotos(tx *gorm.DB) *gorm.DB {
	return tx.Where("deleted_at IS NULL").Order("order_index ASC, created_at ASC")
}

// Direction is the rating carried by a swipe.
type Direction string

const (
	DirectionLike      Direction = "like"
	DirectionSuperlike Direction = "superlike"
	DirectionDislike   Direction = "dislike"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionLike, DirectionSuperlike, DirectionDislike:
		return true
	}
	return false
}

// Positive reports whether d counts toward a match.
func (d Direction) Positive() bool {
	return d == DirectionLike || d == DirectionSuperlike
}

// PositiveDirections lists the directions that count toward a match.
var PositiveDirections = []Direction{DirectionLike, DirectionSuperlike}

// Swipe is a directed rating from one user to another.
//
// Composite PK: (FromUserID, ToUserID)
//   - Ensures a single row per ordered pair; a repeat swipe overwrites
//     direction and created_at.
//
// Indexes:
//   - idx_swipes_to_direction(to_user_id, direction)
//     Serves reciprocal-like checks and the "who liked me" list.
type Swipe struct {
	FromUserID string    `gorm:"primaryKey;size:36"`
	ToUserID   string    `gorm:"primaryKey;size:36;index:idx_swipes_to_direction,priority:1"`
	Direction  Direction `gorm:"size:16;not null;index:idx_swipes_to_direction,priority:2"`
	CreatedAt  time.Time `gorm:"not null"`

	FromUser *User `gorm:"foreignKey:FromUserID;constraint:OnDelete:CASCADE"`
	ToUser   *User `gorm:"foreignKey:ToUserID;constraint:OnDelete:CASCADE"`
}

// Match is an undirected pair stored canonically (UserA < UserB).
// idx_matches_pair is the source of truth for "one match per pair".
type Match struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserA     string    `gorm:"size:36;not null;uniqueIndex:idx_matches_pair,priority:1;index:idx_matches_user_a"`
	UserB     string    `gorm:"size:36;not null;uniqueIndex:idx_matches_pair,priority:2;index:idx_matches_user_b"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	UserARef *User     `gorm:"foreignKey:UserA;constraint:OnDelete:CASCADE"`
	UserBRef *User     `gorm:"foreignKey:UserB;constraint:OnDelete:CASCADE"`
	Messages []Message `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`
}

func (m *Match) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Has reports whether userID is one of the two participants.
func (m Match) Has(userID string) bool {
	return m.UserA == userID || m.UserB == userID
}

// Other returns the participant that is not userID.
func (m Match) Other(userID string) string {
	if m.UserA == userID {
		return m.UserB
	}
	return m.UserA
}

// CanonicalPair orders two user ids so the smaller comes first.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Message belongs to exactly one Match. Never edited.
type Message struct {
	ID        string    `gorm:"primaryKey;size:36"`
	MatchID   string    `gorm:"size:36;not null;index:idx_messages_match_created,priority:1"`
	SenderID  string    `gorm:"size:36;not null"`
	Sender    *User     `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_messages_match_created,priority:2"`
	ReadAt    *time.Time
}

func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// AllModels lists every table in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&Tag{}, &Classification{}, &BillSplitOption{}, &Relationship{}, &Education{},
		&Family{}, &Sign{}, &Pet{}, &Drink{}, &Smoke{}, &Exercise{}, &Food{}, &Sleep{},
		&PersonalityTrait{}, &Gender{}, &LookingForOption{},
		&Profile{}, &ProfilePhoto{},
		&Swipe{}, &Match{}, &Message{},
	}
}
