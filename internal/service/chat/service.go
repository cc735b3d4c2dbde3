package chat

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/oggyb/matchmaker/internal/app"
	"github.com/oggyb/matchmaker/internal/db"
	svcErr "github.com/oggyb/matchmaker/internal/errors"
	"github.com/oggyb/matchmaker/internal/logger"
	"github.com/oggyb/matchmaker/internal/repository"
)

const (
	// MaxMessageLength is counted in characters, not bytes.
	MaxMessageLength = 2000
	// HistoryLimit caps how many recent messages a thread returns.
	HistoryLimit = 200
)

// Service implements the chat thread API on top of matches and messages.
type Service struct {
	appCtx      *app.AppContext
	matchRepo   *repository.MatchRepository
	messageRepo *repository.MessageRepository
	profileRepo *repository.ProfileRepository
}

// NewChatService creates a new Chat service with dependencies from AppContext.
func NewChatService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		messageRepo: repository.NewMessageRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
	}
}

// Chat is one row of the chat list.
type Chat struct {
	MatchID     string   `json:"matchId"`
	OtherUserID string   `json:"otherUserId"`
	Name        string   `json:"name"`
	Image       *string  `json:"image"`
	LastMessage *string  `json:"lastMessage"`
	Timestamp   *string  `json:"timestamp"`
	Unread      int      `json:"unread"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`

	lastAt time.Time
}

// Message is one entry of a thread as seen by the caller.
type Message struct {
	ID        string `json:"id"`
	SenderID  string `json:"senderId"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	IsMe      bool   `json:"isMe"`
}

// ListChats returns one row per match of userID.
//
// Behavior:
//   - Joined against the other participant's profile; matches whose other
//     user has no live profile are skipped.
//   - Ordered by last message time DESC; matches without messages come last,
//     ties broken by name.
//   - Never nil: no matches yields an empty list.
func (s *Service) ListChats(ctx context.Context, userID string) ([]Chat, error) {
	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug("ListChats called", "user", userID)

	matches, err := s.matchRepo.ListForUser(ctx, userID)
	if err != nil {
		log.Error("ListForUser failed", "err", err)
		return nil, err
	}
	if len(matches) == 0 {
		return []Chat{}, nil
	}

	otherIDs := make([]string, 0, len(matches))
	matchIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		otherIDs = append(otherIDs, m.Other(userID))
		matchIDs = append(matchIDs, m.ID)
	}

	profiles, err := s.profileRepo.FindByUserIDs(ctx, otherIDs)
	if err != nil {
		return nil, err
	}
	last, err := s.messageRepo.LastMessages(ctx, matchIDs)
	if err != nil {
		return nil, err
	}

	chats := make([]Chat, 0, len(matches))
	for _, m := range matches {
		other := m.Other(userID)
		p, ok := profiles[other]
		if !ok {
			continue
		}

		c := Chat{
			MatchID:     m.ID,
			OtherUserID: other,
			Name:        p.Name,
			Images:      photoURLs(p.Photos),
			Tags:        make([]string, 0, len(p.Tags)),
		}
		for _, t := range p.Tags {
			c.Tags = append(c.Tags, t.Label)
		}
		if len(c.Images) > 0 {
			c.Image = &c.Images[0]
		}
		if msg, ok := last[m.ID]; ok {
			body := msg.Body
			ts := formatTime(msg.CreatedAt)
			c.LastMessage = &body
			c.Timestamp = &ts
			c.lastAt = msg.CreatedAt
		}
		chats = append(chats, c)
	}

	sort.SliceStable(chats, func(i, j int) bool {
		a, b := chats[i], chats[j]
		switch {
		case a.lastAt.IsZero() != b.lastAt.IsZero():
			return !a.lastAt.IsZero()
		case !a.lastAt.Equal(b.lastAt):
			return a.lastAt.After(b.lastAt)
		default:
			return a.Name < b.Name
		}
	})

	return chats, nil
}

// ListMessages returns the latest HistoryLimit messages of a match, oldest first.
// Fails with Forbidden unless userID is a participant.
func (s *Service) ListMessages(ctx context.Context, userID, matchID string) ([]Message, error) {
	logger.FromContext(ctx, s.appCtx.Logger).Debug("ListMessages called", "user", userID, "match", matchID)

	if _, err := s.authorize(ctx, userID, matchID); err != nil {
		return nil, err
	}

	msgs, err := s.messageRepo.ListRecent(ctx, matchID, HistoryLimit)
	if err != nil {
		return nil, err
	}

	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessage(m, userID))
	}
	return out, nil
}

// SendMessage appends text to the thread of matchID.
//
// Behavior:
//   - Membership is checked first (Forbidden).
//   - Blank text or more than MaxMessageLength characters → InvalidInput.
//   - The stored body is the text as sent.
func (s *Service) SendMessage(ctx context.Context, userID, matchID, text string) (*Message, error) {
	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug("SendMessage called", "user", userID, "match", matchID, "length", len(text))

	if _, err := s.authorize(ctx, userID, matchID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, svcErr.InvalidInput("text must not be empty")
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return nil, svcErr.InvalidInput("text must be at most 2000 characters")
	}

	msg := db.Message{MatchID: matchID, SenderID: userID, Body: text}
	if err := s.messageRepo.Create(ctx, &msg); err != nil {
		log.Error("message insert failed", "err", err)
		return nil, err
	}
	s.appCtx.Metrics.MessagesSent.Inc()

	out := toMessage(msg, userID)
	return &out, nil
}

// authorize loads the match and checks userID takes part in it.
// A missing match is reported as Forbidden too, so match ids can't be probed.
func (s *Service) authorize(ctx context.Context, userID, matchID string) (*db.Match, error) {
	m, err := s.matchRepo.FindByID(ctx, matchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.Forbidden("not a participant of this match")
	} else if err != nil {
		return nil, err
	}
	if !m.Has(userID) {
		return nil, svcErr.Forbidden("not a participant of this match")
	}
	return m, nil
}

func toMessage(m db.Message, viewerID string) Message {
	return Message{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Text:      m.Body,
		Timestamp: formatTime(m.CreatedAt),
		IsMe:      m.SenderID == viewerID,
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func photoURLs(photos []db.ProfilePhoto) []string {
	out := make([]string, 0, len(photos))
	for _, ph := range photos {
		if ph.State().Kind == db.PhotoActive {
			out = append(out, ph.URL())
		}
	}
	return out
}
