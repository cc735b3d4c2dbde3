package explore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oggyb/matchmaker/internal/app"
	"github.com/oggyb/matchmaker/internal/db"
	svcErr "github.com/oggyb/matchmaker/internal/errors"
	"github.com/oggyb/matchmaker/internal/logger"
	"github.com/oggyb/matchmaker/internal/repository"
	"github.com/oggyb/matchmaker/internal/utils/pagination"
)

// Service implements feed, swipe, match detection and likes.
// It contains the business logic on top of repository and cache layers.
type Service struct {
	appCtx      *app.AppContext
	swipeRepo   *repository.SwipeRepository
	matchRepo   *repository.MatchRepository
	profileRepo *repository.ProfileRepository
	userRepo    *repository.UserRepository
	now         func() time.Time
}

// NewExploreService creates a new Explore service with dependencies from AppContext.
// Dependencies include:
//   - DB connection (via the swipe, match, profile and user repositories)
//   - RedisCache for liked-you counters from AppContext
func NewExploreService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		swipeRepo:   repository.NewSwipeRepository(appCtx.DB),
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		userRepo:    repository.NewUserRepository(appCtx.DB),
		now:         time.Now,
	}
}

// FeedPage is one page of the candidate feed.
type FeedPage struct {
	Profiles   []ProfileCard `json:"profiles"`
	NextCursor *string       `json:"nextCursor"`
}

// GetFeed returns candidates userID has not swiped yet.
//
// Behavior:
//   - limit outside [1, 50] is normalized (see pagination.ClampLimit).
//   - A malformed cursor is InvalidInput.
//   - nextCursor is nil once no candidate follows the page.
//
// Example:
//
//	svc.GetFeed(ctx, me, "", 20)
func (s *Service) GetFeed(ctx context.Context, userID, cursorToken string, limit int) (*FeedPage, error) {
	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug("GetFeed called", "user", userID, "cursor", cursorToken, "limit", limit)

	switch {
	case limit < 1:
		limit = pagination.DefaultLimit
	case limit > pagination.MaxLimit:
		limit = pagination.MaxLimit
	}

	cursor, err := pagination.Decode(cursorToken)
	if err != nil {
		return nil, svcErr.InvalidInput("cursor is malformed")
	}

	profiles, next, err := s.profileRepo.Feed(ctx, userID, cursor, limit)
	if err != nil {
		log.Error("Feed query failed", "err", err)
		return nil, err
	}

	now := s.now()
	page := &FeedPage{Profiles: make([]ProfileCard, 0, len(profiles))}
	for _, p := range profiles {
		page.Profiles = append(page.Profiles, toCard(p, now))
	}
	if next != nil {
		token := pagination.Encode(*next)
		page.NextCursor = &token
	}
	s.appCtx.Metrics.FeedPageSize.Observe(float64(len(page.Profiles)))

	log.Debug("GetFeed result", "count", len(page.Profiles), "has_next", page.NextCursor != nil)
	return page, nil
}

// RecordSwipe stores fromUserID's swipe on toUserID, then runs match detection
// for positive directions.
//
// Behavior:
//   - Missing target or direction, an unknown direction, or a self-swipe → InvalidInput.
//   - Unknown target user → NotFound.
//   - Upserts the swipe; a repeat overwrites direction and created_at.
//   - Invalidates the target's cached liked-you count.
//   - Match detection failures are logged and never fail the swipe.
//
// Example:
//
//	svc.RecordSwipe(ctx, me, them, "like")
func (s *Service) RecordSwipe(ctx context.Context, fromUserID, toUserID, direction string) error {
	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug("RecordSwipe called", "from", fromUserID, "to", toUserID, "direction", direction)

	toUserID = strings.TrimSpace(toUserID)
	dir := db.Direction(strings.TrimSpace(direction))
	switch {
	case toUserID == "":
		return svcErr.InvalidInput("targetUserId is required")
	case dir == "":
		return svcErr.InvalidInput("direction is required")
	case !dir.Valid():
		return svcErr.InvalidInput(fmt.Sprintf("direction must be one of like, superlike, dislike; got %q", direction))
	case toUserID == fromUserID:
		return svcErr.InvalidInput("cannot swipe on yourself")
	}

	exists, err := s.userRepo.Exists(ctx, toUserID)
	if err != nil {
		return err
	}
	if !exists {
		return svcErr.NotFound("target user not found")
	}

	// write/update swipe
	if err := s.swipeRepo.Upsert(ctx, fromUserID, toUserID, dir); err != nil {
		log.Error("swipe upsert failed", "err", err)
		return err
	}
	s.appCtx.Metrics.SwipesTotal.WithLabelValues(string(dir)).Inc()

	// target's liked-you set may have changed
	if err := s.appCtx.RedisCache.InvalidateLikeCount(ctx, toUserID); err != nil {
		log.Warn("like count invalidation failed", "user", toUserID, "err", err)
	}

	if dir.Positive() {
		if _, err := s.DetectAndCreateMatch(ctx, fromUserID, toUserID); err != nil {
			s.appCtx.Metrics.MatchErrors.Inc()
			log.Error("match detection failed", "from", fromUserID, "to", toUserID, "err", err)
		}
	}
	return nil
}

// DetectAndCreateMatch materializes the match for {a, b} when b already
// swiped a positively.
//
// Behavior:
//   - matched is true whenever the pair is mutually positive, whether this
//     call inserted the row or it already existed.
//   - The unique canonical pair index absorbs concurrent double inserts.
//
// Example:
//
//	matched, err := svc.DetectAndCreateMatch(ctx, me, them)
func (s *Service) DetectAndCreateMatch(ctx context.Context, a, b string) (matched bool, err error) {
	reciprocal, err := s.swipeRepo.HasPositiveSwipe(ctx, b, a)
	if err != nil {
		return false, fmt.Errorf("check reciprocal swipe: %w", err)
	}
	if !reciprocal {
		return false, nil
	}

	created, err := s.matchRepo.CreateIfAbsent(ctx, a, b)
	if err != nil {
		return false, fmt.Errorf("create match: %w", err)
	}
	if created {
		s.appCtx.Metrics.MatchesCreated.Inc()
		logger.FromContext(ctx, s.appCtx.Logger).Info("match created", "user_a", a, "user_b", b)
	}
	return true, nil
}

// Liker is a user who swiped positively on the caller.
type Liker struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

// ListLikes returns everyone whose swipe toward userID is like or superlike,
// newest first.
//
// Example:
//
//	svc.ListLikes(ctx, me)
func (s *Service) ListLikes(ctx context.Context, userID string) ([]Liker, error) {
	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug("ListLikes called", "user", userID)

	profiles, err := s.swipeRepo.ListLikers(ctx, userID)
	if err != nil {
		log.Error("ListLikers failed", "err", err)
		return nil, err
	}

	likes := make([]Liker, 0, len(profiles))
	for _, p := range profiles {
		l := Liker{ID: p.UserID, Name: p.Name}
		if imgs := images(p.Photos); len(imgs) > 0 {
			l.Image = &imgs[0]
		}
		likes = append(likes, l)
	}
	return likes, nil
}

// CountLikes returns how many users liked userID.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:userID), refreshing its TTL.
//  2. On cache miss or cache error, falls back to DB via repository.CountLikers.
//  3. On DB fetch, writes the count back with the configured TTL.
//
// Example:
//
//	svc.CountLikes(ctx, me)
func (s *Service) CountLikes(ctx context.Context, userID string) (int64, error) {
	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug("CountLikes called", "user", userID)

	// try cache first
	n, ok, err := s.appCtx.RedisCache.GetLikeCount(ctx, userID)
	if err != nil {
		log.Warn("like count cache read failed", "err", err)
	}
	if ok {
		s.appCtx.Metrics.LikeCountLookups.WithLabelValues("hit").Inc()
		return n, nil
	}
	s.appCtx.Metrics.LikeCountLookups.WithLabelValues("miss").Inc()

	// fallback: DB
	count, err := s.swipeRepo.CountLikers(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := s.appCtx.RedisCache.SetLikeCount(ctx, userID, count); err != nil {
		log.Warn("like count cache write failed", "err", err)
	}
	return count, nil
}
