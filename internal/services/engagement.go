package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/repositories"
	"github.com/anonto42/loop/backend/pkg/logger"
	"github.com/anonto42/loop/backend/pkg/metrics"
)

const (
	DefaultFeedLimit    = 50
	DefaultExploreLimit = 20
	DefaultReelsLimit   = 50
	DefaultRecoLimit    = 5
	MaxListLimit        = 100
	MaxExcludeIDs       = MaxListLimit * 10

	searchUserLimit = 10
	searchPostLimit = 20
	suggestionLimit = 10
)

// Profile tab names accepted by ProfilePosts.
const (
	TabPosts = "posts"
	TabReels = "reels"
	TabLiked = "liked"
	TabSaved = "saved"
)

// Search scopes accepted by Search.
const (
	SearchAll   = "all"
	SearchUsers = "users"
	SearchPosts = "posts"
)

var (
	nonVideoTypes = []models.PostType{models.PostTypeText, models.PostTypeImage}
	videoTypes    = []models.PostType{models.PostTypeVideo}
)

// EngagementService serves every read path that returns annotated posts.
type EngagementService struct {
	users     repositories.UserRepository
	posts     repositories.PostRepository
	likes     repositories.LikeRepository
	bookmarks repositories.BookmarkRepository
	comments  repositories.CommentRepository
	follows   repositories.FollowRepository
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(
	users repositories.UserRepository,
	posts repositories.PostRepository,
	likes repositories.LikeRepository,
	bookmarks repositories.BookmarkRepository,
	comments repositories.CommentRepository,
	follows repositories.FollowRepository,
) *EngagementService {
	return &EngagementService{
		users:     users,
		posts:     posts,
		likes:     likes,
		bookmarks: bookmarks,
		comments:  comments,
		follows:   follows,
	}
}

// ClampLimit returns def for non-positive n and caps n at MaxListLimit.
func ClampLimit(n, def int) int {
	if n <= 0 {
		return def
	}
	if n > MaxListLimit {
		return MaxListLimit
	}
	return n
}

// Annotate attaches live like/comment counts and the viewer's like/save flags.
// It costs four queries regardless of len(posts).
func (s *EngagementService) Annotate(ctx context.Context, viewerID uint, posts []models.Post) ([]models.PostView, error) {
	views := make([]models.PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	likeCounts, err := s.likes.CountByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentCounts, err := s.comments.CountByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	liked := map[uint]bool{}
	saved := map[uint]bool{}
	if viewerID != 0 {
		if liked, err = s.likes.LikedPostIDs(ctx, viewerID, ids); err != nil {
			return nil, err
		}
		if saved, err = s.bookmarks.SavedPostIDs(ctx, viewerID, ids); err != nil {
			return nil, err
		}
	}

	for _, p := range posts {
		v := models.PostView{
			ID:            p.ID,
			UserID:        p.UserID,
			Content:       p.Content,
			ImageURL:      p.URL,
			Type:          p.Type,
			LikesCount:    likeCounts[p.ID],
			CommentsCount: commentCounts[p.ID],
			CreatedAt:     p.CreatedAt,
			IsLiked:       liked[p.ID],
			IsSaved:       saved[p.ID],
		}
		if p.User.ID != 0 {
			author := p.User.Summary()
			v.User = &author
		}
		views = append(views, v)
	}
	return views, nil
}

// Feed returns the viewer's own and followed accounts' posts, or every post
// for an anonymous viewer, newest first.
func (s *EngagementService) Feed(ctx context.Context, viewerID uint, limit int) ([]models.PostView, error) {
	f := repositories.PostFilter{Limit: ClampLimit(limit, DefaultFeedLimit)}
	if viewerID != 0 {
		following, err := s.follows.GetFollowingIDs(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		f.AuthorIDs = append(following, viewerID)
	}

	posts, err := s.posts.ListPosts(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.Annotate(ctx, viewerID, posts)
}

// Explore ranks the 2×limit most recent non-video posts by likes+comments,
// ties broken by recency, and pairs them with suggested accounts.
func (s *EngagementService) Explore(ctx context.Context, viewerID uint, limit int) (*models.ExploreResult, error) {
	limit = ClampLimit(limit, DefaultExploreLimit)

	posts, err := s.posts.ListPosts(ctx, repositories.PostFilter{Types: nonVideoTypes, Limit: limit * 2})
	if err != nil {
		return nil, err
	}
	views, err := s.Annotate(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(views, func(i, j int) bool {
		ei := views[i].LikesCount + views[i].CommentsCount
		ej := views[j].LikesCount + views[j].CommentsCount
		if ei != ej {
			return ei > ej
		}
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	if len(views) > limit {
		views = views[:limit]
	}

	suggested, err := s.suggestUsers(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	out := make([]models.SuggestedUser, 0, len(suggested))
	for i := range suggested {
		out = append(out, models.SuggestedUser{UserSummary: suggested[i].Summary(), Bio: suggested[i].Bio})
	}

	return &models.ExploreResult{Posts: views, SuggestedUsers: out}, nil
}

// suggestUsers returns accounts the viewer neither is nor follows. Anonymous
// viewers get the first accounts on record.
func (s *EngagementService) suggestUsers(ctx context.Context, viewerID uint) ([]models.User, error) {
	var exclude []uint
	if viewerID != 0 {
		following, err := s.follows.GetFollowingIDs(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		exclude = append(following, viewerID)
	}
	return s.users.ListUsersExcept(ctx, exclude, suggestionLimit)
}

// ProfilePosts returns one profile tab. A missing profile owner, an unknown
// tab, or liked/saved without a viewer all yield an empty list.
func (s *EngagementService) ProfilePosts(ctx context.Context, viewerID uint, username, tab string) ([]models.PostView, error) {
	if tab == "" {
		tab = TabPosts
	}

	owner, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return []models.PostView{}, nil
	}
	if err != nil {
		return nil, err
	}

	var posts []models.Post
	switch tab {
	case TabPosts:
		posts, err = s.posts.ListPosts(ctx, repositories.PostFilter{AuthorIDs: []uint{owner.ID}, Types: nonVideoTypes})
	case TabReels:
		posts, err = s.posts.ListPosts(ctx, repositories.PostFilter{AuthorIDs: []uint{owner.ID}, Types: videoTypes})
	case TabLiked:
		if viewerID == 0 {
			return []models.PostView{}, nil
		}
		posts, err = s.posts.ListLikedBy(ctx, viewerID, nil)
	case TabSaved:
		if viewerID == 0 {
			return []models.PostView{}, nil
		}
		posts, err = s.posts.ListSavedBy(ctx, viewerID, nil)
	default:
		return []models.PostView{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.Annotate(ctx, viewerID, posts)
}

// Search matches users by username or name and posts by content. An empty
// query returns two empty lists.
func (s *EngagementService) Search(ctx context.Context, viewerID uint, query, scope string) (*models.SearchResult, error) {
	res := &models.SearchResult{Users: []models.UserSummary{}, Posts: []models.PostView{}}
	query = strings.TrimSpace(query)
	if query == "" {
		return res, nil
	}
	if scope == "" {
		scope = SearchAll
	}

	if scope == SearchAll || scope == SearchUsers {
		users, err := s.users.SearchUsers(ctx, query, searchUserLimit)
		if err != nil {
			return nil, err
		}
		for i := range users {
			res.Users = append(res.Users, users[i].Summary())
		}
	}

	if scope == SearchAll || scope == SearchPosts {
		posts, err := s.posts.ListPosts(ctx, repositories.PostFilter{Query: query, Limit: searchPostLimit})
		if err != nil {
			return nil, err
		}
		views, err := s.Annotate(ctx, viewerID, posts)
		if err != nil {
			return nil, err
		}
		res.Posts = views
	}
	return res, nil
}

// Reels lists video posts, newest first.
func (s *EngagementService) Reels(ctx context.Context, viewerID uint, limit int) ([]models.PostView, error) {
	posts, err := s.posts.ListPosts(ctx, repositories.PostFilter{
		Types: videoTypes,
		Limit: ClampLimit(limit, DefaultReelsLimit),
	})
	if err != nil {
		return nil, err
	}
	return s.Annotate(ctx, viewerID, posts)
}

// Reel returns a single video post.
func (s *EngagementService) Reel(ctx context.Context, viewerID, id uint) (*models.PostView, error) {
	view, err := s.Post(ctx, viewerID, id)
	if errors.Is(err, ErrPostNotFound) {
		return nil, ErrReelNotFound
	}
	if err != nil {
		return nil, err
	}
	if view.Type != models.PostTypeVideo {
		return nil, ErrReelNotFound
	}
	return view, nil
}

// Recommendations returns up to limit unseen reels. When the unseen pool
// runs short it wraps around to the newest videos so the stream never ends
// while at least one video exists. Wrapped-in reels are never duplicated
// within a single page.
func (s *EngagementService) Recommendations(ctx context.Context, viewerID uint, limit int, excludeIDs []uint) ([]models.PostView, error) {
	limit = ClampLimit(limit, DefaultRecoLimit)

	posts, err := s.posts.ListPosts(ctx, repositories.PostFilter{
		Types:      videoTypes,
		ExcludeIDs: excludeIDs,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	if len(posts) < limit && len(excludeIDs) > 0 {
		inPage := make([]uint, 0, len(posts))
		for _, p := range posts {
			inPage = append(inPage, p.ID)
		}
		recycled, err := s.posts.ListPosts(ctx, repositories.PostFilter{
			Types:      videoTypes,
			ExcludeIDs: inPage,
			Limit:      limit - len(posts),
		})
		if err != nil {
			return nil, err
		}
		if len(recycled) > 0 {
			metrics.ReelsRecycledTotal.Inc()
			l := logger.Ctx(ctx)
			l.Debug().Int("unseen", len(posts)).Int("recycled", len(recycled)).Msg("reel recommendations wrapped around")
		}
		posts = append(posts, recycled...)
	}

	return s.Annotate(ctx, viewerID, posts)
}

// Post returns a single annotated post.
func (s *EngagementService) Post(ctx context.Context, viewerID, id uint) (*models.PostView, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	views, err := s.Annotate(ctx, viewerID, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
