package services

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/loop/backend/internal/models"
	"github.com/anonto42/loop/backend/internal/repositories"
	"github.com/anonto42/loop/backend/pkg/config"
	"gorm.io/gorm"
)

// testEnv wires every service over a private in-memory database.
type testEnv struct {
	db           *gorm.DB
	now          time.Time
	users        *repositories.PostgresUserRepository
	posts        *repositories.PostgresPostRepository
	likes        *repositories.PostgresLikeRepository
	bookmarks    *repositories.PostgresBookmarkRepository
	comments     *repositories.PostgresCommentRepository
	follows      *repositories.PostgresFollowRepository
	stories      *repositories.PostgresStoryRepository
	engagement   *EngagementService
	postSvc      *PostService
	interactions *InteractionService
	commentSvc   *CommentService
	storySvc     *StoryService
	userSvc      *UserService
	historySvc   *SearchHistoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := config.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	env := &testEnv{
		db:        db,
		now:       time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		users:     repositories.NewPostgresUserRepository(db),
		posts:     repositories.NewPostgresPostRepository(db),
		likes:     repositories.NewPostgresLikeRepository(db),
		bookmarks: repositories.NewPostgresBookmarkRepository(db),
		comments:  repositories.NewPostgresCommentRepository(db),
		follows:   repositories.NewPostgresFollowRepository(db),
		stories:   repositories.NewPostgresStoryRepository(db),
	}
	clock := func() time.Time { return env.now }

	env.engagement = NewEngagementService(env.users, env.posts, env.likes, env.bookmarks, env.comments, env.follows)
	env.postSvc = NewPostService(env.posts, env.engagement)
	env.interactions = NewInteractionService(env.users, env.posts, env.likes, env.bookmarks, env.follows)
	env.commentSvc = NewCommentService(env.posts, env.comments)
	env.storySvc = NewStoryService(env.stories, env.follows, clock)
	env.userSvc = NewUserService(env.users, env.posts, env.follows)
	env.historySvc = NewSearchHistoryService(repositories.NewPostgresSearchHistoryRepository(db), clock)
	return env
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Name: username, Email: username + "@example.com"}
	if err := e.users.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// post inserts a post created offset after the env clock.
func (e *testEnv) post(t *testing.T, author *models.User, typ models.PostType, content string, offset time.Duration) *models.Post {
	t.Helper()
	p := &models.Post{UserID: author.ID, Type: typ, Content: content, CreatedAt: e.now.Add(offset)}
	if err := e.posts.CreatePost(context.Background(), p); err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

func (e *testEnv) follow(t *testing.T, follower, following *models.User) {
	t.Helper()
	if err := e.interactions.Follow(context.Background(), follower.ID, following.Username); err != nil {
		t.Fatalf("follow %s -> %s: %v", follower.Username, following.Username, err)
	}
}

func viewIDs(views []models.PostView) []uint {
	out := make([]uint, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func sameIDs(got, want []uint) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
