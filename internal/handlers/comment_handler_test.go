package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"github.com/danghoang87hl/travelnest/backend/internal/notifier"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeBlogRepo serves one blog and records the liveness (ctx.Err() at call
// time) of the context each detached counter update runs under.
type fakeBlogRepo struct {
	blog       *models.Blog
	increments chan error
	decrements chan error
}

func newFakeBlogRepo(blog *models.Blog) *fakeBlogRepo {
	return &fakeBlogRepo{
		blog:       blog,
		increments: make(chan error, 4),
		decrements: make(chan error, 4),
	}
}

func (f *fakeBlogRepo) CreateBlog(_ context.Context, blog *models.Blog) error {
	blog.ID = primitive.NewObjectID()
	return nil
}

func (f *fakeBlogRepo) GetBlogByID(_ context.Context, id string) (*models.Blog, error) {
	if f.blog == nil || f.blog.ID.Hex() != id {
		return nil, models.ErrNotFound
	}
	copied := *f.blog
	return &copied, nil
}

func (f *fakeBlogRepo) GetBlogs(context.Context, int64, int64) ([]models.Blog, error) {
	return nil, nil
}

func (f *fakeBlogRepo) GetBlogsByAuthor(context.Context, uint, int64, int64) ([]models.Blog, error) {
	return nil, nil
}

func (f *fakeBlogRepo) UpdateBlog(context.Context, string, *models.Blog) error { return nil }
func (f *fakeBlogRepo) DeleteBlog(context.Context, string) error              { return nil }

func (f *fakeBlogRepo) LikeBlog(context.Context, string, uint) (bool, error)   { return true, nil }
func (f *fakeBlogRepo) UnlikeBlog(context.Context, string, uint) (bool, error) { return true, nil }

func (f *fakeBlogRepo) IncrementCommentsCount(ctx context.Context, _ string) error {
	f.increments <- ctx.Err()
	return nil
}

func (f *fakeBlogRepo) DecrementCommentsCount(ctx context.Context, _ string) error {
	f.decrements <- ctx.Err()
	return nil
}

type fakeCommentRepo struct {
	comments map[string]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*models.Comment)}
}

func (f *fakeCommentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	f.comments[comment.ID.Hex()] = comment
	return nil
}

func (f *fakeCommentRepo) GetCommentByID(_ context.Context, id string) (*models.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (f *fakeCommentRepo) GetCommentsByBlogID(context.Context, string, int64, int64) ([]models.Comment, error) {
	return nil, nil
}

func (f *fakeCommentRepo) DeleteComment(_ context.Context, id string, authorID uint) error {
	comment, ok := f.comments[id]
	if !ok || comment.AuthorID != authorID {
		return models.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

// handlerUserRepo serves canned users by id.
type handlerUserRepo struct {
	users map[uint]*models.User
}

func (s *handlerUserRepo) CreateUser(*models.User) error { return nil }
func (s *handlerUserRepo) GetUserByID(id uint) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return user, nil
}
func (s *handlerUserRepo) GetUserByEmail(string) (*models.User, error) { return nil, models.ErrNotFound }
func (s *handlerUserRepo) UpdateUser(*models.User) error               { return nil }
func (s *handlerUserRepo) DeleteUser(uint) error                       { return nil }
func (s *handlerUserRepo) AddDeviceToken(uint, string) error           { return nil }
func (s *handlerUserRepo) GetDeviceTokens(uint) ([]string, error)      { return nil, nil }

func newCommentFixture(t *testing.T) (*CommentHandler, *fakeBlogRepo, *fakeCommentRepo, *models.Blog) {
	t.Helper()
	blog := &models.Blog{
		ID:       primitive.NewObjectID(),
		AuthorID: 1,
		Title:    "Hà Giang mùa hoa tam giác mạch",
	}
	blogRepo := newFakeBlogRepo(blog)
	commentRepo := newFakeCommentRepo()
	users := &handlerUserRepo{users: map[uint]*models.User{2: {Name: "Minh"}}}
	notify := notifier.New(&fakeNotificationRepo{}, users, nil, nil)
	h := NewCommentHandler(commentRepo, blogRepo, users, notify)
	return h, blogRepo, commentRepo, blog
}

// cancelRequestContext replaces the request context with one that is already
// cancelled, the state net/http leaves it in once the handler has returned.
func cancelRequestContext(c echo.Context) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.SetRequest(c.Request().WithContext(ctx))
}

func TestCreateCommentCounterOutlivesRequest(t *testing.T) {
	h, blogRepo, _, blog := newCommentFixture(t)

	c, _ := newTestContext(t, http.MethodPost, "/blogs/:blog_id/comments", `{"content":"Đẹp quá!"}`, 2)
	c.SetParamNames("blog_id")
	c.SetParamValues(blog.ID.Hex())
	cancelRequestContext(c)

	require.NoError(t, h.CreateComment(c))

	select {
	case err := <-blogRepo.increments:
		assert.NoError(t, err, "counter update must not run under the dead request context")
	case <-time.After(time.Second):
		t.Fatal("expected the comments counter to be incremented")
	}
}

func TestDeleteCommentCounterOutlivesRequest(t *testing.T) {
	h, blogRepo, commentRepo, blog := newCommentFixture(t)
	comment := &models.Comment{BlogID: blog.ID.Hex(), AuthorID: 2, Content: "x"}
	require.NoError(t, commentRepo.CreateComment(context.Background(), comment))

	c, _ := newTestContext(t, http.MethodDelete, "/comments/:id", "", 2)
	c.SetParamNames("id")
	c.SetParamValues(comment.ID.Hex())
	cancelRequestContext(c)

	require.NoError(t, h.DeleteComment(c))

	select {
	case err := <-blogRepo.decrements:
		assert.NoError(t, err, "counter update must not run under the dead request context")
	case <-time.After(time.Second):
		t.Fatal("expected the comments counter to be decremented")
	}
}

func TestCreateCommentReplyNotifiesParentCommenter(t *testing.T) {
	h, _, commentRepo, blog := newCommentFixture(t)
	notifRepo := &fakeNotificationRepo{}
	users := &handlerUserRepo{users: map[uint]*models.User{2: {Name: "Minh"}}}
	h.notifier = notifier.New(notifRepo, users, nil, nil)

	parent := &models.Comment{BlogID: blog.ID.Hex(), AuthorID: 5, Content: "parent"}
	require.NoError(t, commentRepo.CreateComment(context.Background(), parent))

	c, _ := newTestContext(t, http.MethodPost, "/blogs/:blog_id/comments",
		`{"content":"reply","parent_id":"`+parent.ID.Hex()+`"}`, 2)
	c.SetParamNames("blog_id")
	c.SetParamValues(blog.ID.Hex())

	require.NoError(t, h.CreateComment(c))

	count, err := notifRepo.Count(context.Background(), 5, models.NotificationReply)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "parent commenter gets the reply notification")

	count, err = notifRepo.Count(context.Background(), 1, "all")
	require.NoError(t, err)
	assert.Zero(t, count, "blog author is not notified for a reply")
}
