package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"github.com/danghoang87hl/travelnest/backend/internal/realtime"
	"github.com/danghoang87hl/travelnest/backend/internal/repositories"
	"github.com/danghoang87hl/travelnest/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeNotificationRepo is an in-memory NotificationRepository with the same
// visibility and pagination semantics as the Mongo implementation. The
// mark-seen side effect of List runs synchronously so tests are deterministic.
type fakeNotificationRepo struct {
	mu   sync.Mutex
	docs []*models.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = primitive.NewObjectID()
	n.Seen = false
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	f.docs = append(f.docs, n)
	return nil
}

func (f *fakeNotificationRepo) visible(n *models.Notification, userID uint, filter string) bool {
	if n.Recipient != userID || n.Actor == userID {
		return false
	}
	if filter != "" && filter != "all" && n.Type != filter {
		return false
	}
	return true
}

func (f *fakeNotificationRepo) HasUnseen(_ context.Context, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.docs {
		if f.visible(n, userID, "all") && !n.Seen {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationRepo) UnseenCount(_ context.Context, userID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.docs {
		if f.visible(n, userID, "all") && !n.Seen {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) List(_ context.Context, userID uint, page int, filter string, deletedOffset int) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*models.Notification
	for _, n := range f.docs {
		if f.visible(n, userID, filter) {
			matched = append(matched, n)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	skip := (page-1)*repositories.NotificationPageSize - deletedOffset
	if skip < 0 {
		skip = 0
	}
	if skip >= len(matched) {
		return nil, nil
	}
	end := skip + repositories.NotificationPageSize
	if end > len(matched) {
		end = len(matched)
	}

	pageDocs := matched[skip:end]
	out := make([]models.Notification, len(pageDocs))
	for i, n := range pageDocs {
		out[i] = *n
		n.Seen = true // synchronous stand-in for the async page mark-seen
	}
	return out, nil
}

func (f *fakeNotificationRepo) Count(_ context.Context, userID uint, filter string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.docs {
		if f.visible(n, userID, filter) {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, userID uint, id string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.docs {
		if n.ID.Hex() == id && n.Recipient == userID {
			n.Seen = true
			copied := *n
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var modified int64
	for _, n := range f.docs {
		if f.visible(n, userID, "all") && !n.Seen {
			n.Seen = true
			modified++
		}
	}
	return modified, nil
}

func (f *fakeNotificationRepo) Delete(_ context.Context, userID uint, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.docs {
		if n.ID.Hex() == id && n.Recipient == userID {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

// fakeHub records published realtime events.
type fakeHub struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (f *fakeHub) Publish(_ uint, event realtime.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeHub) badgeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ev := range f.events {
		if ev.Kind == "badge" {
			n++
		}
	}
	return n
}

func seedNotification(t *testing.T, repo *fakeNotificationRepo, recipient, actor uint, notifType string, age time.Duration) *models.Notification {
	t.Helper()
	n := &models.Notification{
		Recipient: recipient,
		Actor:     actor,
		Type:      notifType,
		Title:     "test",
		Message:   "test",
		CreatedAt: time.Now().Add(-age),
	}
	require.NoError(t, repo.Create(context.Background(), n))
	return n
}

func newTestContext(t *testing.T, method, path, body string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return he.Code
}

func TestSelfTriggeredNotificationsAreInvisible(t *testing.T) {
	repo := &fakeNotificationRepo{}
	h := NewNotificationHandler(repo, nil)

	// actor likes their own post: record exists but must never surface
	seedNotification(t, repo, 7, 7, models.NotificationLike, 0)

	c, rec := newTestContext(t, http.MethodGet, "/notifications/new-notification", "", 7)
	require.NoError(t, h.HasUnseen(c))
	assert.JSONEq(t, `{"new_notification_available": false}`, rec.Body.String())

	c, rec = newTestContext(t, http.MethodPost, "/notifications/list", `{"page":1,"filter":"all","deletedDocCount":0}`, 7)
	require.NoError(t, h.List(c))
	var listResp struct {
		Notifications []models.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.Empty(t, listResp.Notifications)

	c, rec = newTestContext(t, http.MethodPost, "/notifications/count", `{"filter":"all"}`, 7)
	require.NoError(t, h.Count(c))
	assert.JSONEq(t, `{"totalDocs": 0}`, rec.Body.String())
}

func TestMarkReadIsIdempotent(t *testing.T) {
	repo := &fakeNotificationRepo{}
	h := NewNotificationHandler(repo, nil)
	n := seedNotification(t, repo, 1, 2, models.NotificationComment, 0)

	for i := 0; i < 2; i++ {
		c, rec := newTestContext(t, http.MethodPatch, "/notifications/:id/read", "", 1)
		c.SetParamNames("id")
		c.SetParamValues(n.ID.Hex())
		require.NoError(t, h.MarkRead(c), "call %d", i+1)

		var got models.Notification
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.True(t, got.Seen)
	}
}

func TestMarkReadNotOwnedReturnsNotFound(t *testing.T) {
	repo := &fakeNotificationRepo{}
	h := NewNotificationHandler(repo, nil)
	n := seedNotification(t, repo, 1, 2, models.NotificationComment, 0)

	c, _ := newTestContext(t, http.MethodPatch, "/notifications/:id/read", "", 99)
	c.SetParamNames("id")
	c.SetParamValues(n.ID.Hex())
	err := h.MarkRead(c)
	assert.Equal(t, http.StatusNotFound, httpCode(t, err))
}

func TestMarkAllReadClearsUnseen(t *testing.T) {
	repo := &fakeNotificationRepo{}
	h := NewNotificationHandler(repo, nil)
	for i := 0; i < 5; i++ {
		seedNotification(t, repo, 3, 4, models.NotificationLike, time.Duration(i)*time.Minute)
	}

	c, rec := newTestContext(t, http.MethodPatch, "/notifications/read-all", "", 3)
	require.NoError(t, h.MarkAllRead(c))
	var resp struct {
		Modified int64 `json:"modified"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.Modified)

	c, rec = newTestContext(t, http.MethodGet, "/notifications/new-notification", "", 3)
	require.NoError(t, h.HasUnseen(c))
	assert.JSONEq(t, `{"new_notification_available": false}`, rec.Body.String())
}

func TestCountAllEqualsSumOfTypeCounts(t *testing.T) {
	repo := &fakeNotificationRepo{}
	h := NewNotificationHandler(repo, nil)

	perType := map[string]int{
		models.NotificationLike:          4,
		models.NotificationComment:       2,
		models.NotificationReply:         1,
		models.NotificationBookingStatus: 3,
	}
	for notifType, count := range perType {
		for i := 0; i < count; i++ {
			seedNotification(t, repo, 5, 6, notifType, time.Duration(i)*time.Second)
		}
	}

	countFor := func(filter string) int64 {
		c, rec := newTestContext(t, http.MethodPost, "/notifications/count",
			fmt.Sprintf(`{"filter":%q}`, filter), 5)
		require.NoError(t, h.Count(c))
		var resp struct {
			TotalDocs int64 `json:"totalDocs"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp.TotalDocs
	}

	var sum int64
	for _, notifType := range models.NotificationTypes {
		sum += countFor(notifType)
	}
	assert.Equal(t, countFor("all"), sum)
	assert.Equal(t, int64(10), sum)
}

func TestDeleteRemovesAndSecondDeleteIsNotFound(t *testing.T) {
	repo := &fakeNotificationRepo{}
	h := NewNotificationHandler(repo, nil)
	n := seedNotification(t, repo, 1, 2, models.NotificationReview, 0)

	deleteOnce := func() error {
		c, _ := newTestContext(t, http.MethodDelete, "/notifications/:id", "", 1)
		c.SetParamNames("id")
		c.SetParamValues(n.ID.Hex())
		return h.Delete(c)
	}

	require.NoError(t, deleteOnce())

	c, rec := newTestContext(t, http.MethodPost, "/notifications/count", `{"filter":"all"}`, 1)
	require.NoError(t, h.Count(c))
	assert.JSONEq(t, `{"totalDocs": 0}`, rec.Body.String())

	err := deleteOnce()
	assert.Equal(t, http.StatusNotFound, httpCode(t, err))
}

func TestPaginationAcrossTypes(t *testing.T) {
	repo := &fakeNotificationRepo{}
	h := NewNotificationHandler(repo, nil)

	// 12 likes and 3 comments, interleaved by age
	for i := 0; i < 12; i++ {
		seedNotification(t, repo, 9, 10, models.NotificationLike, time.Duration(i)*time.Minute)
	}
	for i := 0; i < 3; i++ {
		seedNotification(t, repo, 9, 10, models.NotificationComment, time.Duration(i*5)*time.Minute)
	}

	c, rec := newTestContext(t, http.MethodPost, "/notifications/count", `{"filter":"all"}`, 9)
	require.NoError(t, h.Count(c))
	assert.JSONEq(t, `{"totalDocs": 15}`, rec.Body.String())

	c, rec = newTestContext(t, http.MethodPost, "/notifications/count", `{"filter":"like"}`, 9)
	require.NoError(t, h.Count(c))
	assert.JSONEq(t, `{"totalDocs": 12}`, rec.Body.String())

	listPage := func(page int) []models.Notification {
		c, rec := newTestContext(t, http.MethodPost, "/notifications/list",
			fmt.Sprintf(`{"page":%d,"filter":"all","deletedDocCount":0}`, page), 9)
		require.NoError(t, h.List(c))
		var resp struct {
			Notifications []models.Notification `json:"notifications"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp.Notifications
	}

	page1 := listPage(1)
	require.Len(t, page1, 10)
	for i := 1; i < len(page1); i++ {
		assert.False(t, page1[i].CreatedAt.After(page1[i-1].CreatedAt), "page must be newest first")
	}

	page2 := listPage(2)
	assert.Len(t, page2, 5)

	// both pages fetched, so with the side effect applied nothing is unseen
	c, rec = newTestContext(t, http.MethodGet, "/notifications/new-notification", "", 9)
	require.NoError(t, h.HasUnseen(c))
	assert.JSONEq(t, `{"new_notification_available": false}`, rec.Body.String())
}

func TestListDeletedOffsetClampsSkipAtZero(t *testing.T) {
	repo := &fakeNotificationRepo{}
	h := NewNotificationHandler(repo, nil)
	seedNotification(t, repo, 1, 2, models.NotificationLike, 0)

	// page 1 with a large deletedDocCount would compute a negative skip
	c, rec := newTestContext(t, http.MethodPost, "/notifications/list", `{"page":1,"filter":"all","deletedDocCount":8}`, 1)
	require.NoError(t, h.List(c))
	var resp struct {
		Notifications []models.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Notifications, 1)
}

func TestListRejectsUnknownFilter(t *testing.T) {
	repo := &fakeNotificationRepo{}
	h := NewNotificationHandler(repo, nil)

	c, _ := newTestContext(t, http.MethodPost, "/notifications/list", `{"page":1,"filter":"bogus","deletedDocCount":0}`, 1)
	err := h.List(c)
	assert.Equal(t, http.StatusForbidden, httpCode(t, err))

	c, _ = newTestContext(t, http.MethodPost, "/notifications/list", `{"page":0,"filter":"all","deletedDocCount":0}`, 1)
	err = h.List(c)
	assert.Equal(t, http.StatusForbidden, httpCode(t, err))
}

func TestEndpointsRequireAuthentication(t *testing.T) {
	repo := &fakeNotificationRepo{}
	h := NewNotificationHandler(repo, nil)

	c, _ := newTestContext(t, http.MethodGet, "/notifications/new-notification", "", 0)
	err := h.HasUnseen(c)
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, err))

	c, _ = newTestContext(t, http.MethodPost, "/notifications/list", `{"page":1,"filter":"all"}`, 0)
	err = h.List(c)
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, err))
}

func TestReadStateChangesPushBadgeUpdates(t *testing.T) {
	repo := &fakeNotificationRepo{}
	hub := &fakeHub{}
	h := NewNotificationHandler(repo, hub)
	n := seedNotification(t, repo, 1, 2, models.NotificationLike, 0)

	c, _ := newTestContext(t, http.MethodPatch, "/notifications/:id/read", "", 1)
	c.SetParamNames("id")
	c.SetParamValues(n.ID.Hex())
	require.NoError(t, h.MarkRead(c))

	assert.Eventually(t, func() bool {
		return hub.badgeCount() == 1
	}, time.Second, 10*time.Millisecond, "badge push expected after MarkRead")
}
