package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"github.com/danghoang87hl/travelnest/backend/internal/notifier"
	"github.com/danghoang87hl/travelnest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// BlogHandler handles HTTP requests related to travel blogs
type BlogHandler struct {
	blogRepository repositories.BlogRepository
	userRepository repositories.UserRepository
	notifier       *notifier.Notifier
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(blogRepo repositories.BlogRepository, userRepo repositories.UserRepository, n *notifier.Notifier) *BlogHandler {
	return &BlogHandler{
		blogRepository: blogRepo,
		userRepository: userRepo,
		notifier:       n,
	}
}

// RegisterBlogRoutes registers blog-related routes
func (h *BlogHandler) RegisterBlogRoutes(g *echo.Group) {
	g.POST("/blogs", h.CreateBlog)
	g.GET("/blogs", h.GetBlogs)
	g.GET("/blogs/:id", h.GetBlog)
	g.PUT("/blogs/:id", h.UpdateBlog)
	g.DELETE("/blogs/:id", h.DeleteBlog)
	g.POST("/blogs/:id/like", h.LikeBlog)
	g.DELETE("/blogs/:id/like", h.UnlikeBlog)
}

// CreateBlog creates a new blog post
func (h *BlogHandler) CreateBlog(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blog := &models.Blog{
		AuthorID:      currentUserID,
		Title:         req.Title,
		Content:       req.Content,
		CoverImageURL: req.CoverImageURL,
		Tags:          req.Tags,
	}

	if err := h.blogRepository.CreateBlog(c.Request().Context(), blog); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, blog)
}

// GetBlogs returns paginated blogs, newest first. An optional author query
// param narrows the listing to one author's posts.
func (h *BlogHandler) GetBlogs(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	skip := int64((page - 1) * limit)

	var blogs []models.Blog
	var err error
	if authorParam := c.QueryParam("author"); authorParam != "" {
		authorID, parseErr := strconv.ParseUint(authorParam, 10, 32)
		if parseErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid author ID")
		}
		blogs, err = h.blogRepository.GetBlogsByAuthor(c.Request().Context(), uint(authorID), skip, int64(limit))
	} else {
		blogs, err = h.blogRepository.GetBlogs(c.Request().Context(), skip, int64(limit))
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"blogs": blogs, "page": page})
}

// GetBlog returns a single blog by ID
func (h *BlogHandler) GetBlog(c echo.Context) error {
	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, blog)
}

// UpdateBlog updates a blog owned by the current user
func (h *BlogHandler) UpdateBlog(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if blog.AuthorID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own blogs")
	}

	if req.Title != "" {
		blog.Title = req.Title
	}
	if req.Content != "" {
		blog.Content = req.Content
	}
	if req.CoverImageURL != "" {
		blog.CoverImageURL = req.CoverImageURL
	}
	if req.Tags != nil {
		blog.Tags = req.Tags
	}

	if err := h.blogRepository.UpdateBlog(c.Request().Context(), c.Param("id"), blog); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, blog)
}

// DeleteBlog deletes a blog owned by the current user
func (h *BlogHandler) DeleteBlog(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if blog.AuthorID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own blogs")
	}

	if err := h.blogRepository.DeleteBlog(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// LikeBlog likes a blog and notifies its author
func (h *BlogHandler) LikeBlog(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	blogID := c.Param("id")

	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), blogID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	liked, err := h.blogRepository.LikeBlog(c.Request().Context(), blogID, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !liked {
		return echo.NewHTTPError(http.StatusConflict, "Blog already liked by this user")
	}

	actor, _ := h.userRepository.GetUserByID(currentUserID)
	actorName := "Ai đó"
	if actor != nil {
		actorName = actor.Name
	}
	if err := h.notifier.Notify(c.Request().Context(), notifier.Event{
		Recipient: blog.AuthorID,
		Actor:     currentUserID,
		Type:      models.NotificationLike,
		Title:     "Lượt thích mới",
		Message:   fmt.Sprintf("%s đã thích bài viết \"%s\" của bạn", actorName, blog.Title),
		BlogID:    blogID,
	}); err != nil {
		log.Printf("Failed to create like notification: %v", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Blog liked"})
}

// UnlikeBlog removes the current user's like. No notification is produced,
// and any existing like notification stays untouched.
func (h *BlogHandler) UnlikeBlog(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	removed, err := h.blogRepository.UnlikeBlog(c.Request().Context(), c.Param("id"), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !removed {
		return echo.NewHTTPError(http.StatusNotFound, "Like not found")
	}
	return c.NoContent(http.StatusNoContent)
}
