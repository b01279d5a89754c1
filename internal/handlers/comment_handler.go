package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/danghoang87hl/travelnest/backend/internal/models"
	"github.com/danghoang87hl/travelnest/backend/internal/notifier"
	"github.com/danghoang87hl/travelnest/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to blog comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	blogRepository    repositories.BlogRepository
	userRepository    repositories.UserRepository
	notifier          *notifier.Notifier
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, blogRepo repositories.BlogRepository, userRepo repositories.UserRepository, n *notifier.Notifier) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		blogRepository:    blogRepo,
		userRepository:    userRepo,
		notifier:          n,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/blogs/:blog_id/comments", h.CreateComment)
	g.GET("/blogs/:blog_id/comments", h.GetComments)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a comment (or a reply when parent_id is set) and
// notifies the blog author, or the parent commenter for replies.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	blogID := c.Param("blog_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), blogID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// A reply notifies the parent commenter instead of the blog author.
	recipient := blog.AuthorID
	notifType := models.NotificationComment
	if req.ParentID != "" {
		parent, err := h.commentRepository.GetCommentByID(c.Request().Context(), req.ParentID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "Parent comment not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if parent.BlogID != blogID {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent comment belongs to another blog")
		}
		recipient = parent.AuthorID
		notifType = models.NotificationReply
	}

	comment := &models.Comment{
		BlogID:   blogID,
		AuthorID: currentUserID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}
	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Detached from the request context, which dies when the handler returns
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.blogRepository.IncrementCommentsCount(ctx, blogID); err != nil {
			log.Printf("Failed to increment comments count for blog %s: %v", blogID, err)
		}
	}()

	actor, _ := h.userRepository.GetUserByID(currentUserID)
	actorName := "Ai đó"
	if actor != nil {
		actorName = actor.Name
	}
	message := fmt.Sprintf("%s đã bình luận về bài viết \"%s\"", actorName, blog.Title)
	title := "Bình luận mới"
	if notifType == models.NotificationReply {
		message = fmt.Sprintf("%s đã trả lời bình luận của bạn", actorName)
		title = "Trả lời mới"
	}
	if err := h.notifier.Notify(c.Request().Context(), notifier.Event{
		Recipient: recipient,
		Actor:     currentUserID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		BlogID:    blogID,
		CommentID: comment.ID.Hex(),
	}); err != nil {
		log.Printf("Failed to create comment notification: %v", err)
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetComments returns a blog's comments, oldest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	skip := int64((page - 1) * limit)
	comments, err := h.commentRepository.GetCommentsByBlogID(c.Request().Context(), c.Param("blog_id"), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": comments, "page": page})
}

// DeleteComment deletes a comment owned by the current user
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.commentRepository.DeleteComment(c.Request().Context(), c.Param("id"), currentUserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.blogRepository.DecrementCommentsCount(ctx, comment.BlogID); err != nil {
			log.Printf("Failed to decrement comments count for blog %s: %v", comment.BlogID, err)
		}
	}()

	return c.NoContent(http.StatusNoContent)
}
