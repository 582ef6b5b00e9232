package server

import (
	"devin/internal/models"
	"devin/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReply handles POST /api/replies
func (s *Server) CreateReply(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		PostID      uint     `json:"post_id"`
		Content     string   `json:"content"`
		ReplyImages []string `json:"reply_images"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("post_id is required"))
	}

	replyID, err := s.replySvc.Create(ctx, service.CreateReplyInput{
		UserID:     userID,
		PostID:     req.PostID,
		Content:    req.Content,
		ImagePaths: req.ReplyImages,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": replyID})
}

// EditReply handles PUT /api/replies/:id
func (s *Server) EditReply(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content     string   `json:"content"`
		ReplyImages []string `json:"reply_images"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	id, err := s.replySvc.Edit(ctx, service.EditReplyInput{
		UserID:     userID,
		ReplyID:    replyID,
		Content:    req.Content,
		ImagePaths: req.ReplyImages,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"id": id})
}

// ToggleReplyLike handles POST /api/replies/:id/like
func (s *Server) ToggleReplyLike(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	likeID, err := s.replySvc.ToggleLike(ctx, userID, replyID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"id": likeID})
}

// DeleteReply handles DELETE /api/replies/:id
func (s *Server) DeleteReply(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.replySvc.Delete(ctx, userID, replyID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"deleted": true})
}

// GetReplies handles GET /api/reply/:postId (public)
func (s *Server) GetReplies(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)

	replies, err := s.replySvc.ListByPost(ctx, postID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(replies)
}
