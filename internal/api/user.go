package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

type UserHandler struct {
	authService   *service.AuthService
	userService   *service.UserService
	followService *service.FollowService
	pageSize      int
}

func NewUserHandler(authService *service.AuthService, userService *service.UserService, followService *service.FollowService, pageSize int) *UserHandler {
	return &UserHandler{
		authService:   authService,
		userService:   userService,
		followService: followService,
		pageSize:      pageSize,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", middleware.OptionalAuthMiddleware(h.authService), h.ListUsers)

		authed := users.Group("", middleware.AuthMiddleware(h.authService))
		{
			authed.GET("/me", h.Me)
			authed.POST("/set_password", h.SetPassword)
			authed.GET("/subscriptions", h.Subscriptions)
			authed.POST("/:id/subscribe", h.Subscribe)
			authed.DELETE("/:id/subscribe", h.Unsubscribe)
		}

		users.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetUser)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user, false))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user, false))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	subscribed := false
	if viewer := currentUserID(c); viewer != nil {
		subscribed, err = h.followService.IsSubscribed(c.Request.Context(), *viewer, user.ID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, toUserResponse(user, subscribed))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page := paginationFromQuery(c, h.pageSize)
	users, count, err := h.userService.ListUsers(c.Request.Context(), page.Page, page.Limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	results := make([]types.UserResponse, 0, len(users))
	for i := range users {
		subscribed := false
		if viewer := currentUserID(c); viewer != nil {
			subscribed, err = h.followService.IsSubscribed(c.Request.Context(), *viewer, users[i].ID)
			if err != nil {
				handleServiceError(c, err)
				return
			}
		}
		results = append(results, toUserResponse(&users[i], subscribed))
	}

	c.JSON(http.StatusOK, types.PagedResponse{Count: count, Results: results})
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.SetPassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	author, err := h.followService.Subscribe(c.Request.Context(), userID, authorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	recipesLimit, _ := strconv.Atoi(c.Query("recipes_limit"))
	resp, err := h.subscriptionResponse(c, author, recipesLimit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.followService.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	page := paginationFromQuery(c, h.pageSize)
	authors, count, err := h.followService.Subscriptions(c.Request.Context(), userID, page.Page, page.Limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	recipesLimit, _ := strconv.Atoi(c.Query("recipes_limit"))
	results := make([]types.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		resp, err := h.subscriptionResponse(c, &authors[i], recipesLimit)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		results = append(results, resp)
	}

	c.JSON(http.StatusOK, types.PagedResponse{Count: count, Results: results})
}

func (h *UserHandler) subscriptionResponse(c *gin.Context, author *models.User, recipesLimit int) (types.SubscriptionResponse, error) {
	recipes, recipesCount, err := h.followService.AuthorRecipes(c.Request.Context(), author.ID, recipesLimit)
	if err != nil {
		return types.SubscriptionResponse{}, err
	}

	summaries := make([]types.RecipeSummary, 0, len(recipes))
	for i := range recipes {
		summaries = append(summaries, toRecipeSummary(&recipes[i]))
	}

	return types.SubscriptionResponse{
		UserResponse: toUserResponse(author, true),
		Recipes:      summaries,
		RecipesCount: recipesCount,
	}, nil
}
