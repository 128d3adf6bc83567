package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipeService   *service.RecipeService
	favoriteService *service.FavoriteService
	cartService     *service.CartService
	followService   *service.FollowService
	userService     *service.UserService
	authService     *service.AuthService
	createLimiter   *middleware.RateLimiter
	pageSize        int
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	favoriteService *service.FavoriteService,
	cartService *service.CartService,
	followService *service.FollowService,
	userService *service.UserService,
	authService *service.AuthService,
	createLimiter *middleware.RateLimiter,
	pageSize int,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipeService,
		favoriteService: favoriteService,
		cartService:     cartService,
		followService:   followService,
		userService:     userService,
		authService:     authService,
		createLimiter:   createLimiter,
		pageSize:        pageSize,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.authService), h.ListRecipes)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetRecipe)

		authed := recipes.Group("", middleware.AuthMiddleware(h.authService))
		{
			create := authed.Group("")
			if h.createLimiter != nil {
				create.Use(h.createLimiter.RateLimitMiddleware())
			}
			create.POST("", h.CreateRecipe)

			authed.PATCH("/:id", h.UpdateRecipe)
			authed.DELETE("/:id", h.DeleteRecipe)
			authed.POST("/:id/favorite", h.FavoriteRecipe)
			authed.DELETE("/:id/favorite", h.UnfavoriteRecipe)
			authed.POST("/:id/shopping_cart", h.AddToShoppingCart)
			authed.DELETE("/:id/shopping_cart", h.RemoveFromShoppingCart)
			authed.GET("/download_shopping_cart", h.DownloadShoppingCart)
		}
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := &types.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      c.Query("is_favorited") == "1" || c.Query("is_favorited") == "true",
		IsInShoppingCart: c.Query("is_in_shopping_cart") == "1" || c.Query("is_in_shopping_cart") == "true",
		RequestingUserID: currentUserID(c),
	}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}

	page := paginationFromQuery(c, h.pageSize)
	recipes, count, err := h.recipeService.ListRecipes(c.Request.Context(), filter, &page)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	results, err := h.recipeResponses(c, recipes)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.PagedResponse{Count: count, Results: results})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	results, err := h.recipeResponses(c, []models.Recipe{*recipe})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results[0])
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	results, err := h.recipeResponses(c, []models.Recipe{*recipe})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, results[0])
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), userID, id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	results, err := h.recipeResponses(c, []models.Recipe{*recipe})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results[0])
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	h.toggleOn(c, h.favoriteService.Favorite)
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	h.toggleOff(c, h.favoriteService.Unfavorite)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.toggleOn(c, h.cartService.AddToCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.toggleOff(c, h.cartService.RemoveFromCart)
}

// DownloadShoppingCart aggregates the user's cart and streams the
// rendered shopping list as a text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.cartService.Aggregate(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	body := service.RenderShoppingList(user.FullName(), time.Now(), rows)
	filename := service.ShoppingListFilename(user.Username)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

type toggleOnFunc func(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)

type toggleOffFunc func(ctx context.Context, userID, recipeID uuid.UUID) error

func (h *RecipeHandler) toggleOn(c *gin.Context, toggle toggleOnFunc) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := toggle(c.Request.Context(), userID, recipeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRecipeSummary(recipe))
}

func (h *RecipeHandler) toggleOff(c *gin.Context, toggle toggleOffFunc) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := toggle(c.Request.Context(), userID, recipeID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// recipeResponses builds the read form for a batch of recipes, resolving
// the viewer-dependent flags in two queries instead of per recipe.
func (h *RecipeHandler) recipeResponses(c *gin.Context, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	viewer := currentUserID(c)

	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	subscribed := map[uuid.UUID]bool{}
	if viewer != nil {
		ids := make([]uuid.UUID, 0, len(recipes))
		for i := range recipes {
			ids = append(ids, recipes[i].ID)
		}

		var err error
		favorited, err = h.favoriteService.FavoritedSet(c.Request.Context(), *viewer, ids)
		if err != nil {
			return nil, err
		}
		inCart, err = h.cartService.InCartSet(c.Request.Context(), *viewer, ids)
		if err != nil {
			return nil, err
		}

		for i := range recipes {
			authorID := recipes[i].AuthorID
			if _, seen := subscribed[authorID]; seen {
				continue
			}
			isSub, err := h.followService.IsSubscribed(c.Request.Context(), *viewer, authorID)
			if err != nil {
				return nil, err
			}
			subscribed[authorID] = isSub
		}
	}

	results := make([]types.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		results = append(results, toRecipeResponse(r, subscribed[r.AuthorID], favorited[r.ID], inCart[r.ID]))
	}
	return results, nil
}
