package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// RecipeService handles recipe CRUD and the listing filters.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
}

func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
	}
}

// validatePayload checks the ingredient and tag lists of a create/update
// request before anything is written: both must be present, reference
// existing rows, contain no duplicates, and every amount must be in range.
func (s *RecipeService) validatePayload(tx *gorm.DB, req *types.RecipeRequest) ([]models.Tag, error) {
	if req.CookingTime < 1 {
		return nil, newValidationError("cooking_time", "cooking time must be at least 1 minute")
	}

	if len(req.Ingredients) == 0 {
		return nil, newValidationError("ingredients", "at least one ingredient is required")
	}
	seen := make(map[uuid.UUID]bool, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		if seen[ing.ID] {
			return nil, newValidationError("ingredients", "duplicate ingredient in the list")
		}
		seen[ing.ID] = true
		if ing.Amount < models.MinIngredientAmount || ing.Amount > models.MaxIngredientAmount {
			return nil, newValidationError("amount", "amount must be between 1 and 3000")
		}
	}
	ids := make([]uuid.UUID, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		ids = append(ids, ing.ID)
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return nil, err
	}
	if count != int64(len(ids)) {
		return nil, newValidationError("ingredients", "unknown ingredient in the list")
	}

	if len(req.Tags) == 0 {
		return nil, newValidationError("tags", "at least one tag is required")
	}
	seenTags := make(map[uuid.UUID]bool, len(req.Tags))
	for _, id := range req.Tags {
		if seenTags[id] {
			return nil, newValidationError("tags", "duplicate tag in the list")
		}
		seenTags[id] = true
	}
	var tags []models.Tag
	if err := tx.Where("id IN ?", req.Tags).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(req.Tags) {
		return nil, newValidationError("tags", "unknown tag in the list")
	}

	return tags, nil
}

// CreateRecipe validates the payload, stores the image and persists the
// recipe with its tag and ingredient rows in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	imageURL := req.Image
	if s.images != nil {
		resolved, err := s.images.ResolveImage(ctx, req.Image)
		if err != nil {
			return nil, err
		}
		imageURL = resolved
	}

	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := s.validatePayload(tx, req)
		if err != nil {
			return err
		}

		recipe = models.Recipe{
			Name:        req.Name,
			Text:        req.Text,
			ImageURL:    imageURL,
			CookingTime: req.CookingTime,
			AuthorID:    authorID,
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Append(tags); err != nil {
			return err
		}
		for _, ing := range req.Ingredients {
			row := models.IngredientAmount{
				RecipeID:     recipe.ID,
				IngredientID: ing.ID,
				Amount:       ing.Amount,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe replaces the recipe's fields, tags and ingredient rows.
// Only the author may update.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	imageURL := req.Image
	if s.images != nil {
		resolved, err := s.images.ResolveImage(ctx, req.Image)
		if err != nil {
			return nil, err
		}
		imageURL = resolved
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if recipe.AuthorID != userID {
			return ErrNotOwner
		}

		tags, err := s.validatePayload(tx, req)
		if err != nil {
			return err
		}

		recipe.Name = req.Name
		recipe.Text = req.Text
		recipe.ImageURL = imageURL
		recipe.CookingTime = req.CookingTime
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.IngredientAmount{}).Error; err != nil {
			return err
		}
		for _, ing := range req.Ingredients {
			row := models.IngredientAmount{
				RecipeID:     recipe.ID,
				IngredientID: ing.ID,
				Amount:       ing.Amount,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipeID)
}

// DeleteRecipe removes a recipe and, via cascades, its junction rows.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if recipe.AuthorID != userID {
		return ErrNotOwner
	}

	return s.db.WithContext(ctx).Select("Tags", "Ingredients").Delete(&recipe).Error
}

// GetRecipe retrieves a recipe with its author, tags and ingredient rows.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes applies the tag/author/favorited/in-cart filters with
// page/limit pagination and returns the page plus the unpaged count.
func (s *RecipeService) ListRecipes(ctx context.Context, filter *types.RecipeFilter, page *types.Pagination) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if len(filter.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)",
			s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if filter.RequestingUserID != nil {
		if filter.IsFavorited {
			query = query.Where("recipes.id IN (?)",
				s.db.Table("favorite_recipes").
					Select("recipe_id").
					Where("user_id = ?", *filter.RequestingUserID))
		}
		if filter.IsInShoppingCart {
			query = query.Where("recipes.id IN (?)",
				s.db.Table("shopping_carts").
					Select("recipe_id").
					Where("user_id = ?", *filter.RequestingUserID))
		}
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	query = query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at DESC")
	if page != nil {
		query = query.Offset((page.Page - 1) * page.Limit).Limit(page.Limit)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}
