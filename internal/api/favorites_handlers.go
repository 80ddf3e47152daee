package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"garderobe-backend/internal/models"
)

// listFavoritesHandler handles GET /api/favorites
func listFavoritesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, lifecycleService.GetAllFavorites())
}

// isFavoriteHandler handles GET /api/favorites/:id
func isFavoriteHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{
		"favorite": lifecycleService.IsFavorite(c.Param("id")),
	})
}

// addFavoriteHandler handles POST /api/favorites/:id. Idempotent.
func addFavoriteHandler(c echo.Context) error {
	if err := lifecycleService.AddFavorite(c.Param("id")); err != nil {
		c.Logger().Error("add favorite error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to save favorites",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "favorite added"})
}

// removeFavoriteHandler handles DELETE /api/favorites/:id. Removing a
// non-member is a no-op.
func removeFavoriteHandler(c echo.Context) error {
	if err := lifecycleService.RemoveFavorite(c.Param("id")); err != nil {
		c.Logger().Error("remove favorite error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to save favorites",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "favorite removed"})
}

// getPreferencesHandler handles GET /api/preferences
func getPreferencesHandler(c echo.Context) error {
	mood, weather := lifecycleService.GetUserPreferences()
	return c.JSON(http.StatusOK, map[string]string{
		"mood":    mood,
		"weather": weather,
	})
}

// savePreferencesHandler handles PUT /api/preferences
func savePreferencesHandler(c echo.Context) error {
	var req struct {
		Mood    string `json:"mood"`
		Weather string `json:"weather"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	if err := lifecycleService.SaveUserPreferences(req.Mood, req.Weather); err != nil {
		c.Logger().Error("save preferences error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to save preferences",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"mood":    req.Mood,
		"weather": req.Weather,
	})
}

// filterOutfitsHandler handles POST /api/outfits/filter
func filterOutfitsHandler(c echo.Context) error {
	var req models.FilterOutfitsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	return c.JSON(http.StatusOK, outfitFilterer.Filter(req.Outfits, req.Mood, req.Weather))
}
