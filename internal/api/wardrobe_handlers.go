package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"garderobe-backend/internal/models"
)

// listWardrobeHandler handles GET /api/wardrobe
func listWardrobeHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, lifecycleService.LoadWardrobeItems())
}

// replaceWardrobeHandler handles PUT /api/wardrobe. The collection is
// persisted as one record; this replaces it wholesale.
func replaceWardrobeHandler(c echo.Context) error {
	var items []models.WardrobeItem
	if err := c.Bind(&items); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	if err := lifecycleService.SaveWardrobeItems(items); err != nil {
		c.Logger().Error("save wardrobe error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to save wardrobe",
		})
	}
	syncHub.PublishWardrobe(items)
	return c.JSON(http.StatusOK, items)
}

// addWardrobeItemHandler handles POST /api/wardrobe. Adding an item is a
// read-modify-write of the full collection.
func addWardrobeItemHandler(c echo.Context) error {
	var req models.AddWardrobeItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if req.Name == "" || req.Category == "" || req.Color == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "name, category and color are required",
		})
	}

	now := time.Now()
	item := models.WardrobeItem{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Category:      req.Category,
		Color:         req.Color,
		Brand:         req.Brand,
		Size:          req.Size,
		PurchaseDate:  req.PurchaseDate,
		PurchasePrice: req.PurchasePrice,
		PhotoPath:     req.PhotoPath,
		Notes:         req.Notes,
		Tags:          req.Tags,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	items := append(lifecycleService.LoadWardrobeItems(), item)
	if err := lifecycleService.SaveWardrobeItems(items); err != nil {
		c.Logger().Error("save wardrobe error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to save wardrobe",
		})
	}
	syncHub.PublishWardrobe(items)
	return c.JSON(http.StatusCreated, item)
}

// removeWardrobeItemHandler handles DELETE /api/wardrobe/:id
func removeWardrobeItemHandler(c echo.Context) error {
	id := c.Param("id")

	items := lifecycleService.LoadWardrobeItems()
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "wardrobe item not found",
		})
	}

	if err := lifecycleService.SaveWardrobeItems(kept); err != nil {
		c.Logger().Error("save wardrobe error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to save wardrobe",
		})
	}
	syncHub.PublishWardrobe(kept)
	return c.JSON(http.StatusOK, map[string]string{"message": "wardrobe item removed"})
}

// markWornHandler handles POST /api/wardrobe/:id/worn
func markWornHandler(c echo.Context) error {
	id := c.Param("id")
	now := time.Now()

	items := lifecycleService.LoadWardrobeItems()
	found := false
	for i := range items {
		if items[i].ID == id {
			items[i].WearCount++
			items[i].LastWornAt = &now
			items[i].UpdatedAt = now
			found = true
			break
		}
	}
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "wardrobe item not found",
		})
	}

	if err := lifecycleService.SaveWardrobeItems(items); err != nil {
		c.Logger().Error("save wardrobe error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to save wardrobe",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "wear recorded"})
}
