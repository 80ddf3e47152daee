package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"garderobe-backend/internal/models"
)

// getProfileHandler handles GET /api/profile
func getProfileHandler(c echo.Context) error {
	profile := lifecycleService.LoadUserProfile()
	if profile == nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "no profile saved",
		})
	}
	return c.JSON(http.StatusOK, profile)
}

// saveProfileHandler handles PUT /api/profile. The profile is overwritten
// wholesale; the original creation timestamp is preserved when one exists.
func saveProfileHandler(c echo.Context) error {
	var req models.SaveProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if req.FirstName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "first_name is required",
		})
	}

	gender := req.Gender
	if gender == "" {
		gender = models.GenderUnspecified
	}

	createdAt := time.Now()
	if existing := lifecycleService.LoadUserProfile(); existing != nil {
		createdAt = existing.CreatedAt
	}

	profile := &models.UserProfile{
		FirstName:         req.FirstName,
		DateOfBirth:       req.DateOfBirth,
		Gender:            gender,
		Email:             req.Email,
		PhotoPath:         req.PhotoPath,
		CreatedAt:         createdAt,
		LastWeatherUpdate: req.LastWeatherUpdate,
		Preferences:       req.Preferences,
	}

	if err := lifecycleService.SaveUserProfile(profile); err != nil {
		c.Logger().Error("save profile error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to save profile",
		})
	}
	return c.JSON(http.StatusOK, profile)
}

// getOnboardingStatusHandler handles GET /api/profile/onboarding
func getOnboardingStatusHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{
		"completed": lifecycleService.HasCompletedOnboarding(),
	})
}
