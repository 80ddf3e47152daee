package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"garderobe-backend/internal/auth"
	"garderobe-backend/internal/consent"
	"garderobe-backend/internal/database"
	"garderobe-backend/internal/lifecycle"
	"garderobe-backend/internal/outfit"
	"garderobe-backend/internal/sync"
)

// Services carries the explicitly constructed service objects the handlers
// depend on. Composition happens in main; nothing here is a hidden singleton.
type Services struct {
	Consent   *consent.Service
	Lifecycle *lifecycle.Service
	Pairing   *auth.Service
	Hub       *sync.Hub
	Filterer  *outfit.Filterer
	Audit     *database.AuditRepo
}

var (
	consentService   *consent.Service
	lifecycleService *lifecycle.Service
	pairingService   *auth.Service
	syncHub          *sync.Hub
	outfitFilterer   *outfit.Filterer
	auditRepo        *database.AuditRepo
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api *echo.Group, svcs Services) {
	consentService = svcs.Consent
	lifecycleService = svcs.Lifecycle
	pairingService = svcs.Pairing
	syncHub = svcs.Hub
	outfitFilterer = svcs.Filterer
	auditRepo = svcs.Audit

	// Health check
	api.GET("/health", healthCheck)

	// Consent routes
	consentGroup := api.Group("/consent")
	consentGroup.GET("", getConsentHandler)
	consentGroup.POST("/accept", acceptConsentHandler)
	consentGroup.POST("/reject", rejectConsentHandler)
	consentGroup.POST("/revoke", revokeConsentHandler)
	consentGroup.GET("/export", exportUserDataHandler)
	consentGroup.DELETE("/data", deleteUserDataHandler)
	consentGroup.POST("/anonymize", anonymizeUserDataHandler)
	consentGroup.GET("/audit", listConsentAuditHandler)

	// Profile routes
	profile := api.Group("/profile")
	profile.GET("", getProfileHandler)
	profile.PUT("", saveProfileHandler)
	profile.GET("/onboarding", getOnboardingStatusHandler)

	// Wardrobe routes
	wardrobe := api.Group("/wardrobe")
	wardrobe.GET("", listWardrobeHandler)
	wardrobe.PUT("", replaceWardrobeHandler)
	wardrobe.POST("", addWardrobeItemHandler)
	wardrobe.DELETE("/:id", removeWardrobeItemHandler)
	wardrobe.POST("/:id/worn", markWornHandler)

	// Favorites routes
	favorites := api.Group("/favorites")
	favorites.GET("", listFavoritesHandler)
	favorites.GET("/:id", isFavoriteHandler)
	favorites.POST("/:id", addFavoriteHandler)
	favorites.DELETE("/:id", removeFavoriteHandler)

	// Mood/weather preference cache
	prefs := api.Group("/preferences")
	prefs.GET("", getPreferencesHandler)
	prefs.PUT("", savePreferencesHandler)

	// Outfit filtering
	api.POST("/outfits/filter", filterOutfitsHandler)

	// Companion sync routes
	syncGroup := api.Group("/sync")
	syncGroup.POST("/pair", pairDeviceHandler)
	syncGroup.GET("/devices", listDevicesHandler)
	syncGroup.DELETE("/devices/:id", unpairDeviceHandler)
	syncGroup.GET("/ws", syncWebSocketHandler)
}

// Health check
func healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
