package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"garderobe-backend/internal/consent"
)

// getConsentHandler handles GET /api/consent
func getConsentHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, consentService.State())
}

// acceptConsentHandler handles POST /api/consent/accept
func acceptConsentHandler(c echo.Context) error {
	if err := consentService.AcceptConsent(); err != nil {
		c.Logger().Error("accept consent error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to persist consent",
		})
	}
	return c.JSON(http.StatusOK, consentService.State())
}

// rejectConsentHandler handles POST /api/consent/reject
func rejectConsentHandler(c echo.Context) error {
	if err := consentService.RejectConsent(); err != nil {
		c.Logger().Error("reject consent error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to persist consent",
		})
	}
	return c.JSON(http.StatusOK, consentService.State())
}

// revokeConsentHandler handles POST /api/consent/revoke
func revokeConsentHandler(c echo.Context) error {
	if err := consentService.RevokeConsent(); err != nil {
		c.Logger().Error("revoke consent error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to persist consent",
		})
	}
	return c.JSON(http.StatusOK, consentService.State())
}

// exportUserDataHandler handles GET /api/consent/export. Returns an empty
// mapping when consent is not granted. The audit entry is written here; the
// service export itself is side-effect-free.
func exportUserDataHandler(c echo.Context) error {
	export := consentService.ExportUserData()
	if consentService.IsGranted() {
		if err := auditRepo.Log(consent.ActionDataExported, map[string]interface{}{"keys": len(export)}); err != nil {
			c.Logger().Error("export audit error: ", err)
		}
	}
	return c.JSON(http.StatusOK, export)
}

// deleteUserDataHandler handles DELETE /api/consent/data (right to erasure)
func deleteUserDataHandler(c echo.Context) error {
	if err := consentService.DeleteUserData(); err != nil {
		c.Logger().Error("delete user data error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to delete user data",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user data deleted"})
}

// anonymizeUserDataHandler handles POST /api/consent/anonymize
func anonymizeUserDataHandler(c echo.Context) error {
	if err := consentService.AnonymizeUserData(); err != nil {
		c.Logger().Error("anonymize user data error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to anonymize user data",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user data anonymized"})
}

// listConsentAuditHandler handles GET /api/consent/audit
func listConsentAuditHandler(c echo.Context) error {
	entries, err := auditRepo.List(100)
	if err != nil {
		c.Logger().Error("list consent audit error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to list audit entries",
		})
	}
	return c.JSON(http.StatusOK, entries)
}
