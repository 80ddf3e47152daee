package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"garderobe-backend/internal/auth"
	"garderobe-backend/internal/models"
)

var upgrader = websocket.Upgrader{
	// Local point-to-point link; no browser origins involved
	CheckOrigin: func(r *http.Request) bool { return true },
}

// pairDeviceHandler handles POST /api/sync/pair
func pairDeviceHandler(c echo.Context) error {
	var req models.PairDeviceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if req.Name == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "name and code are required",
		})
	}

	token, device, err := pairingService.Pair(req.Name, req.Code, c.RealIP())
	if err != nil {
		if errors.Is(err, auth.ErrPairingNotEnabled) {
			return c.JSON(http.StatusConflict, map[string]string{
				"error": "pairing is not enabled on this device",
			})
		}
		if errors.Is(err, auth.ErrInvalidPairingCode) {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "invalid pairing code",
			})
		}
		if errors.Is(err, auth.ErrTooManyAttempts) {
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "too many pairing attempts, try again later",
			})
		}
		c.Logger().Error("pair device error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to pair device",
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"token":  token,
		"device": device,
	})
}

// listDevicesHandler handles GET /api/sync/devices
func listDevicesHandler(c echo.Context) error {
	devices, err := pairingService.Devices()
	if err != nil {
		c.Logger().Error("list devices error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to list devices",
		})
	}
	return c.JSON(http.StatusOK, devices)
}

// unpairDeviceHandler handles DELETE /api/sync/devices/:id
func unpairDeviceHandler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid device id",
		})
	}
	if err := pairingService.Unpair(id); err != nil {
		c.Logger().Error("unpair device error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to unpair device",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "device unpaired"})
}

// syncWebSocketHandler handles GET /api/sync/ws - the companion session
// endpoint. The device token travels as a query parameter, same as the plain
// token scheme used for pairing.
func syncWebSocketHandler(c echo.Context) error {
	token := c.QueryParam("token")
	device, err := pairingService.ValidateToken(token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "invalid device token",
		})
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	log.Printf("sync: companion %q connected", device.Name)
	if err := pairingService.TouchLastSync(device.ID); err != nil {
		log.Printf("sync: failed to update last sync for %q: %v", device.Name, err)
	}

	syncHub.Serve(ws)
	log.Printf("sync: companion %q disconnected", device.Name)
	return nil
}
