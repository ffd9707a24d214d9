package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"vezoh_backend/internal/config"
	"vezoh_backend/internal/geo"
	"vezoh_backend/internal/middleware"
	"vezoh_backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // mobile clients connect from app webviews, not a fixed origin
	},
}

// Movement thresholds for the driver feed. Updates below the distance
// threshold are acknowledged but not stored, except for the periodic
// keep-alive save.
const (
	minMoveMeters        = 10.0
	periodicSaveInterval = 60 * time.Second
)

// locationUpdate is the JSON frame the driver app sends over the feed.
type locationUpdate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Speed     float64 `json:"speed"`   // km/h
	Bearing   float64 `json:"bearing"` // degrees
}

// LocationHub fans driver position updates out to the riders watching
// that driver.
type LocationHub struct {
	watchers  map[uint]map[*websocket.Conn]bool
	broadcast chan driverPosition
	mu        sync.Mutex
}

type driverPosition struct {
	DriverID  uint    `json:"driver_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Speed     float64 `json:"speed"`
	Bearing   float64 `json:"bearing"`
	EventType string  `json:"event_type"`
	Timestamp string  `json:"timestamp"`
}

func NewLocationHub() *LocationHub {
	hub := &LocationHub{
		watchers:  make(map[uint]map[*websocket.Conn]bool),
		broadcast: make(chan driverPosition, 100),
	}
	go hub.run()
	return hub
}

func (h *LocationHub) run() {
	for pos := range h.broadcast {
		h.mu.Lock()
		for conn := range h.watchers[pos.DriverID] {
			if err := conn.WriteJSON(pos); err != nil {
				logrus.WithError(err).WithField("driver_id", pos.DriverID).
					Warn("Failed to push position to watcher, dropping connection")
				conn.Close()
				delete(h.watchers[pos.DriverID], conn)
			}
		}
		h.mu.Unlock()
	}
}

// Watch registers a rider connection for one driver's positions.
func (h *LocationHub) Watch(driverID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.watchers[driverID] == nil {
		h.watchers[driverID] = make(map[*websocket.Conn]bool)
	}
	h.watchers[driverID][conn] = true
}

// Unwatch removes a rider connection.
func (h *LocationHub) Unwatch(driverID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.watchers[driverID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.watchers, driverID)
		}
	}
}

// Publish queues a position for broadcast, dropping it if the channel
// is full rather than blocking the driver's read loop.
func (h *LocationHub) Publish(pos driverPosition) {
	select {
	case h.broadcast <- pos:
	default:
		logrus.WithField("driver_id", pos.DriverID).Warn("Location broadcast channel full, dropping update")
	}
}

// LocationWSController owns the /ws/location endpoint.
type LocationWSController struct {
	Hub *LocationHub
}

func NewLocationWSController(hub *LocationHub) *LocationWSController {
	return &LocationWSController{Hub: hub}
}

// HandleLocationWebSocket authenticates the token from the query string
// and runs either the driver send loop or the rider watch loop.
func (l *LocationWSController) HandleLocationWebSocket(c *gin.Context) {
	claims, err := middleware.ValidateToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or missing token"})
		return
	}

	var watchedDriverID uint
	switch claims.Role {
	case "driver":
	case "user":
		parsed, err := strconv.ParseUint(c.Query("driver_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "driver_id query parameter is required"})
			return
		}
		watchedDriverID = uint(parsed)
	default:
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Unsupported role for location feed"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	if claims.Role == "driver" {
		l.runDriverFeed(conn, claims.AccountID)
		return
	}
	l.runWatcher(conn, watchedDriverID)
}

func (l *LocationWSController) runDriverFeed(conn *websocket.Conn, driverID uint) {
	logrus.WithField("driver_id", driverID).Info("Driver location feed connected")

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithField("driver_id", driverID).Error("Error reading location feed")
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}
		l.processUpdate(conn, driverID, payload)
	}

	logrus.WithField("driver_id", driverID).Info("Driver location feed closed")
}

func (l *LocationWSController) runWatcher(conn *websocket.Conn, driverID uint) {
	logrus.WithField("driver_id", driverID).Info("Rider watching driver location")

	l.Hub.Watch(driverID, conn)
	defer l.Hub.Unwatch(driverID, conn)

	// Watchers only receive; the read loop just detects disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (l *LocationWSController) processUpdate(conn *websocket.Conn, driverID uint, payload []byte) {
	var update locationUpdate
	if err := json.Unmarshal(payload, &update); err != nil {
		conn.WriteJSON(gin.H{"error": "Invalid location payload"})
		return
	}
	pos := geo.Coordinate{Latitude: update.Latitude, Longitude: update.Longitude}
	if !pos.Valid() {
		conn.WriteJSON(gin.H{"error": "Invalid coordinates"})
		return
	}

	var last models.LocationPing
	err := config.DB.Where("driver_id = ?", driverID).Order("created_at desc").First(&last).Error
	firstPing := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !firstPing {
		logrus.WithError(err).WithField("driver_id", driverID).Error("Failed to load last location ping")
		conn.WriteJSON(gin.H{"error": "Could not process location"})
		return
	}

	eventType, significant := classifyUpdate(update, last, firstPing)
	if !significant {
		conn.WriteJSON(gin.H{"status": "received", "event_type": eventType})
		return
	}

	now := time.Now()
	ping := models.NewLocationPing(driverID, update.Latitude, update.Longitude,
		update.Accuracy, update.Speed, update.Bearing, eventType)
	if err := config.DB.Create(&ping).Error; err != nil {
		logrus.WithError(err).WithField("driver_id", driverID).Error("Failed to save location ping")
		conn.WriteJSON(gin.H{"error": "Could not save location"})
		return
	}

	err = config.DB.Model(&models.Driver{}).Where("id = ?", driverID).Updates(map[string]interface{}{
		"latitude":            update.Latitude,
		"longitude":           update.Longitude,
		"location_updated_at": now,
	}).Error
	if err != nil {
		logrus.WithError(err).WithField("driver_id", driverID).Warn("Failed to update driver location")
	}

	conn.WriteJSON(gin.H{"status": "saved", "event_type": eventType, "sequence_id": ping.ID})

	l.Hub.Publish(driverPosition{
		DriverID:  driverID,
		Latitude:  update.Latitude,
		Longitude: update.Longitude,
		Speed:     update.Speed,
		Bearing:   update.Bearing,
		EventType: eventType,
		Timestamp: now.Format(time.RFC3339Nano),
	})
}

// classifyUpdate decides whether an update is worth storing: the first
// ping always is, as is any movement past the distance threshold or the
// periodic keep-alive once the last stored ping is old enough.
func classifyUpdate(update locationUpdate, last models.LocationPing, firstPing bool) (string, bool) {
	if firstPing {
		return "initial", true
	}

	moved := geo.HaversineMeters(
		geo.Coordinate{Latitude: last.Latitude, Longitude: last.Longitude},
		geo.Coordinate{Latitude: update.Latitude, Longitude: update.Longitude},
	)
	if moved >= minMoveMeters {
		return "moving", true
	}
	if time.Since(last.CreatedAt) >= periodicSaveInterval {
		if update.Speed < 1 {
			return "stopped", true
		}
		return "periodic", true
	}
	return "insignificant", false
}
