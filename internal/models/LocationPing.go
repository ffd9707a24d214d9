package models

import (
	"time"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
	"gorm.io/gorm"
)

// LocationPing is one accepted location update from a driver's feed.
// Geom holds the point as WKB (SRID 4326) alongside the raw lat/lng
// columns so PostGIS queries can use it directly.
type LocationPing struct {
	gorm.Model
	DriverID  uint    `json:"driver_id" gorm:"index"`
	Driver    Driver  `json:"-" gorm:"foreignKey:DriverID"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"` // GPS accuracy in meters
	Speed     float64 `json:"speed"`    // km/h
	Bearing   float64 `json:"bearing"`  // degrees

	Geom []byte `json:"-" gorm:"type:bytea"`

	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"` // "status_update", "moving", "stopped"
}

// NewLocationPing builds a ping with the WKB point filled in. A WKB
// encoding failure leaves Geom nil; the lat/lng columns still carry the
// position.
func NewLocationPing(driverID uint, lat, lng, accuracy, speed, bearing float64, eventType string) LocationPing {
	ping := LocationPing{
		DriverID:  driverID,
		Latitude:  lat,
		Longitude: lng,
		Accuracy:  accuracy,
		Speed:     speed,
		Bearing:   bearing,
		Timestamp: time.Now(),
		EventType: eventType,
	}

	point := geom.NewPointFlat(geom.XY, []float64{lng, lat})
	point.SetSRID(4326)
	if encoded, err := wkb.Marshal(point, wkb.NDR); err == nil {
		ping.Geom = encoded
	}
	return ping
}
