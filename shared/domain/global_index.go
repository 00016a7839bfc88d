package domain

import "time"

// Documents in the global security index share one collection and are told
// apart by their type field.
const (
	IndexGciRanking   = "gci_ranking"
	IndexRiskyCountry = "risky_country"
)

// GciRanking is one country's Global Cybersecurity Index standing for a year.
type GciRanking struct {
	Id        Id        `bson:"_id,omitempty" json:"id"`
	Type      string    `bson:"type" json:"type"`
	Country   string    `bson:"country" json:"country"`
	Rank      int       `bson:"rank" json:"rank"`
	Score     float64   `bson:"score" json:"score"`
	Year      int       `bson:"year" json:"year"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// RiskyCountry is a geolocated alert about a country.
type RiskyCountry struct {
	Id        Id        `bson:"_id,omitempty" json:"-"`
	Type      string    `bson:"type" json:"type"`
	Country   string    `bson:"country" json:"country"`
	RiskLevel string    `bson:"risk_level" json:"risk_level"`
	AlertType *string   `bson:"alert_type" json:"alert_type"`
	Latitude  float64   `bson:"latitude" json:"latitude"`
	Longitude float64   `bson:"longitude" json:"longitude"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
