package models

// CandidateRestaurant is the minimal record the recommender agent returns.
// It is consumed immediately by enrichment and never stored on its own.
type CandidateRestaurant struct {
	Name          string `json:"name"`
	PlaceID       string `json:"place_id"`
	WhyGoodChoice string `json:"why_is_a_good_choice_for_you"`
}

// OpeningHours mirrors the Places API opening_hours payload.
type OpeningHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// Photo is a Places API photo reference.
type Photo struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

// Review is a single Places API review entry.
type Review struct {
	AuthorName string  `json:"author_name"`
	Rating     float64 `json:"rating"`
	Text       string  `json:"text"`
	Time       int64   `json:"time"`
}

// PlaceDetails is the usable part of a Place Details response.
type PlaceDetails struct {
	Name                 string        `json:"name"`
	Rating               float64       `json:"rating"`
	UserRatingsTotal     int           `json:"user_ratings_total"`
	Vicinity             string        `json:"vicinity"`
	FormattedAddress     string        `json:"formatted_address,omitempty"`
	FormattedPhoneNumber string        `json:"formatted_phone_number,omitempty"`
	Website              string        `json:"website,omitempty"`
	OpeningHours         *OpeningHours `json:"opening_hours,omitempty"`
	PriceLevel           int           `json:"price_level,omitempty"`
	Photos               []Photo       `json:"photos,omitempty"`
	Reviews              []Review      `json:"reviews,omitempty"`
}

// Restaurant is a candidate merged with place details. Every candidate yields
// exactly one Restaurant: when enrichment fails the record degrades to
// defaults instead of being dropped.
type Restaurant struct {
	Name                 string        `json:"name"`
	PlaceID              string        `json:"place_id,omitempty"`
	WhyGoodChoice        string        `json:"why_is_a_good_choice_for_you,omitempty"`
	Rating               float64       `json:"rating"`
	UserRatingsTotal     int           `json:"user_ratings_total"`
	Vicinity             string        `json:"vicinity"`
	FormattedAddress     string        `json:"formatted_address,omitempty"`
	FormattedPhoneNumber string        `json:"formatted_phone_number,omitempty"`
	Website              string        `json:"website,omitempty"`
	OpeningHours         *OpeningHours `json:"opening_hours,omitempty"`
	PriceLevel           int           `json:"price_level,omitempty"`
	Photos               []Photo       `json:"photos,omitempty"`
	Reviews              []Review      `json:"reviews,omitempty"`
}

// NoLocationData is the vicinity placeholder for degraded results.
const NoLocationData = "No location data available"
