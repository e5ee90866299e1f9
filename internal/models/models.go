package models

import "fmt"

// Location is a geocoded place.
type Location struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

func (l Location) RequestParams() string {
	return fmt.Sprintf("city: %s lat: %.4f lon: %.4f", l.City, l.Latitude, l.Longitude)
}

// Station is one entry from the NOAA CDO station directory.
type Station struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Article is a weather-related news article.
type Article struct {
	Title         string `json:"title"`
	Source        string `json:"source"`
	DatePublished string `json:"datePublished"`
	Snippet       string `json:"snippet"`
	URL           string `json:"url"`
}

// RedditPost is a weather-related social media post.
type RedditPost struct {
	Title      string `json:"title"`
	Subreddit  string `json:"subreddit"`
	CreatedUTC int64  `json:"created_utc"`
	URL        string `json:"url"`
	Selftext   string `json:"selftext"`
}
