// Package types contains common types used across the application
package types

// Standing represents one row of the rendered leaderboard.
type Standing struct {
	Rank  int    `json:"rank"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Total int    `json:"total"`
}
