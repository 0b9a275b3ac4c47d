package quests

import "time"

// Quest is a species-discovery challenge
type Quest struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Region      string      `json:"region,omitempty"`
	Steps       []QuestStep `json:"steps,omitempty"`
	StartsAt    time.Time   `json:"starts_at"`
	EndsAt      time.Time   `json:"ends_at"`
}

// QuestStep is one species to find within a quest
type QuestStep struct {
	ID          string `json:"id"`
	SpeciesName string `json:"species_name"`
	Completed   bool   `json:"completed"`
}

// LeaderboardEntry is one row of a quest leaderboard
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Sighting is a species observation reported against a quest step
type Sighting struct {
	ID          string    `json:"id"`
	QuestID     string    `json:"quest_id"`
	StepID      string    `json:"step_id"`
	SpeciesName string    `json:"species_name"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Notes       string    `json:"notes,omitempty"`
	ObservedAt  time.Time `json:"observed_at"`
}
