package services

import "fmt"

// TeamNotFoundError reports a team query that matched nothing.
type TeamNotFoundError struct {
	Query string
}

func (e *TeamNotFoundError) Error() string {
	return fmt.Sprintf("team not found: %s", e.Query)
}

// GameNotFoundError reports an unknown game ID.
type GameNotFoundError struct {
	GameID string
}

func (e *GameNotFoundError) Error() string {
	return fmt.Sprintf("game not found: %s", e.GameID)
}

// ValidationError reports rejected user input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
