package mcpserver

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ncaam/cbb-mcp/internal/services"
)

// maxInputLen caps free-text tool inputs before they reach the service
// layer.
const maxInputLen = 200

var gameIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,30}$`)

// dateLayouts are the accepted input date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"20060102",
}

func validateText(field, value string) error {
	if len(value) > maxInputLen {
		return &services.ValidationError{
			Message: fmt.Sprintf("%s must be at most %d characters", field, maxInputLen),
		}
	}
	return nil
}

func validateGameID(gameID string) error {
	if !gameIDPattern.MatchString(gameID) {
		return &services.ValidationError{Message: "game_id must be 1-30 alphanumeric characters, dashes, or underscores"}
	}
	return nil
}

// normalizeDate converts an accepted date string to YYYY-MM-DD. An empty
// input means today.
func normalizeDate(date string) (string, error) {
	if date == "" {
		return time.Now().Format("2006-01-02"), nil
	}
	if len(date) > 10 {
		return "", &services.ValidationError{Message: "date must be YYYY-MM-DD, MM/DD/YYYY, MM-DD-YYYY, or YYYYMMDD"}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", &services.ValidationError{Message: "date must be YYYY-MM-DD, MM/DD/YYYY, MM-DD-YYYY, or YYYYMMDD"}
}

// validateSeason accepts zero (meaning the current season) or a plausible
// season year.
func validateSeason(season int) error {
	if season != 0 && (season < 2000 || season > 2100) {
		return &services.ValidationError{Message: "season must be between 2000 and 2100"}
	}
	return nil
}
