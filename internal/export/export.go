// Package export renders session history for download.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"monotaskr/coordinator/internal/model"
)

// JSON renders sessions as indented JSON.
func JSON(sessions []model.Session) ([]byte, error) {
	return json.MarshalIndent(sessions, "", "  ")
}

// CSV renders sessions as comma-separated rows, newest first, matching the
// layout the history view offers for download.
func CSV(sessions []model.Session) string {
	rows := make([]string, 0, len(sessions)+1)
	rows = append(rows, "Date,Duration (min),Completed,ID")
	for _, session := range sessions {
		completed := "No"
		if session.Completed {
			completed = "Yes"
		}
		rows = append(rows, fmt.Sprintf(
			"%s,%d,%s,%s",
			session.Timestamp.Format("2006-01-02"),
			session.DurationMinutes,
			completed,
			session.ID,
		))
	}
	return strings.Join(rows, "\n")
}
