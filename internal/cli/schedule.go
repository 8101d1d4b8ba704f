package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/autosend/internal/models"
	"github.com/julianstephens/autosend/internal/validation"
)

// ReadSchedule reads a custom schedule document from path ("-" for stdin),
// validates it strictly and returns its canonical JSON.
func ReadSchedule(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read schedule file: %w", err)
	}

	schedule, result := validation.New().ValidateCustomSchedule(data)
	if err := result.Err(); err != nil {
		return "", err
	}
	return EncodeSchedule(schedule)
}

// EncodeSchedule returns the stored JSON form of a custom schedule.
func EncodeSchedule(schedule *models.CustomSchedule) (string, error) {
	raw, err := json.Marshal(schedule)
	if err != nil {
		return "", fmt.Errorf("failed to encode custom schedule: %w", err)
	}
	return string(raw), nil
}
