package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/motoruniversal-backend/internal/services"
)

// readFixture loads a YAML or JSON exercise document.
func readFixture(path string) (services.ExerciseImport, error) {
	var in services.ExerciseImport
	raw, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("read fixture: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &in)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		err = dec.Decode(&in)
	}
	if err != nil {
		return in, fmt.Errorf("parse fixture %s: %w", filepath.Base(path), err)
	}
	return in, nil
}
