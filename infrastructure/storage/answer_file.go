package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wocabot/domain/entities"
	"wocabot/domain/interfaces"

	"gopkg.in/yaml.v3"
)

type answerFile struct {
	path string
}

// NewAnswerFile - creates an answer source backed by a JSON or YAML file.
// Files ending in .yaml or .yml are parsed as YAML, everything else as JSON.
func NewAnswerFile(path string) interfaces.AnswerSource {
	return &answerFile{path: path}
}

// Load - reads the whole file into an AnswerMap
func (f *answerFile) Load() (entities.AnswerMap, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return entities.AnswerMap{}, fmt.Errorf("%w: %w", entities.ErrLoad, err)
	}

	raw, err := decodeAnswers(f.path, data)
	if err != nil {
		return entities.AnswerMap{}, fmt.Errorf("%w: %s: %w", entities.ErrLoad, f.path, err)
	}

	return entities.NewAnswerMap(raw)
}

// decodeAnswers - parses a flat word to answer object
func decodeAnswers(path string, data []byte) (map[string]string, error) {
	var raw map[string]string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, fmt.Errorf("file is empty")
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	}

	// null and an empty yaml document decode without error
	if raw == nil {
		return nil, fmt.Errorf("no word to answer mapping found")
	}
	return raw, nil
}
