// Package records maps the job board entities onto storage documents.
package records

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/resume-ranker/internal/storage"
)

const (
	CollectionJobs    = "jobs"
	CollectionResumes = "resumes"
	CollectionUsers   = "users"
)

func encode(v any) (storage.Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var doc storage.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decode(doc storage.Document, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           target,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(map[string]any(doc)); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}
