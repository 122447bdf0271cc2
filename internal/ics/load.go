package ics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	appLog "callay/internal/log"
)

// Source represents a single ICS file source.
type Source struct {
	// ID is an internal identifier (e.g., config ICS ID).
	ID string
	// Path is the local .ics file.
	Path string
}

// LoadResult contains the outcome of reading a single ICS source.
type LoadResult struct {
	Source Source
	Body   []byte
	// Digest is the hex SHA-256 of Body; watch mode uses it to skip
	// unchanged inputs.
	Digest string
}

// LoadAll reads all given sources. Errors for individual sources are logged
// and returned in the error slice; the result slice only holds sources that
// produced a body.
func LoadAll(ctx context.Context, sources []Source) ([]LoadResult, []error) {
	results := make([]LoadResult, 0, len(sources))
	errs := make([]error, 0)

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res, err := LoadOne(src)
		if err != nil {
			errs = append(errs, err)
			appLog.Error("ics load failed", err, "id", src.ID, "path", src.Path)
			continue
		}
		results = append(results, res)
	}

	return results, errs
}

// LoadOne reads a single ICS file.
func LoadOne(src Source) (LoadResult, error) {
	if src.Path == "" {
		return LoadResult{}, errors.New("source path is empty")
	}
	body, err := os.ReadFile(src.Path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("ics: read %s: %w", src.ID, err)
	}
	if len(body) == 0 {
		return LoadResult{}, fmt.Errorf("ics: %s is empty", src.Path)
	}

	sum := sha256.Sum256(body)
	appLog.Debug("ics load success", "id", src.ID, "path", src.Path, "bytes", len(body))
	return LoadResult{
		Source: src,
		Body:   body,
		Digest: hex.EncodeToString(sum[:]),
	}, nil
}
