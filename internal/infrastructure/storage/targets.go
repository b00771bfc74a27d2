// Package storage persists local engine state: the per-person monthly
// point targets, stored as YAML under a dot-directory.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"gopkg.in/yaml.v3"
)

const DataDir = ".teambalance"
const TargetsFile = "targets.yaml"

type targetsDoc struct {
	// Targets maps lowercased email to the configured monthly points.
	Targets map[string]int `yaml:"targets"`
}

// FilesystemTargetStore implements workload.TargetStore on a YAML file.
// Reads always hit the file so external edits are picked up immediately.
type FilesystemTargetStore struct {
	root        string
	retryConfig retry.Config

	mu sync.Mutex
}

// NewFilesystemTargetStore creates a store rooted at the given directory.
func NewFilesystemTargetStore(root string) *FilesystemTargetStore {
	return &FilesystemTargetStore{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

func (s *FilesystemTargetStore) path() string {
	return filepath.Join(s.root, DataDir, TargetsFile)
}

// Target returns the configured monthly points for an email, and whether
// a target exists at all.
func (s *FilesystemTargetStore) Target(email string) (int, bool, error) {
	doc, err := s.load()
	if err != nil {
		return 0, false, err
	}
	points, ok := doc.Targets[normalizeEmail(email)]
	return points, ok, nil
}

// SetTarget writes the target for an email, creating the data directory
// on first use.
func (s *FilesystemTargetStore) SetTarget(email string, points int) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if points < 0 {
		return fmt.Errorf("target points cannot be negative, got %d", points)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if doc.Targets == nil {
		doc.Targets = make(map[string]int)
	}
	doc.Targets[email] = points
	return s.save(doc)
}

// All returns every configured target keyed by email.
func (s *FilesystemTargetStore) All() (map[string]int, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(doc.Targets))
	for email, points := range doc.Targets {
		out[email] = points
	}
	return out, nil
}

func (s *FilesystemTargetStore) load() (*targetsDoc, error) {
	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return &targetsDoc{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read targets: %w", err)
	}

	var doc targetsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse targets: %w", err)
	}
	return &doc, nil
}

func (s *FilesystemTargetStore) save(doc *targetsDoc) error {
	dir := filepath.Join(s.root, DataDir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal targets: %w", err)
	}

	// Transient write failures (editor locks, slow filesystems) retry
	// with backoff.
	r := retry.New[struct{}](s.retryConfig)
	_, err = r.Do(context.Background(), func(context.Context) (struct{}, error) {
		return struct{}{}, os.WriteFile(s.path(), data, 0600)
	})
	if err != nil {
		return fmt.Errorf("write targets: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
