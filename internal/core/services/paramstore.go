package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/forge-platform/dactl/internal/core/domain"
	"github.com/forge-platform/dactl/internal/core/ports"
)

// ErrDocumentNotFound is returned when the target parameter file does not
// exist. The editor never creates documents, it only rewrites them.
var ErrDocumentNotFound = errors.New("parameter document not found")

// BackupSuffix is appended to the document path when writing a backup.
const BackupSuffix = ".bak"

// ParamStore edits parameter documents on disk.
//
// It exposes two deliberately distinct operations: ApplyUpdates replaces
// the parameters map wholesale, UpdateParameter merges a single entry.
// Callers must pick the contract they want; the names keep the two from
// being confused.
type ParamStore struct {
	logger ports.Logger
}

// NewParamStore creates a parameter document editor.
func NewParamStore(logger ports.Logger) *ParamStore {
	if logger == nil {
		logger = &NopLogger{}
	}
	return &ParamStore{logger: logger}
}

// Load reads and parses the document at path.
func (s *ParamStore) Load(path string) (*domain.ParameterDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
		}
		return nil, fmt.Errorf("failed to read parameter document: %w", err)
	}

	doc := domain.NewParameterDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ApplyUpdates rewrites the document at path: the parameters map is
// replaced wholesale with the stringified entries of params (anything not
// listed is dropped), and the top-level keys in other are written verbatim.
// A literal "parameters" key in other is ignored. When backup is true the
// pre-update file is copied to path+".bak" first, overwriting any previous
// backup. Returns the path written.
func (s *ParamStore) ApplyUpdates(path string, params map[string]interface{}, other map[string]interface{}, backup bool) (string, error) {
	original, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
		}
		return "", fmt.Errorf("failed to read parameter document: %w", err)
	}

	doc := domain.NewParameterDocument()
	if err := json.Unmarshal(original, doc); err != nil {
		return "", err
	}

	if backup {
		if err := s.writeBackup(path, original); err != nil {
			return "", err
		}
	}

	doc.ReplaceParameters(params)
	for key, value := range other {
		doc.SetField(key, value)
	}

	if err := s.write(path, doc); err != nil {
		return "", err
	}

	s.logger.Debug("parameter document updated", "path", path, "parameters", len(params), "fields", len(other))
	return path, nil
}

// UpdateParameter sets or overwrites a single parameter in the document at
// path, preserving every other entry. This is the merge-one counterpart to
// ApplyUpdates.
func (s *ParamStore) UpdateParameter(path, name string, value interface{}, backup bool) (string, error) {
	original, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
		}
		return "", fmt.Errorf("failed to read parameter document: %w", err)
	}

	doc := domain.NewParameterDocument()
	if err := json.Unmarshal(original, doc); err != nil {
		return "", err
	}

	if backup {
		if err := s.writeBackup(path, original); err != nil {
			return "", err
		}
	}

	doc.SetParameter(name, value)

	if err := s.write(path, doc); err != nil {
		return "", err
	}

	s.logger.Debug("parameter set", "path", path, "name", name)
	return path, nil
}

// writeBackup copies the pre-update content to path+".bak".
func (s *ParamStore) writeBackup(path string, content []byte) error {
	bak := path + BackupSuffix
	if err := os.WriteFile(bak, content, 0644); err != nil {
		return fmt.Errorf("failed to write backup %s: %w", bak, err)
	}
	return nil
}

// write persists the document pretty-printed with two-space indentation.
func (s *ParamStore) write(path string, doc *domain.ParameterDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal parameter document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write parameter document: %w", err)
	}
	return nil
}
