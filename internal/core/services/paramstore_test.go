package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parameters.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func readParameters(t *testing.T, path string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read document: %v", err)
	}
	var doc struct {
		Parameters map[string]string `json:"parameters"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	return doc.Parameters
}

func TestApplyUpdatesReplacesParametersWholesale(t *testing.T) {
	path := writeDocument(t, `{"fileURN": "urn:old", "parameters": {"Old": "1", "Stale": "2"}}`)
	store := NewParamStore(nil)

	_, err := store.ApplyUpdates(path, map[string]interface{}{"Width": 45.0, "Depth": "30"}, nil, true)
	if err != nil {
		t.Fatalf("ApplyUpdates failed: %v", err)
	}

	params := readParameters(t, path)
	want := map[string]string{"Width": "45", "Depth": "30"}
	if !reflect.DeepEqual(params, want) {
		t.Errorf("Expected parameters %v, got %v", want, params)
	}
}

func TestApplyUpdatesWritesBackup(t *testing.T) {
	original := `{"parameters": {"Width": "10"}}`
	path := writeDocument(t, original)
	store := NewParamStore(nil)

	if _, err := store.ApplyUpdates(path, map[string]interface{}{"Width": "20"}, nil, true); err != nil {
		t.Fatalf("ApplyUpdates failed: %v", err)
	}

	backup, err := os.ReadFile(path + BackupSuffix)
	if err != nil {
		t.Fatalf("backup not written: %v", err)
	}
	if !bytes.Equal(backup, []byte(original)) {
		t.Errorf("Backup differs from pre-update content: %s", backup)
	}
}

func TestApplyUpdatesBackupOverwritesPrevious(t *testing.T) {
	path := writeDocument(t, `{"parameters": {"Width": "10"}}`)
	store := NewParamStore(nil)

	if _, err := store.ApplyUpdates(path, map[string]interface{}{"Width": "20"}, nil, true); err != nil {
		t.Fatalf("first ApplyUpdates failed: %v", err)
	}
	secondOriginal, _ := os.ReadFile(path)
	if _, err := store.ApplyUpdates(path, map[string]interface{}{"Width": "30"}, nil, true); err != nil {
		t.Fatalf("second ApplyUpdates failed: %v", err)
	}

	backup, err := os.ReadFile(path + BackupSuffix)
	if err != nil {
		t.Fatalf("backup not written: %v", err)
	}
	if !bytes.Equal(backup, secondOriginal) {
		t.Error("Backup should hold the content preceding the latest update")
	}
}

func TestApplyUpdatesNoBackup(t *testing.T) {
	path := writeDocument(t, `{"parameters": {}}`)
	store := NewParamStore(nil)

	if _, err := store.ApplyUpdates(path, map[string]interface{}{"Width": "20"}, nil, false); err != nil {
		t.Fatalf("ApplyUpdates failed: %v", err)
	}
	if _, err := os.Stat(path + BackupSuffix); !os.IsNotExist(err) {
		t.Error("Backup should not exist when backup=false")
	}
}

func TestApplyUpdatesIgnoresParametersInOtherUpdates(t *testing.T) {
	path := writeDocument(t, `{"parameters": {"Width": "10"}}`)
	store := NewParamStore(nil)

	other := map[string]interface{}{
		"fileURN":    "urn:new",
		"parameters": map[string]interface{}{"Sneaky": "99"},
	}
	if _, err := store.ApplyUpdates(path, map[string]interface{}{"Width": "20"}, other, true); err != nil {
		t.Fatalf("ApplyUpdates failed: %v", err)
	}

	params := readParameters(t, path)
	want := map[string]string{"Width": "20"}
	if !reflect.DeepEqual(params, want) {
		t.Errorf("Expected parameters %v, got %v", want, params)
	}

	data, _ := os.ReadFile(path)
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	if doc["fileURN"] != "urn:new" {
		t.Errorf("Expected fileURN urn:new, got %v", doc["fileURN"])
	}
}

func TestApplyUpdatesIsIdempotent(t *testing.T) {
	path := writeDocument(t, `{"fileURN": "urn:old", "parameters": {"Old": "1"}}`)
	store := NewParamStore(nil)

	params := map[string]interface{}{"Width": "45"}
	other := map[string]interface{}{"fileURN": "urn:new"}

	if _, err := store.ApplyUpdates(path, params, other, true); err != nil {
		t.Fatalf("first ApplyUpdates failed: %v", err)
	}
	first, _ := os.ReadFile(path)

	if _, err := store.ApplyUpdates(path, params, other, true); err != nil {
		t.Fatalf("second ApplyUpdates failed: %v", err)
	}
	second, _ := os.ReadFile(path)

	if !bytes.Equal(first, second) {
		t.Errorf("Applying the same updates twice changed the document:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestApplyUpdatesMissingDocument(t *testing.T) {
	store := NewParamStore(nil)
	path := filepath.Join(t.TempDir(), "missing.json")

	_, err := store.ApplyUpdates(path, map[string]interface{}{"Width": "45"}, nil, true)
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Expected ErrDocumentNotFound, got %v", err)
	}
}

func TestApplyUpdatesWritesTwoSpaceIndent(t *testing.T) {
	path := writeDocument(t, `{"parameters":{}}`)
	store := NewParamStore(nil)

	if _, err := store.ApplyUpdates(path, map[string]interface{}{"Width": "45"}, nil, false); err != nil {
		t.Fatalf("ApplyUpdates failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !bytes.Contains(data, []byte("\n  \"parameters\"")) {
		t.Errorf("Expected two-space indented output, got:\n%s", data)
	}
}

func TestUpdateParameterMergesSingleEntry(t *testing.T) {
	path := writeDocument(t, `{"parameters": {"Width": "10", "Depth": "20"}}`)
	store := NewParamStore(nil)

	if _, err := store.UpdateParameter(path, "Width", 45.0, true); err != nil {
		t.Fatalf("UpdateParameter failed: %v", err)
	}

	params := readParameters(t, path)
	want := map[string]string{"Width": "45", "Depth": "20"}
	if !reflect.DeepEqual(params, want) {
		t.Errorf("Expected parameters %v, got %v", want, params)
	}
}

func TestUpdateParameterMissingDocument(t *testing.T) {
	store := NewParamStore(nil)
	path := filepath.Join(t.TempDir(), "missing.json")

	_, err := store.UpdateParameter(path, "Width", "45", true)
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Expected ErrDocumentNotFound, got %v", err)
	}
}

func TestLoadParsesFieldsAndParameters(t *testing.T) {
	path := writeDocument(t, `{"fileURN": "urn:abc", "parameters": {"Width": 45}}`)
	store := NewParamStore(nil)

	doc, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Parameters["Width"] != "45" {
		t.Errorf("Expected Width 45, got %q", doc.Parameters["Width"])
	}
	if doc.Fields["fileURN"] != "urn:abc" {
		t.Errorf("Expected fileURN urn:abc, got %v", doc.Fields["fileURN"])
	}
}
