package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunReplay(t *testing.T) {
	dir := t.TempDir()

	events := filepath.Join(dir, "events.jsonl")
	content := `{"ip":"1.2.3.4","identity":"alice","path":"/home","method":"GET","tenant_id":"ACME","event_time":1000}
{"ip":"9.9.9.9","path":"/login","method":"POST","tenant_id":"ACME","event_time":1000}
{"ip":"9.9.9.9","path":"/login","method":"POST","tenant_id":"ACME","event_time":1000}
not json
{"ip":"1.2.3.4","identity":"alice","path":"/home","method":"GET"}
`
	if err := os.WriteFile(events, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	capFile := filepath.Join(dir, "capacity.yaml")
	if err := os.WriteFile(capFile, []byte("tenants:\n  ACME: 10000\npaths:\n  /login: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	replayEventsFile = events
	replayCapacityFile = capFile
	replayAlgorithm = "token_bucket"
	replayAuditDB = filepath.Join(dir, "audit.db")
	replayQuiet = true

	if err := runReplay(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunReplay_UnknownAlgorithm(t *testing.T) {
	replayEventsFile = "unused"
	replayAlgorithm = "leaky_bucket"
	replayCapacityFile = ""
	replayAuditDB = ""

	if err := runReplay(); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
	replayAlgorithm = "token_bucket"
}
