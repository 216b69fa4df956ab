// Copyright 2026 The Sigfs Authors
// SPDX-License-Identifier: Apache-2.0

package tree

import "testing"

func TestParseConfigDistinguishesDirectoryFromFile(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig([]byte(`{
		// comments and trailing commas are accepted
		"root": {
			"name": "root",
			"entries": [
				{ "name": "empty_dir", "entries": [] },
				{ "name": "a_file", "queue_length": 8 },
			],
		},
	}`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if !cfg.Root.IsDirectory {
		t.Fatal("root: want directory")
	}
	if len(cfg.Root.Entries) != 2 {
		t.Fatalf("root entries: got %d, want 2", len(cfg.Root.Entries))
	}

	emptyDir := cfg.Root.Entries[0]
	if !emptyDir.IsDirectory {
		t.Error("empty_dir: want directory (entries key present but empty)")
	}
	if emptyDir.Entries == nil {
		t.Error("empty_dir: want non-nil empty Entries slice")
	}

	file := cfg.Root.Entries[1]
	if file.IsDirectory {
		t.Error("a_file: want file (no entries key)")
	}
	if file.QueueLength != 8 {
		t.Errorf("a_file queue_length: got %d, want 8", file.QueueLength)
	}
}

func TestParseConfigDefaultsQueueLength(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig([]byte(`{"root": {"name": "root", "entries": [{"name": "f"}]}}`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if got := cfg.Root.Entries[0].QueueLength; got != DefaultQueueLength {
		t.Errorf("default queue_length: got %d, want %d", got, DefaultQueueLength)
	}
}

func TestParseConfigRejectsNonDirectoryRoot(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig([]byte(`{"root": {"name": "root"}}`))
	if err == nil {
		t.Fatal("ParseConfig: want error for file-shaped root")
	}
}
