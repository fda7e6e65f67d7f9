package io

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/kindred/pkg/setup"
)

func buildWorld(t *testing.T) *setup.World {
	t.Helper()
	w, err := setup.NewRunner(nil, nil, nil).Build(context.Background(), setup.Options{Seed: 8})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return w
}

func TestWriteJSONRoundTrip(t *testing.T) {
	w := buildWorld(t)

	var buf bytes.Buffer
	if err := WriteJSON(w, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}

	if got.ID != w.ID.String() || got.Seed != w.Seed || got.Cards != len(w.Deck) {
		t.Errorf("summary = %s/%d/%d", got.ID, got.Seed, got.Cards)
	}
	if got.Families[2].Name != w.Combined.Surname() || !got.Families[2].Merged {
		t.Errorf("combined family = %+v", got.Families[2])
	}
	for i, g := range []int{w.One.PresentCount(), w.Two.PresentCount(), w.Combined.PresentCount()} {
		if n := len(got.Families[i].Edges); n != g {
			t.Errorf("family %d exported %d edges, want %d present", i+1, n, g)
		}
	}
	total := 0
	for _, tc := range got.Templates {
		total += tc.Cards
	}
	if total != len(w.Deck) {
		t.Errorf("template counts sum to %d, want %d", total, len(w.Deck))
	}
}

func TestExportImportFile(t *testing.T) {
	w := buildWorld(t)
	path := filepath.Join(t.TempDir(), "world.json")
	if err := ExportJSON(w, path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if got.Families[0].Nodes[0].Name == "" {
		t.Error("imported node has no name")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", "{"},
		{"no families", `{"id": "x", "families": []}`},
	}
	for _, tt := range tests {
		if _, err := ReadJSON(strings.NewReader(tt.input)); err == nil {
			t.Errorf("%s: ReadJSON() expected error", tt.name)
		}
	}
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportJSON(missing) expected error")
	}
}
