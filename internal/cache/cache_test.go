// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maechanneler/patent-query-optimizer/pkg/types"
)

func testPatent() types.PatentRecord {
	return types.PatentRecord{
		Title:        "Foldable wing assembly",
		PatentNumber: "JP2020-123456A",
		FilingDate:   "2020-01-15",
		Inventors:    "Tanaka, Suzuki",
		Assignee:     "Example Aerospace KK",
		Abstract:     "A foldable wing for compact storage.",
		Link:         "https://patents.example/JP2020123456A",
	}
}

func TestPutThenGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := Open(path)

	want := testPatent()
	if err := c.Put("foldable wing drone", want); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got := c.Get("foldable wing drone")
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestGetUnknownQueryReturnsEmptyRecord(t *testing.T) {
	c := Open(filepath.Join(t.TempDir(), "cache.json"))

	got := c.Get("never searched")
	if !got.IsEmpty() {
		t.Errorf("Get() = %+v, want empty record", got)
	}
}

func TestKeysAreLiteralAndCaseSensitive(t *testing.T) {
	c := Open(filepath.Join(t.TempDir(), "cache.json"))

	a := testPatent()
	b := testPatent()
	b.PatentNumber = "US9876543B2"

	if err := c.Put("Drone Wing", a); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := c.Put("drone wing", b); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	if got := c.Get("Drone Wing"); got != a {
		t.Errorf("Get(Drone Wing) = %+v, want first record", got)
	}
	if got := c.Get("drone wing"); got != b {
		t.Errorf("Get(drone wing) = %+v, want second record", got)
	}
}

func TestPutOverwritesEntry(t *testing.T) {
	c := Open(filepath.Join(t.TempDir(), "cache.json"))

	first := testPatent()
	second := testPatent()
	second.PatentNumber = "JP2021-000001A"

	if err := c.Put("q", first); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := c.Put("q", second); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	if got := c.Get("q"); got != second {
		t.Errorf("Get() = %+v, want overwritten record", got)
	}
	if n := len(c.Entries()); n != 1 {
		t.Errorf("len(Entries()) = %d, want 1", n)
	}
}

func TestPersistenceAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c := Open(path)
	if err := c.Put("q", testPatent()); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	reopened := Open(path)
	if got := reopened.Get("q"); got != testPatent() {
		t.Errorf("reopened Get() = %+v, want persisted record", got)
	}
	entry := reopened.Entries()["q"]
	if entry.LastUpdated.IsZero() {
		t.Error("LastUpdated is zero, want a persisted timestamp")
	}
}

func TestLoadCorruptFileResetsToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := Open(path)
	if n := len(c.Entries()); n != 0 {
		t.Errorf("len(Entries()) = %d, want 0 for corrupt file", n)
	}
	if got := c.Get("anything"); !got.IsEmpty() {
		t.Errorf("Get() = %+v, want empty record", got)
	}
}

func TestLoadWrongShapeResetsToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	// Valid JSON with an unexpected shape (array instead of object).
	if err := os.WriteFile(path, []byte(`[1, 2, 3]`), 0o644); err != nil {
		t.Fatal(err)
	}

	c := Open(path)
	if n := len(c.Entries()); n != 0 {
		t.Errorf("len(Entries()) = %d, want 0 for wrong-shaped file", n)
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := Open(path)

	if err := c.Put("q", testPatent()); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	if n := len(Open(path).Entries()); n != 0 {
		t.Errorf("entries after Clear = %d, want 0", n)
	}
}

func TestCacheFileIsHumanInspectable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := Open(path)
	if err := c.Put("foldable wing drone", testPatent()); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "foldable wing drone") {
		t.Error("cache file does not contain the query key in plain text")
	}
	if !strings.Contains(text, "last_updated") {
		t.Error("cache file does not contain a last_updated field")
	}
	if !strings.Contains(text, "\n") {
		t.Error("cache file is not indented")
	}
}
