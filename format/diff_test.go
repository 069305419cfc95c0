package format

import (
	"testing"

	"github.com/phroun/peritext/engine"
)

func TestDiffFormatsAddsMissingKeys(t *testing.T) {
	current := engine.Format{}
	target := engine.Format{"bold": true}
	got := DiffFormats(current, target)
	if got["bold"] != true || len(got) != 1 {
		t.Fatalf("unexpected diff: %v", got)
	}
}

func TestDiffFormatsRemovesExtraKeys(t *testing.T) {
	current := engine.Format{"bold": true}
	target := engine.Format{}
	got := DiffFormats(current, target)
	if !engine.IsNull(got["bold"]) || len(got) != 1 {
		t.Fatalf("expected removal sentinel for bold, got %v", got)
	}
}

func TestDiffFormatsSkipsMatchingKeys(t *testing.T) {
	current := engine.Format{"bold": true, "url": "www1"}
	target := engine.Format{"bold": true, "url": "www2"}
	got := DiffFormats(current, target)
	if len(got) != 1 || got["url"] != "www2" {
		t.Fatalf("expected only url to differ, got %v", got)
	}
}

func TestDiffFormatsEmptyWhenEqual(t *testing.T) {
	f := engine.Format{"italic": true}
	got := DiffFormats(f, f.Clone())
	if len(got) != 0 {
		t.Fatalf("expected empty diff, got %v", got)
	}
}

func TestDiffFormatsIgnoresNullEntriesInEitherMap(t *testing.T) {
	// target flags a key for removal that current never had set: both
	// sides resolve to "absent" once NULL_VALUE entries are stripped, so
	// this must not be reported as a diff.
	current := engine.Format{}
	target := engine.Format{"italic": engine.NullValue}
	got := DiffFormats(current, target)
	if len(got) != 0 {
		t.Fatalf("expected no diff for a null-in-target/absent-in-current key, got %v", got)
	}

	// current holds an explicit null entry (already-removed key); target
	// wants it set. This is a real diff, reported with target's value.
	current = engine.Format{"bold": engine.NullValue}
	target = engine.Format{"bold": true}
	got = DiffFormats(current, target)
	if got["bold"] != true || len(got) != 1 {
		t.Fatalf("expected bold to be reported as added, got %v", got)
	}

	// current holds a real value, target explicitly nulls it out: a real
	// removal diff.
	current = engine.Format{"bold": true}
	target = engine.Format{"bold": engine.NullValue}
	got = DiffFormats(current, target)
	if !engine.IsNull(got["bold"]) || len(got) != 1 {
		t.Fatalf("expected bold removal, got %v", got)
	}
}
