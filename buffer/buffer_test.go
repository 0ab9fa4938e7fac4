package buffer

import "testing"

func TestBuffer_NewDefaults(t *testing.T) {
	b := New("héllo", Options{})
	if got, want := b.Len(), 5; got != want {
		t.Fatalf("len=%d, want %d", got, want)
	}
	if got, want := b.Options().HistoryLimit, DefaultHistoryLimit; got != want {
		t.Fatalf("history limit=%d, want %d", got, want)
	}
	if got, want := b.Options().IdleTimeout, DefaultIdleTimeout; got != want {
		t.Fatalf("idle timeout=%v, want %v", got, want)
	}
	if got := b.Selection(); got != Caret(0) {
		t.Fatalf("selection=%v, want caret at 0", got)
	}
}

func TestBuffer_SetSelection_ClampsAndKeepsDirection(t *testing.T) {
	b := New("hello", Options{})
	v := b.Version()

	b.SetSelection(Range{Start: 99, End: 2})
	if got, want := b.Selection(), (Range{Start: 5, End: 2}); got != want {
		t.Fatalf("selection=%v, want %v", got, want)
	}
	if got := b.Version(); got != v+1 {
		t.Fatalf("version=%d, want %d", got, v+1)
	}

	b.SetSelection(Range{Start: 5, End: 2})
	if got := b.Version(); got != v+1 {
		t.Fatalf("expected no version bump on identical selection")
	}
}

func TestBuffer_SetText_ClampsSelectionWithoutHistory(t *testing.T) {
	b := New("hello world", Options{})
	b.SetSelection(Caret(11))

	if !b.SetText("hi") {
		t.Fatalf("expected SetText to report a change")
	}
	if got, want := b.Selection(), Caret(2); got != want {
		t.Fatalf("selection=%v, want %v", got, want)
	}
	if b.CanUndo() {
		t.Fatalf("expected no undo entry for an external write")
	}
	ch, ok := b.LastChange()
	if !ok || ch.Source != ChangeSourceValue {
		t.Fatalf("expected value change, got %+v", ch)
	}
	edit := ch.AppliedEdits[0]
	if got, want := edit.RangeBefore, (Range{Start: 1, End: 11}); got != want {
		t.Fatalf("range before=%v, want %v", got, want)
	}
	if edit.InsertText != "i" || edit.DeletedText != "ello world" {
		t.Fatalf("unexpected edit payload: %+v", edit)
	}
	if got, want := ch.Delta(), -9; got != want {
		t.Fatalf("delta=%d, want %d", got, want)
	}
	if b.SetText("hi") {
		t.Fatalf("expected no-op for identical text")
	}
}

func TestBuffer_Slice(t *testing.T) {
	b := New("a😀b", Options{})
	if got, want := b.Slice(3, 1), "😀b"; got != want {
		t.Fatalf("slice=%q, want %q", got, want)
	}
	if got, want := b.Slice(-4, 99), "a😀b"; got != want {
		t.Fatalf("slice=%q, want %q", got, want)
	}
}
