package texts

import (
	"testing"
)

func TestNormalizeLang(t *testing.T) {
	for input, want := range map[string]string{
		"en":      LangEnglish,
		"English": LangEnglish,
		"ar":      LangArabic,
		" arabic": LangArabic,
	} {
		got, err := NormalizeLang(input)
		if err != nil {
			t.Fatalf("normalize %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("normalize %q: expected %q, got %q", input, want, got)
		}
	}
	if _, err := NormalizeLang("klingon"); err == nil {
		t.Fatalf("expected error for unknown language")
	}
}

func TestNormalizeDifficulty(t *testing.T) {
	got, err := NormalizeDifficulty("Beginner")
	if err != nil || got != DifficultyBeginner {
		t.Fatalf("expected beginner, got %q (%v)", got, err)
	}
	if _, err := NormalizeDifficulty("expert"); err == nil {
		t.Fatalf("expected error for unknown difficulty")
	}
}

func TestBuiltinIDs(t *testing.T) {
	entries := Builtin(LangEnglish, DifficultyBeginner)
	if len(entries) == 0 {
		t.Fatalf("expected built-in beginner texts")
	}
	if entries[0].ID != "en_b_001" {
		t.Fatalf("unexpected id %q", entries[0].ID)
	}
	if entries[0].Custom {
		t.Fatalf("built-in text marked custom")
	}
	arabic := Builtin(LangArabic, DifficultyAdvanced)
	if len(arabic) == 0 || arabic[0].ID != "ar_a_001" {
		t.Fatalf("unexpected arabic entries: %+v", arabic)
	}
}

func TestLibraryAddListRemove(t *testing.T) {
	lib := NewLibrary(t.TempDir())

	builtinCount := len(Builtin(LangEnglish, DifficultyBeginner))
	added, err := lib.Add(LangEnglish, DifficultyBeginner, "Typing every day builds habit")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID != "en_custom_0" || !added.Custom {
		t.Fatalf("unexpected added text: %+v", added)
	}

	listed, err := lib.List(LangEnglish, DifficultyBeginner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != builtinCount+1 {
		t.Fatalf("expected %d texts, got %d", builtinCount+1, len(listed))
	}
	last := listed[len(listed)-1]
	if last.Text != "Typing every day builds habit" || !last.Custom {
		t.Fatalf("custom text not listed last: %+v", last)
	}

	if err := lib.Remove(LangEnglish, DifficultyBeginner, added.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	listed, err = lib.List(LangEnglish, DifficultyBeginner)
	if err != nil {
		t.Fatalf("list after remove: %v", err)
	}
	if len(listed) != builtinCount {
		t.Fatalf("expected %d texts after remove, got %d", builtinCount, len(listed))
	}
}

func TestLibraryRemoveUnknownID(t *testing.T) {
	lib := NewLibrary(t.TempDir())
	if err := lib.Remove(LangEnglish, DifficultyBeginner, "en_custom_9"); err == nil {
		t.Fatalf("expected error removing unknown custom text")
	}
}

func TestLibraryAddRejectsEmptyAndMultiline(t *testing.T) {
	lib := NewLibrary(t.TempDir())
	if _, err := lib.Add(LangEnglish, DifficultyBeginner, "   "); err == nil {
		t.Fatalf("expected error for empty text")
	}
	if _, err := lib.Add(LangEnglish, DifficultyBeginner, "one\ntwo"); err == nil {
		t.Fatalf("expected error for multi-line text")
	}
}

func TestListAllDifficulties(t *testing.T) {
	lib := NewLibrary(t.TempDir())
	listed, err := lib.List(LangEnglish, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := 0
	for _, level := range Difficulties() {
		want += len(Builtin(LangEnglish, level))
	}
	if len(listed) != want {
		t.Fatalf("expected %d texts across levels, got %d", want, len(listed))
	}
}

func TestPicker(t *testing.T) {
	picker := NewPickerWithSeed(42)
	if _, err := picker.Pick(nil); err != ErrNoTexts {
		t.Fatalf("expected ErrNoTexts, got %v", err)
	}
	candidates := Builtin(LangEnglish, DifficultyIntermediate)
	picked, err := picker.Pick(candidates)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	found := false
	for _, c := range candidates {
		if c.ID == picked.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("picked text not among candidates: %+v", picked)
	}
}
