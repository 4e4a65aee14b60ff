package category

import (
	"errors"
	"testing"
)

func TestLabelFor_KnownCategories(t *testing.T) {
	r := NewShortcut()

	tests := []struct {
		code       string
		externalID string
		name       string
	}{
		{WebApp, "178", "web-app"},
		{CRX, "32", "crx"},
		{SDK, "523", "sdk"},
		{Mobile, "181", "mobile-sdk"},
		{NPS, "524", "nps"},
	}
	for _, tt := range tests {
		label, err := r.LabelFor(tt.code)
		if err != nil {
			t.Fatalf("LabelFor(%q): %v", tt.code, err)
		}
		if label.ExternalID != tt.externalID || label.Name != tt.name {
			t.Errorf("LabelFor(%q) = %+v, want {%s %s}", tt.code, label, tt.externalID, tt.name)
		}
	}
}

func TestLabelFor_NoLabelCategories(t *testing.T) {
	r := NewShortcut()

	for _, code := range []string{Other, GeneralUX} {
		label, err := r.LabelFor(code)
		if err != nil {
			t.Fatalf("LabelFor(%q): %v", code, err)
		}
		if !label.IsZero() {
			t.Errorf("LabelFor(%q) = %+v, want zero label", code, label)
		}
	}
}

func TestLabelFor_Unknown(t *testing.T) {
	r := NewShortcut()

	_, err := r.LabelFor("billing")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}
}

func TestLabelFor_StableExternalIDs(t *testing.T) {
	r := NewShortcut()

	for _, code := range r.Codes() {
		label, err := r.LabelFor(code)
		if err != nil {
			t.Fatalf("LabelFor(%q): %v", code, err)
		}
		if code == Other || code == GeneralUX {
			continue
		}
		if label.ExternalID == "" {
			t.Errorf("LabelFor(%q) has empty external ID", code)
		}
	}
}

func TestChannelFor(t *testing.T) {
	r := NewShortcut()

	if ch := r.ChannelFor(SDK); ch != "#team-sdk" {
		t.Errorf("ChannelFor(sdk) = %q", ch)
	}
	if ch := r.ChannelFor(Other); ch != "" {
		t.Errorf("ChannelFor(other) = %q, want empty", ch)
	}
	if ch := r.ChannelFor("billing"); ch != "" {
		t.Errorf("ChannelFor(unknown) = %q, want empty", ch)
	}
}

func TestFromLabelName(t *testing.T) {
	r := NewShortcut()

	tests := []struct {
		name string
		code string
	}{
		{"web-app", WebApp},
		{"web app", WebApp}, // spaces normalized to the delimiter
		{"mobile-sdk", Mobile},
		{"mobile sdk", Mobile},
		{"crx", CRX},
	}
	for _, tt := range tests {
		code, err := r.FromLabelName(tt.name)
		if err != nil {
			t.Fatalf("FromLabelName(%q): %v", tt.name, err)
		}
		if code != tt.code {
			t.Errorf("FromLabelName(%q) = %q, want %q", tt.name, code, tt.code)
		}
	}
}

func TestFromLabelName_Unknown(t *testing.T) {
	r := NewShortcut()

	_, err := r.FromLabelName("red-alert")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}
}

func TestForBackend(t *testing.T) {
	shortcut, err := ForBackend("shortcut")
	if err != nil {
		t.Fatalf("ForBackend(shortcut): %v", err)
	}
	trello, err := ForBackend("trello")
	if err != nil {
		t.Fatalf("ForBackend(trello): %v", err)
	}

	sc, _ := shortcut.LabelFor(WebApp)
	tr, _ := trello.LabelFor(WebApp)
	if sc.ExternalID == tr.ExternalID {
		t.Error("backends should carry distinct label IDs")
	}
	if sc.Name != tr.Name {
		t.Errorf("label names should match across backends: %q vs %q", sc.Name, tr.Name)
	}

	if _, err := ForBackend("jira"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestEscalationLabel(t *testing.T) {
	r := NewShortcut()

	l := r.EscalationLabel()
	if l.Name != "red-alert" || l.ExternalID == "" {
		t.Errorf("EscalationLabel() = %+v", l)
	}
	if _, err := r.FromLabelName(l.Name); err == nil {
		t.Error("escalation label must not reverse-map to a category")
	}
}
