package domain

import "testing"

func TestToggleKeepsSelectionOrder(t *testing.T) {
	state := FormState{}
	state.Toggle("q6", "ERP", true)
	state.Toggle("q6", "CRM", true)
	state.Toggle("q6", "ERP", true) // repeat, must stay present once

	if got := state.Value("q6"); got != "ERP, CRM" {
		t.Fatalf("expected selection order preserved, got %q", got)
	}

	state.Toggle("q6", "ERP", false)
	if got := state.Value("q6"); got != "CRM" {
		t.Fatalf("expected ERP removed, got %q", got)
	}
	state.Toggle("q6", "CRM", false)
	if _, ok := state["q6"]; ok {
		t.Fatalf("expected field dropped when last choice removed")
	}
}

func TestSetEmptyClearsField(t *testing.T) {
	state := FormState{}
	state.Set("name", "Ana")
	state.Set("name", "")
	if state.AnsweredCount() != 0 {
		t.Fatalf("expected cleared field not counted, got %d", state.AnsweredCount())
	}
}

func TestProgressClampedAndFloored(t *testing.T) {
	state := FormState{}
	if got := Progress(state, 15); got != 0 {
		t.Fatalf("empty state should be 0%%, got %d", got)
	}
	state.Set("a", "x")
	if got := Progress(state, 15); got != 6 {
		t.Fatalf("expected floor(100/15)=6, got %d", got)
	}
	for _, key := range []string{"b", "c", "d"} {
		state.Set(key, "x")
	}
	if got := Progress(state, 3); got != 100 {
		t.Fatalf("expected clamp at 100, got %d", got)
	}
	if got := Progress(state, 0); got != 0 {
		t.Fatalf("zero denominator should read 0, got %d", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	state := FormState{}
	state.Toggle("q6", "CRM", true)
	copied := state.Clone()
	copied.Toggle("q6", "ERP", true)

	if state.Value("q6") != "CRM" {
		t.Fatalf("mutating the clone leaked into the original: %q", state.Value("q6"))
	}
}

func TestCatalogInvariants(t *testing.T) {
	valid := Catalog{Sections: []Section{{
		Title: "S",
		Questions: []Question{
			{Key: "q1", Prompt: "p", Choices: []string{"a"}},
			{Key: "q2", Prompt: "p", Choices: []string{"a", "b"}},
		},
	}}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid catalog rejected: %v", err)
	}
	if valid.TotalFields() != 2+len(RequiredContactFields) {
		t.Fatalf("unexpected total fields %d", valid.TotalFields())
	}

	duplicate := Catalog{Sections: []Section{{
		Questions: []Question{
			{Key: "q1", Choices: []string{"a"}},
			{Key: "q1", Choices: []string{"a"}},
		},
	}}}
	if err := duplicate.Validate(); err != ErrCatalogInvalid {
		t.Fatalf("expected duplicate key rejection, got %v", err)
	}

	choiceless := Catalog{Sections: []Section{{
		Questions: []Question{{Key: "q1"}},
	}}}
	if err := choiceless.Validate(); err != ErrCatalogInvalid {
		t.Fatalf("expected choiceless question rejection, got %v", err)
	}
}

func TestFieldKeysOrder(t *testing.T) {
	cat := Catalog{Sections: []Section{
		{Questions: []Question{{Key: "q1", Choices: []string{"a"}}}},
		{Questions: []Question{{Key: "q2", Choices: []string{"a"}}}},
	}}
	keys := cat.FieldKeys()
	want := []string{FieldName, FieldEmail, FieldOrganization, FieldCountry, FieldContact, "q1", "q2"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i, key := range want {
		if keys[i] != key {
			t.Fatalf("expected %s at %d, got %s", key, i, keys[i])
		}
	}
}
