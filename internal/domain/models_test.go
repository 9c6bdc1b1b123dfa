package domain

import (
	"encoding/json"
	"testing"
)

func TestTriUnmarshalLegacyStrings(t *testing.T) {
	var p PreferenceSet
	raw := `{"drinking": "True", "smoking": "False", "pets": true, "gender": "Male"}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Drinking != TriTrue {
		t.Fatalf("expected drinking true, got %s", p.Drinking)
	}
	if p.Smoking != TriFalse {
		t.Fatalf("expected smoking false, got %s", p.Smoking)
	}
	if p.Pets != TriTrue {
		t.Fatalf("expected pets true, got %s", p.Pets)
	}
	// NotClean no viene en el JSON: debe quedar en unset, no en un valor que vete.
	if p.NotClean != TriUnset {
		t.Fatalf("expected not_clean unset, got %s", p.NotClean)
	}
	if !p.GenderSet() {
		t.Fatal("expected gender to be set")
	}
}

func TestTriUnmarshalNullAndMissing(t *testing.T) {
	var p PreferenceSet
	if err := json.Unmarshal([]byte(`{"drinking": null}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Drinking != TriUnset {
		t.Fatalf("expected unset, got %s", p.Drinking)
	}
}

func TestTriUnmarshalInvalid(t *testing.T) {
	var tri Tri
	if err := json.Unmarshal([]byte(`"Maybe"`), &tri); err == nil {
		t.Fatal("expected error for invalid tri value")
	}
}

func TestTriMarshalRoundTrip(t *testing.T) {
	p := PreferenceSet{Drinking: TriTrue, Smoking: TriFalse}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back PreferenceSet
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != p {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, p)
	}
}

func TestGenderSetLegacyFalse(t *testing.T) {
	// El formulario original manda "False" cuando no hay preferencia de genero.
	p := PreferenceSet{Gender: "False"}
	if p.GenderSet() {
		t.Fatal("legacy \"False\" gender should count as unset")
	}
	if (PreferenceSet{Gender: ""}).GenderSet() {
		t.Fatal("empty gender should count as unset")
	}
}
