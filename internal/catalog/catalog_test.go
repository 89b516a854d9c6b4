package catalog

import (
	"errors"
	"testing"

	"github.com/solatis/prodrules/internal/rules"
	"github.com/solatis/prodrules/internal/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		ruleset   string
		wantRules int
		wantErr   error
	}{
		{name: "default", ruleset: "default", wantRules: 2},
		{name: "cascade", ruleset: "cascade", wantRules: 4},
		{name: "unknown", ruleset: "nope", wantErr: types.ErrUnknownRuleset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := rules.NewRegistry()
			err := Load(tt.ruleset, reg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
			}
			if reg.Len() != tt.wantRules {
				t.Errorf("Len() = %v, want %v", reg.Len(), tt.wantRules)
			}
		})
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 2 || names[0] != "cascade" || names[1] != "default" {
		t.Errorf("Names() = %v, want [cascade default]", names)
	}
}

func TestDefault_Housing(t *testing.T) {
	reg := rules.NewRegistry()
	if err := Default(reg); err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	p := types.NewProduct("W600")
	p.Set("TYP", "W600")
	p.Set("GEHAEUSEFORM", "S")

	result := reg.ApplyRules(p)
	if v, _ := result.Get("TYP"); v != "514" {
		t.Errorf("TYP = %v, want 514", v)
	}
	if v, _ := result.Get("GEHAEUSEFORM"); v != "M" {
		t.Errorf("GEHAEUSEFORM = %v, want M", v)
	}

	pipe := reg.ApplyRules(types.NewProduct("P600"))
	if v, _ := pipe.Get("DN"); v != "15" {
		t.Errorf("DN = %v, want 15", v)
	}
}

func TestCascade_LegacyCleanup(t *testing.T) {
	reg := rules.NewRegistry()
	if err := Cascade(reg); err != nil {
		t.Fatalf("Cascade() error = %v", err)
	}

	p := types.NewProductWithPart("W600", "H")
	p.Set("TYP", "W600")
	p.Set("GEHAEUSEFORM", "S")
	p.Set("LEGACY_TYP", "W600")

	result := reg.ApplyRules(p)
	if v, _ := result.Get("STATUS"); v != "DERIVED" {
		t.Errorf("STATUS = %v, want DERIVED", v)
	}
	if _, ok := result.Get("LEGACY_TYP"); ok {
		t.Errorf("LEGACY_TYP present, want deleted")
	}
}
