package engine

import (
	"testing"

	"poolfee_go/pkg/quant"
)

func TestDefaultParametersValidate(t *testing.T) {
	if err := DefaultParameters().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestAllPresetsValidate(t *testing.T) {
	for _, name := range PresetNames() {
		p, ok := Preset(name)
		if !ok {
			t.Fatalf("preset %q missing", name)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("preset %q: %v", name, err)
		}
	}
}

func TestEmptyPresetIsHybrid(t *testing.T) {
	p, ok := Preset("")
	if !ok {
		t.Fatal("empty preset must resolve")
	}
	if p != DefaultParameters() {
		t.Error("empty preset must match the hybrid defaults")
	}
}

func TestUnknownPreset(t *testing.T) {
	if _, ok := Preset("moonshot"); ok {
		t.Error("unknown preset must be rejected")
	}
}

func TestValidateCatchesBadSchedules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Parameters)
	}{
		{"inverted fee bounds", func(p *Parameters) { p.FeeMax = p.FeeMin }},
		{"normal fee above max", func(p *Parameters) { p.NormalFee = p.FeeMax + 1 }},
		{"arb fee above normal", func(p *Parameters) { p.ArbResponseFee = p.NormalFee + 1 }},
		{"vol floor above cap", func(p *Parameters) { p.VolFloor = p.VolCap }},
		{"decay of one", func(p *Parameters) { p.VolDecay = quant.One }},
		{"medium below significant", func(p *Parameters) { p.MediumTrade = p.SignificantTrade }},
		{"spike below large", func(p *Parameters) { p.SpikeTrade = p.LargeTrade }},
		{"zero recovery steps", func(p *Parameters) { p.RecoverySteps = 0 }},
	}
	for _, tc := range cases {
		p := DefaultParameters()
		tc.mutate(&p)
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
