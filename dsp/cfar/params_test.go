package cfar

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	if err := p.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if p.Window() != 35 {
		t.Fatalf("Window = %d, want 35", p.Window())
	}
	if got := p.Pfa(); math.Abs(got-0.0041526351346) > 1e-12 {
		t.Fatalf("Pfa = %v, want 0.0041526351346", got)
	}
	if got := p.Scale(); math.Abs(got-math.Pow(10, 0.8)) > 1e-9 {
		t.Fatalf("Scale = %v, want %v", got, math.Pow(10, 0.8))
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Params)
	}{
		{"no noise cells", func(p *Params) { p.N = 0 }},
		{"negative guard", func(p *Params) { p.G = -1 }},
		{"negative trim", func(p *Params) { p.T1 = -1 }},
		{"trim too large", func(p *Params) { p.T1, p.T2 = 10, 10 }},
		{"nan snr", func(p *Params) { p.XdB = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.edit(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
				t.Fatalf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestMethodNames(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"ca", MethodCA},
		{"OS", MethodOS},
		{"tm_cfar", MethodTM},
		{" fusion_cfar ", MethodFusion},
	}

	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if err != nil {
			t.Fatalf("ParseMethod(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseMethod(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseMethod("median"); err == nil {
		t.Fatalf("expected error for unknown method")
	}
	if MethodFusion.String() != "fusion" {
		t.Fatalf("String = %q, want fusion", MethodFusion.String())
	}
	if Method(9).Valid() || Method(9).String() != "Method(9)" {
		t.Fatalf("unexpected handling of out-of-range method")
	}

	var m Method
	if err := m.UnmarshalText([]byte("os")); err != nil || m != MethodOS {
		t.Fatalf("UnmarshalText = %v, %v", m, err)
	}
	if b, err := MethodTM.MarshalText(); err != nil || string(b) != "tm" {
		t.Fatalf("MarshalText = %q, %v", b, err)
	}
}
