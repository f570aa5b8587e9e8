package providers

import (
	"errors"
	"testing"
)

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		in      string
		want    Identity
		wantErr bool
	}{
		{"openai", OpenAI, false},
		{"OpenAI", OpenAI, false},
		{"  anthropic  ", Anthropic, false},
		{"GEMINI", Gemini, false},
		{"claude", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIdentity(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseIdentity(%q) = %q, want error", tt.in, got)
				}
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Errorf("error = %T, want *ConfigError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIdentity(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseIdentity(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewPriorityValidation(t *testing.T) {
	tests := []struct {
		name  string
		order []Identity
	}{
		{"empty order", nil},
		{"unknown identity", []Identity{OpenAI, "claude"}},
		{"duplicate identity", []Identity{OpenAI, OpenAI}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPriority(tt.order); err == nil {
				t.Errorf("NewPriority(%v) = nil error, want ConfigError", tt.order)
			}
		})
	}
}

func TestPriorityOrdering(t *testing.T) {
	p, err := NewPriority([]Identity{Gemini, OpenAI, Anthropic})
	if err != nil {
		t.Fatalf("NewPriority() error = %v", err)
	}

	if !p.Before(Gemini, OpenAI) {
		t.Error("Gemini should outrank OpenAI in this order")
	}
	if p.Before(Anthropic, Gemini) {
		t.Error("Anthropic should not outrank Gemini in this order")
	}
	if p.Rank(Gemini) != 0 || p.Rank(OpenAI) != 1 || p.Rank(Anthropic) != 2 {
		t.Errorf("ranks = %d/%d/%d", p.Rank(Gemini), p.Rank(OpenAI), p.Rank(Anthropic))
	}
}

func TestPriorityUnknownRanksLast(t *testing.T) {
	p, err := NewPriority([]Identity{OpenAI})
	if err != nil {
		t.Fatalf("NewPriority() error = %v", err)
	}

	if !p.Before(OpenAI, Gemini) {
		t.Error("configured identity should outrank an unconfigured one")
	}
}

func TestDefaultPriority(t *testing.T) {
	p := DefaultPriority()

	order := p.Order()
	want := []Identity{OpenAI, Anthropic, Gemini}
	if len(order) != len(want) {
		t.Fatalf("Order() = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Order()[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestPriorityOrderReturnsCopy(t *testing.T) {
	p := DefaultPriority()

	order := p.Order()
	order[0] = Gemini

	if p.Order()[0] != OpenAI {
		t.Error("Order() exposed internal state")
	}
}
