package telegram

import (
	"testing"

	"github.com/m-mizutani/gt"
)

func TestIsGreeting(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"hola", true},
		{"Hola!", true},
		{"HOLA", true},
		{"holaaaa", true},
		{"buenas tardes", true},
		{"hola vecinito", true},
		{"que tal", true},
		{"hola quiero pizza", false},
		{"necesito un plomero", false},
		{"pizza", false},
		{"", false},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			gt.Value(t, isGreeting(tc.text)).Equal(tc.want)
		})
	}
}

func TestCollapseRepeats(t *testing.T) {
	gt.Value(t, collapseRepeats("holaaaa")).Equal("hola")
	gt.Value(t, collapseRepeats("buenasss")).Equal("buenas")
	gt.Value(t, collapseRepeats("hola")).Equal("hola")
	// double letters are legitimate spelling, not stretching
	gt.Value(t, collapseRepeats("carro")).Equal("carro")
}

func TestHasSearchIntent(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"hola", false},
		{"hola!", false},
		{"buenas tardes", false},
		{"hola quiero pizza", true},
		{"buenas, necesito un plomero", true},
		{"pizza", true},
		{"pizzerias", true}, // prefix of a category term
		{"farmacia abierta", true},
		{"hola donde hay carnicerias", true},
		{"ok", false},
		{"hola que anda todo bien por alla", true}, // 3+ words after the greeting
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			gt.Value(t, hasSearchIntent(tc.text)).Equal(tc.want)
		})
	}
}
