package classifier

import (
	"testing"

	"github.com/helpdesk-kit/ticketing-service/internal/domain"
)

func TestClassifyKeywords(t *testing.T) {
	c := NewKeywordClassifier()

	cases := []struct {
		name        string
		description string
		category    domain.TicketCategory
		priority    int
	}{
		{"wifi", "the wifi keeps dropping in the east wing", domain.CategoryNetwork, 2},
		{"virus", "i think my laptop has a virus", domain.CategorySecurity, 1},
		{"printer", "printer on floor 3 is jammed again", domain.CategoryHardware, 3},
		{"no keyword", "my screen flickers sometimes", domain.CategoryUnknown, 3},
		{"uppercase", "WIFI IS DOWN", domain.CategoryNetwork, 2},
		{"mixed case", "possible Virus detected by scanner", domain.CategorySecurity, 1},
		{"substring inside a word", "the wifirouter is unreachable", domain.CategoryNetwork, 2},
		{"empty description", "", domain.CategoryUnknown, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := c.Classify(tc.description)
			if result.Category != tc.category {
				t.Errorf("category = %s, want %s", result.Category, tc.category)
			}
			if result.Priority != tc.priority {
				t.Errorf("priority = %d, want %d", result.Priority, tc.priority)
			}
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	c := NewKeywordClassifier()

	// wifi precedes virus precedes printer in the rule list, so a
	// description containing several keywords resolves to the earliest rule.
	result := c.Classify("printer got a virus over wifi")
	if result.Category != domain.CategoryNetwork {
		t.Errorf("category = %s, want %s", result.Category, domain.CategoryNetwork)
	}
	if result.Priority != 2 {
		t.Errorf("priority = %d, want 2", result.Priority)
	}

	result = c.Classify("printer caught a virus")
	if result.Category != domain.CategorySecurity {
		t.Errorf("category = %s, want %s", result.Category, domain.CategorySecurity)
	}
}
