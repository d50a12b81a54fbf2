// Package classifier derives a category and priority from a ticket
// description. The keyword implementation is a stand-in boundary: a real
// model can replace it behind the same interface.
package classifier

import (
	"strings"

	"github.com/helpdesk-kit/ticketing-service/internal/domain"
)

// Result is the classifier output for one description.
type Result struct {
	Category domain.TicketCategory
	Priority int
}

// Classifier assigns a category and priority to free-text descriptions.
// Implementations must be deterministic and total.
type Classifier interface {
	Classify(description string) Result
}

type rule struct {
	keyword  string
	category domain.TicketCategory
	priority int
}

// keywordClassifier matches case-insensitive substrings against an ordered
// rule list; the first matching rule wins.
type keywordClassifier struct {
	rules []rule
}

// NewKeywordClassifier returns the default rule-based classifier.
func NewKeywordClassifier() Classifier {
	return &keywordClassifier{
		rules: []rule{
			{keyword: "wifi", category: domain.CategoryNetwork, priority: 2},
			{keyword: "virus", category: domain.CategorySecurity, priority: 1},
			{keyword: "printer", category: domain.CategoryHardware, priority: 3},
		},
	}
}

func (c *keywordClassifier) Classify(description string) Result {
	lowered := strings.ToLower(description)
	for _, r := range c.rules {
		if strings.Contains(lowered, r.keyword) {
			return Result{Category: r.category, Priority: r.priority}
		}
	}
	return Result{Category: domain.CategoryUnknown, Priority: domain.DefaultPriority}
}
