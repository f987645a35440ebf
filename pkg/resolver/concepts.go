package resolver

// Concept names shared by the record vocabularies.
const (
	ConceptAmount = "amount"
	ConceptTitle  = "title"
	ConceptDetail = "detail"
)

var amountSentinel = 1.0

func amountConcept() Concept {
	return Concept{
		Name:        ConceptAmount,
		Terms:       []string{"amount", "budget", "total", "cost", "funding"},
		LiteralKeys: []string{"amount", "Amount"},
		Numeric:     true,
		Sentinel:    &amountSentinel,
	}
}

func titleConcept() Concept {
	return Concept{
		Name:        ConceptTitle,
		Terms:       []string{"title", "name", "subject"},
		LiteralKeys: []string{"title", "Title"},
	}
}

func detailConcept() Concept {
	return Concept{
		Name:        ConceptDetail,
		Terms:       []string{"detail", "description", "purpose", "justification"},
		LiteralKeys: []string{"detail", "details", "description"},
	}
}

// BudgetRequestConcepts returns the vocabulary used when extracting
// business values from budget-request submissions: amount, title, detail.
func BudgetRequestConcepts() []Concept {
	return []Concept{amountConcept(), titleConcept(), detailConcept()}
}

// MilestoneReleaseConcepts returns the vocabulary used for milestone
// release submissions: amount and title only.
func MilestoneReleaseConcepts() []Concept {
	return []Concept{amountConcept(), titleConcept()}
}
