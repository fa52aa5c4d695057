package models

import "time"

// SectionKind distinguishes how a section is answered
type SectionKind string

const (
	SectionFreeText  SectionKind = "freeText"
	SectionChecklist SectionKind = "checklist"
)

// Instructions holds the guidance text shown for a section
type Instructions struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	WorkStep string `json:"workStep,omitempty"`
}

// ChecklistOption is a single selectable option of a checklist section
type ChecklistOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// SectionSpec is one catalog-defined unit of the structured project document.
// Specs are loaded once at startup and never mutated.
type SectionSpec struct {
	ID                   string            `json:"id"`
	Title                string            `json:"title"`
	Kind                 SectionKind       `json:"kind"`
	Instructions         Instructions      `json:"instructions"`
	Placeholder          string            `json:"placeholder,omitempty"`
	ApproachPlaceholders map[string]string `json:"approachPlaceholders,omitempty"`
	Options              []ChecklistOption `json:"options,omitempty"`
	WordLimit            int               `json:"wordLimit,omitempty"`
	CharLimit            int               `json:"charLimit,omitempty"`
	RequiresConfirmation bool              `json:"requiresConfirmationToAdvance"`
}

// PlaceholderFor returns the placeholder text for the given approach,
// falling back to the generic placeholder
func (s SectionSpec) PlaceholderFor(approach string) string {
	if approach != "" {
		if p, ok := s.ApproachPlaceholders[approach]; ok {
			return p
		}
	}
	return s.Placeholder
}

// Message is one entry of a section's chat thread
type Message struct {
	Role      string    `json:"role" bson:"role"` // "user" or "assistant"
	Content   string    `json:"content" bson:"content"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
