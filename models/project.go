package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Research approach tags selecting alternate placeholder text per section
const (
	ApproachHypothesisDriven = "hypothesis-driven"
	ApproachExploratory      = "exploratory"
	ApproachNeedsDriven      = "needs-driven"
)

// Answer is the stored value of one section: free text for freeText
// sections, a set of option ids for checklist sections. It marshals as a
// plain string or a string array so the import/export JSON shape matches
// what the section kind expects.
type Answer struct {
	Text    string
	Options []string
}

func TextAnswer(text string) Answer        { return Answer{Text: text} }
func ChecklistAnswer(ids ...string) Answer { return Answer{Options: append([]string{}, ids...)} }

// IsChecklist reports whether the answer carries checklist selections
func (a Answer) IsChecklist() bool { return a.Options != nil }

// HasOption reports whether optionID is selected
func (a Answer) HasOption(optionID string) bool {
	for _, id := range a.Options {
		if id == optionID {
			return true
		}
	}
	return false
}

// Empty reports whether the answer holds no user content of either kind
func (a Answer) Empty() bool {
	return strings.TrimSpace(a.Text) == "" && len(a.Options) == 0
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Options != nil {
		return json.Marshal(a.Options)
	}
	return json.Marshal(a.Text)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*a = Answer{Text: text}
		return nil
	}
	var options []string
	if err := json.Unmarshal(data, &options); err == nil {
		*a = Answer{Options: options}
		return nil
	}
	return fmt.Errorf("answer must be a string or an array of option ids")
}

// ProjectState is the durable planning state persisted under the
// projectState key: answers, the current section pointer and the selected
// research approach
type ProjectState struct {
	Answers        map[string]Answer `json:"answers" bson:"answers"`
	CurrentSection string            `json:"currentSection" bson:"currentSection"`
	Approach       string            `json:"approach,omitempty" bson:"approach,omitempty"`
}

// Preferences are UI preference flags sharing the durable store with the
// planning and review state
type Preferences struct {
	EnhancedLayout    bool   `json:"enhancedLayout" bson:"enhancedLayout"`
	ResearchApproach  string `json:"researchApproach,omitempty" bson:"researchApproach,omitempty"`
	HideWelcomeSplash bool   `json:"hideWelcomeSplash" bson:"hideWelcomeSplash"`
}
