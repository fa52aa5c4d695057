package services

import "planhub/models"

// sectionCatalog is the ordered, read-only definition of every section of
// the research plan. It drives which fields exist, their completion rules
// and the criteria outline used by the paper review pipeline.
var sectionCatalog = []models.SectionSpec{
	{
		ID:    "question",
		Title: "Research Question",
		Kind:  models.SectionFreeText,
		Instructions: models.Instructions{
			Title:    "Formulate your research question",
			Body:     "State the single question your project answers. A good question is specific, answerable within the project's scope, and anchored in a gap the literature leaves open.",
			WorkStep: "Write the question as one sentence, then list the sub-questions it decomposes into.",
		},
		Placeholder: "Research Question: ...\n\nSub-questions:\n-\n-",
		ApproachPlaceholders: map[string]string{
			models.ApproachHypothesisDriven: "Research Question: Which effect does ... have on ...?\n\nSub-questions:\n-\n-",
			models.ApproachExploratory:      "Research Question: What characterizes ...?\n\nSub-questions:\n-\n-",
			models.ApproachNeedsDriven:      "Research Question: How can ... be supported in ...?\n\nSub-questions:\n-\n-",
		},
		RequiresConfirmation: true,
	},
	{
		ID:    "philosophy",
		Title: "Research Philosophy",
		Kind:  models.SectionChecklist,
		Instructions: models.Instructions{
			Title: "Position your work philosophically",
			Body:  "Select the stances that match how you intend to produce and justify knowledge. The selection shapes which methods are defensible later.",
		},
		Options: []models.ChecklistOption{
			{ID: "positivism", Label: "Positivism - observable, measurable facts"},
			{ID: "interpretivism", Label: "Interpretivism - meaning in context"},
			{ID: "pragmatism", Label: "Pragmatism - whatever answers the question"},
			{ID: "critical-realism", Label: "Critical realism - mechanisms behind observations"},
		},
	},
	{
		ID:    "literature",
		Title: "Related Work",
		Kind:  models.SectionFreeText,
		Instructions: models.Instructions{
			Title:    "Map the related work",
			Body:     "Summarize the strands of prior work your project builds on and name the gap between them. Every claim about the state of the art needs a citable source.",
			WorkStep: "Group sources by strand, one paragraph per strand, and close with the gap statement.",
		},
		Placeholder: "Strands of related work:\n1.\n2.\n\nGap: ...",
	},
	{
		ID:    "hypothesis",
		Title: "Hypothesis & Expected Outcome",
		Kind:  models.SectionFreeText,
		Instructions: models.Instructions{
			Title:    "State what you expect to find",
			Body:     "Hypothesis-driven work states a falsifiable prediction; exploratory work states the phenomenon to characterize; needs-driven work states the need and the success criterion.",
			WorkStep: "Phrase the expectation so that the study design in the next section can test or probe it.",
		},
		Placeholder: "Expected outcome: ...",
		ApproachPlaceholders: map[string]string{
			models.ApproachHypothesisDriven: "Hypothesis: If ..., then ..., because ...\n\nNull hypothesis: ...",
			models.ApproachExploratory:      "Phenomenon to characterize: ...\n\nDimensions of interest:\n-\n-",
			models.ApproachNeedsDriven:      "Need: ...\n\nSuccess criterion: ...",
		},
		RequiresConfirmation: true,
	},
	{
		ID:    "methodology",
		Title: "Methodology & Study Design",
		Kind:  models.SectionFreeText,
		Instructions: models.Instructions{
			Title:    "Design the study",
			Body:     "Describe the method, the units of analysis, the variables or themes, and why this design answers the research question better than the alternatives you rejected.",
			WorkStep: "Name the design, then walk through one run of the study from recruitment to analysis.",
		},
		Placeholder:          "Design: ...\n\nProcedure:\n1.\n2.\n3.",
		WordLimit:            600,
		RequiresConfirmation: true,
	},
	{
		ID:    "data",
		Title: "Data Collection & Analysis",
		Kind:  models.SectionFreeText,
		Instructions: models.Instructions{
			Title: "Plan the data work",
			Body:  "Specify what is collected, how it is stored, and which analysis produces the evidence for or against the expected outcome.",
		},
		Placeholder: "Data collected: ...\n\nAnalysis plan:\n-\n-",
	},
	{
		ID:    "validity",
		Title: "Threats to Validity",
		Kind:  models.SectionFreeText,
		Instructions: models.Instructions{
			Title: "Anticipate the weaknesses",
			Body:  "List the construct, internal and external validity threats of the chosen design and what you do about each.",
		},
		Placeholder: "Threats:\n-\n-\n\nMitigations:\n-\n-",
	},
	{
		ID:    "timeline",
		Title: "Timeline & Milestones",
		Kind:  models.SectionFreeText,
		Instructions: models.Instructions{
			Title: "Schedule the work",
			Body:  "Break the project into milestones with dates. A milestone is done or not done; avoid percentages.",
		},
		Placeholder: "Milestones:\n1.\n2.\n3.",
		CharLimit:   2000,
	},
}

// Catalog returns the ordered section specs
func Catalog() []models.SectionSpec {
	return sectionCatalog
}

// SectionByID looks up a spec by its id
func SectionByID(id string) (models.SectionSpec, bool) {
	for _, s := range sectionCatalog {
		if s.ID == id {
			return s, true
		}
	}
	return models.SectionSpec{}, false
}

// SectionIndex returns the catalog position of id, or -1
func SectionIndex(id string) int {
	for i, s := range sectionCatalog {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// FirstSectionID returns the id of the first catalog section
func FirstSectionID() string {
	return sectionCatalog[0].ID
}
