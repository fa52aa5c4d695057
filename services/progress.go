package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"planhub/db"
	"planhub/models"
)

// Progression engine errors
var (
	ErrUnknownSection      = errors.New("unknown section")
	ErrSectionLocked       = errors.New("section is locked")
	ErrSectionBusy         = errors.New("a request for this section is still in flight")
	ErrSectionIncomplete   = errors.New("section is not complete")
	ErrFeedbackNotRequired = errors.New("section does not require review before advancing")
	ErrAnswerKindMismatch  = errors.New("answer type does not match section kind")
)

// bare list markers ("-", "1.") that do not count as user content
var listMarkerPattern = regexp.MustCompile(`^(-|\d+\.)$`)

// UserModified reports whether content is a genuine edit of placeholder.
// A textarea is pre-filled with the placeholder template, so mere presence
// of text is not an answer: the content must be non-blank, differ from the
// placeholder as a whole, and contain at least one line that is non-blank,
// differs from the corresponding placeholder line, and is more than a bare
// list marker.
func UserModified(content, placeholder string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false
	}
	if trimmed == strings.TrimSpace(placeholder) {
		return false
	}

	placeholderLines := strings.Split(placeholder, "\n")
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || listMarkerPattern.MatchString(line) {
			continue
		}
		if i < len(placeholderLines) && line == strings.TrimSpace(placeholderLines[i]) {
			continue
		}
		return true
	}
	return false
}

// SectionStatus is the derived per-section view handed to clients
type SectionStatus struct {
	ID       string             `json:"id"`
	Title    string             `json:"title"`
	Kind     models.SectionKind `json:"kind"`
	Complete bool               `json:"complete"`
	Locked   bool               `json:"locked"`
	Busy     bool               `json:"busy"`
	Current  bool               `json:"current"`
	Answer   models.Answer      `json:"answer"`
	Thread   []models.Message   `json:"thread"`
}

// ProgressService owns the user's answers, the per-section chat threads and
// the derived completion/lock state. Answers and the current-section
// pointer are persisted; chat threads live for the session.
type ProgressService struct {
	mu       sync.Mutex
	state    models.ProjectState
	threads  map[string][]models.Message
	busy     map[string]bool
	store    db.Store
	notifier Notifier
}

func NewProgressService(store db.Store, notifier Notifier) *ProgressService {
	state, err := store.LoadProject()
	if err != nil {
		log.Printf("Warning: failed to load project state, starting empty: %v", err)
		state = models.ProjectState{Answers: make(map[string]models.Answer)}
	}
	if state.Answers == nil {
		state.Answers = make(map[string]models.Answer)
	}
	if _, ok := SectionByID(state.CurrentSection); !ok {
		state.CurrentSection = FirstSectionID()
	}
	return &ProgressService{
		state:    state,
		threads:  make(map[string][]models.Message),
		busy:     make(map[string]bool),
		store:    store,
		notifier: notifier,
	}
}

func (p *ProgressService) persistLocked() {
	if err := p.store.SaveProject(p.state); err != nil {
		log.Printf("Failed to persist project state: %v", err)
	}
}

// isCompleteLocked applies the completion predicate to one section
func (p *ProgressService) isCompleteLocked(spec models.SectionSpec) bool {
	ans := p.state.Answers[spec.ID]
	if spec.Kind == models.SectionChecklist {
		return len(ans.Options) > 0
	}
	return UserModified(ans.Text, spec.PlaceholderFor(p.state.Approach))
}

// isLockedLocked reports whether any strictly-earlier section is
// incomplete. The first section is never locked.
func (p *ProgressService) isLockedLocked(index int) bool {
	for j := 0; j < index; j++ {
		if !p.isCompleteLocked(sectionCatalog[j]) {
			return true
		}
	}
	return false
}

// IsSectionComplete reports the completion state of sectionID
func (p *ProgressService) IsSectionComplete(sectionID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	spec, ok := SectionByID(sectionID)
	if !ok {
		return false
	}
	return p.isCompleteLocked(spec)
}

// IsSectionLocked reports the lock state of sectionID
func (p *ProgressService) IsSectionLocked(sectionID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := SectionIndex(sectionID)
	if idx < 0 {
		return false
	}
	return p.isLockedLocked(idx)
}

// Busy reports whether a generation call is outstanding for sectionID
func (p *ProgressService) Busy(sectionID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy[sectionID]
}

// CurrentSection returns the current-section pointer
func (p *ProgressService) CurrentSection() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.CurrentSection
}

// Approach returns the selected research approach
func (p *ProgressService) Approach() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Approach
}

// SetApproach selects the research approach used for placeholder variants
func (p *ProgressService) SetApproach(approach string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Approach = approach
	p.persistLocked()
}

// State returns a copy of the persisted project state
func (p *ProgressService) State() models.ProjectState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.copyStateLocked()
}

func (p *ProgressService) copyStateLocked() models.ProjectState {
	answers := make(map[string]models.Answer, len(p.state.Answers))
	for k, v := range p.state.Answers {
		answers[k] = v
	}
	return models.ProjectState{
		Answers:        answers,
		CurrentSection: p.state.CurrentSection,
		Approach:       p.state.Approach,
	}
}

// Snapshot returns the derived status of every catalog section in order
func (p *ProgressService) Snapshot() []SectionStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	statuses := make([]SectionStatus, 0, len(sectionCatalog))
	for i, spec := range sectionCatalog {
		ans := p.state.Answers[spec.ID]
		if spec.Kind == models.SectionChecklist && ans.Options == nil {
			ans.Options = []string{}
		}
		statuses = append(statuses, SectionStatus{
			ID:       spec.ID,
			Title:    spec.Title,
			Kind:     spec.Kind,
			Complete: p.isCompleteLocked(spec),
			Locked:   p.isLockedLocked(i),
			Busy:     p.busy[spec.ID],
			Current:  spec.ID == p.state.CurrentSection,
			Answer:   ans,
			Thread:   append([]models.Message{}, p.threads[spec.ID]...),
		})
	}
	return statuses
}

// SetAnswer replaces the stored value for sectionID. The only validation is
// that the value's shape matches the section kind; mutations on a locked
// section are rejected.
func (p *ProgressService) SetAnswer(sectionID string, answer models.Answer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	spec, ok := SectionByID(sectionID)
	if !ok {
		return ErrUnknownSection
	}
	if p.isLockedLocked(SectionIndex(sectionID)) {
		return ErrSectionLocked
	}
	if spec.Kind == models.SectionChecklist && !answer.IsChecklist() && !answer.Empty() {
		return ErrAnswerKindMismatch
	}
	if spec.Kind == models.SectionFreeText && answer.IsChecklist() {
		return ErrAnswerKindMismatch
	}

	p.state.Answers[sectionID] = answer
	p.persistLocked()
	return nil
}

// ToggleChecklistOption adds or removes optionID from the section's
// selection. A toggle on a non-checklist section is a no-op.
func (p *ProgressService) ToggleChecklistOption(sectionID, optionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	spec, ok := SectionByID(sectionID)
	if !ok {
		return ErrUnknownSection
	}
	if spec.Kind != models.SectionChecklist {
		return nil
	}
	if p.isLockedLocked(SectionIndex(sectionID)) {
		return ErrSectionLocked
	}

	ans := p.state.Answers[sectionID]
	if ans.HasOption(optionID) {
		kept := make([]string, 0, len(ans.Options))
		for _, id := range ans.Options {
			if id != optionID {
				kept = append(kept, id)
			}
		}
		ans.Options = kept
	} else {
		ans.Options = append(ans.Options, optionID)
	}
	p.state.Answers[sectionID] = ans
	p.persistLocked()
	return nil
}

// Advance moves the current-section pointer one catalog position forward,
// clamped at the last section
func (p *ProgressService) Advance() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := SectionIndex(p.state.CurrentSection)
	if idx >= 0 && idx < len(sectionCatalog)-1 {
		p.state.CurrentSection = sectionCatalog[idx+1].ID
		p.persistLocked()
	}
	return p.state.CurrentSection
}

// Retreat moves the pointer one position back, clamped at the first section
func (p *ProgressService) Retreat() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := SectionIndex(p.state.CurrentSection)
	if idx > 0 {
		p.state.CurrentSection = sectionCatalog[idx-1].ID
		p.persistLocked()
	}
	return p.state.CurrentSection
}

// GoTo jumps directly to sectionID. Jumping into a locked section is
// allowed for review; its mutation operations stay rejected.
func (p *ProgressService) GoTo(sectionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := SectionByID(sectionID); !ok {
		return ErrUnknownSection
	}
	p.state.CurrentSection = sectionID
	p.persistLocked()
	return nil
}

// Thread returns a copy of the chat transcript for sectionID
func (p *ProgressService) Thread(sectionID string) []models.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Message{}, p.threads[sectionID]...)
}

// acquireSection flags sectionID busy, rejecting if a call is already in
// flight for it. Other sections are unaffected.
func (p *ProgressService) acquireSection(sectionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy[sectionID] {
		return ErrSectionBusy
	}
	p.busy[sectionID] = true
	return nil
}

func (p *ProgressService) releaseSection(sectionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.busy, sectionID)
}

// MarkSectionReviewReady requests AI feedback on a completed section. It is
// gated on the section's confirmation flag and the completion predicate,
// and appends the result as an assistant message to the section's thread.
func (p *ProgressService) MarkSectionReviewReady(ctx context.Context, sectionID string) (models.Message, error) {
	p.mu.Lock()
	spec, ok := SectionByID(sectionID)
	if !ok {
		p.mu.Unlock()
		return models.Message{}, ErrUnknownSection
	}
	if !spec.RequiresConfirmation {
		p.mu.Unlock()
		return models.Message{}, ErrFeedbackNotRequired
	}
	if p.isLockedLocked(SectionIndex(sectionID)) {
		p.mu.Unlock()
		return models.Message{}, ErrSectionLocked
	}
	if !p.isCompleteLocked(spec) {
		p.mu.Unlock()
		return models.Message{}, ErrSectionIncomplete
	}
	answer := p.state.Answers[sectionID].Text
	history := append([]models.Message{}, p.threads[sectionID]...)
	p.mu.Unlock()

	if err := p.acquireSection(sectionID); err != nil {
		return models.Message{}, err
	}
	defer p.releaseSection(sectionID)

	prompt := BuildSectionFeedbackPrompt(spec, answer, history)
	out, err := generateText(ctx, prompt.System, prompt.User)
	if err != nil {
		return models.Message{}, err
	}

	reply := models.Message{Role: models.RoleAssistant, Content: out, Timestamp: time.Now().UTC()}
	p.mu.Lock()
	p.threads[sectionID] = append(p.threads[sectionID], reply)
	p.mu.Unlock()

	if p.notifier != nil {
		p.notifier.SectionFeedbackReady(sectionID)
	}
	return reply, nil
}

// SendChatMessage appends the user message to the section's thread, asks
// the generation service for a reply with the section and transcript as
// context, and appends the assistant reply. The user message is appended
// before the call goes out, so thread order always matches call order.
func (p *ProgressService) SendChatMessage(ctx context.Context, sectionID, text string) (models.Message, error) {
	spec, ok := SectionByID(sectionID)
	if !ok {
		return models.Message{}, ErrUnknownSection
	}
	if strings.TrimSpace(text) == "" {
		return models.Message{}, errors.New("message is empty")
	}

	if err := p.acquireSection(sectionID); err != nil {
		return models.Message{}, err
	}
	defer p.releaseSection(sectionID)

	p.mu.Lock()
	if p.isLockedLocked(SectionIndex(sectionID)) {
		p.mu.Unlock()
		return models.Message{}, ErrSectionLocked
	}
	userMsg := models.Message{Role: models.RoleUser, Content: text, Timestamp: time.Now().UTC()}
	p.threads[sectionID] = append(p.threads[sectionID], userMsg)
	answer := p.state.Answers[sectionID].Text
	history := append([]models.Message{}, p.threads[sectionID]...)
	p.mu.Unlock()

	prompt := BuildSectionFeedbackPrompt(spec, answer, history)
	out, err := generateText(ctx, prompt.System, prompt.User)
	if err != nil {
		return models.Message{}, err
	}

	reply := models.Message{Role: models.RoleAssistant, Content: out, Timestamp: time.Now().UTC()}
	p.mu.Lock()
	p.threads[sectionID] = append(p.threads[sectionID], reply)
	p.mu.Unlock()

	if p.notifier != nil {
		p.notifier.SectionFeedbackReady(sectionID)
	}
	return reply, nil
}

// ImportAnswers replaces all answers with the imported set. Keys must match
// catalog sections. The caller is responsible for the confirmation round
// trip before overwriting existing work.
func (p *ProgressService) ImportAnswers(answers map[string]models.Answer) error {
	for id := range answers {
		if _, ok := SectionByID(id); !ok {
			return ErrUnknownSection
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Answers = make(map[string]models.Answer, len(answers))
	for id, ans := range answers {
		p.state.Answers[id] = ans
	}
	p.state.CurrentSection = FirstSectionID()
	p.persistLocked()
	return nil
}

// HasWork reports whether any section holds a genuine answer
func (p *ProgressService) HasWork() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, spec := range sectionCatalog {
		if p.isCompleteLocked(spec) {
			return true
		}
	}
	return false
}

// Reset clears all answers and chat threads and moves the pointer back to
// the first section. Review records are untouched.
func (p *ProgressService) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Answers = make(map[string]models.Answer)
	p.state.CurrentSection = FirstSectionID()
	p.threads = make(map[string][]models.Message)
	p.persistLocked()
}
