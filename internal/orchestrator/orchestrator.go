// Package orchestrator owns all chat session state: session lifecycle,
// message appends, verification-gated sending, debounced persistence and the
// single in-flight request gate. It is the only writer of the session
// collection; every other component reads derived views.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"pragati/internal/backend"
	"pragati/internal/chat"
	"pragati/internal/history"
	"pragati/internal/ids"
	"pragati/internal/logging"
	"pragati/internal/normalize"
	"pragati/internal/registry"
	"pragati/internal/router"
)

var (
	// ErrVerificationRequired rejects a send attempted without a verification
	// token. No state changes when this is returned.
	ErrVerificationRequired = errors.New("verification required before sending")
	// ErrBusy rejects a second concurrent send while one is in flight.
	ErrBusy = errors.New("another message is already in flight")
)

// apologyContent is the fixed fallback assistant reply when a backend call
// fails.
const apologyContent = "I'm sorry, I'm having trouble connecting to the agricultural AI service right now. Please try again later."

// contextTurns is how many trailing messages travel as conversation context
// on the generic endpoint.
const contextTurns = 5

// FileUpload is one user-supplied file heading into a message attachment.
// Data is only consulted for image analysis agents.
type FileUpload struct {
	Name        string
	ContentType string
	URL         string
	Size        int64
	Data        []byte
}

// Options wires the orchestrator's collaborators.
type Options struct {
	Backend          backend.Client
	Store            history.Store
	Logger           logging.Logger
	Language         string        // initial language code; defaults to the registry default
	AutosaveDebounce time.Duration // quiet period before a save fires; defaults to 2s
}

// Orchestrator is the session/message orchestration engine.
type Orchestrator struct {
	mu sync.Mutex

	sessions          []*chat.Session // newest first
	currentID         string
	isLoading         bool
	isLoadingHistory  bool
	toolsEnabled      bool
	agentChat         bool
	language          string
	verificationToken string

	backend backend.Client
	store   history.Store
	logger  logging.Logger

	debounce  time.Duration
	saveTimer *time.Timer
	dirty     map[string]struct{} // session ids mutated since the last flush

	listeners []func()
}

// New builds an orchestrator. Call Initialize before use.
func New(opts Options) *Orchestrator {
	language := opts.Language
	if language == "" {
		language = registry.DefaultLanguageCode
	}
	debounce := opts.AutosaveDebounce
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Orchestrator{
		isLoadingHistory: true,
		toolsEnabled:     true,
		language:         language,
		backend:          opts.Backend,
		store:            opts.Store,
		logger:           logging.OrNop(opts.Logger),
		debounce:         debounce,
		dirty:            make(map[string]struct{}),
	}
}

// Initialize loads persisted sessions. With history present the sessions are
// installed without auto-selecting one; with no history (or a load failure)
// a fresh session is created and selected. The history-loading flag clears
// on every path so the UI never hangs.
func (o *Orchestrator) Initialize(ctx context.Context) {
	sessions, err := o.store.LoadChatHistory(ctx)

	o.mu.Lock()
	defer func() {
		o.isLoadingHistory = false
		o.mu.Unlock()
		o.notify()
	}()

	if err != nil {
		o.logger.Error("Failed to load chat history: %v", err)
		o.installFreshSessionLocked()
		return
	}
	if len(sessions) == 0 {
		o.installFreshSessionLocked()
		return
	}
	o.logger.Info("Loaded %d chat sessions", len(sessions))
	o.sessions = sessions
}

func (o *Orchestrator) installFreshSessionLocked() {
	session := chat.NewSession(o.language)
	o.sessions = append([]*chat.Session{session}, o.sessions...)
	o.currentID = session.ID
}

// CreateSession prepends a new empty session and makes it current. It is a
// no-op while history is still loading to avoid racing Initialize.
func (o *Orchestrator) CreateSession() {
	o.mu.Lock()
	if o.isLoadingHistory {
		o.mu.Unlock()
		return
	}
	o.installFreshSessionLocked()
	o.agentChat = false
	o.mu.Unlock()
	o.notify()
}

// SelectSession makes the given session current; unknown ids are a silent
// no-op.
func (o *Orchestrator) SelectSession(id string) {
	o.mu.Lock()
	if o.findSessionLocked(id) == nil {
		o.mu.Unlock()
		return
	}
	o.currentID = id
	o.mu.Unlock()
	o.notify()
}

// SelectAgent creates a new session bound to the agent, pre-seeded with a
// templated welcome message, and makes it current. Unknown agent ids are a
// silent no-op. Mode "agent" lands in conversational sub-mode; "tool" and
// "both" start on the standalone tool.
func (o *Orchestrator) SelectAgent(agentID string) {
	agent, ok := registry.AgentByID(agentID)
	if !ok {
		o.logger.Warn("Ignoring unknown agent id %q", agentID)
		return
	}

	o.mu.Lock()
	welcome := chat.NewAssistantMessage(
		"Hello! I'm your "+agent.Name+" specialist. "+agent.Description+". How can I help you today?",
		o.language, nil)
	now := time.Now()
	session := &chat.Session{
		ID:        ids.NewSessionID(),
		Title:     agent.Name,
		Messages:  []chat.Message{welcome},
		Agent:     &agent,
		CreatedAt: now,
		UpdatedAt: now,
		Language:  o.language,
	}
	o.sessions = append([]*chat.Session{session}, o.sessions...)
	o.currentID = session.ID
	o.agentChat = agent.Mode == registry.ModeAgent
	// The welcome message counts as content: the session must survive a
	// restart even if the user never replies.
	o.scheduleSaveLocked(session.ID)
	o.mu.Unlock()
	o.notify()
}

// SetAgentChat toggles the chat/tool sub-mode for agents with mode "both".
func (o *Orchestrator) SetAgentChat(enabled bool) {
	o.mu.Lock()
	o.agentChat = enabled
	o.mu.Unlock()
	o.notify()
}

// SetToolsEnabled flips the generic endpoint's tools toggle. The value is
// read at dispatch time, so an in-flight send observes the latest setting.
func (o *Orchestrator) SetToolsEnabled(enabled bool) {
	o.mu.Lock()
	o.toolsEnabled = enabled
	o.mu.Unlock()
	o.notify()
}

// SetLanguage selects the interface language; unregistered codes are a
// silent no-op.
func (o *Orchestrator) SetLanguage(code string) {
	if _, ok := registry.LanguageByCode(code); !ok {
		return
	}
	o.mu.Lock()
	o.language = code
	o.mu.Unlock()
	o.notify()
}

// SetVerificationToken stores the single-use token produced by the
// anti-automation challenge.
func (o *Orchestrator) SetVerificationToken(token string) {
	o.mu.Lock()
	o.verificationToken = token
	o.mu.Unlock()
}

// SendMessage validates preconditions, appends the user message
// optimistically, routes the turn to a backend call and appends the
// normalized assistant reply. Backend failures become an in-band apology
// message; the loading flag and verification token always reset.
func (o *Orchestrator) SendMessage(ctx context.Context, content string, files []FileUpload) error {
	o.mu.Lock()
	if o.verificationToken == "" {
		o.mu.Unlock()
		return ErrVerificationRequired
	}
	if o.isLoading {
		o.mu.Unlock()
		return ErrBusy
	}

	session := o.currentSessionLocked()
	if session == nil {
		// Never drop the message: create a session on the fly.
		o.installFreshSessionLocked()
		session = o.currentSessionLocked()
	}

	// Conversation context is captured before the optimistic append, matching
	// the turn window the user was looking at when they hit send.
	previous := session.RecentTurns(contextTurns)

	userMsg := chat.NewUserMessage(content, o.language, buildAttachments(files))
	session.Append(userMsg)
	o.isLoading = true
	o.verificationToken = "" // single use

	decision := router.Route(router.Input{
		Agent:        session.Agent,
		AgentChat:    o.agentChat,
		ToolsEnabled: o.toolsEnabled,
		Content:      content,
		Language:     o.language,
		HasFiles:     len(files) > 0,
	})
	sessionID := session.ID
	language := o.language
	var agentType string
	if session.Agent != nil {
		agentType = session.Agent.ID
	}
	o.scheduleSaveLocked(sessionID)
	o.mu.Unlock()
	o.notify()

	defer func() {
		o.mu.Lock()
		o.isLoading = false
		o.mu.Unlock()
		o.notify()
	}()

	if decision.Kind == router.KindToolWidget {
		// The standalone tool widget owns this turn; nothing to call.
		return nil
	}

	result, err := o.dispatch(ctx, decision, dispatchInput{
		content:   content,
		language:  language,
		agentType: agentType,
		previous:  previous,
		files:     files,
	})

	var assistant chat.Message
	if err != nil {
		o.logger.Error("Backend call failed for session %s: %v", sessionID, err)
		assistant = chat.NewAssistantMessage(apologyContent, language, nil)
		assistant.Error = true
	} else {
		assistant = chat.NewAssistantMessage(result.Content, language, result.Metadata)
	}

	// Resolve by the captured session id, never the current pointer: the user
	// may have navigated away while the call was in flight.
	o.mu.Lock()
	if target := o.findSessionLocked(sessionID); target != nil {
		target.Append(assistant)
		o.scheduleSaveLocked(sessionID)
	}
	o.mu.Unlock()
	o.notify()
	return nil
}

type dispatchInput struct {
	content   string
	language  string
	agentType string
	previous  []chat.Turn
	files     []FileUpload
}

func (o *Orchestrator) dispatch(ctx context.Context, decision router.Decision, in dispatchInput) (normalize.Result, error) {
	if decision.Kind == router.KindGeneric {
		resp, err := o.backend.Query(ctx, backend.QueryRequest{
			Query:    in.content,
			Language: in.language,
			Mode:     decision.Mode,
			Context: &backend.QueryContext{
				AgentType:        in.agentType,
				PreviousMessages: in.previous,
			},
		})
		if err != nil {
			return normalize.Result{}, err
		}
		return normalize.Generic(resp), nil
	}

	var raw any
	var err error
	switch decision.AgentType {
	case registry.AgentCropRecommendations:
		raw, err = o.backend.CropRecommendations(ctx, in.content)
	case registry.AgentWeatherAdvisory:
		raw, err = o.backend.WeatherAdvisory(ctx, in.content)
	case registry.AgentCropYield:
		raw, err = o.backend.CropYield(ctx, in.content)
	case registry.AgentCreditLoanPolicy:
		raw, err = o.backend.CreditLoanPolicy(ctx, in.content)
	case registry.AgentMarketPrices:
		raw, err = o.backend.MarketPrices(ctx, in.content)
	case registry.AgentPestPrediction:
		raw, err = o.backend.PestPrediction(ctx, in.content)
	case registry.AgentCropHealth:
		image, name := firstImage(in.files)
		raw, err = o.backend.CropHealth(ctx, in.content, image, name)
	case registry.AgentRiskManagement:
		raw, err = o.backend.RiskManagement(ctx, in.content)
	case registry.AgentDeepResearch:
		raw, err = o.backend.DeepResearch(ctx, in.content, decision.Mode)
	default:
		resp, qerr := o.backend.Query(ctx, backend.QueryRequest{
			Query:    in.content,
			Language: in.language,
			Mode:     backend.ModeRAG,
			Context:  &backend.QueryContext{AgentType: in.agentType, PreviousMessages: in.previous},
		})
		if qerr != nil {
			return normalize.Result{}, qerr
		}
		return normalize.Generic(resp), nil
	}
	if err != nil {
		return normalize.Result{}, err
	}
	return normalize.For(decision.AgentType)(raw), nil
}

// TranslateMessage translates one message in the current session into the
// target language. Unknown message ids are a silent no-op. A failed
// translation stores a clearly-marked fallback so the UI always has
// something to show.
func (o *Orchestrator) TranslateMessage(ctx context.Context, messageID, targetLanguage string) {
	o.mu.Lock()
	session := o.currentSessionLocked()
	if session == nil {
		o.mu.Unlock()
		return
	}
	msg := session.FindMessage(messageID)
	if msg == nil {
		o.mu.Unlock()
		return
	}
	original := msg.Content
	sessionID := session.ID
	o.mu.Unlock()

	translated, err := o.backend.Translate(ctx, original, targetLanguage)

	text := ""
	if err != nil || translated == nil {
		o.logger.Warn("Translation to %s failed for message %s: %v", targetLanguage, messageID, err)
		text = "[Translation unavailable] " + original
	} else {
		text = translated.TranslatedText
	}

	o.mu.Lock()
	if target := o.findSessionLocked(sessionID); target != nil {
		if m := target.FindMessage(messageID); m != nil {
			if m.Translations == nil {
				m.Translations = make(map[string]string)
			}
			m.Translations[targetLanguage] = text
			o.scheduleSaveLocked(sessionID)
		}
	}
	o.mu.Unlock()
	o.notify()
}

// scheduleSaveLocked marks the session dirty and resets the debounce timer;
// rapid successive mutations coalesce into a single flush. Caller holds the
// lock.
func (o *Orchestrator) scheduleSaveLocked(sessionID string) {
	if o.isLoadingHistory || sessionID == "" {
		return
	}
	o.dirty[sessionID] = struct{}{}
	if o.saveTimer != nil {
		o.saveTimer.Stop()
	}
	o.saveTimer = time.AfterFunc(o.debounce, o.flushSave)
}

// flushSave persists every session mutated since the last flush, skipping
// empty ones. A late reply may have landed in a non-current session, so the
// dirty set, not the current pointer, decides what gets written. Save
// failures are logged and never block interaction.
func (o *Orchestrator) flushSave() {
	o.mu.Lock()
	snapshots := make([]*chat.Session, 0, len(o.dirty))
	for id := range o.dirty {
		if session := o.findSessionLocked(id); session != nil && len(session.Messages) > 0 {
			snapshots = append(snapshots, session.Clone())
		}
	}
	o.dirty = make(map[string]struct{})
	o.mu.Unlock()

	for _, snapshot := range snapshots {
		if err := o.store.SaveChatSession(context.Background(), snapshot); err != nil {
			o.logger.Error("Failed to auto-save session %s: %v", snapshot.ID, err)
			continue
		}
		o.logger.Debug("Session auto-saved: %s", snapshot.ID)
	}
}

// Close stops the pending autosave timer and flushes any unsaved state.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.saveTimer != nil {
		o.saveTimer.Stop()
		o.saveTimer = nil
	}
	o.mu.Unlock()
	o.flushSave()
}

// Subscribe registers a callback invoked after every state mutation. Used by
// the server layer to push change notifications to connected clients.
func (o *Orchestrator) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	o.mu.Lock()
	o.listeners = append(o.listeners, fn)
	o.mu.Unlock()
}

func (o *Orchestrator) notify() {
	o.mu.Lock()
	listeners := append([]func(){}, o.listeners...)
	o.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Sessions returns a deep copy of the session collection, newest first.
func (o *Orchestrator) Sessions() []*chat.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*chat.Session, len(o.sessions))
	for i, s := range o.sessions {
		out[i] = s.Clone()
	}
	return out
}

// CurrentSession returns a deep copy of the current session, or nil when no
// session is selected.
func (o *Orchestrator) CurrentSession() *chat.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.currentSessionLocked().Clone()
}

// CurrentSessionID returns the current session id; empty when none selected.
func (o *Orchestrator) CurrentSessionID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.currentID
}

// IsLoading reports whether a send is in flight.
func (o *Orchestrator) IsLoading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.isLoading
}

// IsLoadingHistory reports whether the initial history load is still running.
func (o *Orchestrator) IsLoadingHistory() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.isLoadingHistory
}

// ToolsEnabled reports the generic endpoint's tools toggle.
func (o *Orchestrator) ToolsEnabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.toolsEnabled
}

// AgentChat reports whether the current agent session is in conversational
// sub-mode.
func (o *Orchestrator) AgentChat() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.agentChat
}

// Language returns the selected language code.
func (o *Orchestrator) Language() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.language
}

func (o *Orchestrator) currentSessionLocked() *chat.Session {
	return o.findSessionLocked(o.currentID)
}

func (o *Orchestrator) findSessionLocked(id string) *chat.Session {
	if id == "" {
		return nil
	}
	for _, session := range o.sessions {
		if session.ID == id {
			return session
		}
	}
	return nil
}

func buildAttachments(files []FileUpload) []chat.Attachment {
	if len(files) == 0 {
		return nil
	}
	attachments := make([]chat.Attachment, 0, len(files))
	for _, file := range files {
		attachments = append(attachments, chat.Attachment{
			ID:   ids.NewAttachmentID(),
			Name: file.Name,
			Type: chat.ClassifyAttachment(file.ContentType),
			URL:  file.URL,
			Size: file.Size,
		})
	}
	return attachments
}

func firstImage(files []FileUpload) ([]byte, string) {
	for _, file := range files {
		if chat.ClassifyAttachment(file.ContentType) == chat.AttachmentImage && len(file.Data) > 0 {
			return file.Data, file.Name
		}
	}
	return nil, ""
}
