package chat

// Clone returns a deep copy of the session so readers can render or persist
// it without racing the orchestrator's writes.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.Agent != nil {
		agent := *s.Agent
		out.Agent = &agent
	}
	out.Messages = make([]Message, len(s.Messages))
	for i := range s.Messages {
		out.Messages[i] = s.Messages[i].Clone()
	}
	return &out
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	out := m
	if m.Attachments != nil {
		out.Attachments = append([]Attachment(nil), m.Attachments...)
	}
	if m.Translations != nil {
		out.Translations = make(map[string]string, len(m.Translations))
		for k, v := range m.Translations {
			out.Translations[k] = v
		}
	}
	if m.Metadata != nil {
		out.Metadata = make(map[string]any, len(m.Metadata))
		for k, v := range m.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
