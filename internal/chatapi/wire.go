package chatapi

import (
	"time"

	"github.com/katoonagu/Aichatinterfacedesign/internal/domain"
)

// The wire role vocabulary differs from the internal one: assistant
// messages travel as "ai". Translation is symmetric so a message survives
// a round trip unchanged.
const (
	wireRoleUser      = "user"
	wireRoleAssistant = "ai"
)

type wireMessage struct {
	ID        string       `json:"id"`
	Role      string       `json:"role"`
	Content   string       `json:"content"`
	Timestamp string       `json:"timestamp"`
	Sources   []wireSource `json:"sources,omitempty"`
}

type wireSource struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url,omitempty"`
}

type wireSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Preview  string `json:"preview"`
	Date     string `json:"date"`
	Messages int    `json:"messages"`
}

func domainToWire(m domain.Message) wireMessage {
	role := wireRoleUser
	if m.Role == domain.RoleAssistant {
		role = wireRoleAssistant
	}
	w := wireMessage{
		ID:        m.ID,
		Role:      role,
		Content:   m.Content,
		Timestamp: m.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, s := range m.Sources {
		w.Sources = append(w.Sources, wireSource{
			ID:    s.ID,
			Title: s.Title,
			Type:  string(s.Kind),
			URL:   s.URL,
		})
	}
	return w
}

func wireToDomain(w wireMessage) (domain.Message, error) {
	role := domain.RoleUser
	if w.Role == wireRoleAssistant {
		role = domain.RoleAssistant
	}
	at, err := time.Parse(time.RFC3339, w.Timestamp)
	if err != nil {
		return domain.Message{}, err
	}
	var sources []domain.Source
	for _, s := range w.Sources {
		sources = append(sources, domain.Source{
			ID:    s.ID,
			Title: s.Title,
			Kind:  parseSourceKind(s.Type),
			URL:   s.URL,
		})
	}
	return domain.Restore(w.ID, role, w.Content, at, sources), nil
}

func parseSourceKind(s string) domain.SourceKind {
	switch domain.SourceKind(s) {
	case domain.SourceKindStandard, domain.SourceKindRegulation, domain.SourceKindManual:
		return domain.SourceKind(s)
	default:
		return domain.SourceKindOther
	}
}

func summaryToDomain(s wireSummary) domain.Session {
	date, err := time.Parse(time.RFC3339, s.Date)
	if err != nil {
		date = time.Time{}
	}
	return domain.Session{
		ID:      s.ID,
		Title:   s.Title,
		Preview: s.Preview,
		Date:    date,
	}
}
