package newsletter

import (
	"context"
	"sync"

	"github.com/ignite/newsletter-optin/internal/domain"
)

// MockContactID is the fixed contact id the mock backend issues.
const MockContactID = "7662"

// AssignCall records one AssignToList invocation against the mock.
type AssignCall struct {
	GroupID    string
	ContactIDs []string
}

// Mock is a network-free Client returning fixture data. It is used to run
// the full subscription flow in tests and local development without a
// provider account.
//
// Err, when set, is returned by every call; this is how tests simulate a
// provider outage mid-flow.
type Mock struct {
	mu          sync.Mutex
	Err         error
	assignCalls []AssignCall
	createCalls []string
}

// NewMock returns a mock backend with the standard fixtures: lists 1337 and
// 1338, contact id 7662.
func NewMock() *Mock { return &Mock{} }

func (m *Mock) fixtures() []domain.MailingList {
	return []domain.MailingList{
		{ID: "1337", Name: "My first mailinglist", Status: 1},
		{ID: "1338", Name: "My second mailinglist"},
	}
}

func (m *Mock) ListGroups(_ context.Context) ([]domain.MailingList, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.fixtures(), nil
}

func (m *Mock) FetchGroup(_ context.Context, groupID string) (*domain.MailingList, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.MailingList{ID: groupID, Name: "My first mailinglist"}, nil
}

func (m *Mock) CreateContact(_ context.Context, email string, _ map[string]string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.mu.Lock()
	m.createCalls = append(m.createCalls, email)
	m.mu.Unlock()
	return MockContactID, nil
}

func (m *Mock) AssignToList(_ context.Context, groupID string, contactIDs []string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	m.assignCalls = append(m.assignCalls, AssignCall{GroupID: groupID, ContactIDs: contactIDs})
	m.mu.Unlock()
	return nil
}

// GroupOptions mirrors the legacy backend's policy: every list, unfiltered.
func (m *Mock) GroupOptions(_ context.Context) (map[string]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	options := make(map[string]string)
	for _, g := range m.fixtures() {
		options[g.ID] = g.Name
	}
	return options, nil
}

// AssignCalls returns every recorded AssignToList invocation.
func (m *Mock) AssignCalls() []AssignCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AssignCall, len(m.assignCalls))
	copy(out, m.assignCalls)
	return out
}

// CreateCalls returns every email passed to CreateContact.
func (m *Mock) CreateCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.createCalls))
	copy(out, m.createCalls)
	return out
}
