package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Skotchmaster/diary/internal/db"
	"github.com/Skotchmaster/diary/internal/events"
	"github.com/Skotchmaster/diary/internal/models"
	"github.com/Skotchmaster/diary/internal/repo"
	"github.com/Skotchmaster/diary/internal/tokens"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret")

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type fakeSearcher struct {
	indexed map[string]models.DiaryEntry
	err     error
	hits    []models.DiaryEntry
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{indexed: map[string]models.DiaryEntry{}}
}

func (f *fakeSearcher) IndexEntry(_ context.Context, e models.DiaryEntry) error {
	if f.err != nil {
		return f.err
	}
	f.indexed[e.ID] = e
	return nil
}

func (f *fakeSearcher) DeleteEntry(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.indexed, id)
	return nil
}

func (f *fakeSearcher) Search(_ context.Context, _, _ string, _, _ int) (int64, []models.DiaryEntry, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

type testEnv struct {
	Repo        *repo.GormRepo
	Events      *recordingPublisher
	Credentials *CredentialStore
	Sessions    *SessionAuthority
	Diary       *DiaryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.Open(context.Background(), "sqlite://:memory:")
	require.NoError(t, err)

	r := &repo.GormRepo{DB: gdb}
	require.NoError(t, r.Migrate(context.Background()))
	t.Cleanup(func() { _ = r.Close() })

	pub := &recordingPublisher{}
	creds := &CredentialStore{Repo: r, Cost: bcrypt.MinCost, Events: pub}
	return &testEnv{
		Repo:        r,
		Events:      pub,
		Credentials: creds,
		Sessions:    &SessionAuthority{Credentials: creds, Secret: testSecret},
		Diary:       &DiaryService{Repo: r, Events: pub},
	}
}

// login registers username and returns the user id bound to a fresh token.
func (e *testEnv) login(t *testing.T, username, password string) (string, tokens.Issued) {
	t.Helper()
	ctx := context.Background()

	_, err := e.Credentials.Register(ctx, username, password)
	require.NoError(t, err)

	issued, err := e.Sessions.Login(ctx, username, password)
	require.NoError(t, err)

	userID, err := e.Sessions.Verify(issued.Token)
	require.NoError(t, err)
	return userID, issued
}

var errBoom = errors.New("boom")

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
