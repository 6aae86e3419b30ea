package factory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/textcompare/internal/dependencies/mocks"
	"github.com/mcoot/textcompare/internal/services/auth"
	"github.com/mcoot/textcompare/internal/services/scoring"
	"github.com/mcoot/textcompare/internal/storage/memory"
	"github.com/mcoot/textcompare/internal/testutil"
)

// TestAdminPassword is the admin password provisioned by NewTestApp
const TestAdminPassword = "admin-secret"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockScorer *MockScorer
}

// MockScorer returns a fixed similarity or error and counts calls
type MockScorer struct {
	Value float64
	Err   error
	Calls int

	mu sync.Mutex
}

// Similarity returns the configured value or error
func (m *MockScorer) Similarity(_ context.Context, _, _ string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return m.Value, m.Err
}

// Ensure MockScorer implements Scorer
var _ scoring.Scorer = (*MockScorer)(nil)

// NewTestApp creates an App configured for testing with mocked dependencies
// and an admin account provisioned with TestAdminPassword
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockScorer := &MockScorer{Value: 0.5}

	authCfg := auth.DefaultConfig()
	authCfg.BcryptCost = bcrypt.MinCost

	app := newWithDependencies(store, mockClock, mockScorer, authCfg, testutil.NopLogger())
	if err := app.AuthService.EnsureAdmin(context.Background(), auth.DefaultAdminUsername, TestAdminPassword); err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockScorer: mockScorer,
	}
}
