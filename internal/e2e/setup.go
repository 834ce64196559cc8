package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/santalucia-health/hospital-admin-service/internal/auth"
	"github.com/santalucia-health/hospital-admin-service/internal/httpapi"
	"github.com/santalucia-health/hospital-admin-service/internal/service"
	"github.com/santalucia-health/hospital-admin-service/internal/store"
	"github.com/santalucia-health/hospital-admin-service/internal/testutil"
)

// TestServer represents a complete E2E test environment
type TestServer struct {
	Server        *httptest.Server
	Store         *store.Memory
	Registry      *service.Registry
	MockPublisher *testutil.MockPublisher
	AuthConfig    auth.Config
}

// SetupE2ETest creates a complete test environment:
// - In-memory store
// - Real HTTP server with all routes and auth middleware
// - Mock RabbitMQ publisher
func SetupE2ETest(t *testing.T) *TestServer {
	t.Helper()

	mem := store.NewMemory()
	mockPublisher := testutil.NewMockPublisher()
	registry := service.NewRegistry(mem, mockPublisher)

	perms, err := auth.LoadPermissions("../../permissions.yml")
	if err != nil {
		t.Fatalf("Failed to load permissions: %v", err)
	}

	cfg := auth.Config{Issuer: "https://test-issuer.example", Secret: "e2e-test-secret"}
	verifier := auth.NewVerifier(cfg)

	router := httpapi.SetupRouter(registry, verifier, perms, nil)
	server := httptest.NewServer(router)

	return &TestServer{
		Server:        server,
		Store:         mem,
		Registry:      registry,
		MockPublisher: mockPublisher,
		AuthConfig:    cfg,
	}
}

// Cleanup shuts down the test server
func (ts *TestServer) Cleanup(t *testing.T) {
	t.Helper()
	ts.Server.Close()
}

// Token mints a signed token for the given subject and roles
func (ts *TestServer) Token(t *testing.T, sub string, roles ...string) string {
	t.Helper()
	tok, err := auth.TestToken(ts.AuthConfig, sub, roles)
	if err != nil {
		t.Fatalf("Failed to mint test token: %v", err)
	}
	return tok
}

// NewClient creates a new HTTP test client for this server with the given token
func (ts *TestServer) NewClient(token string) *testutil.HTTPTestClient {
	return testutil.NewHTTPTestClient(ts.Server.URL, token)
}
