package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
)

// mockSearchService implements driving.SearchService for command tests.
type mockSearchService struct {
	resp    *domain.SearchResponse
	err     error
	lastReq domain.SearchRequest
	calls   int
}

func (m *mockSearchService) Search(_ context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	m.calls++
	m.lastReq = req
	if m.resp == nil {
		return domain.DegradedResponse(req.Query, m.err), m.err
	}
	return m.resp, m.err
}

func (m *mockSearchService) Health(_ context.Context) domain.HealthStatus {
	return domain.HealthStatus{Status: "healthy", Timestamp: time.Now()}
}

func (m *mockSearchService) RecordTypes() []domain.RecordTypeInfo {
	return nil
}

// mockRecordService implements driving.RecordService.
type mockRecordService struct {
	owner   string
	records []domain.Record
	err     error
}

func (m *mockRecordService) Import(_ context.Context, ownerID string, records []domain.Record) (*driving.ImportResult, error) {
	m.owner = ownerID
	m.records = records
	if m.err != nil {
		return nil, m.err
	}
	res := &driving.ImportResult{Imported: len(records), ByType: map[domain.RecordType]int{}}
	for _, r := range records {
		res.ByType[r.Type]++
	}
	return res, nil
}

// mockSettingsService implements driving.SettingsService.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error
	setProvider domain.AIProvider
	setModel    string
	setKey      string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.setProvider, m.setModel, m.setKey = provider, model, apiKey
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }
func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}
func (m *mockSettingsService) ValidateLLMConfig(context.Context) error { return m.pingErr }

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	search   *mockSearchService
	records  *mockRecordService
	settings *mockSettingsService
}

// setupTestServices installs mocks for the package-level services and
// resets command flags. The returned cleanup restores the previous state.
func setupTestServices() (*testServices, func()) {
	prevSearch, prevRecords, prevSettings := searchService, recordService, settingsService

	ts := &testServices{
		search:   &mockSearchService{},
		records:  &mockRecordService{},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
	}
	searchService = ts.search
	recordService = ts.records
	settingsService = ts.settings
	resetFlags()

	return ts, func() {
		searchService, recordService, settingsService = prevSearch, prevRecords, prevSettings
		resetFlags()
	}
}

func resetFlags() {
	searchOwner, searchLimit, searchOffset = "", domain.DefaultLimit, 0
	searchLang, searchTypes, searchJSON = string(domain.LanguageEnglish), nil, false
	seedOwner, serveAddr, tuiOwner = "", "", ""
	mcpAddr, mcpOwner = "", ""
	llmProvider, llmModel, llmAPIKey, resetAll = "", "", "", false
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
