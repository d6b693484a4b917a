package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/domain/jobModel"
	"github.com/elvispulaj/insight-forge/internal/domain/sessionModel"
	"github.com/elvispulaj/insight-forge/internal/job"
	"github.com/elvispulaj/insight-forge/internal/rag/ingest"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
)

// MockRagService to track if jobs are executed
type MockRagService struct {
	ProcessedCount int32
	IngestedCount  int32
}

func (m *MockRagService) ProcessAnalysis(ctx context.Context, j jobModel.Job, s sessionModel.Session, hist []string) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return j
}

func (m *MockRagService) IngestArtifact(ctx context.Context, j jobModel.Job) (jobModel.Job, ingest.Summary) {
	atomic.AddInt32(&m.IngestedCount, 1)
	return j, ingest.Summary{ChunkCount: 3}
}

func (m *MockRagService) DropSessionIndex(ctx context.Context, sessionId string) error {
	return nil
}

type MockJobStore struct {
	OnSaveJob func(ctx context.Context, job jobModel.Job) error
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	return jobModel.Job{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	if m.OnSaveJob != nil {
		return m.OnSaveJob(ctx, j)
	}
	return nil
}

// MockConversationStore handles the session exchange log
type MockConversationStore struct {
	OnGetHistory func(ctx context.Context, sessionId string) (error, []string)
	OnSave       func(ctx context.Context, sessionId string, payload jobModel.JobPayload) error
	SavedCount   int32
}

func (m *MockConversationStore) ValidateSessionId(ctx context.Context, id string) bool {
	return true
}

func (m *MockConversationStore) InitConversation(ctx context.Context, id string) error {
	return nil
}

func (m *MockConversationStore) ClearConversation(ctx context.Context, id string) error {
	return nil
}

func (m *MockConversationStore) GetHistory(ctx context.Context, id string) (error, []string) {
	if m.OnGetHistory != nil {
		return m.OnGetHistory(ctx, id)
	}
	return nil, []string{}
}

func (m *MockConversationStore) TrySaveExchange(ctx context.Context, id string, p jobModel.JobPayload) error {
	atomic.AddInt32(&m.SavedCount, 1)
	if m.OnSave != nil {
		return m.OnSave(ctx, id, p)
	}
	return nil
}

type MockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionModel.Session
}

func (m *MockSessionStore) GetSession(ctx context.Context, id string) (sessionModel.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *MockSessionStore) SaveSession(ctx context.Context, s sessionModel.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions == nil {
		m.sessions = make(map[string]sessionModel.Session)
	}
	m.sessions[s.Id] = s
	return nil
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func newTestJobService() *job.Service {
	return &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          &MockJobStore{},
		ConversationStore: &MockConversationStore{},
		SessionStore:      &MockSessionStore{},
	}
}

func TestWorkerPool_Flow(t *testing.T) {
	// 1. Setup
	jobSvc := newTestJobService()
	mockRag := &MockRagService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockRag)
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true

		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes an analysis job", func(t *testing.T) {
		testJob := jobModel.Job{Id: "test-1", JobType: jobModel.JobTypeAnalysis}
		jobSvc.JobChannel <- testJob

		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockRag.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}
	})

	t.Run("Worker routes ingest jobs and updates the session", func(t *testing.T) {
		testJob := jobModel.Job{Id: "test-2", SessionId: "s-9", JobType: jobModel.JobTypeIngest}
		jobSvc.JobChannel <- testJob

		time.Sleep(50 * time.Millisecond)

		if got := atomic.LoadInt32(&mockRag.IngestedCount); got != 1 {
			t.Errorf("Expected 1 ingest, got %d", got)
		}
		session, found := jobSvc.SessionStore.GetSession(context.Background(), "s-9")
		if !found {
			t.Fatal("session should exist after ingest")
		}
		if session.ChunkCount != 3 {
			t.Errorf("session chunk count got %d, want 3", session.ChunkCount)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_SavesQuestionExchange(t *testing.T) {
	conversationStore := &MockConversationStore{}
	jobSvc := newTestJobService()
	jobSvc.ConversationStore = conversationStore
	logger = logger_i.NewLogger("TestWorker")
	InitServices(jobSvc, &MockRagService{})

	executeJob(jobModel.Job{
		Id:        "q-1",
		SessionId: "s-1",
		JobType:   jobModel.JobTypeAnalysis,
		JobPayload: jobModel.JobPayload{
			Kind:     jobModel.KindQuestion,
			Question: "what changed?",
		},
	})

	if got := atomic.LoadInt32(&conversationStore.SavedCount); got != 1 {
		t.Errorf("question exchange saves got %d, want 1", got)
	}

	// visualization results stay out of the conversation log
	executeJob(jobModel.Job{
		Id:         "v-1",
		SessionId:  "s-1",
		JobType:    jobModel.JobTypeAnalysis,
		JobPayload: jobModel.JobPayload{Kind: jobModel.KindVisualization},
	})

	if got := atomic.LoadInt32(&conversationStore.SavedCount); got != 1 {
		t.Errorf("visualization should not save an exchange, count %d", got)
	}
}

func TestWorker_IdleTimeout(t *testing.T) {
	// Temporarily override config/globals for test
	atomic.StoreInt64(&currentWorkerCount, 0)
	atomic.StoreInt64(&minWorkerCount, 0) // any idle worker is above the minimum
	defer atomic.StoreInt64(&minWorkerCount, config.MinWorkerCount)
	logger = logger_i.NewLogger("TestWorkerPool")
	jobSvc := &job.Service{
		JobChannel: make(chan jobModel.Job),
	}
	InitServices(jobSvc, &MockRagService{})

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	// Spawn 1 worker manually
	createWorker()
	time.Sleep(config.IdleWorkerTimeout)

	time.Sleep(100 * time.Millisecond)
	count := atomic.LoadInt64(&currentWorkerCount)
	if count != 0 {
		t.Errorf("Assertion Failed: Worker should have timed out and retired, but count is %d", count)
	}
}
