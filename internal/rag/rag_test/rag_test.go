package rag_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/domain/commonModels"
	"github.com/elvispulaj/insight-forge/internal/domain/jobModel"
	"github.com/elvispulaj/insight-forge/internal/domain/sessionModel"
	"github.com/elvispulaj/insight-forge/internal/rag"
)

func TestProcessAnalysis_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		kind           jobModel.AnalysisKind
		question       string
		setupMocks     func(e *MockEmbedder, v *MockIndex, p *MockProvider)
		expectedStep   jobModel.InternalStatus
		expectedStatus jobModel.JobStatus
		expectedAnswer string
		expectedErr    string
	}{
		{
			name: "Success_Comprehensive_Flow",
			kind: jobModel.KindComprehensive,
			setupMocks: func(e *MockEmbedder, v *MockIndex, p *MockProvider) {
				p.OnComplete = func(ctx context.Context, sys string, user string) (string, error) {
					return "final analysis", nil
				}
			},
			expectedStep:   jobModel.Complete,
			expectedStatus: jobModel.JobStatusQueued,
			expectedAnswer: "final analysis",
		},
		{
			name:     "Success_Question_Flow",
			kind:     jobModel.KindQuestion,
			question: "what drives revenue?",
			setupMocks: func(e *MockEmbedder, v *MockIndex, p *MockProvider) {
				p.OnComplete = func(ctx context.Context, sys string, user string) (string, error) {
					return "revenue answer", nil
				}
			},
			expectedStep:   jobModel.Complete,
			expectedStatus: jobModel.JobStatusQueued,
			expectedAnswer: "revenue answer",
		},
		{
			name: "Failure_Embedding",
			kind: jobModel.KindComprehensive,
			setupMocks: func(e *MockEmbedder, v *MockIndex, p *MockProvider) {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, errors.New("api limit")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectedErr:    "EMBEDDING_FAILURE",
		},
		{
			name:     "Failure_Index_Query",
			kind:     jobModel.KindQuestion,
			question: "anything",
			setupMocks: func(e *MockEmbedder, v *MockIndex, p *MockProvider) {
				v.OnQuery = func(ctx context.Context, name string, vec []float32, k int) ([]commonModels.RetrievalResult, error) {
					return nil, errors.New("db timeout")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectedErr:    "VECTOR_DB_FAILURE",
		},
		{
			name: "Failure_Model_Generation",
			kind: jobModel.KindComprehensive,
			setupMocks: func(e *MockEmbedder, v *MockIndex, p *MockProvider) {
				p.OnComplete = func(ctx context.Context, sys string, user string) (string, error) {
					return "", errors.New("provider down")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectedErr:    "LLM_GENERATION_FAILURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mIndex := &MockIndex{}
			mProvider := &MockProvider{}

			tt.setupMocks(mEmbed, mIndex, mProvider)

			s := rag.NewService(mIndex, mProvider, mEmbed)

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
			job := jobModel.Job{
				Id:     "test-job",
				Status: jobModel.JobStatusQueued,
				JobPayload: jobModel.JobPayload{
					Kind:     tt.kind,
					Question: tt.question,
				},
			}
			session := sessionModel.Session{Id: "s-1", DataContext: "Dataset Shape: 10 rows × 2 columns"}

			result := s.ProcessAnalysis(ctx, job, session, []string{})

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}

			if tt.expectedAnswer != "" && result.JobPayload.Answer != tt.expectedAnswer {
				t.Errorf("Answer got %s, want %s", result.JobPayload.Answer, tt.expectedAnswer)
			}

			if tt.expectedErr != "" && result.Error.Code != http.StatusInternalServerError {
				t.Errorf("Error Code got %d, want %s", result.Error.Code, tt.expectedErr)
			}
		})
	}
}

func TestProcessAnalysis_VisualizationSkipsRetrieval(t *testing.T) {
	mEmbed := &MockEmbedder{
		OnGetEmbedding: func(ctx context.Context, text string) ([]float32, error) {
			t.Error("visualization must not embed a query")
			return nil, nil
		},
	}
	mIndex := &MockIndex{
		OnQuery: func(ctx context.Context, name string, vec []float32, k int) ([]commonModels.RetrievalResult, error) {
			t.Error("visualization must not query the index")
			return nil, nil
		},
	}
	mProvider := &MockProvider{}

	s := rag.NewService(mIndex, mProvider, mEmbed)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	job := jobModel.Job{Id: "viz-job", JobPayload: jobModel.JobPayload{Kind: jobModel.KindVisualization}}
	result := s.ProcessAnalysis(ctx, job, sessionModel.Session{Id: "s-1"}, nil)

	if result.CurrentStep != jobModel.Complete {
		t.Errorf("Step got %v, want %v", result.CurrentStep, jobModel.Complete)
	}
}

func TestProcessAnalysis_EmptyRetrievalUsesSentinel(t *testing.T) {
	mIndex := &MockIndex{
		OnQuery: func(ctx context.Context, name string, vec []float32, k int) ([]commonModels.RetrievalResult, error) {
			return nil, nil
		},
	}
	mProvider := &MockProvider{}

	s := rag.NewService(mIndex, mProvider, &MockEmbedder{})
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	job := jobModel.Job{Id: "q-job", JobPayload: jobModel.JobPayload{Kind: jobModel.KindQuestion, Question: "anything"}}
	result := s.ProcessAnalysis(ctx, job, sessionModel.Session{Id: "s-1"}, nil)

	if result.Status == jobModel.JobStatusError {
		t.Fatalf("empty retrieval must not fail the job: %+v", result.Error)
	}
	if !strings.Contains(mProvider.LastUserPrompt, rag.NoContextSentinel) {
		t.Errorf("prompt should carry the sentinel, got: %s", mProvider.LastUserPrompt)
	}
	if len(result.JobPayload.Sources) != 0 {
		t.Errorf("no matches means no sources, got %v", result.JobPayload.Sources)
	}
}

func TestAssembleContext(t *testing.T) {
	t.Run("Empty results return sentinel", func(t *testing.T) {
		got, sources := rag.AssembleContext(nil)
		if got != rag.NoContextSentinel {
			t.Errorf("got %q, want sentinel", got)
		}
		if sources != nil {
			t.Errorf("expected no sources, got %v", sources)
		}
	})

	t.Run("Blocks are numbered and sources deduplicated", func(t *testing.T) {
		results := []commonModels.RetrievalResult{
			{Content: "alpha", Source: "report.pdf"},
			{Content: "beta", Source: "report.pdf"},
			{Content: "gamma", Source: "data.csv"},
		}
		got, sources := rag.AssembleContext(results)

		for _, want := range []string{
			"--- Context 1 (Source: report.pdf) ---\nalpha",
			"--- Context 2 (Source: report.pdf) ---\nbeta",
			"--- Context 3 (Source: data.csv) ---\ngamma",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("missing block %q in:\n%s", want, got)
			}
		}
		if len(sources) != 2 || sources[0] != "report.pdf" || sources[1] != "data.csv" {
			t.Errorf("sources got %v", sources)
		}
	})
}

func TestIndexNameFor(t *testing.T) {
	got := rag.IndexNameFor("abc")
	want := config.KnowledgeCollectionPrefix + "-abc"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
