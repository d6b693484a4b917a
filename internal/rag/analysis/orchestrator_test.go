package analysis

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordingProvider struct {
	systemPrompt string
	userPrompt   string
	imageB64     string
	reply        string
}

func (r *recordingProvider) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	r.systemPrompt = systemPrompt
	r.userPrompt = userPrompt
	return r.reply, nil
}

func (r *recordingProvider) CompleteWithImage(ctx context.Context, systemPrompt string, userPrompt string, imageB64 string) (string, error) {
	r.systemPrompt = systemPrompt
	r.userPrompt = userPrompt
	r.imageB64 = imageB64
	return r.reply, nil
}

func TestAnalyzeData_PromptAssembly(t *testing.T) {
	p := &recordingProvider{reply: "insights"}
	o := NewOrchestrator(p)

	dataContext := "Dataset Shape: 10 rows × 2 columns"
	got, err := o.AnalyzeData(context.Background(), dataContext, "retrieved block")
	if err != nil {
		t.Fatal(err)
	}
	if got != "insights" {
		t.Errorf("answer got %q", got)
	}
	if !strings.Contains(p.userPrompt, dataContext) {
		t.Error("prompt missing the data context")
	}
	if !strings.Contains(p.userPrompt, "retrieved block") {
		t.Error("prompt missing the retrieval context")
	}
	if !strings.Contains(p.userPrompt, "Executive Summary") {
		t.Error("prompt missing the comprehensive structure")
	}
	if p.systemPrompt == "" {
		t.Error("system prompt not forwarded")
	}
}

func TestAnswerQuestion_EmptyContextFallsBack(t *testing.T) {
	p := &recordingProvider{reply: "answer"}
	o := NewOrchestrator(p)

	_, err := o.AnswerQuestion(context.Background(), "why did sales dip?", "data", "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(p.userPrompt, NoAdditionalContext) {
		t.Errorf("empty rag context should substitute %q, got:\n%s", NoAdditionalContext, p.userPrompt)
	}
	if !strings.Contains(p.userPrompt, "QUESTION: why did sales dip?") {
		t.Error("prompt missing the question line")
	}
}

func TestCustomAnalysis_CarriesRequest(t *testing.T) {
	p := &recordingProvider{reply: "ok"}
	o := NewOrchestrator(p)

	_, err := o.CustomAnalysis(context.Background(), "cohort retention breakdown", "data", "ctx")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(p.userPrompt, "ANALYSIS REQUEST: cohort retention breakdown") {
		t.Error("prompt missing the analysis request line")
	}
}

func TestSuggestVisualizations(t *testing.T) {
	p := &recordingProvider{reply: "charts"}
	o := NewOrchestrator(p)

	_, err := o.SuggestVisualizations(context.Background(), "profile text")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(p.userPrompt, "profile text") {
		t.Error("prompt missing the data profile")
	}
	if !strings.Contains(p.userPrompt, "Chart type") {
		t.Error("prompt missing the suggestion format")
	}
}

func TestAnalyzeImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.png")
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	if err := os.WriteFile(path, payload, 0600); err != nil {
		t.Fatal(err)
	}

	p := &recordingProvider{reply: "a bar chart"}
	o := NewOrchestrator(p)

	t.Run("encodes the file", func(t *testing.T) {
		got, err := o.AnalyzeImage(context.Background(), path, "what is this?")
		if err != nil {
			t.Fatal(err)
		}
		if got != "a bar chart" {
			t.Errorf("answer got %q", got)
		}
		if p.imageB64 != base64.StdEncoding.EncodeToString(payload) {
			t.Error("image not base64-encoded as expected")
		}
		if p.userPrompt != "what is this?" {
			t.Errorf("prompt got %q", p.userPrompt)
		}
	})

	t.Run("defaults the prompt", func(t *testing.T) {
		if _, err := o.AnalyzeImage(context.Background(), path, ""); err != nil {
			t.Fatal(err)
		}
		if p.userPrompt != defaultImagePrompt {
			t.Errorf("prompt got %q, want default", p.userPrompt)
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, err := o.AnalyzeImage(context.Background(), filepath.Join(dir, "nope.png"), ""); err == nil {
			t.Error("expected error for missing image")
		}
	})
}
