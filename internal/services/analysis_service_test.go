package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
)

type stubImageAnalyzer struct {
	result  AnalysisResult
	err     error
	request AnalysisRequest
}

func (stub *stubImageAnalyzer) Analyze(_ context.Context, request AnalysisRequest) (AnalysisResult, error) {
	stub.request = request
	return stub.result, stub.err
}

func TestAnalysisServiceRunBuildsComposerReturnURL(t *testing.T) {
	analyzer := &stubImageAnalyzer{result: AnalysisResult{Type: 2, Volume: 1, Color: 3, Details: "a & b", Recommendations: "drink 100% water"}}
	service := NewAnalysisService(analyzer)

	rc := ReturnContext{ImageURI: "/photos/users/1/a.jpg", Name: "n", Type: 4, Volume: 2, Feeling: 1, Color: 1}
	next, err := service.Run(context.Background(), rc)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if analyzer.request.ImageURI != rc.ImageURI || analyzer.request.Type != 4 {
		t.Fatalf("expected analyzer to receive context, got %#v", analyzer.request)
	}
	if !strings.HasPrefix(next, "/entries/new?") {
		t.Fatalf("expected composer url, got %q", next)
	}

	params, err := ParseComposerParams(strings.TrimPrefix(next, "/entries/new?"))
	if err != nil {
		t.Fatalf("parse return url: %v", err)
	}
	if *params.ImageURI != rc.ImageURI || *params.Type != 2 || *params.Volume != 1 || *params.Color != 3 {
		t.Fatalf("unexpected returned params %#v", params)
	}
	if *params.AnalysisDetails != "a & b" || *params.Recommendations != "drink 100% water" {
		t.Fatalf("expected analysis text to round-trip, got %q/%q", *params.AnalysisDetails, *params.Recommendations)
	}
}

func TestAnalysisServiceRunEchoesReturnContext(t *testing.T) {
	service := NewAnalysisService(&stubImageAnalyzer{result: AnalysisResult{Type: 6, Volume: 3, Color: 2, Details: "loose"}})

	rc := ReturnContext{ImageURI: "/photos/users/1/a.jpg", Name: "After coffee", Type: 4, Volume: 2, Feeling: 3, Color: 1, Notes: "felt rushed", Duration: 80}
	next, err := service.Run(context.Background(), rc)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	params, err := ParseComposerParams(strings.TrimPrefix(next, "/entries/new?"))
	if err != nil {
		t.Fatalf("parse return url: %v", err)
	}
	if params.Restore == nil {
		t.Fatalf("expected return context in %q", next)
	}
	if *params.Restore != rc {
		t.Fatalf("expected restored context %#v, got %#v", rc, *params.Restore)
	}
}

func TestAnalysisServiceRunWrapsAnalyzerErrors(t *testing.T) {
	service := NewAnalysisService(&stubImageAnalyzer{err: errors.New("model offline")})

	_, err := service.Run(context.Background(), ReturnContext{ImageURI: "x", Type: 4, Volume: 2, Feeling: 1, Color: 1})
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got %v", err)
	}
}

func TestRuleBasedAnalyzerDescribesTypeAndColor(t *testing.T) {
	result, err := RuleBasedAnalyzer{}.Analyze(context.Background(), AnalysisRequest{ImageURI: "x", Type: 1, Volume: 2, Color: 6})
	if err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}
	if !strings.Contains(result.Details, "Type 1") || !strings.Contains(result.Details, "Black or red") {
		t.Fatalf("unexpected details %q", result.Details)
	}
	if !strings.Contains(result.Recommendations, "fibre") || !strings.Contains(result.Recommendations, "doctor") {
		t.Fatalf("unexpected recommendations %q", result.Recommendations)
	}
	if result.Type != 1 || result.Volume != 2 || result.Color != 6 {
		t.Fatalf("expected classification to carry through, got %#v", result)
	}
}

func TestRuleBasedAnalyzerRejectsUnknownValues(t *testing.T) {
	if _, err := (RuleBasedAnalyzer{}).Analyze(context.Background(), AnalysisRequest{Type: 9, Color: 1}); err == nil {
		t.Fatal("expected unknown type to fail")
	}
	if _, err := (RuleBasedAnalyzer{}).Analyze(context.Background(), AnalysisRequest{Type: 4, Color: 0}); err == nil {
		t.Fatal("expected unknown color to fail")
	}
}

func TestRuleBasedAnalyzerHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (RuleBasedAnalyzer{}).Analyze(ctx, AnalysisRequest{Type: 4, Color: 1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestComposerReturnURLEscapesValues(t *testing.T) {
	rc := ReturnContext{ImageURI: "/photos/a b.jpg", Type: 4, Volume: 2, Feeling: 1, Color: 1, Notes: "a&b=c"}
	next := ComposerReturnURL(rc, AnalysisResult{Type: 4, Volume: 2, Color: 1, Details: "x=y&z"})
	values, err := url.ParseQuery(strings.TrimPrefix(next, "/entries/new?"))
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if values.Get("analysisDetails") != "x=y&z" || values.Get("imageUri") != "/photos/a b.jpg" || values.Get("currentNotes") != "a&b=c" {
		t.Fatalf("expected escaped values to round-trip, got %v", values)
	}
}
