package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrAnalysisFailed = errors.New("image analysis failed")

type AnalysisRequest struct {
	ImageURI string
	Type     int
	Volume   int
	Color    int
}

type AnalysisResult struct {
	Type            int
	Volume          int
	Color           int
	Details         string
	Recommendations string
}

type ImageAnalyzer interface {
	Analyze(ctx context.Context, request AnalysisRequest) (AnalysisResult, error)
}

type AnalysisService struct {
	analyzer ImageAnalyzer
}

func NewAnalysisService(analyzer ImageAnalyzer) *AnalysisService {
	if analyzer == nil {
		analyzer = RuleBasedAnalyzer{}
	}
	return &AnalysisService{analyzer: analyzer}
}

// Run analyzes the photo of rc and returns the composer URL that carries the
// result back.
func (service *AnalysisService) Run(ctx context.Context, rc ReturnContext) (string, error) {
	result, err := service.analyzer.Analyze(ctx, AnalysisRequest{
		ImageURI: rc.ImageURI,
		Type:     rc.Type,
		Volume:   rc.Volume,
		Color:    rc.Color,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	return ComposerReturnURL(rc, result), nil
}

// ComposerReturnURL echoes rc next to the analysis result so the composer can
// restore what the user had typed.
func ComposerReturnURL(rc ReturnContext, result AnalysisResult) string {
	values := rc.Encode()
	values.Set("type", strconv.Itoa(result.Type))
	values.Set("volume", strconv.Itoa(result.Volume))
	values.Set("color", strconv.Itoa(result.Color))
	values.Set("analysisDetails", result.Details)
	values.Set("recommendations", result.Recommendations)
	return "/entries/new?" + values.Encode()
}

// RuleBasedAnalyzer reads the classification the user already picked and
// explains it. It never looks at pixels.
type RuleBasedAnalyzer struct{}

var bristolTypeDescriptions = map[int]string{
	1: "Type 1: separate hard lumps, a sign of severe constipation.",
	2: "Type 2: lumpy and sausage-like, a sign of mild constipation.",
	3: "Type 3: sausage-shaped with surface cracks, within the normal range.",
	4: "Type 4: smooth and soft, the ideal stool form.",
	5: "Type 5: soft blobs with clear edges, lacking fibre.",
	6: "Type 6: mushy with ragged edges, a sign of mild diarrhea.",
	7: "Type 7: entirely liquid, a sign of diarrhea.",
}

var stoolColorDescriptions = map[int]string{
	1: "Brown color is normal.",
	2: "Dark brown color is usually normal and can follow iron-rich meals.",
	3: "Light brown color is usually normal.",
	4: "Yellow color can point to excess fat in the stool.",
	5: "Green color often follows leafy greens or fast transit.",
	6: "Black or red color can indicate bleeding in the digestive tract.",
}

func (RuleBasedAnalyzer) Analyze(ctx context.Context, request AnalysisRequest) (AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return AnalysisResult{}, err
	}

	typeDescription, ok := bristolTypeDescriptions[request.Type]
	if !ok {
		return AnalysisResult{}, fmt.Errorf("unknown stool type %d", request.Type)
	}
	colorDescription, ok := stoolColorDescriptions[request.Color]
	if !ok {
		return AnalysisResult{}, fmt.Errorf("unknown stool color %d", request.Color)
	}

	return AnalysisResult{
		Type:            request.Type,
		Volume:          request.Volume,
		Color:           request.Color,
		Details:         typeDescription + " " + colorDescription,
		Recommendations: strings.Join(recommendationsFor(request.Type, request.Color), " "),
	}, nil
}

func recommendationsFor(stoolType int, color int) []string {
	recommendations := make([]string, 0, 3)
	switch {
	case stoolType <= 2:
		recommendations = append(recommendations, "Drink more water and add fibre-rich foods.")
	case stoolType >= 6:
		recommendations = append(recommendations, "Stay hydrated and replace lost electrolytes.")
	default:
		recommendations = append(recommendations, "Keep up your current diet and hydration.")
	}
	switch color {
	case 4:
		recommendations = append(recommendations, "Mention recurring yellow stools to your doctor.")
	case 6:
		recommendations = append(recommendations, "Contact a doctor promptly if this color persists.")
	}
	if stoolType == 7 {
		recommendations = append(recommendations, "Seek medical advice if diarrhea lasts more than two days.")
	}
	return recommendations
}
