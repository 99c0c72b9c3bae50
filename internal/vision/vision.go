// Package vision implements the image-analysis sibling tool: it answers a
// clinical question about a batch of base64-encoded medical images by
// calling an injected vision model. Unlike the document-analysis client it
// has a single request/response shape with no endpoint fallback and no SSE.
package vision

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	app_errors "med-mcp/internal/errors"
)

// DefaultMaxImages caps one call's batch for token efficiency.
const DefaultMaxImages = 3

// Caller is the vision-model boundary: a prompt plus base64 PNG images in,
// the model's textual findings out.
type Caller interface {
	Call(ctx context.Context, prompt string, imagesBase64 []string) (string, error)
}

// ImageRecord is one image in a batch. Only ImageBase64 is required;
// records without it are skipped rather than failing the whole batch.
type ImageRecord struct {
	ImageBase64 string `json:"image_base64"`
	PatientID   string `json:"patient_id,omitempty"`
	Modality    string `json:"modality,omitempty"`
	Context     string `json:"context,omitempty"`
}

// Input is one vision-analysis request.
type Input struct {
	// AnalysisPrompt is the specific clinical question to answer.
	AnalysisPrompt string        `validate:"required"`
	Images         []ImageRecord `validate:"required,min=1"`
}

// Findings is the structured outcome of one vision-analysis call.
type Findings struct {
	ImagesAnalyzed   int      `json:"images_analyzed"`
	ClinicalQuestion string   `json:"clinical_question"`
	VisionAnalysis   string   `json:"vision_analysis"`
	PatientContexts  []string `json:"patient_contexts"`
}

// Analyzer validates vision inputs and runs them through a Caller.
type Analyzer struct {
	caller    Caller
	validate  *validator.Validate
	maxImages int
	logger    *logrus.Entry
}

// NewAnalyzer creates an Analyzer. A non-positive maxImages selects
// DefaultMaxImages.
func NewAnalyzer(caller Caller, maxImages int) *Analyzer {
	if maxImages <= 0 {
		maxImages = DefaultMaxImages
	}
	return &Analyzer{
		caller:    caller,
		validate:  validator.New(),
		maxImages: maxImages,
		logger:    logrus.WithField("component", "vision_analyzer"),
	}
}

// Analyze answers the clinical question over at most maxImages usable
// images. Records missing image_base64 are skipped; an empty usable set is
// an input error, not a model call.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*Findings, error) {
	if err := a.validate.Struct(in); err != nil {
		return nil, app_errors.Newf(app_errors.ErrInvalidInput, "invalid vision input: %v", err)
	}

	batch := in.Images
	if len(batch) > a.maxImages {
		batch = batch[:a.maxImages]
	}
	usable := lo.Filter(batch, func(img ImageRecord, _ int) bool {
		return img.ImageBase64 != ""
	})
	if len(usable) == 0 {
		return nil, app_errors.New(app_errors.ErrInvalidInput,
			"no valid images in batch (missing image_base64)")
	}

	images := lo.Map(usable, func(img ImageRecord, _ int) string {
		return img.ImageBase64
	})
	contexts := lo.Map(usable, func(img ImageRecord, idx int) string {
		return imageContext(img, idx)
	})

	a.logger.WithFields(logrus.Fields{
		"images_requested": len(in.Images),
		"images_analyzed":  len(usable),
	}).Debug("Running vision analysis")

	analysis, err := a.caller.Call(ctx, buildPrompt(in.AnalysisPrompt, contexts), images)
	if err != nil {
		return nil, fmt.Errorf("vision analysis failed: %w", err)
	}

	return &Findings{
		ImagesAnalyzed:   len(usable),
		ClinicalQuestion: in.AnalysisPrompt,
		VisionAnalysis:   analysis,
		PatientContexts:  contexts,
	}, nil
}

// imageContext builds the per-image context line shown to the model.
func imageContext(img ImageRecord, idx int) string {
	parts := []string{fmt.Sprintf("Image %d", idx+1)}
	if img.PatientID != "" {
		parts = append(parts, "Patient: "+img.PatientID)
	}
	if img.Modality != "" {
		parts = append(parts, "Modality: "+img.Modality)
	}
	if img.Context != "" {
		parts = append(parts, img.Context)
	}
	return strings.Join(parts, " | ")
}

func buildPrompt(question string, contexts []string) string {
	var b strings.Builder
	b.WriteString("You are analyzing medical images for clinical decision support.\n\n")
	b.WriteString(question)
	b.WriteString("\n\nContext for each image:\n")
	for _, ctx := range contexts {
		b.WriteString("- ")
		b.WriteString(ctx)
		b.WriteString("\n")
	}
	b.WriteString(`
For each image, provide:
1. Patient ID (if provided)
2. Key visual findings
3. Direct answer to the clinical question
4. Any critical findings requiring immediate attention

Format your response as structured findings for each image.`)
	return b.String()
}
