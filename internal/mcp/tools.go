// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Lets AI agents read and edit interval and point tiers

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harper/tiers/internal/models"
	"github.com/harper/tiers/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerListAnnotationsTool()
	s.registerCreateAnnotationTool()
	s.registerAddTierTool()
	s.registerGetTierTool()
	s.registerInsertIntervalTool()
	s.registerSplitIntervalTool()
	s.registerRemoveBoundaryTool()
	s.registerAddPointTool()
}

// TierSummary describes a tier without its markers.
type TierSummary struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Markers int    `json:"markers"`
}

// AnnotationOutput defines output for annotation tools.
type AnnotationOutput struct {
	Name  string        `json:"name"`
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Tiers []TierSummary `json:"tiers"`
}

// ListAnnotationsOutput defines output for list_annotations tool.
type ListAnnotationsOutput struct {
	Annotations []AnnotationOutput `json:"annotations"`
	Count       int                `json:"count"`
}

// IntervalOutput is one labeled interval.
type IntervalOutput struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Label string  `json:"label"`
}

// PointOutput is one labeled point or boundary.
type PointOutput struct {
	Index int     `json:"index"`
	Time  float64 `json:"time"`
	Label string  `json:"label"`
}

// TierOutput defines output for tier tools.
type TierOutput struct {
	Annotation string           `json:"annotation"`
	Name       string           `json:"name"`
	Kind       string           `json:"kind"`
	Start      float64          `json:"start"`
	End        float64          `json:"end"`
	Intervals  []IntervalOutput `json:"intervals,omitempty"`
	Points     []PointOutput    `json:"points,omitempty"`
}

func annotationOutput(a *models.Annotation) AnnotationOutput {
	out := AnnotationOutput{Name: a.Name, Start: a.Start, End: a.End, Tiers: []TierSummary{}}
	for _, t := range a.Tiers {
		out.Tiers = append(out.Tiers, TierSummary{Name: t.Name, Kind: string(t.Kind), Markers: t.Len()})
	}
	return out
}

func tierOutput(a *models.Annotation, t *models.Tier) TierOutput {
	out := TierOutput{Annotation: a.Name, Name: t.Name, Kind: string(t.Kind), Start: t.Start, End: t.End}
	if t.Kind == models.IntervalTier {
		i := 0
		for iv := range t.Intervals() {
			out.Intervals = append(out.Intervals, IntervalOutput{Index: i, Start: iv.Start.Time, End: iv.End.Time, Label: iv.Label()})
			i++
		}
		return out
	}
	for i, p := range t.Positions() {
		out.Points = append(out.Points, PointOutput{Index: i, Time: p.Time, Label: p.Label})
	}
	return out
}

// textResult renders output as indented JSON text content.
func textResult(output any) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

func (s *Server) loadAnnotation(name string) (*models.Annotation, error) {
	if err := models.ValidateName(name); err != nil {
		return nil, err
	}
	a, err := s.repo.GetAnnotationByName(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("annotation '%s' not found", name)
		}
		return nil, fmt.Errorf("failed to load annotation: %w", err)
	}
	return a, nil
}

// editTier loads a tier, applies edit, and saves the result. Nothing is
// saved when edit fails.
func (s *Server) editTier(annotation, tier, action string, edit func(*models.Tier) error) (TierOutput, error) {
	a, err := s.loadAnnotation(annotation)
	if err != nil {
		return TierOutput{}, err
	}
	t, err := a.TierByName(tier)
	if err != nil {
		return TierOutput{}, fmt.Errorf("tier '%s' not found in '%s'", tier, annotation)
	}
	if err := edit(t); err != nil {
		s.log.Debug().Err(err).Str("annotation", annotation).Str("tier", tier).Msg(action + " rejected")
		return TierOutput{}, fmt.Errorf("cannot %s: %w", action, err)
	}
	if err := s.repo.SaveTier(a.ID, t); err != nil {
		return TierOutput{}, fmt.Errorf("failed to save tier: %w", err)
	}
	s.log.Debug().Str("annotation", annotation).Str("tier", tier).Msg(action)
	return tierOutput(a, t), nil
}

func (s *Server) listAnnotations() (ListAnnotationsOutput, error) {
	list, err := s.repo.ListAnnotations()
	if err != nil {
		return ListAnnotationsOutput{}, fmt.Errorf("failed to list annotations: %w", err)
	}
	out := ListAnnotationsOutput{Annotations: make([]AnnotationOutput, len(list)), Count: len(list)}
	for i, a := range list {
		out.Annotations[i] = annotationOutput(a)
	}
	return out, nil
}

// ListAnnotationsInput is empty but required for type.
type ListAnnotationsInput struct{}

func (s *Server) registerListAnnotationsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_annotations",
		Description: "List all annotations with their time spans and tiers.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleListAnnotations)
}

func (s *Server) handleListAnnotations(_ context.Context, req *mcp.CallToolRequest, input ListAnnotationsInput) (*mcp.CallToolResult, ListAnnotationsOutput, error) {
	output, err := s.listAnnotations()
	if err != nil {
		return nil, ListAnnotationsOutput{}, err
	}
	return textResult(output), output, nil
}

// CreateAnnotationInput defines input for create_annotation tool.
type CreateAnnotationInput struct {
	Name  string  `json:"name"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (s *Server) registerCreateAnnotationTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_annotation",
		Description: "Create an empty annotation covering a recording from start to end seconds.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Annotation name, usually the recording name (e.g., 'utt01')",
				},
				"start": map[string]interface{}{
					"type":        "number",
					"description": "Span start in seconds",
				},
				"end": map[string]interface{}{
					"type":        "number",
					"description": "Span end in seconds",
				},
			},
			"required": []string{"name", "end"},
		},
	}, s.handleCreateAnnotation)
}

func (s *Server) handleCreateAnnotation(_ context.Context, req *mcp.CallToolRequest, input CreateAnnotationInput) (*mcp.CallToolResult, AnnotationOutput, error) {
	if err := models.ValidateName(input.Name); err != nil {
		return nil, AnnotationOutput{}, err
	}
	if err := models.ValidateSpan(input.Start, input.End); err != nil {
		return nil, AnnotationOutput{}, err
	}

	a := models.NewAnnotation(input.Name, input.Start, input.End)
	if err := s.repo.CreateAnnotation(a); err != nil {
		return nil, AnnotationOutput{}, fmt.Errorf("failed to create annotation: %w", err)
	}

	output := annotationOutput(a)
	return textResult(output), output, nil
}

// AddTierInput defines input for add_tier tool.
type AddTierInput struct {
	Annotation string `json:"annotation"`
	Tier       string `json:"tier"`
	Kind       string `json:"kind"`
}

func (s *Server) registerAddTierTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_tier",
		Description: "Add a point or interval tier to an annotation. Interval tiers start as one empty interval covering the span.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"annotation": map[string]interface{}{
					"type":        "string",
					"description": "Annotation name",
				},
				"tier": map[string]interface{}{
					"type":        "string",
					"description": "New tier name (e.g., 'words', 'phones', 'tones')",
				},
				"kind": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"point", "interval"},
					"description": "Tier kind",
				},
			},
			"required": []string{"annotation", "tier", "kind"},
		},
	}, s.handleAddTier)
}

func (s *Server) handleAddTier(_ context.Context, req *mcp.CallToolRequest, input AddTierInput) (*mcp.CallToolResult, TierOutput, error) {
	kind, err := models.ParseTierKind(input.Kind)
	if err != nil {
		return nil, TierOutput{}, err
	}
	a, err := s.loadAnnotation(input.Annotation)
	if err != nil {
		return nil, TierOutput{}, err
	}
	t, err := a.AddTier(input.Tier, kind)
	if err != nil {
		return nil, TierOutput{}, fmt.Errorf("cannot add tier: %w", err)
	}
	if err := s.repo.SaveTier(a.ID, t); err != nil {
		return nil, TierOutput{}, fmt.Errorf("failed to save tier: %w", err)
	}

	output := tierOutput(a, t)
	return textResult(output), output, nil
}

// TierInput identifies one tier of one annotation.
type TierInput struct {
	Annotation string `json:"annotation"`
	Tier       string `json:"tier"`
}

var tierProperties = map[string]interface{}{
	"annotation": map[string]interface{}{
		"type":        "string",
		"description": "Annotation name",
	},
	"tier": map[string]interface{}{
		"type":        "string",
		"description": "Tier name",
	},
}

// withTierProperties adds the annotation and tier properties to extra.
func withTierProperties(extra map[string]interface{}) map[string]interface{} {
	props := make(map[string]interface{}, len(tierProperties)+len(extra))
	for k, v := range tierProperties {
		props[k] = v
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

func (s *Server) registerGetTierTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_tier",
		Description: "Get a tier with all its intervals (interval tiers) or points (point tiers), in time order.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": withTierProperties(nil),
			"required":   []string{"annotation", "tier"},
		},
	}, s.handleGetTier)
}

func (s *Server) handleGetTier(_ context.Context, req *mcp.CallToolRequest, input TierInput) (*mcp.CallToolResult, TierOutput, error) {
	a, err := s.loadAnnotation(input.Annotation)
	if err != nil {
		return nil, TierOutput{}, err
	}
	t, err := a.TierByName(input.Tier)
	if err != nil {
		return nil, TierOutput{}, fmt.Errorf("tier '%s' not found in '%s'", input.Tier, input.Annotation)
	}

	output := tierOutput(a, t)
	return textResult(output), output, nil
}

// InsertIntervalInput defines input for insert_interval tool.
type InsertIntervalInput struct {
	Annotation string  `json:"annotation"`
	Tier       string  `json:"tier"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Label      string  `json:"label,omitempty"`
}

func (s *Server) registerInsertIntervalTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "insert_interval",
		Description: "Insert a labeled interval into an interval tier. Fails if an existing boundary lies strictly between start and end.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": withTierProperties(map[string]interface{}{
				"start": map[string]interface{}{
					"type":        "number",
					"description": "Interval start in seconds",
				},
				"end": map[string]interface{}{
					"type":        "number",
					"description": "Interval end in seconds, greater than start",
				},
				"label": map[string]interface{}{
					"type":        "string",
					"description": "Interval label (e.g., a word or phone)",
				},
			}),
			"required": []string{"annotation", "tier", "start", "end"},
		},
	}, s.handleInsertInterval)
}

func (s *Server) handleInsertInterval(_ context.Context, req *mcp.CallToolRequest, input InsertIntervalInput) (*mcp.CallToolResult, TierOutput, error) {
	output, err := s.editTier(input.Annotation, input.Tier, "insert interval", func(t *models.Tier) error {
		_, _, err := t.InsertInterval(input.Start, input.End, input.Label)
		return err
	})
	if err != nil {
		return nil, TierOutput{}, err
	}
	return textResult(output), output, nil
}

// SplitIntervalInput defines input for split_interval tool.
type SplitIntervalInput struct {
	Annotation string  `json:"annotation"`
	Tier       string  `json:"tier"`
	Time       float64 `json:"time"`
	Label      string  `json:"label,omitempty"`
}

func (s *Server) registerSplitIntervalTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "split_interval",
		Description: "Add one boundary inside an interval, splitting it in two. The label applies to the new right-hand interval.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": withTierProperties(map[string]interface{}{
				"time": map[string]interface{}{
					"type":        "number",
					"description": "Boundary time in seconds, strictly inside the span",
				},
				"label": map[string]interface{}{
					"type":        "string",
					"description": "Label of the new right-hand interval",
				},
			}),
			"required": []string{"annotation", "tier", "time"},
		},
	}, s.handleSplitInterval)
}

func (s *Server) handleSplitInterval(_ context.Context, req *mcp.CallToolRequest, input SplitIntervalInput) (*mcp.CallToolResult, TierOutput, error) {
	output, err := s.editTier(input.Annotation, input.Tier, "split interval", func(t *models.Tier) error {
		_, err := t.SplitAt(input.Time, input.Label)
		return err
	})
	if err != nil {
		return nil, TierOutput{}, err
	}
	return textResult(output), output, nil
}

// RemoveBoundaryInput defines input for remove_boundary tool.
type RemoveBoundaryInput struct {
	Annotation string `json:"annotation"`
	Tier       string `json:"tier"`
	Index      int    `json:"index"`
}

func (s *Server) registerRemoveBoundaryTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "remove_boundary",
		Description: "Remove an inner boundary of an interval tier, merging the intervals on either side. Boundary i is the start of interval i; the first and last boundaries are fixed.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": withTierProperties(map[string]interface{}{
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Boundary index",
				},
			}),
			"required": []string{"annotation", "tier", "index"},
		},
	}, s.handleRemoveBoundary)
}

func (s *Server) handleRemoveBoundary(_ context.Context, req *mcp.CallToolRequest, input RemoveBoundaryInput) (*mcp.CallToolResult, TierOutput, error) {
	output, err := s.editTier(input.Annotation, input.Tier, "remove boundary", func(t *models.Tier) error {
		_, err := t.RemoveBoundaryAt(input.Index)
		return err
	})
	if err != nil {
		return nil, TierOutput{}, err
	}
	return textResult(output), output, nil
}

// AddPointInput defines input for add_point tool.
type AddPointInput struct {
	Annotation string  `json:"annotation"`
	Tier       string  `json:"tier"`
	Time       float64 `json:"time"`
	Label      string  `json:"label,omitempty"`
}

func (s *Server) registerAddPointTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_point",
		Description: "Add a labeled point to a point tier. A point already at the same time is relabeled.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": withTierProperties(map[string]interface{}{
				"time": map[string]interface{}{
					"type":        "number",
					"description": "Point time in seconds",
				},
				"label": map[string]interface{}{
					"type":        "string",
					"description": "Point label (e.g., 'H*')",
				},
			}),
			"required": []string{"annotation", "tier", "time"},
		},
	}, s.handleAddPoint)
}

func (s *Server) handleAddPoint(_ context.Context, req *mcp.CallToolRequest, input AddPointInput) (*mcp.CallToolResult, TierOutput, error) {
	output, err := s.editTier(input.Annotation, input.Tier, "add point", func(t *models.Tier) error {
		_, err := t.AddPoint(input.Time, input.Label)
		return err
	})
	if err != nil {
		return nil, TierOutput{}, err
	}
	return textResult(output), output, nil
}
