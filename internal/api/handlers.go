package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rgehrsitz/jptax/internal/breakeven"
	"github.com/rgehrsitz/jptax/internal/config"
	"github.com/rgehrsitz/jptax/internal/domain"
)

// CompareRequest is the body of POST /api/v1/compare
type CompareRequest struct {
	Name       string          `json:"name"`
	Input      domain.TaxInput `json:"input"`
	Templates  []string        `json:"templates"`
	Transforms []string        `json:"transforms"`
}

// SolveRequest is the body of POST /api/v1/solve
type SolveRequest struct {
	Input  domain.TaxInput  `json:"input"`
	Target string           `json:"target"`
	Goal   breakeven.Goal   `json:"goal"`
	Value  decimal.Decimal  `json:"value"`
	Min    *decimal.Decimal `json:"min,omitempty"`
	Max    *decimal.Decimal `json:"max,omitempty"`
}

// TemplateInfo describes one built-in what-if template
type TemplateInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	s.success(w, r, s.engine.Rules)
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	registry := s.compare.TemplateRegistry
	out := []TemplateInfo{}
	for _, name := range registry.List() {
		t, _ := registry.Get(name)
		out = append(out, TemplateInfo{Name: t.Name, Description: t.Description})
	}
	s.success(w, r, out)
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var input domain.TaxInput
	if !s.decode(w, r, &input) {
		return
	}
	if !s.validate(w, r, input) {
		return
	}

	res, err := s.engine.RunScenario(r.Context(), &domain.Scenario{Name: "input", Input: input})
	if err != nil {
		s.fail(w, r, http.StatusServiceUnavailable, "canceled", err.Error())
		return
	}
	s.success(w, r, res)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !s.validate(w, r, req.Input) {
		return
	}
	if len(req.Templates) == 0 && len(req.Transforms) == 0 {
		s.failWithDetails(w, r, http.StatusBadRequest, "validation_error", "payload validation failed",
			map[string]any{"fields": []FieldIssue{{Field: "templates", Reason: "at least one template or transform is required"}}})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Base"
	}
	base := &domain.Scenario{Name: name, Input: req.Input}

	set, err := s.compare.CompareScenario(r.Context(), base, req.Templates, req.Transforms)
	if err != nil {
		if r.Context().Err() != nil {
			s.fail(w, r, http.StatusServiceUnavailable, "canceled", err.Error())
			return
		}
		s.fail(w, r, http.StatusBadRequest, "invalid_comparison", err.Error())
		return
	}
	s.success(w, r, set)
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !s.validate(w, r, req.Input) {
		return
	}

	res, err := s.solver.Solve(r.Context(), breakeven.Request{
		BaseScenario: &domain.Scenario{Name: "input", Input: req.Input},
		Target:       req.Target,
		Goal:         req.Goal,
		GoalValue:    req.Value,
		Constraints:  breakeven.Constraints{Min: req.Min, Max: req.Max},
	})
	if err != nil {
		var be *breakeven.BreakEvenError
		switch {
		case errors.As(err, &be) && be.Operation == "solve":
			s.fail(w, r, http.StatusUnprocessableEntity, "unreachable_goal", err.Error())
		case errors.As(err, &be):
			s.fail(w, r, http.StatusBadRequest, "invalid_solve", err.Error())
		default:
			s.fail(w, r, http.StatusServiceUnavailable, "canceled", err.Error())
		}
		return
	}
	s.success(w, r, res)
}

// decode reads a single JSON document into dst, writing a 400 or 413 on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			s.fail(w, r, http.StatusRequestEntityTooLarge, "payload_too_large",
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
		case errors.Is(err, io.EOF):
			s.fail(w, r, http.StatusBadRequest, "invalid_json", "request body is empty")
		default:
			s.fail(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		}
		return false
	}
	if dec.More() {
		s.fail(w, r, http.StatusBadRequest, "invalid_json", "request body must contain a single JSON object")
		return false
	}
	return true
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request, input domain.TaxInput) bool {
	err := config.ValidateInput(input)
	if err == nil {
		return true
	}

	issues := []FieldIssue{}
	for _, ve := range config.ValidationErrors(err) {
		issues = append(issues, FieldIssue{Field: ve.Field, Reason: ve.Reason})
	}
	s.logger.Debug("rejected input", zap.Error(err), zap.String("request_id", GetRequestID(r.Context())))
	s.failWithDetails(w, r, http.StatusBadRequest, "validation_error", "payload validation failed",
		map[string]any{"fields": issues})
	return false
}
