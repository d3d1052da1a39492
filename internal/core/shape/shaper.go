// Package shape maps pipeline output onto the external response contract.
// Everything here is pure: no I/O and no state.
package shape

import (
	"errors"
	"strings"

	"github.com/agenthands/medwise/internal/core/apperr"
	"github.com/agenthands/medwise/internal/core/model"
	"github.com/agenthands/medwise/internal/core/translate"
)

type DrugResponse struct {
	Brand        model.BrandView     `json:"brand"`
	Generic      *model.GenericView  `json:"generic"`
	Alternatives []model.GenericView `json:"alternatives"`
}

type AnswerResponse struct {
	Answer string `json:"answer"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func ValidateQuestion(question string) (string, error) {
	return required("question", question, "No question provided")
}

func ValidateDrugName(name string) (string, error) {
	return required("drugName", name, "No drug name provided")
}

func required(field, value, message string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", &apperr.ValidationError{Field: field, Message: message}
	}
	return v, nil
}

// Drug shapes an aggregator result. A nil comparison is the not-found
// outcome for name.
func Drug(name string, c *model.Comparison) (DrugResponse, error) {
	if c == nil {
		return DrugResponse{}, &apperr.NotFoundError{Entity: "drug", Key: name}
	}

	resp := DrugResponse{
		Brand:        c.Brand,
		Alternatives: make([]model.GenericView, 0, len(c.Alternatives)),
	}
	resp.Brand.SideEffects = sideEffects(c.Brand.SideEffects)
	if c.Generic != nil {
		g := *c.Generic
		g.SideEffects = sideEffects(g.SideEffects)
		resp.Generic = &g
	}
	for _, alt := range c.Alternatives {
		alt.SideEffects = sideEffects(alt.SideEffects)
		resp.Alternatives = append(resp.Alternatives, alt)
	}
	return resp, nil
}

func Answer(res *translate.Result) (AnswerResponse, error) {
	if res == nil || strings.TrimSpace(res.Answer) == "" {
		return AnswerResponse{}, &apperr.TranslationError{Stage: translate.StageAnswer, Err: errors.New("no answer produced")}
	}
	return AnswerResponse{Answer: strings.TrimSpace(res.Answer)}, nil
}

// Error maps err onto its status class and the error body.
func Error(err error) (apperr.Class, ErrorResponse) {
	if err == nil {
		return apperr.ClassServer, ErrorResponse{Error: "unknown error"}
	}
	return apperr.Classify(err), ErrorResponse{Error: err.Error()}
}

func sideEffects(se []model.SideEffect) []model.SideEffect {
	out := make([]model.SideEffect, len(se))
	copy(out, se)
	return out
}
