package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/grantflow/formkit/pkg/model"
	"github.com/grantflow/formkit/pkg/resolver"
	"github.com/grantflow/formkit/pkg/schema"
)

// BudgetRequest asks for funding against a project. The resolved business
// fields ride next to CustomData, which preserves the raw answer set
// verbatim so nothing is lost when resolution guesses wrong.
type BudgetRequest struct {
	ProjectID   string          `json:"projectId"`
	NGOID       string          `json:"ngoId"`
	Title       string          `json:"title"`
	Details     string          `json:"details"`
	TotalBudget float64         `json:"totalBudget"`
	CustomData  model.AnswerSet `json:"customData"`
}

// MilestoneRelease asks for one tranche of an approved budget.
type MilestoneRelease struct {
	BudgetRequestID string          `json:"rfqId"`
	NGOID           string          `json:"ngoId"`
	Title           string          `json:"title"`
	Amount          float64         `json:"amount"`
	CustomData      model.AnswerSet `json:"customData"`
}

// ExpenseReport accounts for how a released tranche was spent.
type ExpenseReport struct {
	MilestoneReleaseID string          `json:"rfpId"`
	NGOID              string          `json:"ngoId"`
	Title              string          `json:"title"`
	Amount             float64         `json:"amount"`
	ProofURL           string          `json:"proofUrl,omitempty"`
	CustomData         model.AnswerSet `json:"customData"`
}

// BudgetRequestFromAnswers extracts the business fields from a submitted
// answer set using the budget-request vocabulary. The caller fills in the
// record linkage ids afterwards.
func BudgetRequestFromAnswers(fields []schema.Descriptor, answers model.AnswerSet) BudgetRequest {
	resolved := resolver.ResolveAll(fields, answers, resolver.BudgetRequestConcepts())
	return BudgetRequest{
		Title:       resolved[resolver.ConceptTitle].String(),
		Details:     resolved[resolver.ConceptDetail].String(),
		TotalBudget: resolved[resolver.ConceptAmount].Number(),
		CustomData:  answers.Clone(),
	}
}

// MilestoneReleaseFromAnswers extracts the business fields from a submitted
// answer set using the milestone-release vocabulary.
func MilestoneReleaseFromAnswers(fields []schema.Descriptor, answers model.AnswerSet) MilestoneRelease {
	resolved := resolver.ResolveAll(fields, answers, resolver.MilestoneReleaseConcepts())
	return MilestoneRelease{
		Title:      resolved[resolver.ConceptTitle].String(),
		Amount:     resolved[resolver.ConceptAmount].Number(),
		CustomData: answers.Clone(),
	}
}

// SubmitBudgetRequest files a new budget request.
func (c *Client) SubmitBudgetRequest(ctx context.Context, request BudgetRequest) error {
	if strings.TrimSpace(request.ProjectID) == "" {
		return errors.New("client: project id is required")
	}
	_, err := c.do(ctx, http.MethodPost, "/api/rfqs", nil, request)
	return err
}

// SubmitMilestoneRelease files a release request against an approved budget
// request.
func (c *Client) SubmitMilestoneRelease(ctx context.Context, release MilestoneRelease) error {
	if strings.TrimSpace(release.BudgetRequestID) == "" {
		return errors.New("client: budget request id is required")
	}
	_, err := c.do(ctx, http.MethodPost, "/api/rfps", nil, release)
	return err
}

// SubmitExpenseReport files spend accounting against a released tranche.
func (c *Client) SubmitExpenseReport(ctx context.Context, report ExpenseReport) error {
	if strings.TrimSpace(report.MilestoneReleaseID) == "" {
		return errors.New("client: milestone release id is required")
	}
	_, err := c.do(ctx, http.MethodPost, "/api/utilizations", nil, report)
	return err
}

// ApproveBudgetRequest moves a pending budget request one step through the
// approval chain.
func (c *Client) ApproveBudgetRequest(ctx context.Context, id string, asAdmin bool) error {
	return c.approve(ctx, "/api/rfqs", id, asAdmin)
}

// ApproveMilestoneRelease moves a pending release one step through the
// approval chain.
func (c *Client) ApproveMilestoneRelease(ctx context.Context, id string, asAdmin bool) error {
	return c.approve(ctx, "/api/rfps", id, asAdmin)
}

func (c *Client) approve(ctx context.Context, base, id string, asAdmin bool) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("client: record id is required")
	}
	step := "approve-pm"
	if asAdmin {
		step = "approve-admin"
	}
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%s/%s", base, id, step), nil, nil)
	return err
}
