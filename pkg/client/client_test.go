package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/grantflow/formkit/pkg/model"
	"github.com/grantflow/formkit/pkg/schema"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	header http.Header
	body   map[string]any
}

func testServer(t *testing.T, status int, response string) (*httptest.Server, *recordedRequest) {
	t.Helper()

	recorded := &recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorded.method = r.Method
		recorded.path = r.URL.Path
		recorded.query = r.URL.RawQuery
		recorded.header = r.Header.Clone()
		if r.Body != nil {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				recorded.body = body
			}
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server, recorded
}

func testDoc(t *testing.T) model.FormDocument {
	t.Helper()

	doc := model.NewFormDocument()
	doc.Title = "Budget Request"
	field := model.MustNewField(model.FieldTypeNumber)
	field.ID = "f-amount"
	field.Label = "Amount"
	doc.Fields = []model.Field{field}
	doc.Published = true
	return doc
}

func TestSaveFormSendsDocument(t *testing.T) {
	server, recorded := testServer(t, http.StatusCreated, `{}`)

	c, err := New(server.URL, WithToken("tok-1"), WithOrganization("org-9"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.SaveForm(context.Background(), testDoc(t)); err != nil {
		t.Fatalf("SaveForm: %v", err)
	}

	if recorded.method != http.MethodPost || recorded.path != "/api/forms" {
		t.Fatalf("request = %s %s", recorded.method, recorded.path)
	}
	if recorded.header.Get("Authorization") != "Bearer tok-1" {
		t.Errorf("authorization header = %q", recorded.header.Get("Authorization"))
	}
	if recorded.header.Get("X-ORGANIZATION-ID") != "org-9" {
		t.Errorf("organization header = %q", recorded.header.Get("X-ORGANIZATION-ID"))
	}
	if recorded.body["title"] != "Budget Request" || recorded.body["published"] != true {
		t.Errorf("body = %v", recorded.body)
	}
}

func TestSaveFormRejectsInvalidDocument(t *testing.T) {
	server, _ := testServer(t, http.StatusCreated, `{}`)

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	doc := model.NewFormDocument()
	field := model.MustNewField(model.FieldTypeText)
	field.ID = ""
	doc.Fields = []model.Field{field}

	if err := c.SaveForm(context.Background(), doc); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestFetchFormParsesDoubleEncoded(t *testing.T) {
	encoded, err := model.EncodeFormDocument(testDoc(t))
	if err != nil {
		t.Fatal(err)
	}
	wrapped, err := json.Marshal(string(encoded))
	if err != nil {
		t.Fatal(err)
	}
	server, recorded := testServer(t, http.StatusOK, string(wrapped))

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	doc, err := c.FetchForm(context.Background(), "form-1")
	if err != nil {
		t.Fatalf("FetchForm: %v", err)
	}

	if recorded.path != "/api/forms/form-1" {
		t.Errorf("path = %q", recorded.path)
	}
	if doc.Title != "Budget Request" || len(doc.Fields) != 1 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestSaveTemplateEncodesSchemaJSON(t *testing.T) {
	server, recorded := testServer(t, http.StatusCreated, `{}`)

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.SaveTemplate(context.Background(), "tenant-1", SchemaTypeBudgetRequest, testDoc(t)); err != nil {
		t.Fatalf("SaveTemplate: %v", err)
	}

	if recorded.path != "/api/schemas" {
		t.Fatalf("path = %q", recorded.path)
	}
	if recorded.body["tenantId"] != "tenant-1" || recorded.body["type"] != "RFQ" {
		t.Errorf("body = %v", recorded.body)
	}

	schemaJSON, ok := recorded.body["schemaJson"].(string)
	if !ok {
		t.Fatalf("schemaJson = %T", recorded.body["schemaJson"])
	}
	roundTripped, err := model.ParseFormDocument([]byte(schemaJSON))
	if err != nil {
		t.Fatalf("schemaJson does not parse: %v", err)
	}
	if roundTripped.Title != "Budget Request" {
		t.Errorf("round trip = %+v", roundTripped)
	}
}

func TestFetchSchemaDecodesDoubleEncodedSchemaJSON(t *testing.T) {
	inner := `{"components":[{"key":"f1","label":"Total Budget Amount"}]}`
	payload, err := json.Marshal(map[string]any{
		"tenantId":   "tenant-1",
		"type":       "RFQ",
		"schemaJson": inner,
	})
	if err != nil {
		t.Fatal(err)
	}
	server, recorded := testServer(t, http.StatusOK, string(payload))

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	descriptors, err := c.FetchSchema(context.Background(), "tenant-1", SchemaTypeBudgetRequest)
	if err != nil {
		t.Fatalf("FetchSchema: %v", err)
	}

	if recorded.query != "tenantId=tenant-1&type=RFQ" {
		t.Errorf("query = %q", recorded.query)
	}
	want := []schema.Descriptor{{Key: "f1", Label: "Total Budget Amount"}}
	if diff := cmp.Diff(want, descriptors); diff != "" {
		t.Fatalf("descriptors mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchSchemaDocumentCarriesOriginAndFlattens(t *testing.T) {
	inner := `{"components":[{"key":"page","label":"Page","components":[{"key":"f1","label":"Amount"}]}]}`
	payload, err := json.Marshal(map[string]any{
		"tenantId":   "tenant-1",
		"type":       "RFQ",
		"schemaJson": inner,
	})
	if err != nil {
		t.Fatal(err)
	}
	server, _ := testServer(t, http.StatusOK, string(payload))

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	doc, err := c.FetchSchemaDocument(context.Background(), "tenant-1", SchemaTypeBudgetRequest)
	if err != nil {
		t.Fatalf("FetchSchemaDocument: %v", err)
	}

	wantLocation := server.URL + "/api/schemas?tenantId=tenant-1&type=RFQ"
	if doc.Location() != wantLocation {
		t.Errorf("location = %q, want %q", doc.Location(), wantLocation)
	}
	if doc.Source().Kind() != schema.SourceKindURL {
		t.Errorf("source kind = %q", doc.Source().Kind())
	}

	flat, err := doc.Flattened()
	if err != nil {
		t.Fatalf("Flattened: %v", err)
	}
	keys := make([]string, len(flat))
	for i, d := range flat {
		keys[i] = d.Key
	}
	if diff := cmp.Diff([]string{"page", "f1"}, keys); diff != "" {
		t.Fatalf("flattened keys mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchSchemaEmpty(t *testing.T) {
	server, _ := testServer(t, http.StatusOK, `{"tenantId":"t","type":"RFQ","schemaJson":""}`)

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	descriptors, err := c.FetchSchema(context.Background(), "t", SchemaTypeBudgetRequest)
	if err != nil {
		t.Fatalf("FetchSchema: %v", err)
	}
	if descriptors != nil {
		t.Fatalf("descriptors = %+v", descriptors)
	}
}

func TestUnexpectedStatus(t *testing.T) {
	server, _ := testServer(t, http.StatusInternalServerError, `boom`)

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.SaveForm(context.Background(), testDoc(t)); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestNewValidatesBaseURL(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty base URL")
	}
	if _, err := New("::/not-a-url"); err == nil {
		t.Fatal("expected error for invalid base URL")
	}
}

func TestSubmitBudgetRequestPreservesCustomData(t *testing.T) {
	server, recorded := testServer(t, http.StatusCreated, `{}`)

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	fields := []schema.Descriptor{
		{Key: "f1", Label: "Total Budget Amount"},
		{Key: "f2", Label: "Request Title"},
	}
	answers := model.AnswerSet{"f1": "5000", "f2": "Lab equipment", "f3": "extra"}

	request := BudgetRequestFromAnswers(fields, answers)
	request.ProjectID = "proj-1"
	request.NGOID = "ngo-1"

	if err := c.SubmitBudgetRequest(context.Background(), request); err != nil {
		t.Fatalf("SubmitBudgetRequest: %v", err)
	}

	if recorded.path != "/api/rfqs" {
		t.Fatalf("path = %q", recorded.path)
	}
	if recorded.body["totalBudget"] != float64(5000) || recorded.body["title"] != "Lab equipment" {
		t.Errorf("body = %v", recorded.body)
	}

	custom, ok := recorded.body["customData"].(map[string]any)
	if !ok {
		t.Fatalf("customData = %T", recorded.body["customData"])
	}
	want := map[string]any{"f1": "5000", "f2": "Lab equipment", "f3": "extra"}
	if diff := cmp.Diff(want, custom); diff != "" {
		t.Fatalf("customData mismatch (-want +got):\n%s", diff)
	}
}

func TestMilestoneReleaseSentinelAmount(t *testing.T) {
	server, recorded := testServer(t, http.StatusCreated, `{}`)

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	fields := []schema.Descriptor{{Key: "f1", Label: "Progress Notes"}}
	answers := model.AnswerSet{"f1": "on track"}

	release := MilestoneReleaseFromAnswers(fields, answers)
	release.BudgetRequestID = "rfq-7"

	if err := c.SubmitMilestoneRelease(context.Background(), release); err != nil {
		t.Fatalf("SubmitMilestoneRelease: %v", err)
	}
	if recorded.path != "/api/rfps" {
		t.Fatalf("path = %q", recorded.path)
	}
	if recorded.body["amount"] != float64(1) {
		t.Errorf("sentinel amount not applied: %v", recorded.body["amount"])
	}
	if recorded.body["rfqId"] != "rfq-7" {
		t.Errorf("body = %v", recorded.body)
	}
}

func TestSubmitExpenseReport(t *testing.T) {
	server, recorded := testServer(t, http.StatusCreated, `{}`)

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	report := ExpenseReport{
		MilestoneReleaseID: "rfp-3",
		NGOID:              "ngo-1",
		Title:              "Venue rental",
		Amount:             400,
		CustomData:         model.AnswerSet{"f1": "400"},
	}
	if err := c.SubmitExpenseReport(context.Background(), report); err != nil {
		t.Fatalf("SubmitExpenseReport: %v", err)
	}
	if recorded.path != "/api/utilizations" || recorded.body["rfpId"] != "rfp-3" {
		t.Fatalf("request = %q body = %v", recorded.path, recorded.body)
	}
}

func TestSubmitValidation(t *testing.T) {
	c, err := New("http://localhost:1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if err := c.SubmitBudgetRequest(ctx, BudgetRequest{}); err == nil {
		t.Error("expected error for missing project id")
	}
	if err := c.SubmitMilestoneRelease(ctx, MilestoneRelease{}); err == nil {
		t.Error("expected error for missing budget request id")
	}
	if err := c.SubmitExpenseReport(ctx, ExpenseReport{}); err == nil {
		t.Error("expected error for missing release id")
	}
}

func TestApprovalEndpoints(t *testing.T) {
	server, recorded := testServer(t, http.StatusOK, `{}`)

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := c.ApproveBudgetRequest(context.Background(), "rfq-1", false); err != nil {
		t.Fatalf("ApproveBudgetRequest: %v", err)
	}
	if recorded.method != http.MethodPut || recorded.path != "/api/rfqs/rfq-1/approve-pm" {
		t.Fatalf("request = %s %s", recorded.method, recorded.path)
	}

	if err := c.ApproveMilestoneRelease(context.Background(), "rfp-1", true); err != nil {
		t.Fatalf("ApproveMilestoneRelease: %v", err)
	}
	if recorded.path != "/api/rfps/rfp-1/approve-admin" {
		t.Fatalf("path = %q", recorded.path)
	}
}
