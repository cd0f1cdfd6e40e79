package moderation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

const (
	// DefaultAPIVersion is the Content Safety API version used by default.
	DefaultAPIVersion = "2023-10-01"

	cognitiveScope  = "https://cognitiveservices.azure.com/.default"
	subscriptionKey = "Ocp-Apim-Subscription-Key"
	moduleName      = "slopjournal/moderation"
	moduleVersion   = "v1.0.0"
)

// ErrMissingEndpoint indicates live moderation was configured without an endpoint.
var ErrMissingEndpoint = errors.New("content safety endpoint required")

var azureCategories = map[string]string{
	"Hate":     CategoryHate,
	"SelfHarm": CategorySelfHarm,
	"Sexual":   CategorySexual,
	"Violence": CategoryViolence,
}

// AzureOptions configure the Azure AI Content Safety classifier.
// When APIKey is empty the default Azure credential chain is used.
type AzureOptions struct {
	Endpoint      string
	APIKey        string
	APIVersion    string
	ClientOptions *policy.ClientOptions
}

// Azure classifies text with Azure AI Content Safety text:analyze.
type Azure struct {
	pipeline   runtime.Pipeline
	endpoint   string
	apiVersion string
}

// NewAzure builds the classifier and its azcore pipeline.
func NewAzure(opts AzureOptions) (*Azure, error) {
	if opts.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}

	endpoint, err := url.Parse(opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse content safety endpoint: %w", err)
	}

	authPolicy, err := authPolicy(opts, endpoint.Scheme == "http")
	if err != nil {
		return nil, err
	}

	apiVersion := opts.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	pl := runtime.NewPipeline(
		moduleName,
		moduleVersion,
		runtime.PipelineOptions{PerRetry: []policy.Policy{authPolicy}},
		opts.ClientOptions,
	)

	return &Azure{
		pipeline:   pl,
		endpoint:   strings.TrimRight(opts.Endpoint, "/"),
		apiVersion: apiVersion,
	}, nil
}

func authPolicy(opts AzureOptions, insecure bool) (policy.Policy, error) {
	if opts.APIKey != "" {
		cred := azcore.NewKeyCredential(opts.APIKey)
		return runtime.NewKeyCredentialPolicy(cred, subscriptionKey, &runtime.KeyCredentialPolicyOptions{
			InsecureAllowCredentialWithHTTP: insecure,
		}), nil
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("default azure credential: %w", err)
	}
	return runtime.NewBearerTokenPolicy(cred, []string{cognitiveScope}, nil), nil
}

type analyzeRequest struct {
	Text       string   `json:"text"`
	Categories []string `json:"categories"`
	OutputType string   `json:"outputType"`
}

type analyzeResponse struct {
	CategoriesAnalysis []struct {
		Category string `json:"category"`
		Severity int    `json:"severity"`
	} `json:"categoriesAnalysis"`
}

func (a *Azure) Analyze(ctx context.Context, text string) (*Analysis, error) {
	req, err := runtime.NewRequest(ctx, http.MethodPost, a.endpoint+"/contentsafety/text:analyze")
	if err != nil {
		return nil, fmt.Errorf("create analyze request: %w", err)
	}

	q := req.Raw().URL.Query()
	q.Set("api-version", a.apiVersion)
	req.Raw().URL.RawQuery = q.Encode()
	req.Raw().Header.Set("Accept", "application/json")

	body := analyzeRequest{
		Text:       text,
		Categories: []string{"Hate", "SelfHarm", "Sexual", "Violence"},
		OutputType: "FourSeverityLevels",
	}
	if err := runtime.MarshalAsJSON(req, body); err != nil {
		return nil, fmt.Errorf("encode analyze request: %w", err)
	}

	resp, err := a.pipeline.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyze text: %w", err)
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return nil, runtime.NewResponseError(resp)
	}

	var out analyzeResponse
	if err := runtime.UnmarshalAsJSON(resp, &out); err != nil {
		return nil, fmt.Errorf("decode analyze response: %w", err)
	}

	analysis := &Analysis{
		Categories: make([]CategoryScore, 0, len(out.CategoriesAnalysis)),
		RequestID:  requestID(resp.Header),
	}
	for _, c := range out.CategoriesAnalysis {
		name, ok := azureCategories[c.Category]
		if !ok {
			name = strings.ToLower(c.Category)
		}
		analysis.Categories = append(analysis.Categories, CategoryScore{Category: name, Severity: c.Severity})
	}

	return analysis, nil
}

func requestID(h http.Header) string {
	if id := h.Get("apim-request-id"); id != "" {
		return id
	}
	return h.Get("x-ms-request-id")
}
