// Package nlsql is the transport to the natural-language-to-SQL backend:
// a named Lambda function that takes a question and returns a SQL query
// plus a plain-text summary. All translation logic lives on the far side;
// this package only frames the request and decodes the response.
package nlsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// DefaultFunctionName is the logical name of the translation function.
const DefaultFunctionName = "IST2SQL"

// ErrMalformedResponse indicates the function replied with something other
// than the expected envelope. Envelope decode, body decode, and missing
// fields are deliberately one failure mode, not three.
var ErrMalformedResponse = errors.New("malformed response from translation function")

// Result is the decoded answer for one question.
type Result struct {
	SQLQuery string
	Summary  string
}

// InvokeAPI is the part of the Lambda API the client needs.
type InvokeAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// Client invokes the translation function.
type Client struct {
	api          InvokeAPI
	functionName string
	log          *slog.Logger
}

// New creates a client that signs requests with the given credentials
// provider. functionName may be empty to use DefaultFunctionName.
func New(region string, creds aws.CredentialsProvider, functionName string, log *slog.Logger) *Client {
	api := lambda.New(lambda.Options{
		Region:      region,
		Credentials: creds,
	})
	return NewWithAPI(api, functionName, log)
}

// NewWithAPI creates a client on an existing Lambda API, used by tests to
// substitute a fake.
func NewWithAPI(api InvokeAPI, functionName string, log *slog.Logger) *Client {
	if functionName == "" {
		functionName = DefaultFunctionName
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		api:          api,
		functionName: functionName,
		log:          log,
	}
}

// FunctionName returns the configured invoke target.
func (c *Client) FunctionName() string {
	return c.functionName
}

// request is the wire payload sent to the function.
type request struct {
	Question string `json:"question"`
}

// envelope is the proxy-style wrapper the function returns. Body is a
// JSON-encoded string and needs a second decode pass.
type envelope struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Translate sends a question to the function and decodes the reply. It
// issues exactly one request: no retry, no timeout beyond the transport
// default, no cancellation once in flight.
func (c *Client) Translate(ctx context.Context, question string) (Result, error) {
	payload, err := json.Marshal(request{Question: question})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	c.log.Debug("invoking translation function", "function", c.functionName)

	out, err := c.api.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(c.functionName),
		Payload:      payload,
	})
	if err != nil {
		return Result{}, fmt.Errorf("invoke %s: %w", c.functionName, err)
	}

	if out.FunctionError != nil {
		return Result{}, fmt.Errorf("invoke %s: function error: %s: %w",
			c.functionName, aws.ToString(out.FunctionError), ErrMalformedResponse)
	}

	return decodeResponse(out.Payload)
}

// decodeResponse unwraps the double-encoded reply: outer envelope, then
// the JSON string in its body field.
func decodeResponse(payload []byte) (Result, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Result{}, fmt.Errorf("decode envelope: %v: %w", err, ErrMalformedResponse)
	}
	if env.Body == "" {
		return Result{}, fmt.Errorf("decode envelope: empty body: %w", ErrMalformedResponse)
	}

	var body struct {
		SQLQuery *string `json:"sql_query"`
		Summary  *string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(env.Body), &body); err != nil {
		return Result{}, fmt.Errorf("decode body: %v: %w", err, ErrMalformedResponse)
	}
	if body.SQLQuery == nil || body.Summary == nil {
		return Result{}, fmt.Errorf("decode body: missing fields: %w", ErrMalformedResponse)
	}

	return Result{
		SQLQuery: *body.SQLQuery,
		Summary:  *body.Summary,
	}, nil
}
