package collector

import (
	"errors"
	"fmt"

	"EconDash/internal/model"
)

// ConnectivityMessage is shown whenever a request got no response at all.
const ConnectivityMessage = "cannot reach the server, check that the backend is running"

// ErrMalformedResponse marks a 2xx response whose body does not match the
// endpoint's schema.
var ErrMalformedResponse = errors.New("malformed response")

// Kind classifies a failed fetch.
type Kind int

const (
	// KindHTTP: the server answered with a non-2xx status.
	KindHTTP Kind = iota + 1
	// KindNetwork: the request was sent but no response came back.
	KindNetwork
	// KindRequest: the request could not be built.
	KindRequest
	// KindMalformed: the server answered 2xx with a body we cannot use.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindNetwork:
		return "network"
	case KindRequest:
		return "request"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Op names one backend operation.
type Op string

const (
	OpHealth        Op = "health"
	OpInterestRates Op = "interest-rates"
	OpInflation     Op = "inflation"
	OpEmployment    Op = "employment"
	OpGDP           Op = "gdp"
	OpLeading       Op = "leading"
	OpSummary       Op = "summary"
	OpAnalysis      Op = "analysis:generate"
	OpAnalysisTest  Op = "analysis:test"
)

var defaultMessages = map[Op]string{
	OpHealth:        "health check failed",
	OpInterestRates: "failed to load interest rate data",
	OpInflation:     "failed to load inflation data",
	OpEmployment:    "failed to load employment data",
	OpGDP:           "failed to load GDP data",
	OpLeading:       "failed to load leading indicators",
	OpSummary:       "failed to load summary data",
	OpAnalysis:      "failed to generate analysis",
	OpAnalysisTest:  "analysis test failed",
}

// DefaultMessage is the fallback user-facing message of the operation.
func (o Op) DefaultMessage() string {
	if m, ok := defaultMessages[o]; ok {
		return m
	}
	return "request failed"
}

var categoryOps = map[model.Category]Op{
	model.CategoryInterestRates: OpInterestRates,
	model.CategoryInflation:     OpInflation,
	model.CategoryEmployment:    OpEmployment,
	model.CategoryGDP:           OpGDP,
	model.CategoryLeading:       OpLeading,
}

// OpFor returns the operation that loads cat.
func OpFor(cat model.Category) Op {
	if op, ok := categoryOps[cat]; ok {
		return op
	}
	return Op(cat)
}

// FetchError is the single error a failed fetch surfaces. Error() is the
// message meant for the user; Err keeps the underlying cause.
type FetchError struct {
	Kind    Kind
	Op      Op
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string { return e.Message }

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrMalformedResponse) match malformed fetches.
func (e *FetchError) Is(target error) bool {
	return target == ErrMalformedResponse && e.Kind == KindMalformed
}

// Detail renders the error with its cause for logs.
func (e *FetchError) Detail() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Kind, e.Message, e.Err)
}

func malformed(op Op, err error) *FetchError {
	return &FetchError{
		Kind:    KindMalformed,
		Op:      op,
		Message: op.DefaultMessage(),
		Err:     fmt.Errorf("%w: %v", ErrMalformedResponse, err),
	}
}
