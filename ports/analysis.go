package ports

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"raidash/domain/core"
	"raidash/domain/erroranalysis"
)

// Endpoint names one of the fixed inference backend operations
type Endpoint string

const (
	EndpointPredict     Endpoint = "predict"
	EndpointMatrix      Endpoint = "matrix"
	EndpointTree        Endpoint = "tree"
	EndpointImportances Endpoint = "importances"
)

// Endpoints lists every endpoint in a stable order
func Endpoints() []Endpoint {
	return []Endpoint{EndpointPredict, EndpointMatrix, EndpointTree, EndpointImportances}
}

// Path is the request path relative to the backend base address
func (e Endpoint) Path() string {
	return "/" + string(e)
}

// ParseEndpoint accepts "tree" or "/tree"
func ParseEndpoint(s string) (Endpoint, error) {
	name := Endpoint(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "/"))
	for _, e := range Endpoints() {
		if e == name {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownEndpoint, s)
}

// Invoker sends one payload to one endpoint and returns the envelope data
type Invoker interface {
	Invoke(ctx context.Context, payload interface{}, endpoint Endpoint) (json.RawMessage, error)
}

// AnalysisSource provides error-analysis data, locally generated or remote
type AnalysisSource interface {
	Predict(ctx context.Context, rows [][]float64) (erroranalysis.Predictions, error)
	Matrix(ctx context.Context, req erroranalysis.MatrixRequest) (*erroranalysis.Matrix, error)
	Tree(ctx context.Context, req erroranalysis.TreeRequest) ([]erroranalysis.TreeNode, error)
	Importances(ctx context.Context) (erroranalysis.Importances, error)
}
