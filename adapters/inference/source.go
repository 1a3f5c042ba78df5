package inference

import (
	"context"
	"encoding/json"
	"fmt"

	"raidash/domain/erroranalysis"
	"raidash/ports"
)

var _ ports.AnalysisSource = (*Client)(nil)
var _ ports.Invoker = (*Client)(nil)

// Predict posts feature rows and decodes one prediction vector per row
func (c *Client) Predict(ctx context.Context, rows [][]float64) (erroranalysis.Predictions, error) {
	var out erroranalysis.Predictions
	if err := c.invokeInto(ctx, rows, ports.EndpointPredict, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Matrix fetches the error heat map for one or two features
func (c *Client) Matrix(ctx context.Context, req erroranalysis.MatrixRequest) (*erroranalysis.Matrix, error) {
	var out *erroranalysis.Matrix
	if err := c.invokeInto(ctx, req, ports.EndpointMatrix, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tree fetches the flat surrogate error tree
func (c *Client) Tree(ctx context.Context, req erroranalysis.TreeRequest) ([]erroranalysis.TreeNode, error) {
	var out []erroranalysis.TreeNode
	if err := c.invokeInto(ctx, req, ports.EndpointTree, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Importances fetches global feature importances
func (c *Client) Importances(ctx context.Context) (erroranalysis.Importances, error) {
	var out erroranalysis.Importances
	if err := c.invokeInto(ctx, []interface{}{}, ports.EndpointImportances, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) invokeInto(ctx context.Context, payload interface{}, endpoint ports.Endpoint, out interface{}) error {
	data, err := c.Invoke(ctx, payload, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s data: %v", ErrMalformedBody, endpoint, err)
	}
	return nil
}
