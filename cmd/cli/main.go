package main

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"raidash/adapters/excel"
	"raidash/adapters/fixtures"
	"raidash/adapters/inference"
	"raidash/domain/dashboard"
	"raidash/domain/erroranalysis"
	"raidash/domain/policy"
	"raidash/internal"
	"raidash/internal/config"
	"raidash/internal/localization"
	"raidash/internal/termview"
	"raidash/internal/testkit"
	"raidash/ports"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "raidash-cli",
		Short:         "raidash CLI for calling the analysis backend and rendering policies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newInvokeCmd(),
		newRenderTreeCmd(),
		newFixturesCmd(),
		newExportCmd(),
	)
	return rootCmd
}

func newInvokeCmd() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "invoke <endpoint> [payload.json]",
		Short: "POST a payload to a backend endpoint and print the envelope data",
		Long: `Send one request to the analysis backend.

The payload file holds the raw JSON body; "-" reads it from stdin and no file
sends null. The backend URL defaults to BACKEND_URL.

Example: raidash-cli invoke tree request.json --url http://localhost:5000`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, err := ports.ParseEndpoint(args[0])
			if err != nil {
				return err
			}
			var payload json.RawMessage
			if len(args) == 2 {
				if payload, err = readInput(cmd.InOrStdin(), args[1]); err != nil {
					return err
				}
				if !json.Valid(payload) {
					return fmt.Errorf("%s is not valid JSON", args[1])
				}
			}
			if baseURL == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				baseURL = cfg.Backend.URL
			}
			return runInvoke(cmd.Context(), cmd.OutOrStdout(), inference.New(baseURL), endpoint, payload)
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "Backend base URL (default from BACKEND_URL)")
	return cmd
}

func runInvoke(ctx context.Context, out io.Writer, invoker ports.Invoker, endpoint ports.Endpoint, payload json.RawMessage) error {
	var body interface{}
	if payload != nil {
		body = payload
	}
	data, err := invoker.Invoke(ctx, body, endpoint)
	if err != nil {
		var te *inference.TransportError
		if stderrors.As(err, &te) && te.StatusCode != 0 && te.Cause == nil {
			return fmt.Errorf("transport error (HTTP %d): %w", te.StatusCode, err)
		}
		if inference.IsServiceError(err) {
			return fmt.Errorf("service error: %w", err)
		}
		return fmt.Errorf("transport error: %w", err)
	}
	return printJSON(out, data)
}

func newRenderTreeCmd() *cobra.Command {
	var horizontal bool
	var lang string
	var topN int

	cmd := &cobra.Command{
		Use:   "render-tree <policy.json>",
		Short: "Render a treatment policy tree in the terminal",
		Long: `Render a policy tree as nested boxes.

The file may hold a full policy document (treatment_feature, policy_tree,
local_policies) or a bare tree node. With local policies the top-N list is
printed below the tree.

Example: raidash-cli render-tree policy.json --horizontal --lang fr`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			orientation := policy.Vertical
			if horizontal {
				orientation = policy.Horizontal
			}
			return runRenderTree(cmd.OutOrStdout(), raw, orientation, lang, topN)
		},
	}

	cmd.Flags().BoolVar(&horizontal, "horizontal", false, "Lay out the root split horizontally")
	cmd.Flags().StringVar(&lang, "lang", "en", "Label language")
	cmd.Flags().IntVar(&topN, "top", 10, "Local policies to list")
	return cmd
}

func runRenderTree(out io.Writer, raw []byte, orientation policy.Orientation, lang string, topN int) error {
	p, err := decodePolicy(raw)
	if err != nil {
		return err
	}
	catalog, err := localization.NewCatalog()
	if err != nil {
		return err
	}
	str := catalog.Lookup(lang)

	section := policy.RenderSection(p, orientation, policy.LabelsFrom(str.CausalAnalysis.TreatmentPolicy))
	fmt.Fprintln(out, termview.RenderSection(section))
	if len(p.LocalPolicies) > 0 {
		list := policy.TopLocalPolicies(p.LocalPolicies, topN, str.Counterfactuals)
		fmt.Fprintln(out)
		fmt.Fprintln(out, localization.Format(str.Counterfactuals.TopN, len(list.Rows)))
		fmt.Fprintln(out, termview.RenderList(list, str.CausalAnalysis.TreatmentPolicy.NoData))
	}
	return nil
}

// decodePolicy accepts a policy document or a bare tree
func decodePolicy(raw []byte) (*policy.Policy, error) {
	if gjson.GetBytes(raw, "policy_tree").Exists() {
		var p policy.Policy
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode policy: %w", err)
		}
		if p.PolicyTree != nil {
			if err := policy.Validate(p.PolicyTree); err != nil {
				return nil, err
			}
		}
		return &p, nil
	}
	root, err := policy.ParseTree(raw)
	if err != nil {
		return nil, err
	}
	return &policy.Policy{PolicyTree: root}, nil
}

func newFixturesCmd() *cobra.Command {
	var cfg testkit.GeneratorConfig
	var features []string

	cmd := &cobra.Command{
		Use:   "fixtures <dataset> <endpoint>",
		Short: "Print the envelope the fixture backend returns for an endpoint",
		Long: `Compute a fixture response locally, without a server.

Datasets: boston, adult_census_income, breast_cancer.
Endpoints: predict, matrix, tree, importances, policy.

Example: raidash-cli fixtures adult_census_income tree --rows 1000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFixtures(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], cfg, features)
		},
	}

	defaults := testkit.DefaultGeneratorConfig()
	cmd.Flags().IntVar(&cfg.Rows, "rows", defaults.Rows, "Rows to generate")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", defaults.Seed, "Random seed for deterministic data")
	cmd.Flags().StringSliceVar(&features, "features", nil, "Features for tree or matrix (default per dataset)")
	return cmd
}

func runFixtures(ctx context.Context, out io.Writer, datasetName, endpointName string, cfg testkit.GeneratorConfig, features []string) error {
	name, err := dashboard.ParseDataset(datasetName)
	if err != nil {
		return err
	}
	data, err := testkit.NewTestKitWithConfig(cfg).Dataset(name)
	if err != nil {
		return err
	}
	provider := fixtures.NewProvider(data, internal.NewNopLogger())

	if endpointName == "policy" {
		p, err := provider.Policy()
		if err != nil {
			return err
		}
		return printEnvelope(out, p)
	}

	endpoint, err := ports.ParseEndpoint(endpointName)
	if err != nil {
		return err
	}
	dash := dashboard.NewConfig(dashboard.Variant{Mode: dashboard.ModeGenerated, Dataset: name}, dashboard.Schema{
		Task:         data.Task,
		FeatureNames: data.FeatureNames,
		Categorical:  data.Categorical,
		ClassNames:   data.ClassNames,
	})

	var result interface{}
	switch endpoint {
	case ports.EndpointPredict:
		n := len(data.Rows)
		if n > 5 {
			n = 5
		}
		result, err = provider.Predict(ctx, data.Rows[:n])
	case ports.EndpointTree:
		if len(features) == 0 {
			features = dash.TreeFeatures
		}
		result, err = provider.Tree(ctx, erroranalysis.TreeRequest{Features: features, MaxDepth: dash.MaxDepth, NumLeaves: dash.NumLeaves})
	case ports.EndpointMatrix:
		if len(features) == 0 {
			features = dash.MatrixFeatures
		}
		result, err = provider.Matrix(ctx, erroranalysis.MatrixRequest{Features: features})
	case ports.EndpointImportances:
		result, err = provider.Importances(ctx)
	}
	if err != nil {
		return err
	}
	return printEnvelope(out, result)
}

func newExportCmd() *cobra.Command {
	var cfg testkit.GeneratorConfig

	cmd := &cobra.Command{
		Use:   "export <dataset> <out.xlsx>",
		Short: "Write a generated dataset to a spreadsheet",
		Long: `Export a synthetic dataset so it can be scored through the dashboard.

Categorical features are written as their level names. The sheet can be
loaded with SPREADSHEET_FILE.

Example: raidash-cli export boston boston.xlsx --rows 200`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.OutOrStdout(), args[0], args[1], cfg)
		},
	}

	defaults := testkit.DefaultGeneratorConfig()
	cmd.Flags().IntVar(&cfg.Rows, "rows", defaults.Rows, "Rows to generate")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", defaults.Seed, "Random seed for deterministic data")
	return cmd
}

func runExport(out io.Writer, datasetName, path string, cfg testkit.GeneratorConfig) error {
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return fmt.Errorf("export writes .xlsx files, got %q", path)
	}
	name, err := dashboard.ParseDataset(datasetName)
	if err != nil {
		return err
	}
	data, err := testkit.NewTestKitWithConfig(cfg).Dataset(name)
	if err != nil {
		return err
	}

	rows := make([][]interface{}, len(data.Rows))
	for i, row := range data.Rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
			if levels, ok := data.Categorical[data.FeatureNames[j]]; ok && int(v) >= 0 && int(v) < len(levels) {
				values[j] = levels[int(v)]
			}
		}
		rows[i] = values
	}
	if err := excel.WriteWorkbook(path, data.FeatureNames, rows); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %d rows of %s to %s\n", len(rows), name, path)
	return nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func printEnvelope(out io.Writer, data interface{}) error {
	raw, err := json.Marshal(map[string]interface{}{"data": data})
	if err != nil {
		return err
	}
	return printJSON(out, raw)
}

func printJSON(out io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(out)
	return err
}
