package ui

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"raidash/adapters/excel"
	"raidash/domain/policy"
	"raidash/internal/errors"
	"raidash/internal/localization"
)

// handleIndex renders the landing page with the resolved variant
func (s *Server) handleIndex(c *gin.Context) {
	str := s.strings(c)
	s.renderTemplate(c, http.StatusOK, "index.html", gin.H{
		"Title":     "raidash",
		"Strings":   str,
		"Config":    s.dashboard.Config(),
		"Languages": s.catalog.Languages(),
		"HasSheet":  s.spreadsheet != nil,
	})
}

// handleErrorAnalysis loads tree, matrix and importances and renders them
func (s *Server) handleErrorAnalysis(c *gin.Context) {
	snap, err := s.dashboard.Load(c.Request.Context())
	if err != nil {
		s.abortPage(c, err)
		return
	}
	str := s.strings(c)
	s.renderTemplate(c, http.StatusOK, "error_analysis.html", gin.H{
		"Title":       str.ErrorAnalysis.Title,
		"Strings":     str,
		"Config":      snap.Config,
		"Tree":        treeRows(snap.Tree),
		"Matrix":      newMatrixView(snap.Matrix),
		"Importances": importanceRows(snap.Config.FeatureNames, snap.Importances),
	})
}

// handleCausal renders the treatment policy section and the top-N list
func (s *Server) handleCausal(c *gin.Context) {
	orientation, err := policy.ParseOrientation(c.Query("orientation"))
	if err != nil {
		s.abortPage(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	topN, err := s.topNFrom(c)
	if err != nil {
		s.abortPage(c, err)
		return
	}

	str := s.strings(c)
	p := s.dashboard.Policy()
	section := policy.RenderSection(p, orientation, policy.LabelsFrom(str.CausalAnalysis.TreatmentPolicy))
	var locals []policy.LocalPolicy
	if p != nil {
		locals = p.LocalPolicies
	}
	s.renderTemplate(c, http.StatusOK, "causal.html", gin.H{
		"Title":       str.CausalAnalysis.Title,
		"Strings":     str,
		"Section":     section,
		"List":        policy.TopLocalPolicies(locals, topN, str.Counterfactuals),
		"ListTitle":   localization.Format(str.Counterfactuals.TopN, topN),
		"Orientation": orientation.String(),
		"Flipped":     orientation.Flip().String(),
	})
}

func (s *Server) topNFrom(c *gin.Context) (int, error) {
	raw := c.Query("top")
	if raw == "" {
		return s.topN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.InvalidInput(fmt.Sprintf("top must be a positive integer, got %q", raw))
	}
	return n, nil
}

// handleConfig returns the normalized dashboard configuration
func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.Config())
}

// handleSnapshot returns tree, matrix and importances in one document with
// an ETag so pollers can skip unchanged data
func (s *Server) handleSnapshot(c *gin.Context) {
	snap, err := s.dashboard.Load(c.Request.Context())
	if err != nil {
		s.abortJSON(c, err)
		return
	}
	tag, err := snap.ETag()
	if err != nil {
		s.abortJSON(c, errors.Wrap(err, "failed to hash snapshot"))
		return
	}
	etag := strconv.Quote(tag)
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type matrixBody struct {
	Features []string `json:"features"`
}

// handleMatrix recomputes the heat map for a chosen feature pair
func (s *Server) handleMatrix(c *gin.Context) {
	var body matrixBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.abortJSON(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	m, err := s.dashboard.Matrix(c.Request.Context(), body.Features)
	if err != nil {
		s.abortJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": m})
}

type predictBody struct {
	Rows [][]float64 `json:"rows"`
}

// handlePredict scores the posted rows, or the loaded spreadsheet when the
// body carries none
func (s *Server) handlePredict(c *gin.Context) {
	var body predictBody
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			s.abortJSON(c, errors.WithCode(errors.CodeInvalidInput, err))
			return
		}
	}

	rows := body.Rows
	if len(rows) == 0 && s.spreadsheet != nil {
		cfg := s.dashboard.Config()
		var err error
		rows, err = excel.FeatureRows(s.spreadsheet, cfg.FeatureNames, cfg.Categorical)
		if err != nil {
			s.abortJSON(c, err)
			return
		}
	}
	if len(rows) == 0 {
		s.abortJSON(c, errors.InvalidInput("no rows to score"))
		return
	}

	preds, err := s.dashboard.Predict(c.Request.Context(), rows)
	if err != nil {
		s.abortJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": preds, "rows": len(rows)})
}

// handlePolicy returns the causal treatment policy
func (s *Server) handlePolicy(c *gin.Context) {
	p := s.dashboard.Policy()
	if p == nil {
		s.abortJSON(c, errors.NotFound("treatment policy"))
		return
	}
	c.JSON(http.StatusOK, p)
}

// handleRenderPolicy renders a posted policy. ?format=html returns the
// table markup, anything else the Section as JSON.
func (s *Server) handleRenderPolicy(c *gin.Context) {
	orientation, err := policy.ParseOrientation(c.Query("orientation"))
	if err != nil {
		s.abortJSON(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}

	var p policy.Policy
	if err := c.ShouldBindJSON(&p); err != nil {
		s.abortJSON(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	if p.PolicyTree != nil {
		if err := policy.Validate(p.PolicyTree); err != nil {
			s.abortJSON(c, err)
			return
		}
	}

	str := s.strings(c)
	section := policy.RenderSection(&p, orientation, policy.LabelsFrom(str.CausalAnalysis.TreatmentPolicy))
	if c.Query("format") == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(SectionHTML(section)))
		return
	}
	c.JSON(http.StatusOK, section)
}

type recommendBody struct {
	Values map[string]float64 `json:"values"`
}

// handleRecommend walks the policy tree for one individual's feature values
func (s *Server) handleRecommend(c *gin.Context) {
	var body recommendBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.abortJSON(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	p := s.dashboard.Policy()
	if p == nil || p.PolicyTree == nil {
		s.abortJSON(c, errors.NotFound("treatment policy"))
		return
	}
	leaf, err := p.PolicyTree.Recommend(body.Values)
	if err != nil {
		s.abortJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"treatment": leaf.Treatment,
		"n_samples": leaf.NSamples,
	})
}
