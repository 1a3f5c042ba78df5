package ui

import (
	"sort"

	"raidash/domain/erroranalysis"
)

// treeRow is one error tree node laid out for the page
type treeRow struct {
	Label       string
	Depth       int
	Size        float64
	Error       float64
	MetricName  string
	MetricValue float64
	ErrorRate   float64
}

// treeRows lists nodes in their received (pre-order) order with their depth
func treeRows(nodes []erroranalysis.TreeNode) []treeRow {
	depth := make(map[int]int, len(nodes))
	rows := make([]treeRow, 0, len(nodes))
	for _, n := range nodes {
		d := 0
		if n.ParentID != nil {
			d = depth[*n.ParentID] + 1
		}
		depth[n.ID] = d

		label := "All data"
		switch {
		case n.Condition != nil:
			label = *n.Condition
		case n.NodeName != nil && !n.IsRoot():
			label = *n.NodeName
		}
		row := treeRow{
			Label:       label,
			Depth:       d,
			Size:        n.Size,
			Error:       n.Error,
			MetricName:  n.MetricName,
			MetricValue: n.MetricValue,
		}
		if n.Size > 0 {
			row.ErrorRate = n.Error / n.Size
		}
		rows = append(rows, row)
	}
	return rows
}

// matrixRow is one heat map row with its bin label
type matrixRow struct {
	Label string
	Cells []erroranalysis.MatrixCell
}

// matrixView is the heat map laid out as a table
type matrixView struct {
	Columns []string
	Rows    []matrixRow
}

func newMatrixView(m *erroranalysis.Matrix) *matrixView {
	if m == nil {
		return nil
	}
	v := &matrixView{Columns: m.Category2.Values}
	if len(v.Columns) == 0 {
		v.Columns = []string{""}
	}
	for i, cells := range m.Cells {
		label := ""
		if i < len(m.Category1.Values) {
			label = m.Category1.Values[i]
		}
		v.Rows = append(v.Rows, matrixRow{Label: label, Cells: cells})
	}
	return v
}

// importanceRow pairs a feature with its importance and its share of the largest
type importanceRow struct {
	Feature string
	Value   float64
	Share   float64
}

// importanceRows sorts importances descending. Extra values without a
// feature name are dropped.
func importanceRows(features []string, imp erroranalysis.Importances) []importanceRow {
	rows := make([]importanceRow, 0, len(imp))
	maxValue := 0.0
	for i, v := range imp {
		if i >= len(features) {
			break
		}
		rows = append(rows, importanceRow{Feature: features[i], Value: v})
		if v > maxValue {
			maxValue = v
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value > rows[j].Value })
	if maxValue > 0 {
		for i := range rows {
			rows[i].Share = rows[i].Value / maxValue
		}
	}
	return rows
}
