// Package export renders ranking artifacts as Excel workbooks for recruiters.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// Sheet names
const (
	SummarySheet    = "Summary"
	CandidatesSheet = "Ranked Candidates"
	FlagsSheet      = "Flags"
)

// Fill colors per tier
var tierColors = map[string]string{
	types.TierTop:            "C6EFCE",
	types.TierAcceptable:     "FFEB9C",
	types.TierNotRecommended: "FFC7CE",
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// candidateHeaders are the columns of the ranked candidates sheet
var candidateHeaders = []string{
	"Rank", "Candidate ID", "Name", "Email", "Total Score", "Tier", "Recommendation",
	"Mandatory Skills", "Good-to-have Skills", "Experience", "Location", "Salary",
	"Missing Mandatory Skills", "Justification",
}

// Write renders the artifact as an XLSX workbook
func Write(w io.Writer, artifact *types.RankingArtifact) error {
	f, err := build(artifact)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveFile renders the artifact to path, adding the .xlsx extension when missing
func SaveFile(artifact *types.RankingArtifact, path string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f, err := build(artifact)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return path, nil
}

func build(artifact *types.RankingArtifact) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	for _, name := range []string{CandidatesSheet, FlagsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	if err := writeSummary(f, artifact); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeCandidates(f, artifact.Entries); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create ranked candidates sheet: %w", err)
	}
	if err := writeFlags(f, artifact.Entries); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create flags sheet: %w", err)
	}
	return f, nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
}

func writeSummary(f *excelize.File, a *types.RankingArtifact) error {
	sheet := SummarySheet
	if err := f.SetColWidth(sheet, "A", "A", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 70); err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	titleStyle, err := headerStyle(f)
	if err != nil {
		return err
	}

	rows := [][2]any{
		{"Ranking ID:", a.ArtifactID},
		{"Requisition:", a.RequisitionID},
		{"Job Title:", a.RequisitionTitle},
		{"Location:", a.RequisitionLocation},
		{"Created:", a.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC")},
		{"Strategy:", a.Strategy},
		{"Candidates Evaluated:", a.TotalEvaluated},
		{"Top Tier:", len(a.TopTier)},
		{"Acceptable:", len(a.AcceptableTier)},
		{"Not Recommended:", len(a.NotRecommendedTier)},
		{"Summary:", a.Summary},
	}

	if err := f.SetCellValue(sheet, "A1", "Candidate Ranking Report"); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", "B1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", titleStyle); err != nil {
		return err
	}

	row := 3
	for _, r := range rows {
		label := fmt.Sprintf("A%d", row)
		if err := f.SetCellValue(sheet, label, r[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, label, label, labelStyle); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r[1]); err != nil {
			return err
		}
		row++
	}

	if len(a.Insights) > 0 {
		row++
		label := fmt.Sprintf("A%d", row)
		if err := f.SetCellValue(sheet, label, "Insights:"); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, label, label, labelStyle); err != nil {
			return err
		}
		for _, insight := range a.Insights {
			if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), insight); err != nil {
				return err
			}
			row++
		}
	}

	if len(a.Diagnostics) > 0 {
		row++
		label := fmt.Sprintf("A%d", row)
		if err := f.SetCellValue(sheet, label, "Excluded Records:"); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, label, label, labelStyle); err != nil {
			return err
		}
		for _, d := range a.Diagnostics {
			if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("%s: %s", d.CandidateID, d.Reason)); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeCandidates(f *excelize.File, entries []types.RankingEntry) error {
	sheet := CandidatesSheet
	widths := []float64{8, 16, 25, 30, 12, 16, 20, 16, 18, 14, 20, 20, 35, 70}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}

	hdr, err := headerStyle(f)
	if err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, toAny(candidateHeaders)); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(candidateHeaders))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", hdr); err != nil {
		return err
	}

	styles := make(map[string]int, len(tierColors))
	for tier, color := range tierColors {
		id, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: thinBorder,
		})
		if err != nil {
			return err
		}
		styles[tier] = id
	}

	for i, e := range entries {
		row := i + 2
		values := []any{
			e.Rank,
			e.CandidateID,
			e.CandidateName,
			e.CandidateEmail,
			e.MatchScore.TotalScore,
			e.Tier,
			e.Recommendation,
			fmt.Sprintf("%.1f%%", e.SkillMatch.Mandatory.CoveragePercent),
			fmt.Sprintf("%.1f%%", e.SkillMatch.GoodToHave.CoveragePercent),
			e.ExperienceMatch.Alignment,
			e.LocationMatch.Compatibility,
			e.SalaryMatch.Alignment,
			strings.Join(e.SkillMatch.Mandatory.Missing, ", "),
			e.Justification,
		}
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		if style, ok := styles[e.Tier]; ok {
			if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), style); err != nil {
				return err
			}
		}
	}

	if len(entries) > 0 {
		if err := f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", lastCol, len(entries)+1), []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeFlags(f *excelize.File, entries []types.RankingEntry) error {
	sheet := FlagsSheet
	for col, w := range map[string]float64{"A": 8, "B": 16, "C": 12, "D": 70} {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}

	hdr, err := headerStyle(f)
	if err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, []any{"Rank", "Candidate ID", "Type", "Flag"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", hdr); err != nil {
		return err
	}

	row := 2
	for _, e := range entries {
		for _, flag := range e.GreenFlags {
			if err := setRow(f, sheet, row, []any{e.Rank, e.CandidateID, "green", flag}); err != nil {
				return err
			}
			row++
		}
		for _, flag := range e.RedFlags {
			if err := setRow(f, sheet, row, []any{e.Rank, e.CandidateID, "red", flag}); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
