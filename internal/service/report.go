package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/omarshaarawi/leaguedash/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatPoints renders points with thousands separators and two decimals.
func FormatPoints(points float64) string {
	return printer.Sprintf("%.2f", points)
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func (s *LeagueService) analyzeNonEmpty(ctx context.Context, leagueID string) (*models.Analysis, error) {
	analysis, err := s.Analyze(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if analysis.Empty {
		return nil, ErrNoStandings
	}
	return analysis, nil
}

const noRostersMessage = "League found, but it appears to have no rosters yet."

// GetStandings returns the standings table. Errors are returned unwrapped so
// callers can prefix them once for their audience.
func (s *LeagueService) GetStandings(ctx context.Context, leagueID string) (string, error) {
	analysis, err := s.Analyze(ctx, leagueID)
	if err != nil {
		return "", err
	}
	if analysis.Empty {
		return noRostersMessage, nil
	}
	return formatStandings(analysis.Standings), nil
}

func formatStandings(rows []models.StandingsRow) string {
	var sb strings.Builder
	sb.WriteString("🏆 *League Standings*\n\n")
	for i, row := range rows {
		sb.WriteString(fmt.Sprintf("%d. *%s*\n", i+1, escapeMarkdown(row.Owner)))
		sb.WriteString(fmt.Sprintf("   Record: %d-%d-%d\n", row.Wins, row.Losses, row.Ties))
		sb.WriteString(fmt.Sprintf("   Points For: %s\n\n", FormatPoints(row.PointsFor)))
	}
	return sb.String()
}

func (s *LeagueService) GetVillain(ctx context.Context, leagueID string) (string, error) {
	analysis, err := s.analyzeNonEmpty(ctx, leagueID)
	if err != nil {
		return "", err
	}
	return formatVillain(analysis.Insights), nil
}

func formatVillain(insights *models.Insights) string {
	v := insights.Villain
	return fmt.Sprintf("🚨 *League Villain Alert:* %s has %d wins despite their scoring! (%s pts, league avg %s)",
		escapeMarkdown(v.Owner), v.Wins, FormatPoints(v.PointsFor), FormatPoints(insights.AveragePoints))
}

// GetLuckReport lists every team by points scored with its distance from the
// league average, mirroring the scatter chart in text.
func (s *LeagueService) GetLuckReport(ctx context.Context, leagueID string) (string, error) {
	analysis, err := s.analyzeNonEmpty(ctx, leagueID)
	if err != nil {
		return "", err
	}

	rows := make([]models.StandingsRow, len(analysis.Standings))
	copy(rows, analysis.Standings)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PointsFor > rows[j].PointsFor
	})

	avg := analysis.Insights.AveragePoints
	var sb strings.Builder
	sb.WriteString("🍀 *The Luck Meter*\n")
	sb.WriteString(fmt.Sprintf("League average: %s pts\n\n", FormatPoints(avg)))
	for _, row := range rows {
		marker := "▲"
		if row.PointsFor < avg {
			marker = "▼"
		}
		sb.WriteString(fmt.Sprintf("%s %s: %d wins, %s pts (%+.2f)\n",
			marker, escapeMarkdown(row.Owner), row.Wins, FormatPoints(row.PointsFor), row.PointsFor-avg))
	}
	return sb.String(), nil
}

// GetOwner looks up a single row by fuzzy owner name.
func (s *LeagueService) GetOwner(ctx context.Context, leagueID, ownerName string) (string, error) {
	analysis, err := s.Analyze(ctx, leagueID)
	if err != nil {
		return "", err
	}

	row, ok := FindOwner(analysis.Standings, ownerName)
	if !ok {
		return fmt.Sprintf("🔍 No owner found matching '%s'.", escapeMarkdown(ownerName)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s*\n", escapeMarkdown(row.Owner)))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")
	sb.WriteString(fmt.Sprintf("Record: %d-%d-%d\n", row.Wins, row.Losses, row.Ties))
	sb.WriteString(fmt.Sprintf("Points For: %s", FormatPoints(row.PointsFor)))
	if !analysis.Empty {
		sb.WriteString(fmt.Sprintf(" (league avg %s)", FormatPoints(analysis.Insights.AveragePoints)))
	}
	return sb.String(), nil
}

// FindOwner returns the row whose owner best matches name: an exact
// case-insensitive match, then the closest fuzzy subsequence match, then the
// nearest name by edit distance when it is at least 60% similar.
func FindOwner(rows []models.StandingsRow, name string) (models.StandingsRow, bool) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" || len(rows) == 0 {
		return models.StandingsRow{}, false
	}

	owners := make([]string, len(rows))
	for i, row := range rows {
		owners[i] = row.Owner
		if strings.ToLower(row.Owner) == query {
			return row, true
		}
	}

	if ranks := fuzzy.RankFindFold(query, owners); len(ranks) > 0 {
		sort.Stable(ranks)
		return rows[ranks[0].OriginalIndex], true
	}

	best := -1
	bestScore := 0.0
	threshold := 0.6
	for i, owner := range owners {
		owner = strings.ToLower(owner)
		distance := fuzzy.LevenshteinDistance(query, owner)
		maxLen := float64(max(len(query), len(owner)))
		similarity := 1 - float64(distance)/maxLen

		if similarity >= threshold && similarity > bestScore {
			bestScore = similarity
			best = i
		}
	}
	if best == -1 {
		return models.StandingsRow{}, false
	}
	return rows[best], true
}

// GetWeeklyReport is the scheduled digest: standings followed by the villain,
// both taken from one snapshot.
func (s *LeagueService) GetWeeklyReport(ctx context.Context, leagueID string) (string, error) {
	analysis, err := s.Analyze(ctx, leagueID)
	if err != nil {
		return "", fmt.Errorf("building weekly report: %w", err)
	}
	if analysis.Empty {
		return noRostersMessage, nil
	}
	return formatStandings(analysis.Standings) + formatVillain(analysis.Insights), nil
}
