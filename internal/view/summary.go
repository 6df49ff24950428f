package view

import "github.com/thesavant42/psiview/internal/models"

// Summarize computes aggregate statistics over records. Averages and
// distributions only count successful records with a score above zero.
func Summarize(records []models.Record) models.ReportSummary {
	summary := models.ReportSummary{
		TotalRecords:      len(records),
		AverageScores:     make(map[models.Category]float64, len(models.Categories)),
		ScoreDistribution: make(map[models.Category][3]int, len(models.Categories)),
	}

	totals := make(map[models.Category]int)
	counts := make(map[models.Category]int)

	for i := range records {
		r := &records[i]
		switch r.Status {
		case models.StatusSuccess:
			summary.SuccessfulRecords++
		case models.StatusError:
			summary.FailedRecords++
		}
		if r.Status != models.StatusSuccess {
			continue
		}

		for _, c := range models.Categories {
			s, ok := r.Score(c)
			if !ok || s <= 0 {
				continue
			}
			totals[c] += s
			counts[c]++

			dist := summary.ScoreDistribution[c]
			switch {
			case s >= ScoreExcellent:
				dist[0]++
			case s >= ScorePoor:
				dist[1]++
			default:
				dist[2]++
			}
			summary.ScoreDistribution[c] = dist
		}

		ms, ok := r.LoadTime()
		if !ok || ms <= 0 {
			continue
		}
		if summary.Fastest == nil || ms < *summary.Fastest.LoadTimeMs {
			rec := *r
			summary.Fastest = &rec
		}
		if summary.Slowest == nil || ms > *summary.Slowest.LoadTimeMs {
			rec := *r
			summary.Slowest = &rec
		}
	}

	for _, c := range models.Categories {
		if counts[c] > 0 {
			summary.AverageScores[c] = float64(totals[c]) / float64(counts[c])
		}
	}

	return summary
}
