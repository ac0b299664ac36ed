package file

import (
	"fmt"
	"strconv"
	"time"

	"github.com/abduss/docstore/internal/report"
	"github.com/samber/lo"
)

// PeriodLayout formats period bounds and dates inside generated reports (dd.MM.yyyy).
const PeriodLayout = "02.01.2006"

// sizeUnits are the 1024-based prefixes for exp = 1, 2, ...
var sizeUnits = []string{"К", "М", "Г", "Т", "П", "Э"}

// TypeCount is the number of records carrying a content type label.
type TypeCount struct {
	ContentType string
	Count       int
}

// StatisticsReport is the aggregate over the records modified within a period.
type StatisticsReport struct {
	PeriodStart  time.Time
	PeriodEnd    time.Time
	TotalFiles   int
	TotalSize    int64
	LastModified *time.Time
	CountsByType []TypeCount
}

// BuildStatistics aggregates records into a report. CountsByType keeps first-seen order.
func BuildStatistics(records []Record, periodStart, periodEnd time.Time) StatisticsReport {
	rep := StatisticsReport{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		TotalFiles:  len(records),
		TotalSize:   lo.SumBy(records, func(r Record) int64 { return r.Size }),
	}

	if len(records) > 0 {
		latest := lo.MaxBy(records, func(a, b Record) bool {
			return a.LastModified.After(b.LastModified)
		}).LastModified
		rep.LastModified = &latest
	}

	index := make(map[string]int)
	for _, rec := range records {
		if i, ok := index[rec.ContentType]; ok {
			rep.CountsByType[i].Count++
			continue
		}
		index[rec.ContentType] = len(rep.CountsByType)
		rep.CountsByType = append(rep.CountsByType, TypeCount{ContentType: rec.ContentType, Count: 1})
	}

	return rep
}

// FormattedSize is TotalSize rendered by FormatSize.
func (r StatisticsReport) FormattedSize() string {
	return FormatSize(r.TotalSize)
}

// Document lays the report out as title, summary lines and a per-type table.
func (r StatisticsReport) Document() report.Document {
	summary := []string{
		fmt.Sprintf("Общее количество файлов: %d", r.TotalFiles),
		fmt.Sprintf("Общий размер файлов: %s", r.FormattedSize()),
	}
	if r.LastModified != nil {
		summary = append(summary, fmt.Sprintf("Самый последний измененный файл: %s", r.LastModified.Format(PeriodLayout)))
	}

	return report.Document{
		Title: fmt.Sprintf("Статистика редактирования файлов за период (%s - %s)",
			r.PeriodStart.Format(PeriodLayout), r.PeriodEnd.Format(PeriodLayout)),
		Summary: summary,
		Table: report.Table{
			Header: []string{"Тип файла", "Количество файлов"},
			Rows: lo.Map(r.CountsByType, func(tc TypeCount, _ int) []string {
				return []string{tc.ContentType, strconv.Itoa(tc.Count)}
			}),
		},
	}
}

// FormatSize renders a byte count with 1024-based steps: "500 байт", "12.5 КБ", "3.0 МБ".
func FormatSize(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d байт", size)
	}

	exp := 0
	for v := size; v >= 1024 && exp < len(sizeUnits); v /= 1024 {
		exp++
	}

	value := float64(size)
	for i := 0; i < exp; i++ {
		value /= 1024
	}
	return fmt.Sprintf("%.1f %sБ", value, sizeUnits[exp-1])
}

func reportName(start, end time.Time) string {
	return fmt.Sprintf("Статистика файлов за период %s - %s.docx", start.Format(PeriodLayout), end.Format(PeriodLayout))
}

func reportDescription(start, end time.Time) string {
	return fmt.Sprintf("Статистика добавления/редактирования файлов по типам за период %s - %s",
		start.Format(PeriodLayout), end.Format(PeriodLayout))
}
