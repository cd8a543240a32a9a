// Package period преобразует символьные периоды и введенные пользователем
// даты в конкретные диапазоны в формате, ожидаемом МойСклад.
package period

import (
	"time"

	"github.com/rozabot/skladstat/internal/domain"
)

// Keyword представляет символьное обозначение периода
type Keyword string

const (
	Today      Keyword = "today"
	Week       Keyword = "week"
	Month      Keyword = "month"
	Last7Days  Keyword = "last7"
	Last30Days Keyword = "last30"
	Quarter    Keyword = "quarter"
	Year       Keyword = "year"
)

// Title возвращает название периода в винительном падеже для заголовков отчетов
func (k Keyword) Title() string {
	switch k {
	case Today:
		return "сегодня"
	case Week:
		return "неделю"
	case Month:
		return "месяц"
	case Last7Days:
		return "последние 7 дней"
	case Last30Days:
		return "последние 30 дней"
	case Quarter:
		return "текущий квартал"
	case Year:
		return "текущий год"
	default:
		return string(k)
	}
}

// Допустимые форматы ввода дат, первый подошедший выигрывает
var dateLayouts = []string{
	"02.01.2006",
	"02.01.06",
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
}

// Resolve возвращает диапазон [начало периода, now] для символьного периода
func Resolve(k Keyword, now time.Time) domain.DateRange {
	var start time.Time

	switch k {
	case Today:
		start = midnight(now)
	case Week:
		// ISO-неделя: понедельник — первый день
		offset := (int(now.Weekday()) + 6) % 7
		start = midnight(now.AddDate(0, 0, -offset))
	case Month:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case Last7Days:
		start = midnight(now.AddDate(0, 0, -7))
	case Quarter:
		quarterMonth := time.Month((int(now.Month())-1)/3*3 + 1)
		start = time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, now.Location())
	case Year:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		// Последние 30 дней
		start = midnight(now.AddDate(0, 0, -30))
	}

	return domain.DateRange{Start: start, End: now}
}

// ParseDate разбирает дату в одном из допустимых текстовых форматов
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.ErrInvalidDateFormat
}

// Explicit строит диапазон [start 00:00:00, end 23:59:59] по паре календарных дат.
// Конечная дата раньше начальной отклоняется, даты никогда не переставляются.
func Explicit(start, end time.Time) (domain.DateRange, error) {
	if end.Before(start) {
		return domain.DateRange{}, domain.ErrEndBeforeStart
	}
	return domain.DateRange{
		Start: midnight(start),
		End:   time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location()),
	}, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
