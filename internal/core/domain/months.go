package domain

import (
	"fmt"
	"time"
)

// Публикация сделок отстает от календаря примерно на два месяца,
// поэтому список месяцев начинается не с текущего.
const monthPublicationLag = 2

// MonthOption - один месяц в выпадающем списке периода сделок.
type MonthOption struct {
	Value string `json:"value"` // YYYYMM
	Label string `json:"label"` // "2026년 6월"
}

// RecentMonths возвращает count последних месяцев, за которые уже
// должны быть опубликованы данные, от новых к старым.
func RecentMonths(now time.Time, count int) []MonthOption {
	if count <= 0 {
		return nil
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -monthPublicationLag, 0)

	options := make([]MonthOption, 0, count)
	for i := 0; i < count; i++ {
		m := first.AddDate(0, -i, 0)
		options = append(options, MonthOption{
			Value: m.Format("200601"),
			Label: fmt.Sprintf("%d년 %d월", m.Year(), int(m.Month())),
		})
	}
	return options
}
