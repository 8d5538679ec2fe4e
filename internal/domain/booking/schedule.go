package booking

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/findcut/internal/models"
)

// DefaultScheduledAt devolve "agora + 1h" arredondado para a hora cheia, no fuso loc.
// Arredonda subtraindo durações: na hora repetida do fim do horário de verão o
// resultado continua depois de now.
func DefaultScheduledAt(now time.Time, loc *time.Location) time.Time {
	t := now.In(loc).Add(time.Hour)
	return t.Add(-time.Duration(t.Minute())*time.Minute -
		time.Duration(t.Second())*time.Second -
		time.Duration(t.Nanosecond()))
}

// Partition separa agendamentos futuros (date >= now) dos passados.
func Partition(bookings []models.Booking, now time.Time) (upcoming, past []models.Booking) {
	for _, b := range bookings {
		if b.Date.Before(now) {
			past = append(past, b)
			continue
		}
		upcoming = append(upcoming, b)
	}
	return upcoming, past
}

type Day struct {
	Key      string
	Bookings []models.Booking
}

// GroupByDay agrupa por dia (YYYY-MM-DD no fuso loc), em ordem crescente de dia,
// e por horário dentro de cada dia.
func GroupByDay(bookings []models.Booking, loc *time.Location) []Day {
	idx := map[string]int{}
	var days []Day

	for _, b := range bookings {
		key := b.Date.In(loc).Format("2006-01-02")
		i, ok := idx[key]
		if !ok {
			i = len(days)
			idx[key] = i
			days = append(days, Day{Key: key})
		}
		days[i].Bookings = append(days[i].Bookings, b)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Key < days[j].Key })
	for _, d := range days {
		sort.SliceStable(d.Bookings, func(i, j int) bool {
			return d.Bookings[i].Date.Before(d.Bookings[j].Date)
		})
	}

	return days
}
