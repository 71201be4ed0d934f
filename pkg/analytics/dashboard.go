package analytics

import (
	"sort"

	"github.com/jordanlanch/leadcrm/pkg/models"
)

// BuildBookings joins booked leads with the names of their telemarketers.
// Leads keep their incoming order. Unknown assignees get an empty name.
func BuildBookings(booked []*models.Lead, names map[string]string) []models.Booking {
	out := make([]models.Booking, 0, len(booked))
	for _, l := range booked {
		if l.CallDisposition != models.DispositionBooked {
			continue
		}
		tmID := l.AssignedToID()
		out = append(out, models.Booking{
			LeadID:           l.ID.Hex(),
			TelemarketerID:   tmID,
			TelemarketerName: names[tmID],
			LeadName:         l.Name,
			CallDisposition:  l.CallDisposition,
			BookedAt:         l.UpdatedAt,
		})
	}
	return out
}

// BuildBookedUnits counts bookings per telemarketer. Every listed
// telemarketer gets a row, including those with no bookings. Rows are
// sorted by units descending, then by name.
func BuildBookedUnits(telemarketers []*models.User, bookings []models.Booking) []models.BookedUnits {
	rows := make(map[string]*models.BookedUnits, len(telemarketers))
	for _, u := range telemarketers {
		id := u.ID.Hex()
		rows[id] = &models.BookedUnits{TelemarketerID: id, TelemarketerName: u.Name}
	}
	for _, b := range bookings {
		if b.TelemarketerID == "" {
			continue
		}
		row, ok := rows[b.TelemarketerID]
		if !ok {
			row = &models.BookedUnits{TelemarketerID: b.TelemarketerID, TelemarketerName: b.TelemarketerName}
			rows[b.TelemarketerID] = row
		}
		row.BookedUnits++
	}

	out := make([]models.BookedUnits, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BookedUnits != out[j].BookedUnits {
			return out[i].BookedUnits > out[j].BookedUnits
		}
		if out[i].TelemarketerName != out[j].TelemarketerName {
			return out[i].TelemarketerName < out[j].TelemarketerName
		}
		return out[i].TelemarketerID < out[j].TelemarketerID
	})
	return out
}

// DispositionCounts fills in zero entries for every known disposition
func DispositionCounts(raw map[models.Disposition]int64) map[string]int64 {
	out := make(map[string]int64, len(models.Dispositions))
	for _, d := range models.Dispositions {
		out[string(d)] = raw[d]
	}
	return out
}
