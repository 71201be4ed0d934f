package models

import "time"

// Inventory is the headline dashboard snapshot
type Inventory struct {
	NumberOfLeads           int64            `json:"numberOfLeads"`
	NumberOfUsers           int64            `json:"numberOfUsers"`
	NumberOfAssignedLeads   int64            `json:"numberOfAssignedLeads"`
	NumberOfUnassignedLeads int64            `json:"numberOfUnassignedLeads"`
	NumberOfEmails          int64            `json:"numberOfEmails"`
	CallDispositionCounts   map[string]int64 `json:"callDispositionCounts"`
	TypeCounts              map[string]int64 `json:"typeCounts"`
	UpdatedAt               time.Time        `json:"updatedAt"`
}

// DispositionCount returns the count for d, zero when absent
func (i *Inventory) DispositionCount(d Disposition) int64 {
	if i.CallDispositionCounts == nil {
		return 0
	}
	return i.CallDispositionCounts[string(d)]
}

// Booking is a lead that reached Booked, joined with its telemarketer.
// It is derived on read and never stored.
type Booking struct {
	LeadID           string      `json:"_id"`
	TelemarketerID   string      `json:"telemarketerId"`
	TelemarketerName string      `json:"telemarketerName"`
	LeadName         string      `json:"leadName"`
	CallDisposition  Disposition `json:"callDisposition"`
	BookedAt         time.Time   `json:"createdAt"`
}

// BookedUnits is one row of the telemarketer performance table
type BookedUnits struct {
	TelemarketerID   string `json:"telemarketerId"`
	TelemarketerName string `json:"telemarketerName"`
	BookedUnits      int64  `json:"bookedUnits"`
}
