package models

import (
	"bytes"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Disposition is the outcome of a call to a lead
type Disposition string

const (
	DispositionNone             Disposition = ""
	DispositionBooked           Disposition = "Booked"
	DispositionWarmLead         Disposition = "Warm Lead"
	DispositionNotEligible      Disposition = "Not Eligible"
	DispositionAlreadyInstalled Disposition = "Already Installed"
	DispositionWrongNotWorking  Disposition = "Wrong/Not Working"
	DispositionResidential      Disposition = "Residential"
	DispositionCallback         Disposition = "Callback"
	DispositionDoNotCall        Disposition = "Do Not Call"
	DispositionNoAnswer         Disposition = "No Answer"
	DispositionNotInterested    Disposition = "Not Interested"
	DispositionVoicemail        Disposition = "Voicemail"
	DispositionEmail            Disposition = "Email"
)

// Dispositions lists every recordable value in report order
var Dispositions = []Disposition{
	DispositionBooked,
	DispositionWarmLead,
	DispositionNotEligible,
	DispositionAlreadyInstalled,
	DispositionWrongNotWorking,
	DispositionResidential,
	DispositionCallback,
	DispositionDoNotCall,
	DispositionNoAnswer,
	DispositionNotInterested,
	DispositionVoicemail,
	DispositionEmail,
}

// Valid reports whether d is one of the recordable dispositions
func (d Disposition) Valid() bool {
	for _, v := range Dispositions {
		if v == d {
			return true
		}
	}
	return false
}

// Lead is a prospective customer record
type Lead struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name            string             `bson:"name" json:"name"`
	Type            string             `bson:"type,omitempty" json:"type,omitempty"`
	PhoneNumber     string             `bson:"phonenumber,omitempty" json:"phonenumber,omitempty"`
	PhoneE164       string             `bson:"phoneE164,omitempty" json:"phoneE164,omitempty"`
	EmailAddress    string             `bson:"emailaddress,omitempty" json:"emailaddress,omitempty"`
	StreetAddress   string             `bson:"streetaddress,omitempty" json:"streetaddress,omitempty"`
	City            string             `bson:"city,omitempty" json:"city,omitempty"`
	Postcode        string             `bson:"postcode,omitempty" json:"postcode,omitempty"`
	Remarks         string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	CreatedBy       string             `bson:"createdBy" json:"createdBy"`
	AssignedTo      *string            `bson:"assignedTo" json:"assignedTo"`
	Distributed     *time.Time         `bson:"Distributed,omitempty" json:"Distributed,omitempty"`
	CallDisposition Disposition        `bson:"callDisposition,omitempty" json:"callDisposition,omitempty"`
	Version         int64              `bson:"__v" json:"__v"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsAssigned reports whether the lead has an assignee
func (l *Lead) IsAssigned() bool {
	return l.AssignedTo != nil && *l.AssignedTo != ""
}

// AssignedToID returns the assignee id or ""
func (l *Lead) AssignedToID() string {
	if l.AssignedTo == nil {
		return ""
	}
	return *l.AssignedTo
}

// IsSuppressed reports whether the lead is hidden from active listings
func (l *Lead) IsSuppressed() bool {
	return l.CallDisposition == DispositionDoNotCall
}

// CreateLeadRequest is the body of POST /api/leads
type CreateLeadRequest struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	PhoneNumber   string `json:"phonenumber"`
	EmailAddress  string `json:"emailaddress" validate:"omitempty,email"`
	StreetAddress string `json:"streetaddress"`
	City          string `json:"city"`
	Postcode      string `json:"postcode"`
	Remarks       string `json:"remarks"`
}

// OptionalID distinguishes an absent JSON key from an explicit null.
// Set is true whenever the key appears; Value is nil for null.
type OptionalID struct {
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		o.Value = nil
		return nil
	}
	o.Value = &s
	return nil
}

// UpdateLeadRequest is the body of PATCH /api/leads/:id. Absent fields are left untouched.
type UpdateLeadRequest struct {
	Name            *string      `json:"name,omitempty"`
	Type            *string      `json:"type,omitempty"`
	PhoneNumber     *string      `json:"phonenumber,omitempty"`
	EmailAddress    *string      `json:"emailaddress,omitempty" validate:"omitempty,email"`
	StreetAddress   *string      `json:"streetaddress,omitempty"`
	City            *string      `json:"city,omitempty"`
	Postcode        *string      `json:"postcode,omitempty"`
	Remarks         *string      `json:"remarks,omitempty"`
	AssignedTo      OptionalID   `json:"assignedTo"`
	CallDisposition *Disposition `json:"callDisposition,omitempty"`
	Version         *int64       `json:"__v,omitempty"`
}

// HasContactChanges reports whether any plain lead field is being edited
func (r *UpdateLeadRequest) HasContactChanges() bool {
	return r.Name != nil || r.Type != nil || r.PhoneNumber != nil || r.EmailAddress != nil ||
		r.StreetAddress != nil || r.City != nil || r.Postcode != nil
}

// OnlyRemarks reports whether remarks is the sole plain field being edited
func (r *UpdateLeadRequest) OnlyRemarks() bool {
	return r.Remarks != nil && !r.HasContactChanges()
}
