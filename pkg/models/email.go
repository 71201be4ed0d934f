package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Email providers
const (
	EmailProviderSendGrid = "sendgrid"
	EmailProviderSMTP     = "smtp"
	EmailProviderConsole  = "console"
)

// Email is an immutable record of outbound correspondence
type Email struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	From      string             `bson:"from" json:"from"`
	To        string             `bson:"to" json:"to"`
	Subject   string             `bson:"subject" json:"subject"`
	Text      string             `bson:"text" json:"text"`
	LeadID    string             `bson:"leadId,omitempty" json:"leadId,omitempty"`
	SentBy    string             `bson:"sentBy" json:"sentBy"`
	Provider  string             `bson:"provider" json:"provider"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// SendEmailRequest is the body of POST /api/emails
type SendEmailRequest struct {
	From    string `json:"from"`
	To      string `json:"to" validate:"omitempty,email"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	LeadID  string `json:"leadId"`
}
