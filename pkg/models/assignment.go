package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment types
const (
	AssignmentManual   = "manual"
	AssignmentClaim    = "claim"
	AssignmentUnassign = "unassign"
)

// Assignment is one entry in a lead's assignment history
type Assignment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	LeadID         string             `bson:"leadId" json:"leadId"`
	FromUserID     *string            `bson:"fromUserId" json:"fromUserId"`
	ToUserID       *string            `bson:"toUserId" json:"toUserId"`
	AssignedBy     string             `bson:"assignedBy" json:"assignedBy"`
	AssignmentType string             `bson:"assignmentType" json:"assignmentType"`
	AssignedAt     time.Time          `bson:"assignedAt" json:"assignedAt"`
}
