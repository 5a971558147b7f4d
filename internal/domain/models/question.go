// internal/domain/models/question.go
package models

import "time"

// Question belongs to exactly one Group. Only the fields the group cascade
// relies on are modelled here.
type Question struct {
	ID      int64  `bson:"_id" json:"id"`
	GroupID int64  `bson:"group_id" json:"group_id"`
	Text    string `bson:"text" json:"text"`

	DeletedAt   *time.Time `bson:"deleted_at" json:"deleted_at"`
	DeleteBatch string     `bson:"delete_batch,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// BelongsToGroup reports whether the question is a child of groupID.
func (q Question) BelongsToGroup(groupID int64) bool {
	return q.GroupID == groupID
}

// IsDeleted reports whether the question is soft-deleted.
func (q Question) IsDeleted() bool {
	return q.DeletedAt != nil
}
