// internal/domain/models/group.go
package models

import (
	"encoding/json"
	"time"
)

// Group collects the Questions of one Section.
//
// NOTE:
//   - Groups are never physically removed. DeletedAt marks a soft delete and
//     DeleteBatch records which cascade produced it, so the Questions removed
//     alongside the Group can be brought back together.
//   - Options is a schemaless map; Order is derived from it.
type Group struct {
	ID        int64   `bson:"_id" json:"id"`
	Name      string  `bson:"name" json:"name"`
	NameCI    string  `bson:"name_ci" json:"name_ci"`
	Slug      string  `bson:"slug" json:"slug"`
	Options   Options `bson:"options" json:"options"`
	SectionID int64   `bson:"section_id" json:"section_id"`
	TeamID    *int64  `bson:"team_id,omitempty" json:"team_id,omitempty"`

	DeletedAt   *time.Time `bson:"deleted_at" json:"deleted_at"`
	DeleteBatch string     `bson:"delete_batch,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsDeleted reports whether the group is soft-deleted.
func (g Group) IsDeleted() bool {
	return g.DeletedAt != nil
}

// Order returns options["order"], or DefaultOrder when unset.
func (g Group) Order() int {
	return g.Options.Order()
}

// MarshalJSON adds the derived "order" field and never emits a null options map.
func (g Group) MarshalJSON() ([]byte, error) {
	type plain Group
	out := struct {
		plain
		Order int `json:"order"`
	}{plain: plain(g), Order: g.Order()}
	if out.Options == nil {
		out.Options = Options{}
	}
	return json.Marshal(out)
}
