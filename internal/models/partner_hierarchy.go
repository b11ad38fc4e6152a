package models

import "time"

// PartnerHierarchy is a denormalised ancestor row: one row per (child,
// ancestor) pair with the ancestor's distance from the child. It is a
// rebuildable cache over the parent_partner_id pointer chain, never the
// authoritative representation.
type PartnerHierarchy struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ChildID   uint      `gorm:"not null;index;index:idx_partner_hierarchy_child_level,unique" json:"child_id"`
	Level     int       `gorm:"not null;index:idx_partner_hierarchy_child_level,unique" json:"level"` // 1 = parent, 2 = grandparent, ...
	ParentID  uint      `gorm:"not null;index" json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name.
func (PartnerHierarchy) TableName() string {
	return "partner_hierarchies"
}
