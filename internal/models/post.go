package models

import "time"

// Post is a text entry published by an author, optionally in a group.
// Feeds order posts by CreatedAt descending with ID descending as tie-break;
// idx_posts_feed_order backs that order.
type Post struct {
	ID        uint      `gorm:"primaryKey;index:idx_posts_feed_order,priority:2,sort:desc" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime;<-:create;index:idx_posts_feed_order,priority:1,sort:desc" json:"created_at"`
	UserID    uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Group     *Group    `gorm:"constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image     string    `gorm:"size:255" json:"image,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}
