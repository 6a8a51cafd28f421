package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PostType classifies a community post.
type PostType string

const (
	PostTypeGeneral    PostType = "GENERAL"
	PostTypeQuestion   PostType = "QUESTION"
	PostTypeExperience PostType = "EXPERIENCE"
)

// ParsePostType maps a raw string onto one of the fixed post types.
// Matching is case-insensitive; anything unrecognized (including the empty
// string) falls back to GENERAL.
func ParsePostType(raw string) PostType {
	t, ok := LookupPostType(raw)
	if !ok {
		return PostTypeGeneral
	}
	return t
}

// LookupPostType is the strict variant of ParsePostType: it reports whether
// the raw value named a known post type instead of applying the default.
func LookupPostType(raw string) (PostType, bool) {
	switch PostType(strings.ToUpper(strings.TrimSpace(raw))) {
	case PostTypeGeneral:
		return PostTypeGeneral, true
	case PostTypeQuestion:
		return PostTypeQuestion, true
	case PostTypeExperience:
		return PostTypeExperience, true
	default:
		return "", false
	}
}

// TagList is an ordered list of free-text tags stored as a JSON array in a
// single text column. Order and duplicates are preserved as given.
type TagList []string

func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		t = TagList{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *TagList) Scan(value interface{}) error {
	if value == nil {
		*t = TagList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into TagList", value)
	}
	if len(data) == 0 {
		*t = TagList{}
		return nil
	}
	return json.Unmarshal(data, t)
}

// Serialized returns the JSON form of the list, the same representation the
// database stores. Tag filtering is substring containment against this form,
// not exact set membership.
func (t TagList) Serialized() string {
	b, err := json.Marshal(t)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// User is an account holder. Credentials are kept hashed; the raw password
// never reaches storage.
type User struct {
	ID             int       `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	Username       string    `json:"username" gorm:"uniqueIndex;not null"`
	HashedPassword string    `json:"-" gorm:"not null"`
	IsActive       bool      `json:"isActive" gorm:"not null;default:true"`
	FullName       string    `json:"fullName"`
	PhoneNumber    string    `json:"phoneNumber"`
	CreatedAt      time.Time `json:"createdAt" gorm:"not null"`
}

// Post is a community post. LikesCount and CommentsCount are denormalized
// caches of the matching PostLike/Comment rows and are only ever mutated in
// the same transaction as the row they mirror.
type Post struct {
	ID            int       `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"type:varchar(200);not null"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	Type          PostType  `json:"type" gorm:"type:varchar(20);not null;default:'GENERAL'"`
	Tags          TagList   `json:"tags" gorm:"type:text"`
	AuthorID      int       `json:"authorId" gorm:"not null;index"`
	Author        *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	LikesCount    int       `json:"likesCount" gorm:"not null;default:0"`
	CommentsCount int       `json:"commentsCount" gorm:"not null;default:0"`
	IsHot         bool      `json:"isHot" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"createdAt" gorm:"not null;index"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"not null"`
}

// Comment belongs to a post. Comments are never updated and the public
// surface exposes no deletion.
type Comment struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	PostID    int       `json:"postId" gorm:"not null;index"`
	AuthorID  int       `json:"authorId" gorm:"not null"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}

// PostLike records that a user currently likes a post. The composite unique
// index is the authoritative guard against double-likes; Post.LikesCount is
// only a cache of the count of these rows.
type PostLike struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	PostID    int       `json:"postId" gorm:"not null;uniqueIndex:idx_post_user_like"`
	UserID    int       `json:"userId" gorm:"not null;uniqueIndex:idx_post_user_like"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}

// HealthArticle is library content curated by staff, not user generated.
// CreatedAt is an ISO-8601 string to match the upstream data dumps.
type HealthArticle struct {
	ID        int    `json:"id" gorm:"primaryKey"`
	Title     string `json:"title" gorm:"type:varchar(200)"`
	Content   string `json:"content" gorm:"type:text"`
	Category  string `json:"category" gorm:"type:varchar(50)"`
	Tags      string `json:"tags" gorm:"type:varchar(200)"` // comma separated
	Author    string `json:"author" gorm:"type:varchar(100)"`
	CreatedAt string `json:"createdAt" gorm:"type:varchar(50)"`
}
