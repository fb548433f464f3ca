package database

import "time"

// Visibility of an image to other users.
const (
	VisibilityPrivate = 0
	VisibilityPublic  = 1
)

// Image is one catalog row plus its tag names.
type Image struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"userId"`
	Token        string     `json:"-"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	OriginalName string     `json:"originalName"`
	Folder       string     `json:"folder"`
	FilePath     string     `json:"-"`
	ThumbPath    string     `json:"-"`
	Format       string     `json:"format"`
	Size         int64      `json:"size"`
	Width        int        `json:"width"`
	Height       int        `json:"height"`
	Camera       string     `json:"camera,omitempty"`
	Lens         string     `json:"lens,omitempty"`
	AICaption    string     `json:"aiCaption,omitempty"`
	AILabels     string     `json:"aiLabels,omitempty"`
	Visibility   int        `json:"visibility"`
	Featured     bool       `json:"featured"`
	UploadedAt   time.Time  `json:"uploadedAt"`
	TakenAt      *time.Time `json:"takenAt,omitempty"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
}

// ImageSummary is the lightweight listing shape returned by searches.
type ImageSummary struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ThumbURL    string    `json:"thumbUrl"`
	RawURL      string    `json:"rawUrl"`
	Format      string    `json:"format"`
	Size        int64     `json:"size"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Featured    bool      `json:"featured"`
	UploadedAt  time.Time `json:"uploadedAt"`
	Tags        []string  `json:"tags,omitempty"`
}

// SearchResult is an ordered page of summaries plus the unpaged total.
type SearchResult struct {
	Items      []ImageSummary `json:"items"`
	Query      string         `json:"query,omitempty"`
	TotalItems int            `json:"totalItems"`
}

// Tag is a user-scoped label with a deterministic display color.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	ItemCount int       `json:"itemCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Album groups images under a title; an image may appear in many albums.
type Album struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	CoverImageID int64     `json:"coverImageId,omitempty"`
	ItemCount    int       `json:"itemCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// User represents one account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Session represents an authenticated user session.
type Session struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserStats is the per-user dashboard summary.
type UserStats struct {
	ActiveImages   int   `json:"activeImages"`
	RecycledImages int   `json:"recycledImages"`
	UploadedToday  int   `json:"uploadedToday"`
	DeletedToday   int   `json:"deletedToday"`
	TotalBytes     int64 `json:"totalBytes"`
	TotalAlbums    int   `json:"totalAlbums"`
	TotalTags      int   `json:"totalTags"`
}
