package api

// UserProfile is the barangay resident profile as returned by the backend.
type UserProfile struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Address   string   `json:"address,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Roles     []string `json:"roles"`
	Active    *bool    `json:"active,omitempty"`
	Warnings  int      `json:"warnings"`
}

// IsActive treats a missing active flag as active; the backend only sends the
// field for deactivated accounts.
func (u UserProfile) IsActive() bool {
	return u.Active == nil || *u.Active
}

// HasRole checks role membership.
func (u UserProfile) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// UpdateUserRequest is the payload for PUT /api/users/{id}. Zero-valued
// fields are omitted so partial updates don't clobber existing values.
type UpdateUserRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// NewServiceRequest is the payload for POST /api/service-requests.
type NewServiceRequest struct {
	UserID      int64  `json:"userId" validate:"required"`
	RequestType string `json:"requestType" validate:"required"`
	Details     string `json:"details" validate:"required"`
	Purpose     string `json:"purpose,omitempty"`
}

// ServiceRequest is a submitted bureaucratic request and its tracking state.
type ServiceRequest struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	RequestType string     `json:"requestType"`
	Details     string     `json:"details"`
	Purpose     string     `json:"purpose,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt   *Timestamp `json:"updatedAt,omitempty"`
}

// Service request statuses as sent by the backend.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Event is a barangay event listing.
type Event struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Start       *Timestamp `json:"start,omitempty"`
	End         *Timestamp `json:"end,omitempty"`
	AllDay      bool       `json:"allDay"`
}

// Announcement is an official barangay announcement.
type Announcement struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	OfficialName string     `json:"officialName,omitempty"`
	ThumbnailURL string     `json:"thumbnail,omitempty"`
	CreatedAt    *Timestamp `json:"createdAt,omitempty"`
}

// Author is the reduced user shape attached to forum posts and comments.
type Author struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ForumPost is a community forum post.
type ForumPost struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	ImageURL  string     `json:"imageUrl,omitempty"`
	Author    Author     `json:"author"`
	Likes     int        `json:"likes"`
	CreatedAt *Timestamp `json:"createdAt,omitempty"`
}

// Comment is a reply on a forum post.
type Comment struct {
	ID        int64      `json:"id"`
	PostID    int64      `json:"postId"`
	Content   string     `json:"content"`
	Author    Author     `json:"author"`
	CreatedAt *Timestamp `json:"createdAt,omitempty"`
}

// Page is the Spring-style pagination envelope the backend wraps list
// responses in. Content may be empty, and totalPages is not guaranteed stable
// across requests while the underlying data changes.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
	Empty         bool  `json:"empty"`
}
