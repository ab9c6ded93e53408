package microcms

// Timestamps is the audit quartet every microCMS object carries.
// Values are kept as the raw ISO strings the API returns.
type Timestamps struct {
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	PublishedAt string `json:"publishedAt"`
	RevisedAt   string `json:"revisedAt"`
}

type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type Post struct {
	ID string `json:"id"`
	Timestamps

	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Description string    `json:"description,omitempty"`
	Image       *Image    `json:"image,omitempty"`
	Tags        []Tag     `json:"tags,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Draft       *bool     `json:"draft,omitempty"`
	Slug        string    `json:"slug,omitempty"`
}

type Category struct {
	ID string `json:"id"`
	Timestamps

	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

type Tag struct {
	ID string `json:"id"`
	Timestamps

	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// ListResponse is the envelope of every list endpoint.
type ListResponse[T any] struct {
	Contents   []T `json:"contents"`
	TotalCount int `json:"totalCount"`
	Offset     int `json:"offset"`
	Limit      int `json:"limit"`
}
