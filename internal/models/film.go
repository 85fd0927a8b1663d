package models

// Film is a catalog entry. It carries exactly one MPA rating and zero
// or more genres; Genres is never nil on reads, only possibly empty.
type Film struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ReleaseDate Date    `json:"releaseDate"`
	Duration    int     `json:"duration"`
	Mpa         Mpa     `json:"mpa"`
	Genres      []Genre `json:"genres"`
}

// Genre is an immutable reference record from the seeded catalog.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Mpa is a content-rating classification from the seeded catalog.
type Mpa struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
