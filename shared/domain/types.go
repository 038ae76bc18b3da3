package domain

type (
	BoardCode   = string
	BoardName   = string
	ThreadTitle = string

	ThreadNumber = int64
	PostNumber   = int64

	PostText   = string
	AuthorName = string
	ImageURL   = string
)

// DefaultName is shown for posts submitted without a name.
const DefaultName AuthorName = "Anonymous"

// FirstPostNumber is the number every OP receives. Replies continue from it.
const FirstPostNumber PostNumber = 1
