package dataset

// Group is the experiment arm a user was assigned to.
type Group string

const (
	Treatment Group = "treatment"
	Control   Group = "control"
)

// LandingPage is the page a user was shown.
type LandingPage string

const (
	OldPage LandingPage = "old_page"
	NewPage LandingPage = "new_page"
)

// Record is one row of the experiment.
type Record struct {
	UserID      string
	Group       Group
	LandingPage LandingPage
	Converted   bool
}
