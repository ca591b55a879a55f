package people

// DateLayout is the calendar date format used on the wire (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// Person is a node of the social graph.
type Person struct {
	ID          string       `json:"id"`
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	MaidenName  string       `json:"maidenName"`
	Nickname    string       `json:"nickname"`
	Gender      Gender       `json:"gender"`
	BirthDate   string       `json:"birthDate,omitempty"`
	DeathDate   string       `json:"deathDate,omitempty"`
	Memberships []Membership `json:"memberships"`

	// Moderation state, never serialized
	Visible bool `json:"-"`
	Deleted bool `json:"-"`
}

// Membership places a person in a group for a period.
type Membership struct {
	DateStarted   string        `json:"dateStarted"`
	DateEnded     *string       `json:"dateEnded"`
	GroupName     string        `json:"groupName"`
	GroupCategory GroupCategory `json:"groupCategory"`
}

// Relationship is an edge between two people.
type Relationship struct {
	ID       string               `json:"id"`
	Source   string               `json:"source"`
	Target   string               `json:"target"`
	Statuses []RelationshipStatus `json:"statuses"`
}

// RelationshipStatus is one period of a relationship, e.g. dating then married.
type RelationshipStatus struct {
	Status    RelationshipStatusType `json:"status"`
	DateStart string                 `json:"dateStart"`
	DateEnd   *string                `json:"dateEnd"`
}

// Group is a named collection of people.
type Group struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Category GroupCategory `json:"category"`
}

// GraphDocument is the nodes/edges payload consumed by the graph view.
type GraphDocument struct {
	Nodes []Person       `json:"nodes"`
	Edges []Relationship `json:"edges"`
}

// EnumDocument holds the lookup tables the client needs to render labels.
type EnumDocument struct {
	Relationships map[RelationshipStatusType]string `json:"relationships"`
	Genders       map[Gender]string                 `json:"genders"`
	Groups        map[GroupCategory]string          `json:"groups"`
	Seminars      map[string]string                 `json:"seminars"`
}
