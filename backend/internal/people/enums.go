package people

// Gender classifies a person node. Values are part of the client wire format.
type Gender int

const (
	GenderMale   Gender = 1
	GenderFemale Gender = 2
	GenderOther  Gender = 3
)

var genderLabels = map[Gender]string{
	GenderMale:   "Male",
	GenderFemale: "Female",
	GenderOther:  "Other",
}

// Label returns the display name, or "" for unknown values
func (g Gender) Label() string { return genderLabels[g] }

// Valid reports whether g is a known gender
func (g Gender) Valid() bool {
	_, ok := genderLabels[g]
	return ok
}

// GenderLabels returns a copy of the gender display table
func GenderLabels() map[Gender]string { return copyLabels(genderLabels) }

// GroupCategory classifies a group a person can be a member of.
type GroupCategory int

const (
	GroupCategoryElementarySchool GroupCategory = 1
	GroupCategoryHighSchool       GroupCategory = 2
	GroupCategoryUniversity       GroupCategory = 3
	GroupCategorySeminar          GroupCategory = 4
	GroupCategoryOther            GroupCategory = 5
)

var groupCategoryLabels = map[GroupCategory]string{
	GroupCategoryElementarySchool: "Elementary school",
	GroupCategoryHighSchool:       "High school",
	GroupCategoryUniversity:       "University",
	GroupCategorySeminar:          "Seminar",
	GroupCategoryOther:            "Other",
}

func (c GroupCategory) Label() string { return groupCategoryLabels[c] }

func (c GroupCategory) Valid() bool {
	_, ok := groupCategoryLabels[c]
	return ok
}

// GroupCategoryLabels returns a copy of the group category display table
func GroupCategoryLabels() map[GroupCategory]string { return copyLabels(groupCategoryLabels) }

// RelationshipStatusType is the kind of a single relationship period.
type RelationshipStatusType int

const (
	StatusBloodRelative RelationshipStatusType = 1
	StatusSibling       RelationshipStatusType = 2
	StatusParentChild   RelationshipStatusType = 3
	StatusMarried       RelationshipStatusType = 4
	StatusEngaged       RelationshipStatusType = 5
	StatusDating        RelationshipStatusType = 6
	StatusRumour        RelationshipStatusType = 7
)

var relationshipStatusLabels = map[RelationshipStatusType]string{
	StatusBloodRelative: "Blood relative",
	StatusSibling:       "Sibling",
	StatusParentChild:   "Parent - child",
	StatusMarried:       "Married",
	StatusEngaged:       "Engaged",
	StatusDating:        "Dating",
	StatusRumour:        "Rumour",
}

func (s RelationshipStatusType) Label() string { return relationshipStatusLabels[s] }

func (s RelationshipStatusType) Valid() bool {
	_, ok := relationshipStatusLabels[s]
	return ok
}

// RelationshipStatusLabels returns a copy of the relationship status display table
func RelationshipStatusLabels() map[RelationshipStatusType]string {
	return copyLabels(relationshipStatusLabels)
}

func copyLabels[K comparable](src map[K]string) map[K]string {
	out := make(map[K]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
