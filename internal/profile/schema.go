// Package profile implements the typed, path-addressable profile document.
// The canonical schema is a fixed version-0 constant: five sections, each a
// mapping of fields to scalars, structured records or ordered sequences of
// structured records. Mutations never modify a document in place; every
// operation returns a fresh value.
package profile

// Section identifies one of the five top-level document sections.
type Section string

const (
	SectionMyInformation        Section = "my_information"
	SectionMyExperience         Section = "my_experience"
	SectionApplicationQuestions Section = "application_questions"
	SectionPersonalInformation  Section = "personal_information"
	SectionSelfIdentity         Section = "self_identity"
)

// Kind describes the shape of a field's value.
type Kind int

const (
	// KindScalar is a plain string value.
	KindScalar Kind = iota
	// KindRecord is a single structured record (string keys and values).
	KindRecord
	// KindList is an ordered sequence of structured records.
	KindList
)

// Record is a structured value: a flat mapping of keys to string values.
type Record map[string]string

// FieldSpec describes one field of a section: its kind, its default value,
// and, for structured kinds, the closed set of keys an element may carry.
type FieldSpec struct {
	Kind     Kind
	ItemKeys []string
	Default  any // string, Record or []Record depending on Kind
}

// sectionOrder fixes iteration order for display and serialization.
var sectionOrder = []Section{
	SectionMyInformation,
	SectionMyExperience,
	SectionApplicationQuestions,
	SectionPersonalInformation,
	SectionSelfIdentity,
}

var workExperienceKeys = []string{"job_title", "company_name", "location", "start_date", "end_date", "description"}
var educationKeys = []string{"school_name", "degree", "field_of_study", "overall_result", "from", "to"}
var skillKeys = []string{"skill_name"}
var socialNetworkKeys = []string{"platform", "url"}
var resumeKeys = []string{"path", "filename", "file_url"}

var fieldOrder = map[Section][]string{
	SectionMyInformation: {
		"how_did_you_hear_about_us", "country", "first_name", "last_name",
		"address_line_1", "address_line_2", "city", "state", "postal_code",
		"email_address", "phone_device_type", "country_phone_code",
		"phone_number", "phone_extension",
	},
	SectionMyExperience: {
		"work_experience", "education", "skills", "resume", "social_network_urls",
	},
	SectionApplicationQuestions: {
		"Are you able to perform the essential functions of the job for which you are applying with or without reasonable accomodation",
		"Are you legally authorized to work in the country for which you are applying",
		"Will you now, or in the future, require sponsorship for an employment visa",
		"Are you currently or previously employed at this company",
		"Do you have any criminal convictions",
		"Have you been employed at any company before",
	},
	SectionPersonalInformation: {
		"gender", "date_of_birth", "race", "religion", "marital_status",
		"invitation_to_self_identify_as_a_protected_veteran",
	},
	SectionSelfIdentity: {
		"language", "name", "date", "disability",
	},
}

// canonical is the version-0 schema constant. Loading merges persisted
// values over these defaults so older documents stay readable after
// additive schema changes.
var canonical = map[Section]map[string]FieldSpec{
	SectionMyInformation: {
		"how_did_you_hear_about_us": {Kind: KindScalar, Default: "Social Media"},
		"country":                   {Kind: KindScalar, Default: "United States"},
		"first_name":                {Kind: KindScalar, Default: ""},
		"last_name":                 {Kind: KindScalar, Default: ""},
		"address_line_1":            {Kind: KindScalar, Default: ""},
		"address_line_2":            {Kind: KindScalar, Default: ""},
		"city":                      {Kind: KindScalar, Default: ""},
		"state":                     {Kind: KindScalar, Default: ""},
		"postal_code":               {Kind: KindScalar, Default: ""},
		"email_address":             {Kind: KindScalar, Default: ""},
		"phone_device_type":         {Kind: KindScalar, Default: ""},
		"country_phone_code":        {Kind: KindScalar, Default: ""},
		"phone_number":              {Kind: KindScalar, Default: ""},
		"phone_extension":           {Kind: KindScalar, Default: ""},
	},
	SectionMyExperience: {
		"work_experience": {Kind: KindList, ItemKeys: workExperienceKeys, Default: []Record{{
			"job_title":    "",
			"company_name": "Company Name",
			"location":     "City, State",
			"start_date":   "MM/DD/YYYY",
			"end_date":     "MM/DD/YYYY",
			"description":  "- Description of responsibilities and accomplishments here.",
		}}},
		"education": {Kind: KindList, ItemKeys: educationKeys, Default: []Record{{
			"school_name":    "University Name",
			"degree":         "Degree Type",
			"field_of_study": "Field of Study",
			"overall_result": "",
			"from":           "YYYY",
			"to":             "YYYY",
		}}},
		"skills": {Kind: KindList, ItemKeys: skillKeys, Default: []Record{
			{"skill_name": "Skill 1"},
			{"skill_name": "Skill 2"},
		}},
		"resume": {Kind: KindRecord, ItemKeys: resumeKeys, Default: Record{
			"path":     "",
			"filename": "",
			"file_url": "",
		}},
		"social_network_urls": {Kind: KindList, ItemKeys: socialNetworkKeys, Default: []Record{
			{"platform": "LinkedIn", "url": ""},
			{"platform": "GitHub", "url": ""},
		}},
	},
	SectionApplicationQuestions: {
		"Are you able to perform the essential functions of the job for which you are applying with or without reasonable accomodation": {Kind: KindScalar, Default: "Yes"},
		"Are you legally authorized to work in the country for which you are applying":                                                  {Kind: KindScalar, Default: "Yes"},
		"Will you now, or in the future, require sponsorship for an employment visa":                                                    {Kind: KindScalar, Default: "No"},
		"Are you currently or previously employed at this company":                                                                      {Kind: KindScalar, Default: "No"},
		"Do you have any criminal convictions":                                                                                          {Kind: KindScalar, Default: "No"},
		"Have you been employed at any company before":                                                                                  {Kind: KindScalar, Default: "Yes"},
	},
	SectionPersonalInformation: {
		"gender":         {Kind: KindScalar, Default: ""},
		"date_of_birth":  {Kind: KindScalar, Default: ""},
		"race":           {Kind: KindScalar, Default: ""},
		"religion":       {Kind: KindScalar, Default: ""},
		"marital_status": {Kind: KindScalar, Default: ""},
		"invitation_to_self_identify_as_a_protected_veteran": {Kind: KindScalar, Default: ""},
	},
	SectionSelfIdentity: {
		"language":   {Kind: KindScalar, Default: ""},
		"name":       {Kind: KindScalar, Default: ""},
		"date":       {Kind: KindScalar, Default: ""},
		"disability": {Kind: KindScalar, Default: ""},
	},
}

// Sections returns the five section identifiers in canonical order.
func Sections() []Section {
	out := make([]Section, len(sectionOrder))
	copy(out, sectionOrder)
	return out
}

// Fields returns the field names of a section in canonical order, or nil
// for an unknown section.
func Fields(sec Section) []string {
	fields, ok := fieldOrder[sec]
	if !ok {
		return nil
	}
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// Spec returns the field specification for (section, field).
func Spec(sec Section, field string) (FieldSpec, bool) {
	fields, ok := canonical[sec]
	if !ok {
		return FieldSpec{}, false
	}
	spec, ok := fields[field]
	return spec, ok
}

func (s FieldSpec) hasItemKey(key string) bool {
	for _, k := range s.ItemKeys {
		if k == key {
			return true
		}
	}
	return false
}
