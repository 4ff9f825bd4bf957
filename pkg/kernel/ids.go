package kernel

import "strconv"

// Entity identifiers are integer surrogate keys. The string form is used in
// URLs and task arguments; ParseXxxID converts back and rejects non-positive
// values.

type VacancyID int64

func NewVacancyID(id int64) VacancyID { return VacancyID(id) }
func (v VacancyID) Int64() int64      { return int64(v) }
func (v VacancyID) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v VacancyID) IsZero() bool      { return v == 0 }

type ProfileID int64

func NewProfileID(id int64) ProfileID { return ProfileID(id) }
func (p ProfileID) Int64() int64      { return int64(p) }
func (p ProfileID) String() string    { return strconv.FormatInt(int64(p), 10) }
func (p ProfileID) IsZero() bool      { return p == 0 }

type SavedSearchID int64

func NewSavedSearchID(id int64) SavedSearchID { return SavedSearchID(id) }
func (s SavedSearchID) Int64() int64          { return int64(s) }
func (s SavedSearchID) String() string        { return strconv.FormatInt(int64(s), 10) }
func (s SavedSearchID) IsZero() bool          { return s == 0 }

type RequirementID int64

func NewRequirementID(id int64) RequirementID { return RequirementID(id) }
func (r RequirementID) Int64() int64          { return int64(r) }
func (r RequirementID) String() string        { return strconv.FormatInt(int64(r), 10) }
func (r RequirementID) IsZero() bool          { return r == 0 }

type ScoreID int64

func NewScoreID(id int64) ScoreID { return ScoreID(id) }
func (s ScoreID) Int64() int64    { return int64(s) }
func (s ScoreID) String() string  { return strconv.FormatInt(int64(s), 10) }
func (s ScoreID) IsZero() bool    { return s == 0 }

type EvidenceID int64

func NewEvidenceID(id int64) EvidenceID { return EvidenceID(id) }
func (e EvidenceID) Int64() int64       { return int64(e) }
func (e EvidenceID) String() string     { return strconv.FormatInt(int64(e), 10) }
func (e EvidenceID) IsZero() bool       { return e == 0 }

type ResumeVersionID int64

func NewResumeVersionID(id int64) ResumeVersionID { return ResumeVersionID(id) }
func (r ResumeVersionID) Int64() int64            { return int64(r) }
func (r ResumeVersionID) String() string          { return strconv.FormatInt(int64(r), 10) }
func (r ResumeVersionID) IsZero() bool            { return r == 0 }

type CoverLetterVersionID int64

func NewCoverLetterVersionID(id int64) CoverLetterVersionID { return CoverLetterVersionID(id) }
func (c CoverLetterVersionID) Int64() int64                 { return int64(c) }
func (c CoverLetterVersionID) String() string               { return strconv.FormatInt(int64(c), 10) }
func (c CoverLetterVersionID) IsZero() bool                 { return c == 0 }

// ProfileItemID identifies any profile-owned sub-entity row (experience,
// project, achievement, education, certificate, skill, language, link).
// The sub-entity tables share the same key shape and ownership rules, so a
// single id type serves all of them.
type ProfileItemID int64

func NewProfileItemID(id int64) ProfileItemID { return ProfileItemID(id) }
func (p ProfileItemID) Int64() int64          { return int64(p) }
func (p ProfileItemID) String() string        { return strconv.FormatInt(int64(p), 10) }
func (p ProfileItemID) IsZero() bool          { return p == 0 }

// TaskID is a UUID string assigned at enqueue time.
type TaskID string

func NewTaskID(id string) TaskID { return TaskID(id) }
func (t TaskID) String() string  { return string(t) }
func (t TaskID) IsEmpty() bool   { return string(t) == "" }

func ParseVacancyID(s string) (VacancyID, error) {
	n, err := parsePositiveInt(s)
	return VacancyID(n), err
}

func ParseProfileID(s string) (ProfileID, error) {
	n, err := parsePositiveInt(s)
	return ProfileID(n), err
}

func ParseSavedSearchID(s string) (SavedSearchID, error) {
	n, err := parsePositiveInt(s)
	return SavedSearchID(n), err
}

func ParseProfileItemID(s string) (ProfileItemID, error) {
	n, err := parsePositiveInt(s)
	return ProfileItemID(n), err
}

func parsePositiveInt(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
