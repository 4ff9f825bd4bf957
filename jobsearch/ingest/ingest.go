package ingest

// Wire shapes of the hh.ru vacancy API. Only the fields the importer reads
// are mapped; everything else passes through undecoded.

// SearchPage is one page of GET /vacancies.
type SearchPage struct {
	Items   []BoardVacancy `json:"items"`
	Page    int            `json:"page"`
	Pages   int            `json:"pages"`
	PerPage int            `json:"per_page"`
	Found   int            `json:"found"`
	// Clusters is present only when the search asked for facets.
	Clusters []BoardCluster `json:"clusters,omitempty"`
}

// BoardVacancy is a vacancy item. Search results carry the snippet;
// GET /vacancies/{id} adds the full description and key skills.
type BoardVacancy struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	PublishedAt  string        `json:"published_at"`
	AlternateURL string        `json:"alternate_url"`
	Area         *BoardArea    `json:"area,omitempty"`
	Employer     *BoardRef     `json:"employer,omitempty"`
	Salary       *BoardSalary  `json:"salary,omitempty"`
	Snippet      *BoardSnippet `json:"snippet,omitempty"`
	Schedule     *BoardDict    `json:"schedule,omitempty"`
	Experience   *BoardDict    `json:"experience,omitempty"`
	Employment   *BoardDict    `json:"employment,omitempty"`

	Description string          `json:"description,omitempty"`
	KeySkills   []BoardKeySkill `json:"key_skills,omitempty"`
}

type BoardArea struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BoardRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BoardDict struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BoardSalary struct {
	From     *int   `json:"from,omitempty"`
	To       *int   `json:"to,omitempty"`
	Currency string `json:"currency,omitempty"`
	Gross    *bool  `json:"gross,omitempty"`
}

type BoardSnippet struct {
	Requirement    string `json:"requirement,omitempty"`
	Responsibility string `json:"responsibility,omitempty"`
}

type BoardKeySkill struct {
	Name string `json:"name"`
}

// BoardCluster is a search facet group; item URLs carry the refined query.
type BoardCluster struct {
	ID    string             `json:"id"`
	Name  string             `json:"name"`
	Items []BoardClusterItem `json:"items"`
}

type BoardClusterItem struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}
