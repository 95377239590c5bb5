package scholar

// Profile is one author's current citation profile as assembled from
// the provider, across all article pages.
type Profile struct {
	AuthorID       string    `json:"author_id"`
	Name           string    `json:"name"`
	Affiliations   string    `json:"affiliations,omitempty"`
	TotalCitations int       `json:"total_citations"`
	HIndex         int       `json:"h_index"`
	I10Index       int       `json:"i10_index"`
	Articles       []Article `json:"articles"`
}

// Article is one publication listed on the author's profile.
type Article struct {
	Title     string `json:"title"`
	Year      string `json:"year,omitempty"`
	Citations int    `json:"citations"`
}

// metricCell is one aggregate metric value in the cited_by table.
type metricCell struct {
	All int `json:"all"`
}

// citedByRow is one row of the cited_by table; exactly one of the
// fields is set per row.
type citedByRow struct {
	Citations *metricCell `json:"citations"`
	HIndex    *metricCell `json:"h_index"`
	I10Index  *metricCell `json:"i10_index"`
}

// searchResponse is one page of the google_scholar_author engine
// response. The author block and cited_by table repeat on every page;
// articles are paginated.
type searchResponse struct {
	SearchMetadata struct {
		Status string `json:"status"`
	} `json:"search_metadata"`
	Error  string `json:"error"`
	Author struct {
		Name         string `json:"name"`
		Affiliations string `json:"affiliations"`
	} `json:"author"`
	CitedBy struct {
		Table []citedByRow `json:"table"`
	} `json:"cited_by"`
	Articles []struct {
		Title   string `json:"title"`
		Year    string `json:"year"`
		CitedBy struct {
			Value int `json:"value"`
		} `json:"cited_by"`
	} `json:"articles"`
	Pagination struct {
		Next string `json:"next"`
	} `json:"serpapi_pagination"`
}
