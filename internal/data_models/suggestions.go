package dto

type SuggestRequest struct {
	Goal string `json:"goal" query:"goal" form:"goal"`
}

type Suggestion struct {
	Title        string `json:"title"`
	Weight       int    `json:"weight"`
	DeadlineDays int    `json:"deadline_days"`
}

type SuggestResponse struct {
	Suggested []Suggestion `json:"suggested"`
}
