package api

// Request DTOs

type DeleteRecordsRequest struct {
	Ids  []string `json:"ids" validate:"required,min=1"`
	Team string   `json:"team,omitempty"`
}

// Response DTOs

type ColumnsResponse struct {
	Columns []string `json:"columns"`
}

type NextCompanyIdResponse struct {
	NextCompanyId string `json:"next_company_id"`
}

type TopThreatsResponse struct {
	TopThreats []string `json:"top_threats"`
}

type CreatedResponse struct {
	Id string `json:"id"`
}

// DevSummary counts in-progress dev projects.
type DevSummary struct {
	Total int            `json:"total"`
	OS    map[string]int `json:"os"`
}

type DashboardSummaryResponse struct {
	Biz      map[string]int `json:"biz"`
	Dev      DevSummary     `json:"dev"`
	Security map[string]int `json:"security"`
}

// MonthBuckets maps "YYYY-MM" to bucket counts.
type MonthBuckets struct {
	Month  string         `json:"month"`
	Counts map[string]int `json:"counts"`
}

type DashboardGraphsResponse struct {
	Biz      []MonthBuckets `json:"biz"`
	Dev      []MonthBuckets `json:"dev"`
	Security []MonthBuckets `json:"security"`
}
